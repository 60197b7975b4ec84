package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/registro-go-api/internal/dto"
	"github.com/noah-isme/registro-go-api/internal/models"
	"github.com/noah-isme/registro-go-api/internal/repository"
)

const isoDate = "2006-01-02"

// fallbackActor mirrors the placeholder the legacy registry stored when
// no actor name was supplied.
const fallbackActor = "—"

// ErrActivityNotFound indicates a mutation targeted a missing row.
var ErrActivityNotFound = errors.New("scheduled activity not found")

// ErrNoDates indicates a registration expanded to zero scheduled dates.
var ErrNoDates = errors.New("no dates to schedule")

// ErrInvalidRange indicates from/to do not form a valid inclusive range.
var ErrInvalidRange = errors.New("invalid date range")

// Actor identifies the caller of a mutation.
type Actor struct {
	Name  string
	Admin bool
}

// DisplayName returns the actor name or the legacy placeholder.
func (a Actor) DisplayName() string {
	name := strings.TrimSpace(a.Name)
	if name == "" {
		return fallbackActor
	}
	return name
}

// ScheduleService registers activity programmes and applies the
// unaudited status/notes path.
type ScheduleService interface {
	CreateBatch(ctx context.Context, req dto.ScheduleBatchRequest, actor Actor) (dto.ScheduleBatchResponse, error)
	QueryRange(ctx context.Context, from, to, specialist string) (dto.ActivityListResponse, error)
	UpdateStatusAndNotes(ctx context.Context, req dto.StatusUpdateRequest, actor Actor) (int, error)
}

type scheduleService struct {
	repo      repository.ScheduleRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewScheduleService constructs the schedule service.
func NewScheduleService(repo repository.ScheduleRepository, validate *validator.Validate, logger zerolog.Logger) ScheduleService {
	return &scheduleService{
		repo:      repo,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "schedule_service").Logger(),
	}
}

func (s *scheduleService) CreateBatch(ctx context.Context, req dto.ScheduleBatchRequest, actor Actor) (dto.ScheduleBatchResponse, error) {
	// Trim before validating so whitespace-only fields fail the
	// required tags instead of persisting as empty strings.
	req.Specialist = strings.TrimSpace(req.Specialist)
	req.Activity = strings.TrimSpace(req.Activity)
	req.Unit = strings.TrimSpace(req.Unit)

	if err := s.validator.Struct(req); err != nil {
		return dto.ScheduleBatchResponse{}, err
	}

	dates, err := expandDates(req)
	if err != nil {
		return dto.ScheduleBatchResponse{}, err
	}
	if len(dates) == 0 {
		return dto.ScheduleBatchResponse{}, ErrNoDates
	}

	notes := strings.TrimSpace(s.sanitizer.Sanitize(req.Notes))
	records := make([]*models.ScheduledActivity, 0, len(dates))
	for _, date := range dates {
		records = append(records, &models.ScheduledActivity{
			Specialist:    req.Specialist,
			Activity:      req.Activity,
			Unit:          req.Unit,
			ScheduledDate: date,
			Status:        models.StatusPending,
			Notes:         notes,
			CreatedBy:     actor.DisplayName(),
		})
	}

	if err := s.repo.CreateBatch(ctx, records); err != nil {
		s.logger.Error().Err(err).Int("rows", len(records)).Msg("failed to create scheduled batch")
		return dto.ScheduleBatchResponse{}, err
	}

	items := make([]dto.ActivityResponse, 0, len(records))
	for _, record := range records {
		items = append(items, dto.NewActivityResponse(*record))
	}

	s.logger.Info().Int("rows", len(items)).Str("specialist", req.Specialist).Msg("scheduled batch registered")
	return dto.ScheduleBatchResponse{Created: len(items), Items: items}, nil
}

func (s *scheduleService) QueryRange(ctx context.Context, from, to, specialist string) (dto.ActivityListResponse, error) {
	if _, err := time.Parse(isoDate, from); err != nil {
		return dto.ActivityListResponse{}, ErrInvalidRange
	}
	if _, err := time.Parse(isoDate, to); err != nil {
		return dto.ActivityListResponse{}, ErrInvalidRange
	}

	records, err := s.repo.QueryRange(ctx, from, to, strings.TrimSpace(specialist))
	if err != nil {
		return dto.ActivityListResponse{}, err
	}

	items := make([]dto.ActivityResponse, 0, len(records))
	for _, record := range records {
		items = append(items, dto.NewActivityResponse(record))
	}

	return dto.ActivityListResponse{Items: items, Total: len(items)}, nil
}

// UpdateStatusAndNotes overwrites status and notes only. The scheduled
// date is not reachable through this path: the DTO carries no date
// field, so a non-admin caller cannot smuggle a reschedule past the
// audit trail.
func (s *scheduleService) UpdateStatusAndNotes(ctx context.Context, req dto.StatusUpdateRequest, actor Actor) (int, error) {
	if err := s.validator.Struct(req); err != nil {
		return 0, err
	}

	changes := make([]repository.StatusChange, 0, len(req.Changes))
	for _, change := range req.Changes {
		changes = append(changes, repository.StatusChange{
			ID:     change.ID,
			Status: change.Status,
			Notes:  strings.TrimSpace(s.sanitizer.Sanitize(change.Notes)),
			Actor:  actor.DisplayName(),
		})
	}

	if err := s.repo.UpdateStatusNotes(ctx, changes); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrActivityNotFound
		}
		s.logger.Error().Err(err).Int("rows", len(changes)).Msg("failed to update status and notes")
		return 0, err
	}

	return len(changes), nil
}

// expandDates turns a registration into the concrete list of ISO dates.
// A single date wins over a range. Ranges walk day by day, keeping days
// whose weekday is allowed (all seven when the selection is omitted);
// weekends are skipped unless requested.
func expandDates(req dto.ScheduleBatchRequest) ([]string, error) {
	if req.Date != "" {
		return []string{req.Date}, nil
	}

	if req.From == "" || req.To == "" {
		return nil, ErrNoDates
	}

	from, err := time.Parse(isoDate, req.From)
	if err != nil {
		return nil, ErrInvalidRange
	}
	to, err := time.Parse(isoDate, req.To)
	if err != nil {
		return nil, ErrInvalidRange
	}
	if from.After(to) {
		return nil, ErrInvalidRange
	}

	allowed := map[string]bool{}
	if len(req.Weekdays) == 0 {
		for _, day := range []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"} {
			allowed[day] = true
		}
	} else {
		for _, day := range req.Weekdays {
			allowed[day] = true
		}
	}

	dates := make([]string, 0)
	for cursor := from; !cursor.After(to); cursor = cursor.AddDate(0, 0, 1) {
		weekday := cursor.Weekday()
		if !req.IncludeWeekends && (weekday == time.Saturday || weekday == time.Sunday) {
			continue
		}
		if !allowed[weekday.String()[:3]] {
			continue
		}
		dates = append(dates, cursor.Format(isoDate))
	}

	return dates, nil
}
