package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/registro-go-api/internal/dto"
	"github.com/noah-isme/registro-go-api/internal/repository"
)

// fallbackAdminActor is recorded when an admin mutation arrives without
// an actor name.
const fallbackAdminActor = "ADMIN"

// AdminService performs the audited administrative mutations: every
// reschedule or delete writes exactly one audit entry in the same
// transaction as the row change.
type AdminService interface {
	Reschedule(ctx context.Context, id uint, req dto.AdminRescheduleRequest, actor Actor) (dto.AuditEntryResponse, error)
	Delete(ctx context.Context, id uint, req dto.AdminDeleteRequest, actor Actor) (dto.AuditEntryResponse, error)
	ListAudit(ctx context.Context, req dto.AuditListRequest) (dto.AuditListResponse, error)
}

type adminService struct {
	schedules    repository.ScheduleRepository
	audits       repository.AuditRepository
	validator    *validator.Validate
	sanitizer    *bluemonday.Policy
	events       *nats.Conn
	eventSubject string
	logger       zerolog.Logger
}

// NewAdminService constructs the admin service. The NATS connection is
// optional; when nil, audit events are only persisted.
func NewAdminService(schedules repository.ScheduleRepository, audits repository.AuditRepository, validate *validator.Validate, events *nats.Conn, eventSubject string, logger zerolog.Logger) AdminService {
	return &adminService{
		schedules:    schedules,
		audits:       audits,
		validator:    validate,
		sanitizer:    bluemonday.StrictPolicy(),
		events:       events,
		eventSubject: eventSubject,
		logger:       logger.With().Str("component", "admin_service").Logger(),
	}
}

func (s *adminService) Reschedule(ctx context.Context, id uint, req dto.AdminRescheduleRequest, actor Actor) (dto.AuditEntryResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.AuditEntryResponse{}, err
	}

	entry, err := s.schedules.Reschedule(ctx, id, req.NewDate, s.adminActor(actor), s.reason(req.Reason))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AuditEntryResponse{}, ErrActivityNotFound
		}
		s.logger.Error().Err(err).Uint("record_id", id).Msg("failed to reschedule activity")
		return dto.AuditEntryResponse{}, err
	}

	response := dto.NewAuditEntryResponse(entry)
	s.publish(response)
	s.logger.Info().Uint("record_id", id).Str("new_date", req.NewDate).Msg("activity rescheduled")
	return response, nil
}

func (s *adminService) Delete(ctx context.Context, id uint, req dto.AdminDeleteRequest, actor Actor) (dto.AuditEntryResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.AuditEntryResponse{}, err
	}

	entry, err := s.schedules.Delete(ctx, id, s.adminActor(actor), s.reason(req.Reason))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AuditEntryResponse{}, ErrActivityNotFound
		}
		s.logger.Error().Err(err).Uint("record_id", id).Msg("failed to delete activity")
		return dto.AuditEntryResponse{}, err
	}

	response := dto.NewAuditEntryResponse(entry)
	s.publish(response)
	s.logger.Info().Uint("record_id", id).Msg("activity deleted")
	return response, nil
}

func (s *adminService) ListAudit(ctx context.Context, req dto.AuditListRequest) (dto.AuditListResponse, error) {
	filter := repository.AuditFilter{
		Page:     req.Page,
		PageSize: req.PageSize,
		Action:   strings.TrimSpace(req.Action),
	}
	if req.RecordID > 0 {
		filter.RecordID = &req.RecordID
	}

	entries, total, err := s.audits.List(ctx, filter)
	if err != nil {
		return dto.AuditListResponse{}, err
	}

	items := make([]dto.AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.NewAuditEntryResponse(entry))
	}

	pagination := dto.PaginationMeta{
		Page:       maxInt(req.Page, 1),
		PageSize:   req.PageSize,
		TotalItems: total,
	}
	if req.PageSize > 0 {
		pagination.TotalPages = int(math.Ceil(float64(total) / float64(req.PageSize)))
	} else {
		pagination.TotalPages = 1
	}

	return dto.AuditListResponse{Items: items, Pagination: pagination}, nil
}

func (s *adminService) adminActor(actor Actor) string {
	name := strings.TrimSpace(actor.Name)
	if name == "" {
		return fallbackAdminActor
	}
	return name
}

func (s *adminService) reason(reason string) string {
	clean := strings.TrimSpace(s.sanitizer.Sanitize(reason))
	if clean == "" {
		return fallbackActor
	}
	return clean
}

// publish emits the audit entry for interested UI collaborators. The
// mutation already committed, so a publish failure is only logged.
func (s *adminService) publish(entry dto.AuditEntryResponse) {
	if s.events == nil || s.eventSubject == "" {
		return
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := s.events.Publish(s.eventSubject, payload); err != nil {
		s.logger.Warn().Err(err).Str("subject", s.eventSubject).Msg("failed to publish audit event")
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
