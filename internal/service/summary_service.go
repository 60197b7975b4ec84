package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/registro-go-api/internal/dto"
	"github.com/noah-isme/registro-go-api/internal/models"
	"github.com/noah-isme/registro-go-api/internal/repository"
)

// SummaryService aggregates per-specialist monthly load and compliance.
type SummaryService interface {
	GetMonthSummary(ctx context.Context, month string) (dto.SummaryResponse, error)
}

type summaryService struct {
	repo     repository.ScheduleRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// NewSummaryService builds the monthly summary aggregator. The cache is
// optional; a nil client disables caching.
func NewSummaryService(repo repository.ScheduleRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) SummaryService {
	return &summaryService{
		repo:     repo,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "summary_service").Logger(),
	}
}

// GetMonthSummary takes the month as "YYYY-MM" and covers its full
// calendar span.
func (s *summaryService) GetMonthSummary(ctx context.Context, month string) (dto.SummaryResponse, error) {
	first, err := time.Parse("2006-01", strings.TrimSpace(month))
	if err != nil {
		return dto.SummaryResponse{}, ErrInvalidRange
	}
	last := first.AddDate(0, 1, -1)

	cacheKey := fmt.Sprintf("summary:month:%s", first.Format("2006-01"))
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.SummaryResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Str("month", month).Msg("summary cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read summary cache")
		}
	}

	records, err := s.repo.QueryRange(ctx, first.Format(isoDate), last.Format(isoDate), "")
	if err != nil {
		return dto.SummaryResponse{}, err
	}

	response := buildSummary(first.Format("2006-01"), records)

	if s.cache != nil {
		payload, err := json.Marshal(response)
		if err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store summary cache")
			}
		}
	}

	return response, nil
}

func buildSummary(month string, records []models.ScheduledActivity) dto.SummaryResponse {
	bySpecialist := make(map[string]*dto.SpecialistSummary)
	order := make([]string, 0)

	for _, record := range records {
		summary, ok := bySpecialist[record.Specialist]
		if !ok {
			summary = &dto.SpecialistSummary{Specialist: record.Specialist}
			bySpecialist[record.Specialist] = summary
			order = append(order, record.Specialist)
		}

		summary.Planned++
		switch record.Status {
		case models.StatusCompleted:
			summary.Completed++
		case models.StatusMissed:
			summary.Missed++
		default:
			summary.Pending++
		}
	}

	specialists := make([]dto.SpecialistSummary, 0, len(order))
	for _, name := range order {
		summary := bySpecialist[name]
		if evaluated := summary.Completed + summary.Missed; evaluated > 0 {
			summary.ComplianceRate = float64(summary.Completed) / float64(evaluated)
		}
		specialists = append(specialists, *summary)
	}

	// Heaviest load first, matching the legacy dashboard ordering.
	sort.SliceStable(specialists, func(i, j int) bool {
		return specialists[i].Planned > specialists[j].Planned
	})

	return dto.SummaryResponse{Month: month, Specialists: specialists}
}
