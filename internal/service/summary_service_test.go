package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/registro-go-api/internal/models"
	"github.com/noah-isme/registro-go-api/internal/repository"
)

func newSummaryFixture(t *testing.T) (SummaryService, repository.ScheduleRepository, *miniredis.Miniredis) {
	t.Helper()
	repo := repository.NewScheduleRepository(setupTestDB(t))
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = cache.Close() })
	return NewSummaryService(repo, cache, 5*time.Minute, zerolog.Nop()), repo, mr
}

func TestGetMonthSummaryCounts(t *testing.T) {
	svc, repo, _ := newSummaryFixture(t)

	rows := []*models.ScheduledActivity{
		{Specialist: "Ana", Activity: "Informe", Unit: "Documento", ScheduledDate: "2024-03-01", Status: models.StatusCompleted, CreatedBy: "Ana"},
		{Specialist: "Ana", Activity: "Informe", Unit: "Documento", ScheduledDate: "2024-03-02", Status: models.StatusMissed, CreatedBy: "Ana"},
		{Specialist: "Ana", Activity: "Informe", Unit: "Documento", ScheduledDate: "2024-03-03", CreatedBy: "Ana"},
		{Specialist: "Bruno", Activity: "Visita", Unit: "Visita", ScheduledDate: "2024-03-04", Status: models.StatusCompleted, CreatedBy: "Bruno"},
		// Outside the month, must not be counted.
		{Specialist: "Ana", Activity: "Informe", Unit: "Documento", ScheduledDate: "2024-04-01", CreatedBy: "Ana"},
	}
	require.NoError(t, repo.CreateBatch(context.Background(), rows))

	summary, err := svc.GetMonthSummary(context.Background(), "2024-03")
	require.NoError(t, err)
	require.Equal(t, "2024-03", summary.Month)
	require.Len(t, summary.Specialists, 2)

	ana := summary.Specialists[0]
	require.Equal(t, "Ana", ana.Specialist, "heaviest load first")
	require.Equal(t, 3, ana.Planned)
	require.Equal(t, 1, ana.Completed)
	require.Equal(t, 1, ana.Missed)
	require.Equal(t, 1, ana.Pending)
	require.InDelta(t, 0.5, ana.ComplianceRate, 0.0001)

	bruno := summary.Specialists[1]
	require.Equal(t, 1, bruno.Planned)
	require.InDelta(t, 1.0, bruno.ComplianceRate, 0.0001)
}

func TestGetMonthSummaryCachesResult(t *testing.T) {
	svc, repo, mr := newSummaryFixture(t)

	require.NoError(t, repo.CreateBatch(context.Background(), []*models.ScheduledActivity{
		{Specialist: "Ana", Activity: "Informe", Unit: "Documento", ScheduledDate: "2024-03-01", CreatedBy: "Ana"},
	}))

	_, err := svc.GetMonthSummary(context.Background(), "2024-03")
	require.NoError(t, err)
	require.True(t, mr.Exists("summary:month:2024-03"))

	// New rows are invisible until the cache entry expires.
	require.NoError(t, repo.CreateBatch(context.Background(), []*models.ScheduledActivity{
		{Specialist: "Ana", Activity: "Informe", Unit: "Documento", ScheduledDate: "2024-03-02", CreatedBy: "Ana"},
	}))

	cached, err := svc.GetMonthSummary(context.Background(), "2024-03")
	require.NoError(t, err)
	require.Equal(t, 1, cached.Specialists[0].Planned)

	mr.FastForward(10 * time.Minute)

	fresh, err := svc.GetMonthSummary(context.Background(), "2024-03")
	require.NoError(t, err)
	require.Equal(t, 2, fresh.Specialists[0].Planned)
}

func TestGetMonthSummaryWithoutCache(t *testing.T) {
	repo := repository.NewScheduleRepository(setupTestDB(t))
	svc := NewSummaryService(repo, nil, 0, zerolog.Nop())

	summary, err := svc.GetMonthSummary(context.Background(), "2024-03")
	require.NoError(t, err)
	require.Empty(t, summary.Specialists)
}

func TestGetMonthSummaryRejectsMalformedMonth(t *testing.T) {
	svc, _, _ := newSummaryFixture(t)

	_, err := svc.GetMonthSummary(context.Background(), "March 2024")
	require.ErrorIs(t, err, ErrInvalidRange)
}
