package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/registro-go-api/internal/dto"
	"github.com/noah-isme/registro-go-api/internal/models"
	"github.com/noah-isme/registro-go-api/internal/repository"
)

func newAdminFixture(t *testing.T) (AdminService, repository.ScheduleRepository) {
	t.Helper()
	db := setupTestDB(t)
	schedules := repository.NewScheduleRepository(db)
	audits := repository.NewAuditRepository(db)
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewAdminService(schedules, audits, validate, nil, "", zerolog.Nop())
	return svc, schedules
}

func seedOne(t *testing.T, schedules repository.ScheduleRepository, date string) uint {
	t.Helper()
	record := &models.ScheduledActivity{
		Specialist:    "Ana",
		Activity:      "Informe",
		Unit:          "Documento",
		ScheduledDate: date,
		CreatedBy:     "Ana",
	}
	require.NoError(t, schedules.CreateBatch(context.Background(), []*models.ScheduledActivity{record}))
	return record.ID
}

func TestAdminRescheduleAuditsOldAndNewDate(t *testing.T) {
	svc, schedules := newAdminFixture(t)
	id := seedOne(t, schedules, "2024-03-05")

	entry, err := svc.Reschedule(context.Background(), id, dto.AdminRescheduleRequest{
		NewDate: "2024-03-10",
		Reason:  "client request",
	}, Actor{Name: "admin1", Admin: true})
	require.NoError(t, err)
	require.Equal(t, models.AuditActionReschedule, entry.Action)
	require.Equal(t, "2024-03-05", entry.OldScheduledDate)
	require.NotNil(t, entry.NewScheduledDate)
	require.Equal(t, "2024-03-10", *entry.NewScheduledDate)
	require.Equal(t, "admin1", entry.Actor)
	require.Equal(t, "client request", entry.Reason)

	row, err := schedules.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, "2024-03-10", row.ScheduledDate)

	audit, err := svc.ListAudit(context.Background(), dto.AuditListRequest{PageSize: 10})
	require.NoError(t, err)
	require.Len(t, audit.Items, 1)
}

func TestAdminRescheduleMissingID(t *testing.T) {
	svc, _ := newAdminFixture(t)

	_, err := svc.Reschedule(context.Background(), 4242, dto.AdminRescheduleRequest{NewDate: "2024-03-10"}, Actor{Name: "admin1"})
	require.ErrorIs(t, err, ErrActivityNotFound)

	audit, err := svc.ListAudit(context.Background(), dto.AuditListRequest{PageSize: 10})
	require.NoError(t, err)
	require.Empty(t, audit.Items)
}

func TestAdminRescheduleDefaultsActorAndReason(t *testing.T) {
	svc, schedules := newAdminFixture(t)
	id := seedOne(t, schedules, "2024-03-05")

	entry, err := svc.Reschedule(context.Background(), id, dto.AdminRescheduleRequest{NewDate: "2024-03-10"}, Actor{})
	require.NoError(t, err)
	require.Equal(t, "ADMIN", entry.Actor)
	require.Equal(t, "—", entry.Reason)
}

func TestAdminRescheduleRejectsMalformedDate(t *testing.T) {
	svc, schedules := newAdminFixture(t)
	id := seedOne(t, schedules, "2024-03-05")

	_, err := svc.Reschedule(context.Background(), id, dto.AdminRescheduleRequest{NewDate: "10/03/2024"}, Actor{Name: "admin1"})
	require.Error(t, err)

	var validationErrors validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrors)
}

func TestAdminDeleteRemovesRowAndAudits(t *testing.T) {
	svc, schedules := newAdminFixture(t)
	id := seedOne(t, schedules, "2024-03-05")

	entry, err := svc.Delete(context.Background(), id, dto.AdminDeleteRequest{Reason: "duplicate entry"}, Actor{Name: "admin1", Admin: true})
	require.NoError(t, err)
	require.Equal(t, models.AuditActionDelete, entry.Action)
	require.Equal(t, "2024-03-05", entry.OldScheduledDate)
	require.Nil(t, entry.NewScheduledDate)

	rows, err := schedules.QueryRange(context.Background(), "2024-03-01", "2024-03-31", "")
	require.NoError(t, err)
	require.Empty(t, rows)

	audit, err := svc.ListAudit(context.Background(), dto.AuditListRequest{PageSize: 10, Action: models.AuditActionDelete})
	require.NoError(t, err)
	require.Len(t, audit.Items, 1)
	require.Equal(t, id, audit.Items[0].RecordID)
}

func TestAdminDeleteMissingID(t *testing.T) {
	svc, _ := newAdminFixture(t)

	_, err := svc.Delete(context.Background(), 4242, dto.AdminDeleteRequest{}, Actor{Name: "admin1"})
	require.ErrorIs(t, err, ErrActivityNotFound)
}

func TestListAuditPagination(t *testing.T) {
	svc, schedules := newAdminFixture(t)

	for i := 0; i < 3; i++ {
		id := seedOne(t, schedules, "2024-03-05")
		_, err := svc.Delete(context.Background(), id, dto.AdminDeleteRequest{}, Actor{Name: "admin1"})
		require.NoError(t, err)
	}

	audit, err := svc.ListAudit(context.Background(), dto.AuditListRequest{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, audit.Items, 1)
	require.Equal(t, int64(3), audit.Pagination.TotalItems)
	require.Equal(t, 2, audit.Pagination.TotalPages)
}
