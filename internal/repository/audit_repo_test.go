package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/registro-go-api/internal/models"
)

func TestAuditRepositoryAppendAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAuditRepository(db)

	newDate := "2024-03-10"
	entries := []models.AuditLog{
		{Action: models.AuditActionReschedule, RecordID: 1, OldScheduledDate: "2024-03-05", NewScheduledDate: &newDate, Actor: "admin1", Reason: "client request", Timestamp: time.Now().Add(-2 * time.Hour)},
		{Action: models.AuditActionDelete, RecordID: 1, OldScheduledDate: "2024-03-10", Actor: "admin1", Reason: "duplicate", Timestamp: time.Now().Add(-1 * time.Hour)},
		{Action: models.AuditActionDelete, RecordID: 2, OldScheduledDate: "2024-03-11", Actor: "admin2", Reason: "—", Timestamp: time.Now()},
	}
	for i := range entries {
		require.NoError(t, repo.Append(context.Background(), &entries[i]))
	}

	all, total, err := repo.List(context.Background(), AuditFilter{PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, all, 3)
	require.Equal(t, uint(2), all[0].RecordID, "expected newest entry first")

	recordID := uint(1)
	filtered, total, err := repo.List(context.Background(), AuditFilter{PageSize: 10, RecordID: &recordID})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, filtered, 2)

	deletes, total, err := repo.List(context.Background(), AuditFilter{PageSize: 10, Action: models.AuditActionDelete})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, deletes, 2)

	paged, total, err := repo.List(context.Background(), AuditFilter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, paged, 1)
}

func TestAuditRepositoryAppendSetsTimestamp(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAuditRepository(db)

	entry := models.AuditLog{Action: models.AuditActionDelete, RecordID: 9, OldScheduledDate: "2024-03-01", Actor: "admin1", Reason: "—"}
	require.NoError(t, repo.Append(context.Background(), &entry))
	require.False(t, entry.Timestamp.IsZero())
}
