package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/registro-go-api/internal/models"
)

// StatusChange carries one status/notes overwrite for a scheduled row.
type StatusChange struct {
	ID     uint
	Status string
	Notes  string
	Actor  string
}

// ScheduleRepository persists scheduled activities and couples
// administrative mutations to their audit entries.
type ScheduleRepository interface {
	CreateBatch(ctx context.Context, records []*models.ScheduledActivity) error
	QueryRange(ctx context.Context, from, to, specialist string) ([]models.ScheduledActivity, error)
	GetByID(ctx context.Context, id uint) (models.ScheduledActivity, error)
	UpdateStatusNotes(ctx context.Context, changes []StatusChange) error
	Reschedule(ctx context.Context, id uint, newDate, actor, reason string) (models.AuditLog, error)
	Delete(ctx context.Context, id uint, actor, reason string) (models.AuditLog, error)
}

type scheduleRepository struct {
	db *gorm.DB
}

// NewScheduleRepository constructs the schedule repository.
func NewScheduleRepository(db *gorm.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

// nowSecond matches the second-precision timestamps of the persisted layout.
func nowSecond() time.Time {
	return time.Now().Truncate(time.Second)
}

func (r *scheduleRepository) CreateBatch(ctx context.Context, records []*models.ScheduledActivity) error {
	if len(records) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		createdAt := nowSecond()
		for _, record := range records {
			if record.CreatedAt.IsZero() {
				record.CreatedAt = createdAt
			}
			if err := tx.Create(record).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *scheduleRepository) QueryRange(ctx context.Context, from, to, specialist string) ([]models.ScheduledActivity, error) {
	query := r.db.WithContext(ctx).Model(&models.ScheduledActivity{}).
		Where("scheduled_date >= ? AND scheduled_date <= ?", from, to)

	if specialist != "" {
		query = query.Where("specialist = ?", specialist)
	}

	records := make([]models.ScheduledActivity, 0)
	if err := query.Order("scheduled_date ASC, specialist ASC, activity ASC").Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *scheduleRepository) GetByID(ctx context.Context, id uint) (models.ScheduledActivity, error) {
	var record models.ScheduledActivity
	if err := r.db.WithContext(ctx).First(&record, id).Error; err != nil {
		return models.ScheduledActivity{}, err
	}

	return record, nil
}

// UpdateStatusNotes applies every change in one transaction. A change
// targeting a missing id aborts the whole batch with
// gorm.ErrRecordNotFound so no partial updates survive.
func (r *scheduleRepository) UpdateStatusNotes(ctx context.Context, changes []StatusChange) error {
	if len(changes) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updatedAt := nowSecond()
		for _, change := range changes {
			update := tx.Model(&models.ScheduledActivity{}).
				Where("id = ?", change.ID).
				Updates(map[string]interface{}{
					"status":     change.Status,
					"notes":      change.Notes,
					"updated_at": updatedAt,
					"updated_by": change.Actor,
				})
			if update.Error != nil {
				return update.Error
			}
			if update.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
}

// Reschedule moves a row to a new scheduled date and appends the audit
// entry in the same transaction. No observer ever sees one without the
// other.
func (r *scheduleRepository) Reschedule(ctx context.Context, id uint, newDate, actor, reason string) (models.AuditLog, error) {
	var entry models.AuditLog

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.ScheduledActivity
		if err := tx.First(&current, id).Error; err != nil {
			return err
		}

		now := nowSecond()
		update := tx.Model(&models.ScheduledActivity{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"scheduled_date": newDate,
				"updated_at":     now,
				"updated_by":     actor,
			})
		if update.Error != nil {
			return update.Error
		}

		entry = models.AuditLog{
			Action:           models.AuditActionReschedule,
			RecordID:         id,
			OldScheduledDate: current.ScheduledDate,
			NewScheduledDate: &newDate,
			Actor:            actor,
			Reason:           reason,
			Timestamp:        now,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return models.AuditLog{}, err
	}

	return entry, nil
}

// Delete removes a row permanently and appends the audit entry in the
// same transaction. The audit row keeps the orphaned record id.
func (r *scheduleRepository) Delete(ctx context.Context, id uint, actor, reason string) (models.AuditLog, error) {
	var entry models.AuditLog

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.ScheduledActivity
		if err := tx.First(&current, id).Error; err != nil {
			return err
		}

		if err := tx.Delete(&models.ScheduledActivity{}, id).Error; err != nil {
			return err
		}

		entry = models.AuditLog{
			Action:           models.AuditActionDelete,
			RecordID:         id,
			OldScheduledDate: current.ScheduledDate,
			Actor:            actor,
			Reason:           reason,
			Timestamp:        nowSecond(),
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return models.AuditLog{}, err
	}

	return entry, nil
}
