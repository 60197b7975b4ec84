package models

import "time"

// Audit actions recorded for administrative mutations.
const (
	AuditActionReschedule = "UPDATE_DATE"
	AuditActionDelete     = "DELETE"
)

// AuditLog captures one administrative reschedule or delete. Rows are
// append-only: the record id survives even after the target row is
// deleted.
type AuditLog struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Action           string    `gorm:"size:32;not null;index" json:"action"`
	RecordID         uint      `gorm:"not null;index" json:"record_id"`
	OldScheduledDate string    `gorm:"size:10" json:"old_scheduled_date"`
	NewScheduledDate *string   `gorm:"size:10" json:"new_scheduled_date"`
	Actor            string    `gorm:"size:255;not null" json:"actor"`
	Reason           string    `gorm:"not null" json:"reason"`
	Timestamp        time.Time `gorm:"column:ts;not null" json:"ts"`
}

// TableName keeps the legacy table naming.
func (AuditLog) TableName() string {
	return "audit_log"
}
