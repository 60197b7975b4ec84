package models

import "time"

// Status tokens stored on a scheduled activity. Empty means the row has
// not been evaluated yet.
const (
	StatusPending   = ""
	StatusCompleted = "✓"
	StatusMissed    = "✗"
)

// ScheduledActivity represents one planned task instance bound to a
// single calendar date.
type ScheduledActivity struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Specialist    string     `gorm:"size:255;not null;index" json:"specialist"`
	Activity      string     `gorm:"size:512;not null" json:"activity"`
	Unit          string     `gorm:"size:128;not null" json:"unit"`
	ScheduledDate string     `gorm:"size:10;not null;index" json:"scheduled_date"`
	Status        string     `gorm:"size:8;not null;default:''" json:"status"`
	Notes         string     `gorm:"not null;default:''" json:"notes"`
	CreatedAt     time.Time  `json:"created_at"`
	CreatedBy     string     `gorm:"size:255;not null" json:"created_by"`
	UpdatedAt     *time.Time `json:"updated_at"`
	UpdatedBy     string     `gorm:"size:255" json:"updated_by"`
}

// TableName keeps the legacy table naming.
func (ScheduledActivity) TableName() string {
	return "scheduled_activities"
}

// IsValidStatus reports whether the value is one of the three accepted
// status tokens.
func IsValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusCompleted, StatusMissed:
		return true
	}
	return false
}
