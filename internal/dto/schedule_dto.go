package dto

import (
	"time"

	"github.com/noah-isme/registro-go-api/internal/models"
)

// ScheduleBatchRequest registers one activity programme. A single date
// or an inclusive from/to range may be supplied; a range is filtered by
// the allowed weekdays (all seven when omitted), and Saturdays/Sundays
// are skipped unless weekends are explicitly included.
type ScheduleBatchRequest struct {
	Specialist      string   `json:"specialist" validate:"required,min=1"`
	Activity        string   `json:"activity" validate:"required,min=1"`
	Unit            string   `json:"unit" validate:"required,min=1"`
	Notes           string   `json:"notes" validate:"omitempty,max=2000"`
	Date            string   `json:"date" validate:"omitempty,datetime=2006-01-02"`
	From            string   `json:"from" validate:"omitempty,datetime=2006-01-02"`
	To              string   `json:"to" validate:"omitempty,datetime=2006-01-02"`
	Weekdays        []string `json:"weekdays" validate:"omitempty,dive,oneof=Mon Tue Wed Thu Fri Sat Sun"`
	IncludeWeekends bool     `json:"include_weekends"`
}

// ScheduleBatchResponse reports the rows created by a registration.
type ScheduleBatchResponse struct {
	Created int                `json:"created"`
	Items   []ActivityResponse `json:"items"`
}

// StatusChangeRequest overwrites status and notes for one row. The
// scheduled date is deliberately absent: it only moves through the
// audited admin path.
type StatusChangeRequest struct {
	ID     uint   `json:"id" validate:"required,gt=0"`
	Status string `json:"status" validate:"omitempty,oneof=✓ ✗"`
	Notes  string `json:"notes" validate:"omitempty,max=2000"`
}

// StatusUpdateRequest carries a batch of status/notes overwrites.
type StatusUpdateRequest struct {
	Changes []StatusChangeRequest `json:"changes" validate:"required,min=1,dive"`
}

// ActivityResponse serializes a scheduled activity row.
type ActivityResponse struct {
	ID            uint       `json:"id"`
	Specialist    string     `json:"specialist"`
	Activity      string     `json:"activity"`
	Unit          string     `json:"unit"`
	ScheduledDate string     `json:"scheduled_date"`
	Status        string     `json:"status"`
	Notes         string     `json:"notes"`
	CreatedAt     time.Time  `json:"created_at"`
	CreatedBy     string     `json:"created_by"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
	UpdatedBy     string     `json:"updated_by,omitempty"`
}

// ActivityListResponse wraps a range query result.
type ActivityListResponse struct {
	Items []ActivityResponse `json:"items"`
	Total int                `json:"total"`
}

// NewActivityResponse converts a model into a DTO.
func NewActivityResponse(record models.ScheduledActivity) ActivityResponse {
	return ActivityResponse{
		ID:            record.ID,
		Specialist:    record.Specialist,
		Activity:      record.Activity,
		Unit:          record.Unit,
		ScheduledDate: record.ScheduledDate,
		Status:        record.Status,
		Notes:         record.Notes,
		CreatedAt:     record.CreatedAt,
		CreatedBy:     record.CreatedBy,
		UpdatedAt:     record.UpdatedAt,
		UpdatedBy:     record.UpdatedBy,
	}
}

// SpecialistSummary aggregates one specialist's monthly load.
type SpecialistSummary struct {
	Specialist     string  `json:"specialist"`
	Planned        int     `json:"planned"`
	Completed      int     `json:"completed"`
	Missed         int     `json:"missed"`
	Pending        int     `json:"pending"`
	ComplianceRate float64 `json:"compliance_rate"`
}

// SummaryResponse is the monthly dashboard payload.
type SummaryResponse struct {
	Month       string              `json:"month"`
	Specialists []SpecialistSummary `json:"specialists"`
}
