package dto

import (
	"time"

	"github.com/noah-isme/registro-go-api/internal/models"
)

// PaginationMeta captures pagination metadata for list responses.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// AdminVerifyRequest checks an admin code.
type AdminVerifyRequest struct {
	Code string `json:"code" validate:"required,min=1"`
}

// AdminRescheduleRequest moves a scheduled activity to a new date.
type AdminRescheduleRequest struct {
	NewDate string `json:"new_date" validate:"required,datetime=2006-01-02"`
	Reason  string `json:"reason" validate:"omitempty,max=2000"`
}

// AdminDeleteRequest removes a scheduled activity under audit.
type AdminDeleteRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=2000"`
}

// AuditListRequest defines filters for listing audit entries.
type AuditListRequest struct {
	Page     int
	PageSize int
	Action   string
	RecordID uint
}

// AuditEntryResponse serializes one audit trail entry.
type AuditEntryResponse struct {
	ID               uint      `json:"id"`
	Action           string    `json:"action"`
	RecordID         uint      `json:"record_id"`
	OldScheduledDate string    `json:"old_scheduled_date"`
	NewScheduledDate *string   `json:"new_scheduled_date,omitempty"`
	Actor            string    `json:"actor"`
	Reason           string    `json:"reason"`
	Timestamp        time.Time `json:"ts"`
}

// AuditListResponse wraps a paginated audit listing.
type AuditListResponse struct {
	Items      []AuditEntryResponse `json:"items"`
	Pagination PaginationMeta       `json:"pagination"`
}

// NewAuditEntryResponse converts an audit model into a DTO.
func NewAuditEntryResponse(entry models.AuditLog) AuditEntryResponse {
	return AuditEntryResponse{
		ID:               entry.ID,
		Action:           entry.Action,
		RecordID:         entry.RecordID,
		OldScheduledDate: entry.OldScheduledDate,
		NewScheduledDate: entry.NewScheduledDate,
		Actor:            entry.Actor,
		Reason:           entry.Reason,
		Timestamp:        entry.Timestamp,
	}
}
