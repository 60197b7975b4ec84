package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/registro-go-api/internal/models"
)

// AuditFilter narrows audit log queries.
type AuditFilter struct {
	Page     int
	PageSize int
	Action   string
	RecordID *uint
}

// AuditRepository reads the append-only audit trail. Entries are only
// ever written through the transactional schedule mutations or Append;
// no update or delete API exists.
type AuditRepository interface {
	Append(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, filter AuditFilter) ([]models.AuditLog, int64, error)
}

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository constructs the audit repository.
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Append(ctx context.Context, entry *models.AuditLog) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = nowSecond()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *auditRepository) List(ctx context.Context, filter AuditFilter) ([]models.AuditLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.AuditLog{})

	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}

	if filter.RecordID != nil {
		query = query.Where("record_id = ?", *filter.RecordID)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		offset := (page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var entries []models.AuditLog
	if err := query.Order("ts DESC, id DESC").Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
