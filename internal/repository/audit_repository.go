package repository

import (
	"context"

	"github.com/sjperalta/ventas-api/internal/models"

	"gorm.io/gorm"
)

// AuditRepository defines the interface for audit log data access
type AuditRepository interface {
	Create(ctx context.Context, log *models.AuditLog) error
	List(ctx context.Context, query *ListQuery) ([]models.AuditLog, int64, error)
}

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, log *models.AuditLog) error {
	return translate(r.db.WithContext(ctx).Create(log).Error)
}

// List returns audit logs newest first. Supported filters: entity, entity_id.
func (r *auditRepository) List(ctx context.Context, query *ListQuery) ([]models.AuditLog, int64, error) {
	var logs []models.AuditLog
	var total int64

	db := r.db.WithContext(ctx).Model(&models.AuditLog{})
	if v := query.Filter("entity"); v != "" {
		db = db.Where("entity = ?", v)
	}
	if v := query.Filter("entity_id"); v != "" {
		db = db.Where("entity_id = ?", v)
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}
	err := db.Order("created_at DESC, id DESC").
		Offset(query.Offset()).
		Limit(query.PerPage).
		Find(&logs).Error
	return logs, total, translate(err)
}
