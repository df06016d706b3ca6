package repository

import (
	"context"

	"github.com/sjperalta/ventas-api/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PaymentRepository defines the interface for payment data access
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	FindByID(ctx context.Context, id uint) (*models.Payment, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*models.Payment, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Payment, error)
	UpdateStatus(ctx context.Context, payment *models.Payment) error
	List(ctx context.Context, query *ListQuery) ([]models.Payment, int64, error)
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(payment).Error)
}

func (r *paymentRepository) FindByID(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).Preload("Customer").First(&payment, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &payment, nil
}

func (r *paymentRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&payment, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &payment, nil
}

// FindByIDs loads payments with their customers, for ledger enrichment
func (r *paymentRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Payment, error) {
	var payments []models.Payment
	if len(ids) == 0 {
		return payments, nil
	}
	err := r.db.WithContext(ctx).Preload("Customer").Where("id IN ?", ids).Find(&payments).Error
	return payments, translate(err)
}

// UpdateStatus persists the status transition fields only
func (r *paymentRepository) UpdateStatus(ctx context.Context, payment *models.Payment) error {
	result := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id = ?", payment.ID).
		Updates(map[string]interface{}{
			"status":          payment.Status,
			"confirmed_at":    payment.ConfirmedAt,
			"confirmed_by_id": payment.ConfirmedByID,
			"rejected_at":     payment.RejectedAt,
		})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns payments newest first. Supported filters: status, customer_id, order_id.
func (r *paymentRepository) List(ctx context.Context, query *ListQuery) ([]models.Payment, int64, error) {
	var payments []models.Payment
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Payment{})
	if v := query.Filter("status"); v != "" {
		db = db.Where("status = ?", v)
	}
	if v := query.Filter("customer_id"); v != "" {
		db = db.Where("customer_id = ?", v)
	}
	if v := query.Filter("order_id"); v != "" {
		db = db.Where("order_id = ?", v)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	err := db.Preload("Customer").
		Order("created_at DESC, id DESC").
		Offset(query.Offset()).
		Limit(query.PerPage).
		Find(&payments).Error
	return payments, total, translate(err)
}
