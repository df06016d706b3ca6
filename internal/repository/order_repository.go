package repository

import (
	"context"
	"time"

	"github.com/sjperalta/ventas-api/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uint) (*models.Order, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	List(ctx context.Context, query *ListQuery) ([]models.Order, int64, error)
	Stats(ctx context.Context, dayStart, dayEnd time.Time) (*models.OrderStats, error)
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts the order together with its items
func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	return translate(r.db.WithContext(ctx).Create(order).Error)
}

func (r *orderRepository) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("Customer").
		Preload("Loan").
		First(&order, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

// FindByIDForUpdate loads the order and its items, holding a row lock on the
// order until the surrounding transaction ends.
func (r *orderRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, id).Error
	if err != nil {
		return nil, translate(err)
	}
	err = r.db.WithContext(ctx).
		Where("order_id = ?", order.ID).
		Order("id ASC").
		Find(&order.Items).Error
	if err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns orders newest first. Supported filters: status, customer_id, salesperson_id.
func (r *orderRepository) List(ctx context.Context, query *ListQuery) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Order{})
	if v := query.Filter("status"); v != "" {
		db = db.Where("status = ?", v)
	}
	if v := query.Filter("customer_id"); v != "" {
		db = db.Where("customer_id = ?", v)
	}
	if v := query.Filter("salesperson_id"); v != "" {
		db = db.Where("salesperson_id = ?", v)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	err := db.Preload("Items").
		Preload("Customer").
		Order("created_at DESC, id DESC").
		Offset(query.Offset()).
		Limit(query.PerPage).
		Find(&orders).Error
	return orders, total, translate(err)
}

// Stats returns the delivered sales total, the orders created in
// [dayStart, dayEnd) and the orders still waiting for an admin, in one scan.
func (r *orderRepository) Stats(ctx context.Context, dayStart, dayEnd time.Time) (*models.OrderStats, error) {
	var stats models.OrderStats
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select(
			"COALESCE(SUM(CASE WHEN status = ? THEN total_amount ELSE 0 END), 0) AS delivered_total, "+
				"COUNT(CASE WHEN created_at >= ? AND created_at < ? THEN 1 END) AS orders_today, "+
				"COUNT(CASE WHEN status = ? THEN 1 END) AS pending_orders",
			models.OrderStatusDelivered, dayStart, dayEnd, models.OrderStatusPendingAdmin,
		).
		Scan(&stats).Error
	if err != nil {
		return nil, translate(err)
	}
	return &stats, nil
}
