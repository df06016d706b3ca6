package repository

import (
	"context"

	"github.com/sjperalta/ventas-api/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InventoryRepository defines the interface for stock data access
type InventoryRepository interface {
	FindByProductID(ctx context.Context, productID uint) (*models.Inventory, error)
	FindByProductIDsForUpdate(ctx context.Context, productIDs []uint) ([]models.Inventory, error)
	Decrement(ctx context.Context, productID uint, qty int) error
	SetQuantity(ctx context.Context, productID uint, qty int) error
	LowStock(ctx context.Context, below, limit int) ([]models.LowStockProduct, error)
}

type inventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository creates a new inventory repository
func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) FindByProductID(ctx context.Context, productID uint) (*models.Inventory, error) {
	var inv models.Inventory
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).First(&inv).Error
	if err != nil {
		return nil, translate(err)
	}
	return &inv, nil
}

// FindByProductIDsForUpdate locks the inventory rows in ascending product id
// order so concurrent confirmations never deadlock on each other.
func (r *inventoryRepository) FindByProductIDsForUpdate(ctx context.Context, productIDs []uint) ([]models.Inventory, error) {
	var rows []models.Inventory
	if len(productIDs) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id IN ?", productIDs).
		Order("product_id ASC").
		Find(&rows).Error
	return rows, translate(err)
}

// Decrement removes qty from stock. The update only matches while enough
// stock is on hand, so the quantity can never go negative.
func (r *inventoryRepository) Decrement(ctx context.Context, productID uint, qty int) error {
	result := r.db.WithContext(ctx).
		Model(&models.Inventory{}).
		Where("product_id = ? AND quantity >= ?", productID, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (r *inventoryRepository) SetQuantity(ctx context.Context, productID uint, qty int) error {
	result := r.db.WithContext(ctx).
		Model(&models.Inventory{}).
		Where("product_id = ?", productID).
		Update("quantity", qty)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// LowStock lists active products with fewer than below units, by name
func (r *inventoryRepository) LowStock(ctx context.Context, below, limit int) ([]models.LowStockProduct, error) {
	var rows []models.LowStockProduct
	err := r.db.WithContext(ctx).
		Table("products").
		Select("products.id, products.name, inventories.quantity AS stock").
		Joins("JOIN inventories ON inventories.product_id = products.id").
		Where("products.is_active = ? AND inventories.quantity < ?", true, below).
		Order("products.name ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, translate(err)
}
