package models

import "time"

// Inventory holds the on-hand stock of a single product
type Inventory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"uniqueIndex;not null" json:"product_id"`
	Quantity  int       `gorm:"not null;default:0;check:chk_inventories_quantity,quantity >= 0" json:"quantity"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Inventory
func (Inventory) TableName() string {
	return "inventories"
}

// Covers reports whether the stock on hand satisfies qty
func (i *Inventory) Covers(qty int) bool {
	return i.Quantity >= qty
}
