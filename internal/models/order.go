package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order status constants
const (
	OrderStatusPendingAdmin = "PENDING_ADMIN"
	OrderStatusConfirmed    = "CONFIRMED"
	OrderStatusCancelled    = "CANCELLED"
	OrderStatusDelivered    = "DELIVERED"
)

// Payment method constants, shared by orders, payments and expenses
const (
	PaymentMethodCash     = "CASH"
	PaymentMethodTransfer = "BANK_TRANSFER"
	PaymentMethodMobile   = "MOBILE_WALLET"
	PaymentMethodCredit   = "CREDIT"
)

// Order is a credit sale placed by a salesperson for a customer
type Order struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	CustomerID    uint            `gorm:"not null;index" json:"customer_id"`
	SalespersonID uint            `gorm:"not null;index" json:"salesperson_id"`
	Status        string          `gorm:"not null;default:PENDING_ADMIN;index" json:"status"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total_amount"`
	PaymentType   *string         `json:"payment_type,omitempty"`
	Remark        *string         `gorm:"type:text" json:"remark,omitempty"`
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	// Associations
	Items    []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	Customer *Customer   `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Loan     *Loan       `gorm:"foreignKey:OrderID" json:"loan,omitempty"`
}

// TableName specifies the table name for Order
func (Order) TableName() string {
	return "orders"
}

// MayConfirm returns true if the order is waiting for admin confirmation
func (o *Order) MayConfirm() bool {
	return o.Status == OrderStatusPendingAdmin
}

// MayCancel returns true if the order can still be cancelled
func (o *Order) MayCancel() bool {
	return o.Status == OrderStatusPendingAdmin
}

// MayDeliver returns true if the order is confirmed and not yet delivered
func (o *Order) MayDeliver() bool {
	return o.Status == OrderStatusConfirmed
}

// ItemsTotal recomputes Σ(quantity × unit price) over the order lines
func (o *Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// QuantitiesByProduct sums requested quantities per product. A product may
// appear on more than one line.
func (o *Order) QuantitiesByProduct() map[uint]int {
	out := make(map[uint]int, len(o.Items))
	for _, item := range o.Items {
		out[item.ProductID] += item.Quantity
	}
	return out
}

// OrderItem is an immutable order line
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	ProductID uint            `gorm:"not null;index" json:"product_id"`
	Quantity  int             `gorm:"not null;check:chk_order_items_quantity,quantity >= 1" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"unit_price"`
	CreatedAt time.Time       `json:"created_at"`
}

// TableName specifies the table name for OrderItem
func (OrderItem) TableName() string {
	return "order_items"
}

// LineTotal returns quantity × unit price
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
