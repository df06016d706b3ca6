package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment status constants
const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusConfirmed = "CONFIRMED"
	PaymentStatusRejected  = "REJECTED"
)

// Payment is money collected from a customer, either against an order's
// loan or as a walk-in payment (OrderID nil).
type Payment struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	CustomerID    uint            `gorm:"not null;index" json:"customer_id"`
	OrderID       *uint           `gorm:"index" json:"order_id"`
	CollectedByID uint            `gorm:"not null;index" json:"collected_by_id"`
	AmountPaid    decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount_paid"`
	PaymentMethod string          `gorm:"not null" json:"payment_method"`
	Status        string          `gorm:"not null;default:PENDING;index" json:"status"`
	ConfirmedAt   *time.Time      `json:"confirmed_at"`
	ConfirmedByID *uint           `json:"confirmed_by_id"`
	RejectedAt    *time.Time      `json:"rejected_at"`
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	// Associations
	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
}

// TableName specifies the table name for Payment
func (Payment) TableName() string {
	return "payments"
}

// IsWalkIn returns true if the payment is not tied to an order
func (p *Payment) IsWalkIn() bool {
	return p.OrderID == nil
}

// MayConfirm returns true if payment can be confirmed
func (p *Payment) MayConfirm() bool {
	return p.Status == PaymentStatusPending
}

// MayReject returns true if payment can be rejected
func (p *Payment) MayReject() bool {
	return p.Status == PaymentStatusPending
}

// LedgerCategory is the category a confirmed payment posts under
func (p *Payment) LedgerCategory() string {
	if p.IsWalkIn() {
		return LedgerCategoryOtherIncome
	}
	return LedgerCategorySale
}
