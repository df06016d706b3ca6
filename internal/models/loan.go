package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Loan status constants
const (
	LoanStatusOpen   = "OPEN"
	LoanStatusClosed = "CLOSED"
)

// Loan is the outstanding credit opened when an order is delivered
type Loan struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	CustomerID      uint            `gorm:"not null;index" json:"customer_id"`
	OrderID         uint            `gorm:"uniqueIndex;not null" json:"order_id"`
	OriginalAmount  decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"original_amount"`
	RemainingAmount decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"remaining_amount"`
	Status          string          `gorm:"not null;default:OPEN;index" json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// TableName specifies the table name for Loan
func (Loan) TableName() string {
	return "loans"
}

// NewLoanForOrder opens a loan for the full order total
func NewLoanForOrder(order *Order) *Loan {
	return &Loan{
		CustomerID:      order.CustomerID,
		OrderID:         order.ID,
		OriginalAmount:  order.TotalAmount,
		RemainingAmount: order.TotalAmount,
		Status:          LoanStatusOpen,
	}
}

// IsOpen returns true if the loan still accepts payments
func (l *Loan) IsOpen() bool {
	return l.Status == LoanStatusOpen
}

// SetRemaining updates the balance and derives the status from it:
// CLOSED exactly when nothing is left to pay.
func (l *Loan) SetRemaining(remaining decimal.Decimal) {
	l.RemainingAmount = remaining
	if remaining.IsZero() {
		l.Status = LoanStatusClosed
	} else {
		l.Status = LoanStatusOpen
	}
}

// InBounds reports whether 0 <= remaining <= original
func (l *Loan) InBounds() bool {
	return !l.RemainingAmount.IsNegative() && l.RemainingAmount.LessThanOrEqual(l.OriginalAmount)
}
