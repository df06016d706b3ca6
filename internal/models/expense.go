package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is an operating cost paid out of the till
type Expense struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Description   string          `gorm:"not null" json:"description"`
	Amount        decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Category      string          `gorm:"not null;index" json:"category"`
	PaymentMethod string          `gorm:"not null" json:"payment_method"`
	CreatedByID   uint            `json:"created_by_id"`
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TableName specifies the table name for Expense
func (Expense) TableName() string {
	return "expenses"
}

// SalaryRecord is one salary disbursement
type SalaryRecord struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	EmployeeID      uint            `gorm:"not null;index" json:"employee_id"`
	BasicSalary     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"basic_salary"`
	BonusAmount     decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"bonus_amount"`
	DeductionAmount decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"deduction_amount"`
	TotalPaid       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total_paid"`
	CreatedByID     uint            `json:"created_by_id"`
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	// Associations
	Employee *Employee `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
}

// TableName specifies the table name for SalaryRecord
func (SalaryRecord) TableName() string {
	return "salary_records"
}
