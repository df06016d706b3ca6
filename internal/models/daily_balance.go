package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyBalance is the end-of-day running total, chained day to day
type DailyBalance struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Date           time.Time       `gorm:"type:date;uniqueIndex;not null" json:"date"`
	OpeningBalance decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"opening_balance"`
	ClosingBalance decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"closing_balance"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// TableName specifies the table name for DailyBalance
func (DailyBalance) TableName() string {
	return "daily_balances"
}

// Net returns the movement of the day
func (b *DailyBalance) Net() decimal.Decimal {
	return b.ClosingBalance.Sub(b.OpeningBalance)
}
