package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ledger entry types
const (
	LedgerTypeDebit  = "DEBIT"
	LedgerTypeCredit = "CREDIT"
)

// Ledger categories
const (
	LedgerCategorySale        = "SALE"
	LedgerCategoryExpense     = "EXPENSE"
	LedgerCategorySalary      = "SALARY"
	LedgerCategoryOtherIncome = "OTHER_INCOME"
)

// Ledger entry sources as shown to operators
const (
	EntrySourceSystem = "system"
	EntrySourceManual = "manual"
)

// LedgerEntry is one debit or credit fact. ReferenceID is zero for rows an
// operator typed in; otherwise it is the id of the payment, expense or
// salary record the row was posted for.
type LedgerEntry struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	EntryDate       time.Time       `gorm:"type:date;not null;index" json:"entry_date"`
	Type            string          `gorm:"not null;index" json:"type"`
	Category        string          `gorm:"not null;uniqueIndex:idx_ledger_entries_origin,priority:1,where:reference_id <> 0" json:"category"`
	ReferenceID     uint            `gorm:"not null;default:0;uniqueIndex:idx_ledger_entries_origin,priority:2,where:reference_id <> 0" json:"reference_id"`
	Amount          decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Description     string          `gorm:"type:text;not null" json:"description"`
	SubCategory     *string         `json:"sub_category,omitempty"`
	SystemGenerated bool            `gorm:"not null;default:false" json:"system_generated"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// TableName specifies the table name for LedgerEntry
func (LedgerEntry) TableName() string {
	return "ledger_entries"
}

// IsManual returns true for operator-entered rows, the only editable ones
func (e *LedgerEntry) IsManual() bool {
	return e.ReferenceID == 0
}

// Source returns "manual" or "system"
func (e *LedgerEntry) Source() string {
	if e.IsManual() {
		return EntrySourceManual
	}
	return EntrySourceSystem
}

// LedgerEntryView is a ledger row enriched for reporting. The label is
// derived from the origin record and never stored.
type LedgerEntryView struct {
	LedgerEntry
	ReferenceLabel *string `json:"reference_label"`
	EntrySource    string  `json:"entry_source"`
}

// DailySummary is the debit/credit activity of a single day
type DailySummary struct {
	Date           time.Time        `json:"date"`
	Debit          decimal.Decimal  `json:"debit"`
	Credit         decimal.Decimal  `json:"credit"`
	OpeningBalance *decimal.Decimal `json:"opening_balance"`
	ClosingBalance *decimal.Decimal `json:"closing_balance"`
}
