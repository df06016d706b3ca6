package repository

import (
	"context"
	"time"

	"github.com/sjperalta/ventas-api/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerRepository defines the interface for ledger entry data access
type LedgerRepository interface {
	Create(ctx context.Context, entry *models.LedgerEntry) error
	FindByID(ctx context.Context, id uint) (*models.LedgerEntry, error)
	FindByOrigin(ctx context.Context, category string, referenceID uint) (*models.LedgerEntry, error)
	Update(ctx context.Context, entry *models.LedgerEntry) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, dates DateRange) ([]models.LedgerEntry, error)
	SumByDate(ctx context.Context, date time.Time) (debit, credit decimal.Decimal, err error)
}

type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

// Create inserts an entry. A second system entry for the same origin violates
// idx_ledger_entries_origin and comes back as ErrDuplicate.
func (r *ledgerRepository) Create(ctx context.Context, entry *models.LedgerEntry) error {
	return translate(r.db.WithContext(ctx).Create(entry).Error)
}

func (r *ledgerRepository) FindByID(ctx context.Context, id uint) (*models.LedgerEntry, error) {
	var entry models.LedgerEntry
	if err := r.db.WithContext(ctx).First(&entry, id).Error; err != nil {
		return nil, translate(err)
	}
	return &entry, nil
}

func (r *ledgerRepository) FindByOrigin(ctx context.Context, category string, referenceID uint) (*models.LedgerEntry, error) {
	var entry models.LedgerEntry
	err := r.db.WithContext(ctx).
		Where("category = ? AND reference_id = ?", category, referenceID).
		First(&entry).Error
	if err != nil {
		return nil, translate(err)
	}
	return &entry, nil
}

// Update rewrites the editable columns of a manual entry
func (r *ledgerRepository) Update(ctx context.Context, entry *models.LedgerEntry) error {
	result := r.db.WithContext(ctx).
		Model(&models.LedgerEntry{}).
		Where("id = ?", entry.ID).
		Updates(map[string]interface{}{
			"entry_date":   entry.EntryDate,
			"type":         entry.Type,
			"category":     entry.Category,
			"amount":       entry.Amount,
			"description":  entry.Description,
			"sub_category": entry.SubCategory,
		})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ledgerRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.LedgerEntry{}, id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns entries in posting order: by entry date, then id
func (r *ledgerRepository) List(ctx context.Context, dates DateRange) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	db := r.db.WithContext(ctx).Model(&models.LedgerEntry{})
	if dates.From != nil {
		db = db.Where("entry_date >= ?", *dates.From)
	}
	if dates.To != nil {
		db = db.Where("entry_date <= ?", *dates.To)
	}
	err := db.Order("entry_date ASC, id ASC").Find(&entries).Error
	return entries, translate(err)
}

type dayTotals struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// SumByDate totals debits and credits posted on one day in a single scan
func (r *ledgerRepository) SumByDate(ctx context.Context, date time.Time) (decimal.Decimal, decimal.Decimal, error) {
	var totals dayTotals
	err := r.db.WithContext(ctx).
		Model(&models.LedgerEntry{}).
		Select(
			"COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS debit, "+
				"COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS credit",
			models.LedgerTypeDebit, models.LedgerTypeCredit,
		).
		Where("entry_date = ?", date).
		Scan(&totals).Error
	if err != nil {
		return decimal.Zero, decimal.Zero, translate(err)
	}
	return totals.Debit, totals.Credit, nil
}
