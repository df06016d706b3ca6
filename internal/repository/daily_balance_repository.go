package repository

import (
	"context"
	"time"

	"github.com/sjperalta/ventas-api/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DailyBalanceRepository defines the interface for daily balance data access
type DailyBalanceRepository interface {
	FindByDate(ctx context.Context, date time.Time) (*models.DailyBalance, error)
	FindLatestBefore(ctx context.Context, date time.Time) (*models.DailyBalance, error)
	Upsert(ctx context.Context, balance *models.DailyBalance) error
	List(ctx context.Context, dates DateRange) ([]models.DailyBalance, error)
}

type dailyBalanceRepository struct {
	db *gorm.DB
}

// NewDailyBalanceRepository creates a new daily balance repository
func NewDailyBalanceRepository(db *gorm.DB) DailyBalanceRepository {
	return &dailyBalanceRepository{db: db}
}

func (r *dailyBalanceRepository) FindByDate(ctx context.Context, date time.Time) (*models.DailyBalance, error) {
	var balance models.DailyBalance
	if err := r.db.WithContext(ctx).Where("date = ?", date).First(&balance).Error; err != nil {
		return nil, translate(err)
	}
	return &balance, nil
}

// FindLatestBefore returns the most recent balance strictly before date
func (r *dailyBalanceRepository) FindLatestBefore(ctx context.Context, date time.Time) (*models.DailyBalance, error) {
	var balance models.DailyBalance
	err := r.db.WithContext(ctx).
		Where("date < ?", date).
		Order("date DESC").
		First(&balance).Error
	if err != nil {
		return nil, translate(err)
	}
	return &balance, nil
}

// Upsert writes the balance for its date, overwriting opening and closing if
// the day was already closed.
func (r *dailyBalanceRepository) Upsert(ctx context.Context, balance *models.DailyBalance) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"opening_balance", "closing_balance", "updated_at"}),
		}).
		Create(balance).Error
	return translate(err)
}

// List returns balances newest first
func (r *dailyBalanceRepository) List(ctx context.Context, dates DateRange) ([]models.DailyBalance, error) {
	var balances []models.DailyBalance
	db := r.db.WithContext(ctx).Model(&models.DailyBalance{})
	if dates.From != nil {
		db = db.Where("date >= ?", *dates.From)
	}
	if dates.To != nil {
		db = db.Where("date <= ?", *dates.To)
	}
	err := db.Order("date DESC").Find(&balances).Error
	return balances, translate(err)
}
