package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sjperalta/ventas-api/internal/models"
	"github.com/sjperalta/ventas-api/internal/repository"

	"github.com/shopspring/decimal"
)

// MaxCloseRangeDays bounds a single CloseRange call
const MaxCloseRangeDays = 366

type DailyBalanceService struct {
	store    repository.Store
	calendar Calendar
	auditSvc *AuditService
}

func NewDailyBalanceService(store repository.Store, calendar Calendar, auditSvc *AuditService) *DailyBalanceService {
	return &DailyBalanceService{store: store, calendar: calendar, auditSvc: auditSvc}
}

// Today returns the current business day
func (s *DailyBalanceService) Today() time.Time {
	return s.calendar.Today()
}

// CloseDay folds one day's ledger activity into its balance. A nil date
// means today in the business time zone. The opening is the closing of the
// latest earlier balance, or zero. Re-closing a day overwrites it; later
// days are not recomputed (use CloseRange for that).
func (s *DailyBalanceService) CloseDay(ctx context.Context, actorID uint, date *time.Time) (*models.DailyBalance, error) {
	day := s.calendar.Today()
	if date != nil {
		day = s.calendar.DayOf(*date)
	}

	var balance *models.DailyBalance
	err := s.store.Transaction(ctx, func(tx *repository.Repositories) error {
		var err error
		balance, err = closeDay(ctx, tx, day)
		return err
	})
	if err != nil {
		return nil, fail("close day", err)
	}

	s.auditSvc.Record(actorID, models.AuditActionClose, EntityDailyBalance, balance.ID,
		fmt.Sprintf("%s opening %s closing %s", day.Format(models.DateLayout),
			balance.OpeningBalance.StringFixed(2), balance.ClosingBalance.StringFixed(2)))
	return balance, nil
}

// CloseRange closes every day from..to in ascending order in one
// transaction, so each day opens on the freshly computed previous closing.
// Operators use it to repair the chain after a late edit.
func (s *DailyBalanceService) CloseRange(ctx context.Context, actorID uint, from, to time.Time) ([]models.DailyBalance, error) {
	start, end := s.calendar.DayOf(from), s.calendar.DayOf(to)
	if start.After(end) {
		return nil, ErrInvalidDateRange
	}
	days := int(end.Sub(start).Hours()/24) + 1
	if days > MaxCloseRangeDays {
		return nil, fmt.Errorf("%w: range covers %d days, limit is %d", ErrInvalidInput, days, MaxCloseRangeDays)
	}

	balances := make([]models.DailyBalance, 0, days)
	err := s.store.Transaction(ctx, func(tx *repository.Repositories) error {
		for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
			balance, err := closeDay(ctx, tx, day)
			if err != nil {
				return err
			}
			balances = append(balances, *balance)
		}
		return nil
	})
	if err != nil {
		return nil, fail("close range", err)
	}

	for _, b := range balances {
		s.auditSvc.Record(actorID, models.AuditActionClose, EntityDailyBalance, b.ID,
			fmt.Sprintf("%s opening %s closing %s (range)", b.Date.Format(models.DateLayout),
				b.OpeningBalance.StringFixed(2), b.ClosingBalance.StringFixed(2)))
	}
	return balances, nil
}

// List returns balances newest first
func (s *DailyBalanceService) List(ctx context.Context, dates repository.DateRange) ([]models.DailyBalance, error) {
	if dates.From != nil && dates.To != nil && dates.From.After(*dates.To) {
		return nil, ErrInvalidDateRange
	}
	balances, err := s.store.Repos().DailyBalance.List(ctx, dates)
	if err != nil {
		return nil, fail("list daily balances", err)
	}
	return balances, nil
}

func closeDay(ctx context.Context, tx *repository.Repositories, day time.Time) (*models.DailyBalance, error) {
	opening := decimal.Zero
	previous, err := tx.DailyBalance.FindLatestBefore(ctx, day)
	switch {
	case err == nil:
		opening = previous.ClosingBalance
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	debit, credit, err := tx.Ledger.SumByDate(ctx, day)
	if err != nil {
		return nil, err
	}

	balance := &models.DailyBalance{
		Date:           day,
		OpeningBalance: opening,
		ClosingBalance: opening.Add(debit).Sub(credit),
	}
	if err := tx.DailyBalance.Upsert(ctx, balance); err != nil {
		return nil, err
	}
	return balance, nil
}
