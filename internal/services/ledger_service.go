package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sjperalta/ventas-api/internal/models"
	"github.com/sjperalta/ventas-api/internal/repository"

	"github.com/shopspring/decimal"
)

// Manual entry kinds as entered by operators
const (
	ManualEntryIncome  = "INCOME"
	ManualEntryExpense = "EXPENSE"
)

// ManualEntryInput is the payload for posting or editing an operator entry.
// A nil EntryDate means today.
type ManualEntryInput struct {
	EntryDate   *time.Time
	Type        string
	Amount      decimal.Decimal
	Description string
	SubCategory *string
}

// resolve maps the operator kind onto ledger type and category
func (in ManualEntryInput) resolve() (entryType, category string, err error) {
	switch strings.ToUpper(in.Type) {
	case ManualEntryIncome:
		return models.LedgerTypeDebit, models.LedgerCategoryOtherIncome, nil
	case ManualEntryExpense:
		return models.LedgerTypeCredit, models.LedgerCategoryExpense, nil
	}
	return "", "", fmt.Errorf("%w: entry type must be INCOME or EXPENSE, got %q", ErrInvalidInput, in.Type)
}

func (in ManualEntryInput) validate() error {
	if !in.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if err := checkScale("amount", in.Amount); err != nil {
		return err
	}
	if strings.TrimSpace(in.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	return nil
}

type LedgerService struct {
	store    repository.Store
	calendar Calendar
	auditSvc *AuditService
}

func NewLedgerService(store repository.Store, calendar Calendar, auditSvc *AuditService) *LedgerService {
	return &LedgerService{store: store, calendar: calendar, auditSvc: auditSvc}
}

// PostManual records an operator entry. Manual entries carry no origin.
func (s *LedgerService) PostManual(ctx context.Context, actorID uint, input ManualEntryInput) (*models.LedgerEntry, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	entryType, category, err := input.resolve()
	if err != nil {
		return nil, err
	}

	entry := &models.LedgerEntry{
		EntryDate:   s.entryDate(input.EntryDate),
		Type:        entryType,
		Category:    category,
		ReferenceID: 0,
		Amount:      input.Amount,
		Description: strings.TrimSpace(input.Description),
		SubCategory: input.SubCategory,
	}
	if err := s.store.Repos().Ledger.Create(ctx, entry); err != nil {
		return nil, fail("post ledger entry", err)
	}

	s.auditSvc.Record(actorID, models.AuditActionCreate, EntityLedgerEntry, entry.ID,
		fmt.Sprintf("%s %s on %s", entry.Type, entry.Amount.StringFixed(2), entry.EntryDate.Format(models.DateLayout)))
	return entry, nil
}

// EditManual rewrites an operator entry. System entries are protected.
func (s *LedgerService) EditManual(ctx context.Context, actorID, entryID uint, input ManualEntryInput) (*models.LedgerEntry, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	entryType, category, err := input.resolve()
	if err != nil {
		return nil, err
	}

	var entry *models.LedgerEntry
	err = s.store.Transaction(ctx, func(tx *repository.Repositories) error {
		var err error
		entry, err = s.manualEntry(ctx, tx, entryID)
		if err != nil {
			return err
		}
		if input.EntryDate != nil {
			entry.EntryDate = s.calendar.DayOf(*input.EntryDate)
		}
		entry.Type = entryType
		entry.Category = category
		entry.Amount = input.Amount
		entry.Description = strings.TrimSpace(input.Description)
		entry.SubCategory = input.SubCategory
		return tx.Ledger.Update(ctx, entry)
	})
	if err != nil {
		return nil, fail("edit ledger entry", err)
	}

	s.auditSvc.Record(actorID, models.AuditActionUpdate, EntityLedgerEntry, entry.ID,
		fmt.Sprintf("%s %s on %s", entry.Type, entry.Amount.StringFixed(2), entry.EntryDate.Format(models.DateLayout)))
	return entry, nil
}

// DeleteManual removes an operator entry. System entries are protected.
func (s *LedgerService) DeleteManual(ctx context.Context, actorID, entryID uint) error {
	err := s.store.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := s.manualEntry(ctx, tx, entryID); err != nil {
			return err
		}
		return tx.Ledger.Delete(ctx, entryID)
	})
	if err != nil {
		return fail("delete ledger entry", err)
	}

	s.auditSvc.Record(actorID, models.AuditActionDelete, EntityLedgerEntry, entryID, "")
	return nil
}

func (s *LedgerService) manualEntry(ctx context.Context, tx *repository.Repositories, entryID uint) (*models.LedgerEntry, error) {
	entry, err := tx.Ledger.FindByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFound("ledger entry", entryID)
		}
		return nil, err
	}
	if !entry.IsManual() {
		return nil, fmt.Errorf("%w: entry %d references %s %d", ErrProtectedEntry, entry.ID, entry.Category, entry.ReferenceID)
	}
	return entry, nil
}

// List returns entries in posting order, each labelled from its origin
func (s *LedgerService) List(ctx context.Context, dates repository.DateRange) ([]models.LedgerEntryView, error) {
	if dates.From != nil && dates.To != nil && dates.From.After(*dates.To) {
		return nil, ErrInvalidDateRange
	}
	repos := s.store.Repos()
	entries, err := repos.Ledger.List(ctx, dates)
	if err != nil {
		return nil, fail("list ledger", err)
	}
	views, err := NewLedgerProjection(repos).Project(ctx, entries)
	if err != nil {
		return nil, fail("list ledger", err)
	}
	return views, nil
}

// DailySummary totals one day's debits and credits, with the stored balance
// when the day has been closed.
func (s *LedgerService) DailySummary(ctx context.Context, date *time.Time) (*models.DailySummary, error) {
	day := s.entryDate(date)
	repos := s.store.Repos()

	debit, credit, err := repos.Ledger.SumByDate(ctx, day)
	if err != nil {
		return nil, fail("daily summary", err)
	}
	summary := &models.DailySummary{Date: day, Debit: debit, Credit: credit}

	balance, err := repos.DailyBalance.FindByDate(ctx, day)
	switch {
	case err == nil:
		summary.OpeningBalance = &balance.OpeningBalance
		summary.ClosingBalance = &balance.ClosingBalance
	case !errors.Is(err, ErrNotFound):
		return nil, fail("daily summary", err)
	}
	return summary, nil
}

func (s *LedgerService) entryDate(date *time.Time) time.Time {
	if date == nil {
		return s.calendar.Today()
	}
	return s.calendar.DayOf(*date)
}

// postSystemEntry writes an entry generated from another record. Such
// entries always point at their origin and are never editable.
func postSystemEntry(ctx context.Context, tx *repository.Repositories, entry *models.LedgerEntry) (*models.LedgerEntry, error) {
	if entry.ReferenceID == 0 {
		return nil, fmt.Errorf("%w: system entry needs a reference", ErrInvalidInput)
	}
	if !entry.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	entry.SystemGenerated = true
	if err := tx.Ledger.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}
