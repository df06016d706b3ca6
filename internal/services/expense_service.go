package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sjperalta/ventas-api/internal/models"
	"github.com/sjperalta/ventas-api/internal/repository"

	"github.com/shopspring/decimal"
)

// ExpenseInput is the payload for ExpenseService.Create
type ExpenseInput struct {
	Description   string
	Amount        decimal.Decimal
	Category      string
	PaymentMethod string
}

type ExpenseService struct {
	store    repository.Store
	calendar Calendar
	auditSvc *AuditService
}

func NewExpenseService(store repository.Store, calendar Calendar, auditSvc *AuditService) *ExpenseService {
	return &ExpenseService{store: store, calendar: calendar, auditSvc: auditSvc}
}

// Create records an expense and its CREDIT ledger entry together
func (s *ExpenseService) Create(ctx context.Context, actorID uint, input ExpenseInput) (*models.Expense, error) {
	if !input.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if err := checkScale("amount", input.Amount); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Category) == "" {
		return nil, fmt.Errorf("%w: category is required", ErrInvalidInput)
	}
	if input.PaymentMethod == "" {
		input.PaymentMethod = models.PaymentMethodCash
	}
	if !paymentMethods[input.PaymentMethod] {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, input.PaymentMethod)
	}

	now := s.calendar.now()
	expense := &models.Expense{
		Description:   strings.TrimSpace(input.Description),
		Amount:        input.Amount,
		Category:      strings.TrimSpace(input.Category),
		PaymentMethod: input.PaymentMethod,
		CreatedByID:   actorID,
		CreatedAt:     now,
	}
	err := s.store.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := tx.Expense.Create(ctx, expense); err != nil {
			return err
		}
		description := "Expense: " + expense.Category
		if expense.Description != "" {
			description = fmt.Sprintf("Expense: %s (%s)", expense.Description, expense.Category)
		}
		_, err := postSystemEntry(ctx, tx, &models.LedgerEntry{
			EntryDate:   models.Day(now, s.calendar.Location),
			Type:        models.LedgerTypeCredit,
			Category:    models.LedgerCategoryExpense,
			ReferenceID: expense.ID,
			Amount:      expense.Amount,
			Description: description,
			SubCategory: &expense.Category,
		})
		return err
	})
	if err != nil {
		return nil, fail("create expense", err)
	}

	s.auditSvc.Record(actorID, models.AuditActionCreate, EntityExpense, expense.ID, expense.Amount.StringFixed(2))
	return expense, nil
}

// List returns expenses filtered by category
func (s *ExpenseService) List(ctx context.Context, query *repository.ListQuery) ([]models.Expense, int64, error) {
	expenses, total, err := s.store.Repos().Expense.List(ctx, query)
	if err != nil {
		return nil, 0, fail("list expenses", err)
	}
	return expenses, total, nil
}

// SalaryInput is the payload for SalaryService.Create
type SalaryInput struct {
	EmployeeID      uint
	BasicSalary     decimal.Decimal
	BonusAmount     decimal.Decimal
	DeductionAmount decimal.Decimal
}

type SalaryService struct {
	store    repository.Store
	calendar Calendar
	auditSvc *AuditService
}

func NewSalaryService(store repository.Store, calendar Calendar, auditSvc *AuditService) *SalaryService {
	return &SalaryService{store: store, calendar: calendar, auditSvc: auditSvc}
}

// Create records a salary payout of basic + bonus - deduction and its
// CREDIT ledger entry together
func (s *SalaryService) Create(ctx context.Context, actorID uint, input SalaryInput) (*models.SalaryRecord, error) {
	if input.BasicSalary.IsNegative() || input.BonusAmount.IsNegative() || input.DeductionAmount.IsNegative() {
		return nil, fmt.Errorf("%w: salary components must not be negative", ErrInvalidInput)
	}
	if err := checkScale("salary component", input.BasicSalary, input.BonusAmount, input.DeductionAmount); err != nil {
		return nil, err
	}
	total := input.BasicSalary.Add(input.BonusAmount).Sub(input.DeductionAmount)
	if !total.IsPositive() {
		return nil, ErrInvalidAmount
	}

	now := s.calendar.now()
	record := &models.SalaryRecord{
		EmployeeID:      input.EmployeeID,
		BasicSalary:     input.BasicSalary,
		BonusAmount:     input.BonusAmount,
		DeductionAmount: input.DeductionAmount,
		TotalPaid:       total,
		CreatedByID:     actorID,
		CreatedAt:       now,
	}
	err := s.store.Transaction(ctx, func(tx *repository.Repositories) error {
		employee, err := tx.Employee.FindByID(ctx, input.EmployeeID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return notFound("employee", input.EmployeeID)
			}
			return err
		}
		if err := tx.Salary.Create(ctx, record); err != nil {
			return err
		}
		record.Employee = employee

		_, err = postSystemEntry(ctx, tx, &models.LedgerEntry{
			EntryDate:   models.Day(now, s.calendar.Location),
			Type:        models.LedgerTypeCredit,
			Category:    models.LedgerCategorySalary,
			ReferenceID: record.ID,
			Amount:      total,
			Description: "Salary: " + employee.Name,
		})
		return err
	})
	if err != nil {
		return nil, fail("create salary", err)
	}

	s.auditSvc.Record(actorID, models.AuditActionCreate, EntitySalary, record.ID, total.StringFixed(2))
	return record, nil
}

// List returns salary records filtered by employee_id
func (s *SalaryService) List(ctx context.Context, query *repository.ListQuery) ([]models.SalaryRecord, int64, error) {
	records, total, err := s.store.Repos().Salary.List(ctx, query)
	if err != nil {
		return nil, 0, fail("list salaries", err)
	}
	return records, total, nil
}
