package services

import (
	"context"
	"fmt"

	"github.com/sjperalta/ventas-api/internal/models"
	"github.com/sjperalta/ventas-api/internal/repository"
)

// LedgerProjection enriches ledger rows with a label derived from their
// origin record. It only reads; stored entries are never touched.
type LedgerProjection struct {
	repos *repository.Repositories
}

func NewLedgerProjection(repos *repository.Repositories) *LedgerProjection {
	return &LedgerProjection{repos: repos}
}

// Project returns one view per entry, in the same order
func (p *LedgerProjection) Project(ctx context.Context, entries []models.LedgerEntry) ([]models.LedgerEntryView, error) {
	var paymentIDs, expenseIDs, salaryIDs []uint
	for _, e := range entries {
		if e.IsManual() {
			continue
		}
		switch e.Category {
		case models.LedgerCategorySale, models.LedgerCategoryOtherIncome:
			paymentIDs = append(paymentIDs, e.ReferenceID)
		case models.LedgerCategoryExpense:
			expenseIDs = append(expenseIDs, e.ReferenceID)
		case models.LedgerCategorySalary:
			salaryIDs = append(salaryIDs, e.ReferenceID)
		}
	}

	payments, err := p.repos.Payment.FindByIDs(ctx, paymentIDs)
	if err != nil {
		return nil, err
	}
	paymentByID := make(map[uint]models.Payment, len(payments))
	for _, pay := range payments {
		paymentByID[pay.ID] = pay
	}

	expenses, err := p.repos.Expense.FindByIDs(ctx, expenseIDs)
	if err != nil {
		return nil, err
	}
	expenseByID := make(map[uint]models.Expense, len(expenses))
	for _, ex := range expenses {
		expenseByID[ex.ID] = ex
	}

	salaries, err := p.repos.Salary.FindByIDs(ctx, salaryIDs)
	if err != nil {
		return nil, err
	}
	salaryByID := make(map[uint]models.SalaryRecord, len(salaries))
	for _, rec := range salaries {
		salaryByID[rec.ID] = rec
	}

	views := make([]models.LedgerEntryView, 0, len(entries))
	for _, e := range entries {
		view := models.LedgerEntryView{LedgerEntry: e, EntrySource: e.Source()}
		if !e.IsManual() {
			label := p.label(e, paymentByID, expenseByID, salaryByID)
			if label != "" {
				view.ReferenceLabel = &label
			}
		}
		views = append(views, view)
	}
	return views, nil
}

func (p *LedgerProjection) label(e models.LedgerEntry, payments map[uint]models.Payment, expenses map[uint]models.Expense, salaries map[uint]models.SalaryRecord) string {
	switch e.Category {
	case models.LedgerCategorySale, models.LedgerCategoryOtherIncome:
		pay, ok := payments[e.ReferenceID]
		if !ok || pay.Customer == nil {
			return fmt.Sprintf("Payment #%d", e.ReferenceID)
		}
		if pay.OrderID != nil {
			return fmt.Sprintf("%s - Order #%d", pay.Customer.Name, *pay.OrderID)
		}
		return pay.Customer.Name
	case models.LedgerCategoryExpense:
		if ex, ok := expenses[e.ReferenceID]; ok {
			return "Expense - " + ex.Category
		}
		return fmt.Sprintf("Expense #%d", e.ReferenceID)
	case models.LedgerCategorySalary:
		if rec, ok := salaries[e.ReferenceID]; ok && rec.Employee != nil {
			return "Salary - " + rec.Employee.Name
		}
		return fmt.Sprintf("Salary #%d", e.ReferenceID)
	}
	return ""
}
