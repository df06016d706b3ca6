package services

import (
	"context"
	"testing"

	"github.com/sjperalta/ventas-api/internal/models"
	"github.com/sjperalta/ventas-api/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpenseService_Create(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	expense, err := env.svc.Expense.Create(ctx, admin.ID, ExpenseInput{
		Description:   "Fuel",
		Amount:        dec("42.50"),
		Category:      "Transport",
		PaymentMethod: models.PaymentMethodMobile,
	})
	require.NoError(t, err)
	assert.Equal(t, admin.ID, expense.CreatedByID)

	entries := env.ledger(t)
	require.Len(t, entries, 1)
	assert.Equal(t, models.LedgerTypeCredit, entries[0].Type)
	assert.Equal(t, models.LedgerCategoryExpense, entries[0].Category)
	assert.Equal(t, expense.ID, entries[0].ReferenceID)
	assert.True(t, entries[0].SystemGenerated)
	require.NotNil(t, entries[0].SubCategory)
	assert.Equal(t, "Transport", *entries[0].SubCategory)

	_, err = env.svc.Expense.Create(ctx, admin.ID, ExpenseInput{Amount: dec("0"), Category: "Transport"})
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = env.svc.Expense.Create(ctx, admin.ID, ExpenseInput{Amount: dec("1")})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = env.svc.Expense.Create(ctx, admin.ID, ExpenseInput{Amount: dec("3.333"), Category: "Transport"})
	assert.ErrorIs(t, err, ErrAmountPrecision)
	assert.Equal(t, KindBadRequest, KindOf(err))

	q := repository.NewListQuery()
	q.Filters["category"] = "Transport"
	expenses, total, err := env.svc.Expense.List(ctx, q)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Fuel", expenses[0].Description)
}

func TestSalaryService_Create(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	record, err := env.svc.Salary.Create(ctx, admin.ID, SalaryInput{
		EmployeeID:      env.employee.ID,
		BasicSalary:     dec("300"),
		BonusAmount:     dec("25"),
		DeductionAmount: dec("10"),
	})
	require.NoError(t, err)
	assert.True(t, dec("315").Equal(record.TotalPaid))
	require.NotNil(t, record.Employee)
	assert.Equal(t, "Ko Ko", record.Employee.Name)

	entries := env.ledger(t)
	require.Len(t, entries, 1)
	assert.Equal(t, models.LedgerCategorySalary, entries[0].Category)
	assert.Equal(t, models.LedgerTypeCredit, entries[0].Type)
	assert.True(t, dec("315").Equal(entries[0].Amount))

	_, err = env.svc.Salary.Create(ctx, admin.ID, SalaryInput{EmployeeID: 999, BasicSalary: dec("1")})
	assert.Equal(t, KindNotFound, KindOf(err))

	_, err = env.svc.Salary.Create(ctx, admin.ID, SalaryInput{EmployeeID: env.employee.ID, BasicSalary: dec("10"), DeductionAmount: dec("10")})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = env.svc.Salary.Create(ctx, admin.ID, SalaryInput{EmployeeID: env.employee.ID, BasicSalary: dec("10"), BonusAmount: dec("-1")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.svc.Salary.Create(ctx, admin.ID, SalaryInput{EmployeeID: env.employee.ID, BasicSalary: dec("10"), BonusAmount: dec("0.005")})
	assert.ErrorIs(t, err, ErrAmountPrecision)

	records, total, err := env.svc.Salary.List(ctx, repository.NewListQuery())
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, record.ID, records[0].ID)
	assert.Len(t, env.ledger(t), 1, "failed salaries post nothing")
}

func TestInventoryService(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	inv, err := env.svc.Inventory.SetQuantity(ctx, admin.ID, env.gel.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, inv.Quantity)

	got, err := env.svc.Inventory.Get(ctx, env.gel.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Quantity)

	_, err = env.svc.Inventory.SetQuantity(ctx, admin.ID, env.gel.ID, -1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.svc.Inventory.SetQuantity(ctx, admin.ID, 999, 1)
	assert.Equal(t, KindNotFound, KindOf(err))
	_, err = env.svc.Inventory.Get(ctx, 999)
	assert.Equal(t, KindNotFound, KindOf(err))
}
