package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/ventas-api/internal/models"
	"github.com/sjperalta/ventas-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestStore_TransactionRollsBack(t *testing.T) {
	store := New()
	product := store.PutProduct(models.Product{Name: "Rose Lipstick", UnitPrice: decimal.NewFromInt(10), IsActive: true})
	store.PutInventory(product.ID, 5)
	ctx := context.Background()

	boom := errors.New("boom")
	err := store.Transaction(ctx, func(tx *repository.Repositories) error {
		require.NoError(t, tx.Inventory.Decrement(ctx, product.ID, 4))
		require.NoError(t, tx.Ledger.Create(ctx, &models.LedgerEntry{EntryDate: day(2), Type: models.LedgerTypeDebit, Amount: decimal.NewFromInt(1)}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	inv, err := store.Repos().Inventory.FindByProductID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, inv.Quantity)

	entries, err := store.Repos().Ledger.List(ctx, repository.DateRange{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStore_TransactionHonoursCancelledContext(t *testing.T) {
	store := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := store.Transaction(ctx, func(*repository.Repositories) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestInventory_DecrementGuards(t *testing.T) {
	store := New()
	store.PutInventory(1, 2)
	repos := store.Repos()
	ctx := context.Background()

	assert.ErrorIs(t, repos.Inventory.Decrement(ctx, 1, 3), repository.ErrInsufficientStock)
	assert.ErrorIs(t, repos.Inventory.Decrement(ctx, 2, 1), repository.ErrInsufficientStock, "missing row")
	assert.NoError(t, repos.Inventory.Decrement(ctx, 1, 2))

	inv, err := repos.Inventory.FindByProductID(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, inv.Quantity)
}

func TestLoan_OnePerOrder(t *testing.T) {
	store := New()
	repos := store.Repos()
	ctx := context.Background()

	require.NoError(t, repos.Loan.Create(ctx, &models.Loan{OrderID: 1, CustomerID: 1, OriginalAmount: decimal.NewFromInt(10), RemainingAmount: decimal.NewFromInt(10), Status: models.LoanStatusOpen}))
	err := repos.Loan.Create(ctx, &models.Loan{OrderID: 1, CustomerID: 1})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestLedger_OriginUniqueAndOrdered(t *testing.T) {
	store := New()
	repos := store.Repos()
	ctx := context.Background()

	sale := func(ref uint, d int) *models.LedgerEntry {
		return &models.LedgerEntry{EntryDate: day(d), Type: models.LedgerTypeDebit, Category: models.LedgerCategorySale, ReferenceID: ref, Amount: decimal.NewFromInt(5), SystemGenerated: true}
	}
	require.NoError(t, repos.Ledger.Create(ctx, sale(1, 3)))
	require.NoError(t, repos.Ledger.Create(ctx, sale(2, 2)))
	assert.ErrorIs(t, repos.Ledger.Create(ctx, sale(1, 4)), repository.ErrDuplicate)

	manual := func(d int) *models.LedgerEntry {
		return &models.LedgerEntry{EntryDate: day(d), Type: models.LedgerTypeCredit, Category: models.LedgerCategoryExpense, Amount: decimal.NewFromInt(2)}
	}
	require.NoError(t, repos.Ledger.Create(ctx, manual(2)))
	require.NoError(t, repos.Ledger.Create(ctx, manual(2)), "manual entries carry no origin")

	entries, err := repos.Ledger.List(ctx, repository.DateRange{})
	require.NoError(t, err)
	require.Len(t, entries, 4)
	for i := 1; i < len(entries); i++ {
		prev, cur := entries[i-1], entries[i]
		assert.True(t, prev.EntryDate.Before(cur.EntryDate) || (prev.EntryDate.Equal(cur.EntryDate) && prev.ID < cur.ID))
	}

	debit, credit, err := repos.Ledger.SumByDate(ctx, day(2))
	require.NoError(t, err)
	assert.True(t, debit.Equal(decimal.NewFromInt(5)))
	assert.True(t, credit.Equal(decimal.NewFromInt(4)))
}

func TestDailyBalance_UpsertAndLatestBefore(t *testing.T) {
	store := New()
	repos := store.Repos()
	ctx := context.Background()

	require.NoError(t, repos.DailyBalance.Upsert(ctx, &models.DailyBalance{Date: day(1), ClosingBalance: decimal.NewFromInt(10)}))
	require.NoError(t, repos.DailyBalance.Upsert(ctx, &models.DailyBalance{Date: day(3), OpeningBalance: decimal.NewFromInt(10), ClosingBalance: decimal.NewFromInt(12)}))
	require.NoError(t, repos.DailyBalance.Upsert(ctx, &models.DailyBalance{Date: day(3), OpeningBalance: decimal.NewFromInt(10), ClosingBalance: decimal.NewFromInt(30)}))

	all, err := repos.DailyBalance.List(ctx, repository.DateRange{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.True(t, all[0].Date.Equal(day(3)), "newest first")
	assert.True(t, all[0].ClosingBalance.Equal(decimal.NewFromInt(30)))

	prev, err := repos.DailyBalance.FindLatestBefore(ctx, day(3))
	require.NoError(t, err)
	assert.True(t, prev.Date.Equal(day(1)))

	_, err = repos.DailyBalance.FindLatestBefore(ctx, day(1))
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDashboardQueries(t *testing.T) {
	store := New()
	ctx := context.Background()
	store.SetClock(func() time.Time { return time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC) })

	customer := store.PutCustomer(models.Customer{Name: "Alice Kyaw"})
	gel := store.PutProduct(models.Product{Name: "Aloe Skin Gel", UnitPrice: decimal.NewFromInt(5), IsActive: true})
	lipstick := store.PutProduct(models.Product{Name: "Rose Lipstick", UnitPrice: decimal.NewFromInt(10), IsActive: true})
	retired := store.PutProduct(models.Product{Name: "Old Powder", UnitPrice: decimal.NewFromInt(1), IsActive: false})
	store.PutInventory(gel.ID, 19)
	store.PutInventory(lipstick.ID, 20)
	store.PutInventory(retired.ID, 0)

	repos := store.Repos()
	orders := []models.Order{
		{CustomerID: customer.ID, Status: models.OrderStatusDelivered, TotalAmount: decimal.RequireFromString("30.25"), CreatedAt: time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC)},
		{CustomerID: customer.ID, Status: models.OrderStatusDelivered, TotalAmount: decimal.NewFromInt(10)},
		{CustomerID: customer.ID, Status: models.OrderStatusPendingAdmin, TotalAmount: decimal.NewFromInt(5)},
	}
	for i := range orders {
		require.NoError(t, repos.Order.Create(ctx, &orders[i]))
	}

	stats, err := repos.Order.Stats(ctx, day(2), day(3))
	require.NoError(t, err)
	assert.True(t, stats.DeliveredTotal.Equal(decimal.RequireFromString("40.25")))
	assert.EqualValues(t, 2, stats.OrdersToday)
	assert.EqualValues(t, 1, stats.PendingOrders)

	low, err := repos.Inventory.LowStock(ctx, 20, 10)
	require.NoError(t, err)
	assert.Equal(t, []models.LowStockProduct{{ID: gel.ID, Name: "Aloe Skin Gel", Stock: 19}}, low)
}
