package services

import (
	"context"
	"testing"
	"time"

	"github.com/sjperalta/ventas-api/internal/models"
	"github.com/sjperalta/ventas-api/internal/repository"
	"github.com/sjperalta/ventas-api/internal/repository/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	admin    = Actor{ID: 1, Role: "admin"}
	salesman = Actor{ID: 2, Role: "sales"}
)

type testEnv struct {
	store    *memory.Store
	svc      *Services
	now      time.Time
	customer models.Customer
	lipstick models.Product // 10.00
	gel      models.Product // 15.00
	retired  models.Product
	employee models.Employee
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		store: memory.New(),
		now:   time.Date(2024, 1, 2, 10, 30, 0, 0, time.UTC),
	}
	env.store.SetClock(func() time.Time { return env.now })

	env.customer = env.store.PutCustomer(models.Customer{Name: "Alice Kyaw", PhoneNumber: "0911111111", Status: "ACTIVE"})
	env.lipstick = env.store.PutProduct(models.Product{Name: "Rose Lipstick", UnitPrice: dec("10"), IsActive: true})
	env.gel = env.store.PutProduct(models.Product{Name: "Aloe Skin Gel", UnitPrice: dec("15"), IsActive: true})
	env.retired = env.store.PutProduct(models.Product{Name: "Old Powder", UnitPrice: dec("5"), IsActive: false})
	env.employee = env.store.PutEmployee(models.Employee{Name: "Ko Ko", Position: "Driver"})
	env.store.PutInventory(env.lipstick.ID, 100)
	env.store.PutInventory(env.gel.ID, 100)
	env.store.PutInventory(env.retired.ID, 100)

	calendar := Calendar{Location: time.UTC, Now: func() time.Time { return env.now }}
	env.svc = NewServices(env.store, nil, Options{Calendar: calendar, AutoApproveRoles: []string{"admin"}})
	return env
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(s string) time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func (env *testEnv) stock(t *testing.T, productID uint) int {
	t.Helper()
	inv, err := env.store.Repos().Inventory.FindByProductID(context.Background(), productID)
	require.NoError(t, err)
	return inv.Quantity
}

// deliveredOrder creates, confirms and delivers a one-line order priced at
// total, returning the order with its open loan.
func (env *testEnv) deliveredOrder(t *testing.T, total string) *models.Order {
	t.Helper()
	ctx := context.Background()
	price := dec(total)

	order, err := env.svc.Order.Create(ctx, salesman.ID, CreateOrderInput{
		CustomerID: env.customer.ID,
		Items:      []OrderItemInput{{ProductID: env.lipstick.ID, Quantity: 1, UnitPrice: &price}},
	})
	require.NoError(t, err)
	_, err = env.svc.Order.Confirm(ctx, admin.ID, order.ID)
	require.NoError(t, err)
	order, err = env.svc.Order.Deliver(ctx, admin.ID, order.ID)
	require.NoError(t, err)
	require.NotNil(t, order.Loan)
	return order
}

func (env *testEnv) loan(t *testing.T, orderID uint) *models.Loan {
	t.Helper()
	loan, err := env.store.Repos().Loan.FindByOrderID(context.Background(), orderID)
	require.NoError(t, err)
	return loan
}

func (env *testEnv) ledger(t *testing.T) []models.LedgerEntry {
	t.Helper()
	entries, err := env.store.Repos().Ledger.List(context.Background(), repository.DateRange{})
	require.NoError(t, err)
	return entries
}
