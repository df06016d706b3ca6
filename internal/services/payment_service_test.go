package services

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/sjperalta/ventas-api/internal/models"
	"github.com/sjperalta/ventas-api/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderPayment(customerID, orderID uint, amount string) CreatePaymentInput {
	return CreatePaymentInput{
		CustomerID:    customerID,
		OrderID:       &orderID,
		AmountPaid:    dec(amount),
		PaymentMethod: models.PaymentMethodCash,
	}
}

func TestPaymentService_RejectRestoresLoan(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	order := env.deliveredOrder(t, "100")

	payment, err := env.svc.Payment.Create(ctx, salesman, orderPayment(env.customer.ID, order.ID, "40"))
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, payment.Status)
	assert.True(t, dec("60").Equal(env.loan(t, order.ID).RemainingAmount))

	rejected, err := env.svc.Payment.Reject(ctx, admin.ID, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusRejected, rejected.Status)
	assert.NotNil(t, rejected.RejectedAt)

	loan := env.loan(t, order.ID)
	assert.True(t, dec("100").Equal(loan.RemainingAmount))
	assert.Equal(t, models.LoanStatusOpen, loan.Status)
	assert.Empty(t, env.ledger(t), "rejections never post")
}

func TestPaymentService_FullPaymentClosesLoan(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	order := env.deliveredOrder(t, "100")

	payment, err := env.svc.Payment.Create(ctx, salesman, orderPayment(env.customer.ID, order.ID, "100"))
	require.NoError(t, err)

	loan := env.loan(t, order.ID)
	assert.True(t, loan.RemainingAmount.IsZero())
	assert.Equal(t, models.LoanStatusClosed, loan.Status)

	_, err = env.svc.Payment.Create(ctx, salesman, orderPayment(env.customer.ID, order.ID, "1"))
	assert.ErrorIs(t, err, ErrLoanClosed)
	assert.Equal(t, KindBadRequest, KindOf(err))

	_, err = env.svc.Payment.Reject(ctx, admin.ID, payment.ID)
	require.NoError(t, err)
	loan = env.loan(t, order.ID)
	assert.True(t, dec("100").Equal(loan.RemainingAmount))
	assert.Equal(t, models.LoanStatusOpen, loan.Status)
}

func TestPaymentService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	delivered := env.deliveredOrder(t, "100")

	undelivered, err := env.svc.Order.Create(ctx, salesman.ID, CreateOrderInput{
		CustomerID: env.customer.ID,
		Items:      []OrderItemInput{{ProductID: env.gel.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	tests := []struct {
		name  string
		input CreatePaymentInput
		err   error
		kind  Kind
	}{
		{"exceeds remaining", orderPayment(env.customer.ID, delivered.ID, "100.01"), ErrAmountExceedsBalance, KindBadRequest},
		{"no loan yet", orderPayment(env.customer.ID, undelivered.ID, "5"), ErrLoanNotFound, KindBadRequest},
		{"unknown order", orderPayment(env.customer.ID, 999, "5"), ErrNotFound, KindNotFound},
		{"unknown customer", orderPayment(999, delivered.ID, "5"), ErrNotFound, KindNotFound},
		{"zero amount", orderPayment(env.customer.ID, delivered.ID, "0"), ErrInvalidAmount, KindBadRequest},
		{"negative amount", orderPayment(env.customer.ID, delivered.ID, "-5"), ErrInvalidAmount, KindBadRequest},
		{"below one cent", orderPayment(env.customer.ID, delivered.ID, "0.004"), ErrAmountPrecision, KindBadRequest},
		{"three decimals", orderPayment(env.customer.ID, delivered.ID, "10.005"), ErrAmountPrecision, KindBadRequest},
		{"unknown method", CreatePaymentInput{CustomerID: env.customer.ID, AmountPaid: dec("5"), PaymentMethod: "BARTER"}, ErrInvalidInput, KindBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.Payment.Create(ctx, salesman, tt.input)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, tt.kind, KindOf(err))
		})
	}

	assert.True(t, dec("100").Equal(env.loan(t, delivered.ID).RemainingAmount), "failed payments leave the loan alone")
	_, total, err := env.svc.Payment.List(ctx, repository.NewListQuery())
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestPaymentService_ConfirmIsIdempotent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	order := env.deliveredOrder(t, "100")

	payment, err := env.svc.Payment.Create(ctx, salesman, orderPayment(env.customer.ID, order.ID, "40"))
	require.NoError(t, err)

	first, err := env.svc.Payment.Confirm(ctx, admin.ID, payment.ID)
	require.NoError(t, err)
	second, err := env.svc.Payment.Confirm(ctx, admin.ID, payment.ID)
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusConfirmed, first.Status)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.ConfirmedAt, second.ConfirmedAt)
	assert.True(t, first.AmountPaid.Equal(second.AmountPaid))

	entries := env.ledger(t)
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, models.LedgerTypeDebit, entry.Type)
	assert.Equal(t, models.LedgerCategorySale, entry.Category)
	assert.Equal(t, payment.ID, entry.ReferenceID)
	assert.True(t, dec("40").Equal(entry.Amount))
	assert.True(t, entry.SystemGenerated)
	assert.True(t, strings.Contains(entry.Description, "Alice Kyaw"))
	assert.True(t, strings.Contains(entry.Description, "Order #"))
	assert.Equal(t, day("2024-01-02"), entry.EntryDate)

	assert.True(t, dec("60").Equal(env.loan(t, order.ID).RemainingAmount), "confirmation does not touch the loan again")
}

func TestPaymentService_RepeatConfirmLoadsCustomer(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	payment, err := env.svc.Payment.Create(ctx, salesman, CreatePaymentInput{CustomerID: env.customer.ID, AmountPaid: dec("5")})
	require.NoError(t, err)

	first, err := env.svc.Payment.Confirm(ctx, admin.ID, payment.ID)
	require.NoError(t, err)
	second, err := env.svc.Payment.Confirm(ctx, admin.ID, payment.ID)
	require.NoError(t, err)

	require.NotNil(t, first.Customer)
	require.NotNil(t, second.Customer)
	assert.Equal(t, first.Customer.Name, second.Customer.Name)
}

func TestPaymentService_ConcurrentConfirmPostsOnce(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	order := env.deliveredOrder(t, "100")

	payment, err := env.svc.Payment.Create(ctx, salesman, orderPayment(env.customer.ID, order.ID, "40"))
	require.NoError(t, err)

	const callers = 16
	results := make([]*models.Payment, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = env.svc.Payment.Confirm(ctx, admin.ID, payment.ID)
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, models.PaymentStatusConfirmed, results[i].Status)
		assert.Equal(t, payment.ID, results[i].ID)
	}

	entries := env.ledger(t)
	require.Len(t, entries, 1)
	assert.Equal(t, payment.ID, entries[0].ReferenceID)
	assert.True(t, dec("40").Equal(entries[0].Amount))
	assert.True(t, dec("60").Equal(env.loan(t, order.ID).RemainingAmount))
}

func TestPaymentService_WalkIn(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	payment, err := env.svc.Payment.Create(ctx, salesman, CreatePaymentInput{
		CustomerID: env.customer.ID,
		AmountPaid: dec("12.50"),
	})
	require.NoError(t, err)
	assert.True(t, payment.IsWalkIn())
	assert.Equal(t, models.PaymentMethodCash, payment.PaymentMethod)

	_, err = env.svc.Payment.Confirm(ctx, admin.ID, payment.ID)
	require.NoError(t, err)

	entries := env.ledger(t)
	require.Len(t, entries, 1)
	assert.Equal(t, models.LedgerCategoryOtherIncome, entries[0].Category)
	assert.Equal(t, models.LedgerTypeDebit, entries[0].Type)
}

func TestPaymentService_TerminalStates(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	order := env.deliveredOrder(t, "100")

	rejected, err := env.svc.Payment.Create(ctx, salesman, orderPayment(env.customer.ID, order.ID, "10"))
	require.NoError(t, err)
	_, err = env.svc.Payment.Reject(ctx, admin.ID, rejected.ID)
	require.NoError(t, err)

	_, err = env.svc.Payment.Confirm(ctx, admin.ID, rejected.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = env.svc.Payment.Reject(ctx, admin.ID, rejected.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	confirmed, err := env.svc.Payment.Create(ctx, salesman, orderPayment(env.customer.ID, order.ID, "10"))
	require.NoError(t, err)
	_, err = env.svc.Payment.Confirm(ctx, admin.ID, confirmed.ID)
	require.NoError(t, err)

	_, err = env.svc.Payment.Reject(ctx, admin.ID, confirmed.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.True(t, dec("90").Equal(env.loan(t, order.ID).RemainingAmount))

	_, err = env.svc.Payment.Confirm(ctx, admin.ID, 999)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestPaymentService_AutoApprove(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	order := env.deliveredOrder(t, "100")

	payment, err := env.svc.Payment.Create(ctx, admin, orderPayment(env.customer.ID, order.ID, "25"))
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusConfirmed, payment.Status)
	require.NotNil(t, payment.ConfirmedByID)
	assert.Equal(t, admin.ID, *payment.ConfirmedByID)
	require.Len(t, env.ledger(t), 1)

	_, err = env.svc.Payment.Confirm(ctx, admin.ID, payment.ID)
	require.NoError(t, err)
	assert.Len(t, env.ledger(t), 1)
	assert.True(t, dec("75").Equal(env.loan(t, order.ID).RemainingAmount))
}

func TestPaymentService_LoanStaysInBounds(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	order := env.deliveredOrder(t, "50")

	var created []uint
	for _, amount := range []string{"20", "20", "20", "10", "5"} {
		p, err := env.svc.Payment.Create(ctx, salesman, orderPayment(env.customer.ID, order.ID, amount))
		if err == nil {
			created = append(created, p.ID)
		}
		loan := env.loan(t, order.ID)
		assert.True(t, loan.InBounds())
		assert.Equal(t, loan.RemainingAmount.IsZero(), loan.Status == models.LoanStatusClosed)
	}
	require.Len(t, created, 3, "20 + 20 + 10 exhausts the loan")

	for _, id := range created {
		_, err := env.svc.Payment.Reject(ctx, admin.ID, id)
		require.NoError(t, err)
		loan := env.loan(t, order.ID)
		assert.True(t, loan.InBounds())
		assert.Equal(t, models.LoanStatusOpen, loan.Status)
	}
	assert.True(t, dec("50").Equal(env.loan(t, order.ID).RemainingAmount))
}

func TestPaymentService_ConcurrentPaymentsNeverOverdraw(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	order := env.deliveredOrder(t, "100")

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := env.svc.Payment.Create(ctx, salesman, orderPayment(env.customer.ID, order.ID, "10")); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	loan := env.loan(t, order.ID)
	assert.True(t, loan.RemainingAmount.IsZero())
	assert.Equal(t, models.LoanStatusClosed, loan.Status)
}

func TestPaymentService_LoansForCustomer(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.deliveredOrder(t, "30")
	env.deliveredOrder(t, "40")

	loans, err := env.svc.Payment.LoansForCustomer(ctx, env.customer.ID)
	require.NoError(t, err)
	assert.Len(t, loans, 2)

	_, err = env.svc.Payment.LoansForCustomer(ctx, 999)
	assert.Equal(t, KindNotFound, KindOf(err))
}
