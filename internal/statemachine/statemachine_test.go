package statemachine

import (
	"context"
	"testing"

	"github.com/sjperalta/ventas-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestOrderFSM_Transitions(t *testing.T) {
	ctx := context.Background()

	t.Run("confirm then deliver", func(t *testing.T) {
		order := &models.Order{Status: models.OrderStatusPendingAdmin}
		f := NewOrderFSM(order)

		assert.True(t, f.Can("confirm"))
		assert.False(t, f.Can("deliver"))
		assert.NoError(t, f.Confirm(ctx))
		assert.Equal(t, models.OrderStatusConfirmed, order.Status)

		f = NewOrderFSM(order)
		assert.NoError(t, f.Deliver(ctx))
		assert.Equal(t, models.OrderStatusDelivered, order.Status)
	})

	t.Run("cancel only from pending", func(t *testing.T) {
		order := &models.Order{Status: models.OrderStatusConfirmed}
		err := NewOrderFSM(order).Cancel(ctx)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Equal(t, models.OrderStatusConfirmed, order.Status)
	})

	t.Run("delivered is terminal", func(t *testing.T) {
		order := &models.Order{Status: models.OrderStatusDelivered}
		f := NewOrderFSM(order)
		assert.ErrorIs(t, f.Confirm(ctx), ErrInvalidTransition)
		assert.ErrorIs(t, f.Cancel(ctx), ErrInvalidTransition)
		assert.ErrorIs(t, f.Deliver(ctx), ErrInvalidTransition)
	})

	t.Run("cancelled is terminal", func(t *testing.T) {
		order := &models.Order{Status: models.OrderStatusCancelled}
		assert.ErrorIs(t, NewOrderFSM(order).Confirm(ctx), ErrInvalidTransition)
	})
}

func TestPaymentFSM_Transitions(t *testing.T) {
	ctx := context.Background()

	payment := &models.Payment{Status: models.PaymentStatusPending}
	assert.NoError(t, NewPaymentFSM(payment).Confirm(ctx))
	assert.Equal(t, models.PaymentStatusConfirmed, payment.Status)
	assert.ErrorIs(t, NewPaymentFSM(payment).Reject(ctx), ErrInvalidTransition)
	assert.ErrorIs(t, NewPaymentFSM(payment).Confirm(ctx), ErrInvalidTransition)

	rejected := &models.Payment{Status: models.PaymentStatusPending}
	assert.NoError(t, NewPaymentFSM(rejected).Reject(ctx))
	assert.Equal(t, models.PaymentStatusRejected, rejected.Status)
	assert.False(t, NewPaymentFSM(rejected).Can("confirm"))
}
