package statemachine

import (
	"context"
	"errors"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/sjperalta/ventas-api/internal/models"
)

// ErrInvalidTransition is returned when an event is not allowed from the current state
var ErrInvalidTransition = errors.New("invalid state transition")

// OrderFSM wraps an order with its state machine
type OrderFSM struct {
	order *models.Order
	fsm   *fsm.FSM
}

// NewOrderFSM creates a new order state machine
func NewOrderFSM(order *models.Order) *OrderFSM {
	ofsm := &OrderFSM{
		order: order,
	}

	ofsm.fsm = fsm.NewFSM(
		order.Status,
		fsm.Events{
			// pending_admin → confirmed (stock reserved)
			{Name: "confirm", Src: []string{models.OrderStatusPendingAdmin}, Dst: models.OrderStatusConfirmed},

			// pending_admin → cancelled
			{Name: "cancel", Src: []string{models.OrderStatusPendingAdmin}, Dst: models.OrderStatusCancelled},

			// confirmed → delivered (loan opened)
			{Name: "deliver", Src: []string{models.OrderStatusConfirmed}, Dst: models.OrderStatusDelivered},
		},
		fsm.Callbacks{},
	)

	return ofsm
}

// Confirm transitions order to confirmed state
func (o *OrderFSM) Confirm(ctx context.Context) error {
	if !o.order.MayConfirm() {
		return fmt.Errorf("%w: order cannot be confirmed in current state: %s", ErrInvalidTransition, o.order.Status)
	}
	return o.fire(ctx, "confirm")
}

// Cancel transitions order to cancelled state
func (o *OrderFSM) Cancel(ctx context.Context) error {
	if !o.order.MayCancel() {
		return fmt.Errorf("%w: order cannot be cancelled in current state: %s", ErrInvalidTransition, o.order.Status)
	}
	return o.fire(ctx, "cancel")
}

// Deliver transitions order to delivered state
func (o *OrderFSM) Deliver(ctx context.Context) error {
	if !o.order.MayDeliver() {
		return fmt.Errorf("%w: order cannot be delivered in current state: %s", ErrInvalidTransition, o.order.Status)
	}
	return o.fire(ctx, "deliver")
}

func (o *OrderFSM) fire(ctx context.Context, event string) error {
	if err := o.fsm.Event(ctx, event); err != nil {
		return fmt.Errorf("%w: failed to %s order: %v", ErrInvalidTransition, event, err)
	}
	o.order.Status = o.fsm.Current()
	return nil
}

// Current returns the current state
func (o *OrderFSM) Current() string {
	return o.fsm.Current()
}

// Can checks if a transition is possible
func (o *OrderFSM) Can(event string) bool {
	return o.fsm.Can(event)
}
