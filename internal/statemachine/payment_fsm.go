package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/sjperalta/ventas-api/internal/models"
)

// PaymentFSM wraps a payment with its state machine
type PaymentFSM struct {
	payment *models.Payment
	fsm     *fsm.FSM
}

// NewPaymentFSM creates a new payment state machine
func NewPaymentFSM(payment *models.Payment) *PaymentFSM {
	pfsm := &PaymentFSM{
		payment: payment,
	}

	pfsm.fsm = fsm.NewFSM(
		payment.Status,
		fsm.Events{
			// pending → confirmed (ledger posted)
			{Name: "confirm", Src: []string{models.PaymentStatusPending}, Dst: models.PaymentStatusConfirmed},

			// pending → rejected (loan restored)
			{Name: "reject", Src: []string{models.PaymentStatusPending}, Dst: models.PaymentStatusRejected},
		},
		fsm.Callbacks{},
	)

	return pfsm
}

// Confirm transitions payment to confirmed state
func (p *PaymentFSM) Confirm(ctx context.Context) error {
	if !p.payment.MayConfirm() {
		return fmt.Errorf("%w: payment cannot be confirmed in current state: %s", ErrInvalidTransition, p.payment.Status)
	}

	if err := p.fsm.Event(ctx, "confirm"); err != nil {
		return fmt.Errorf("%w: failed to confirm payment: %v", ErrInvalidTransition, err)
	}

	p.payment.Status = p.fsm.Current()
	return nil
}

// Reject transitions payment to rejected state
func (p *PaymentFSM) Reject(ctx context.Context) error {
	if !p.payment.MayReject() {
		return fmt.Errorf("%w: payment cannot be rejected in current state: %s", ErrInvalidTransition, p.payment.Status)
	}

	if err := p.fsm.Event(ctx, "reject"); err != nil {
		return fmt.Errorf("%w: failed to reject payment: %v", ErrInvalidTransition, err)
	}

	p.payment.Status = p.fsm.Current()
	return nil
}

// Current returns the current state
func (p *PaymentFSM) Current() string {
	return p.fsm.Current()
}

// Can checks if a transition is possible
func (p *PaymentFSM) Can(event string) bool {
	return p.fsm.Can(event)
}
