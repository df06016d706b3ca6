package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sjperalta/ventas-api/internal/models"
	"github.com/sjperalta/ventas-api/internal/repository"
	"github.com/sjperalta/ventas-api/internal/statemachine"

	"github.com/shopspring/decimal"
)

// CreatePaymentInput is the payload for PaymentService.Create. A nil OrderID
// records a walk-in payment.
type CreatePaymentInput struct {
	CustomerID    uint
	OrderID       *uint
	AmountPaid    decimal.Decimal
	PaymentMethod string
}

var paymentMethods = map[string]bool{
	models.PaymentMethodCash:     true,
	models.PaymentMethodTransfer: true,
	models.PaymentMethodMobile:   true,
	models.PaymentMethodCredit:   true,
}

// errLoanOverflow marks a restore that would push a loan past its original
// amount. It is a data invariant breach, not a caller mistake.
var errLoanOverflow = errors.New("restored loan balance exceeds original amount")

type PaymentService struct {
	store       repository.Store
	calendar    Calendar
	autoApprove map[string]bool
	auditSvc    *AuditService
}

func NewPaymentService(store repository.Store, calendar Calendar, autoApproveRoles []string, auditSvc *AuditService) *PaymentService {
	roles := make(map[string]bool, len(autoApproveRoles))
	for _, r := range autoApproveRoles {
		roles[r] = true
	}
	return &PaymentService{
		store:       store,
		calendar:    calendar,
		autoApprove: roles,
		auditSvc:    auditSvc,
	}
}

func (s *PaymentService) FindByID(ctx context.Context, id uint) (*models.Payment, error) {
	payment, err := s.store.Repos().Payment.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFound("payment", id)
		}
		return nil, fail("find payment", err)
	}
	return payment, nil
}

// List returns payments filtered by status, customer_id or order_id
func (s *PaymentService) List(ctx context.Context, query *repository.ListQuery) ([]models.Payment, int64, error) {
	payments, total, err := s.store.Repos().Payment.List(ctx, query)
	if err != nil {
		return nil, 0, fail("list payments", err)
	}
	return payments, total, nil
}

// LoansForCustomer returns the customer's loans, newest first
func (s *PaymentService) LoansForCustomer(ctx context.Context, customerID uint) ([]models.Loan, error) {
	repos := s.store.Repos()
	if _, err := repos.Customer.FindByID(ctx, customerID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFound("customer", customerID)
		}
		return nil, fail("loans for customer", err)
	}
	loans, err := repos.Loan.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, fail("loans for customer", err)
	}
	return loans, nil
}

// CanAutoApprove reports whether payments created by actor skip the confirmation step
func (s *PaymentService) CanAutoApprove(actor Actor) bool {
	return s.autoApprove[actor.Role]
}

// Create records a payment. An order-linked payment reduces the loan balance
// right away, before anyone confirms it: pending payments already count
// against the customer's available credit. Reject gives the amount back.
func (s *PaymentService) Create(ctx context.Context, actor Actor, input CreatePaymentInput) (*models.Payment, error) {
	if !input.AmountPaid.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if err := checkScale("amount paid", input.AmountPaid); err != nil {
		return nil, err
	}
	if input.PaymentMethod == "" {
		input.PaymentMethod = models.PaymentMethodCash
	}
	if !paymentMethods[input.PaymentMethod] {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, input.PaymentMethod)
	}

	var payment *models.Payment
	err := s.store.Transaction(ctx, func(tx *repository.Repositories) error {
		customer, err := tx.Customer.FindByID(ctx, input.CustomerID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return notFound("customer", input.CustomerID)
			}
			return err
		}

		if input.OrderID != nil {
			if err := s.applyToLoan(ctx, tx, *input.OrderID, input.AmountPaid); err != nil {
				return err
			}
		}

		payment = &models.Payment{
			CustomerID:    input.CustomerID,
			OrderID:       input.OrderID,
			CollectedByID: actor.ID,
			AmountPaid:    input.AmountPaid,
			PaymentMethod: input.PaymentMethod,
			Status:        models.PaymentStatusPending,
			CreatedAt:     s.calendar.now(),
		}

		autoApproved := s.CanAutoApprove(actor)
		if autoApproved {
			if err := statemachine.NewPaymentFSM(payment).Confirm(ctx); err != nil {
				return err
			}
			s.stampConfirmed(payment, actor.ID)
		}

		if err := tx.Payment.Create(ctx, payment); err != nil {
			return err
		}
		payment.Customer = customer

		if autoApproved {
			return s.postPayment(ctx, tx, payment, customer)
		}
		return nil
	})
	if err != nil {
		return nil, fail("create payment", err)
	}

	s.auditSvc.Record(actor.ID, models.AuditActionCreate, EntityPayment, payment.ID,
		fmt.Sprintf("%s %s, status %s", payment.AmountPaid.StringFixed(2), payment.PaymentMethod, payment.Status))
	return payment, nil
}

// applyToLoan takes amount off the order's open loan, closing it at zero
func (s *PaymentService) applyToLoan(ctx context.Context, tx *repository.Repositories, orderID uint, amount decimal.Decimal) error {
	if _, err := tx.Order.FindByIDForUpdate(ctx, orderID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return notFound("order", orderID)
		}
		return err
	}

	loan, err := tx.Loan.FindByOrderIDForUpdate(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: order %d", ErrLoanNotFound, orderID)
		}
		return err
	}
	if !loan.IsOpen() {
		return fmt.Errorf("%w: loan %d", ErrLoanClosed, loan.ID)
	}
	if amount.GreaterThan(loan.RemainingAmount) {
		return fmt.Errorf("%w: remaining %s, paid %s", ErrAmountExceedsBalance,
			loan.RemainingAmount.StringFixed(2), amount.StringFixed(2))
	}

	loan.SetRemaining(loan.RemainingAmount.Sub(amount))
	return tx.Loan.UpdateBalance(ctx, loan)
}

// Confirm flips a PENDING payment to CONFIRMED and posts its ledger entry.
// Confirming an already confirmed payment returns it unchanged.
func (s *PaymentService) Confirm(ctx context.Context, actorID, paymentID uint) (*models.Payment, error) {
	var payment *models.Payment
	changed := false
	err := s.store.Transaction(ctx, func(tx *repository.Repositories) error {
		var err error
		payment, err = s.lockPayment(ctx, tx, paymentID)
		if err != nil {
			return err
		}
		customer, err := tx.Customer.FindByID(ctx, payment.CustomerID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return notFound("customer", payment.CustomerID)
			}
			return err
		}
		payment.Customer = customer
		if payment.Status == models.PaymentStatusConfirmed {
			return nil
		}

		if err := statemachine.NewPaymentFSM(payment).Confirm(ctx); err != nil {
			return err
		}
		s.stampConfirmed(payment, actorID)
		if err := tx.Payment.UpdateStatus(ctx, payment); err != nil {
			return err
		}

		changed = true
		return s.postPayment(ctx, tx, payment, customer)
	})
	if err != nil {
		return nil, fail("confirm payment", err)
	}

	if changed {
		s.auditSvc.Record(actorID, models.AuditActionConfirm, EntityPayment, payment.ID, "")
	}
	return payment, nil
}

// Reject flips a PENDING payment to REJECTED and gives the amount back to
// the loan it was taken from. Nothing is posted to the ledger.
func (s *PaymentService) Reject(ctx context.Context, actorID, paymentID uint) (*models.Payment, error) {
	var payment *models.Payment
	err := s.store.Transaction(ctx, func(tx *repository.Repositories) error {
		var err error
		payment, err = s.lockPayment(ctx, tx, paymentID)
		if err != nil {
			return err
		}
		if err := statemachine.NewPaymentFSM(payment).Reject(ctx); err != nil {
			return err
		}
		now := s.calendar.now()
		payment.RejectedAt = &now
		if err := tx.Payment.UpdateStatus(ctx, payment); err != nil {
			return err
		}

		if payment.IsWalkIn() {
			return nil
		}
		loan, err := tx.Loan.FindByOrderIDForUpdate(ctx, *payment.OrderID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return fmt.Errorf("%w: order %d", ErrLoanNotFound, *payment.OrderID)
			}
			return err
		}
		restored := loan.RemainingAmount.Add(payment.AmountPaid)
		if restored.GreaterThan(loan.OriginalAmount) {
			return fmt.Errorf("%w: loan %d would reach %s of %s", errLoanOverflow, loan.ID,
				restored.StringFixed(2), loan.OriginalAmount.StringFixed(2))
		}
		loan.SetRemaining(restored)
		return tx.Loan.UpdateBalance(ctx, loan)
	})
	if err != nil {
		return nil, fail("reject payment", err)
	}

	s.auditSvc.Record(actorID, models.AuditActionReject, EntityPayment, payment.ID, "")
	return payment, nil
}

func (s *PaymentService) lockPayment(ctx context.Context, tx *repository.Repositories, paymentID uint) (*models.Payment, error) {
	payment, err := tx.Payment.FindByIDForUpdate(ctx, paymentID)
	if errors.Is(err, ErrNotFound) {
		return nil, notFound("payment", paymentID)
	}
	return payment, err
}

func (s *PaymentService) stampConfirmed(payment *models.Payment, actorID uint) {
	now := s.calendar.now()
	payment.ConfirmedAt = &now
	payment.ConfirmedByID = &actorID
}

// postPayment writes the single DEBIT entry for a confirmed payment. The
// origin check runs inside the caller's transaction, and the unique origin
// index backs it up under a race.
func (s *PaymentService) postPayment(ctx context.Context, tx *repository.Repositories, payment *models.Payment, customer *models.Customer) error {
	category := payment.LedgerCategory()
	_, err := tx.Ledger.FindByOrigin(ctx, category, payment.ID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}

	description := fmt.Sprintf("Walk-in payment from %s", customer.Name)
	if !payment.IsWalkIn() {
		description = fmt.Sprintf("Payment from %s for Order #%d", customer.Name, *payment.OrderID)
	}

	entry := &models.LedgerEntry{
		EntryDate:   models.Day(*payment.ConfirmedAt, s.calendar.Location),
		Type:        models.LedgerTypeDebit,
		Category:    category,
		ReferenceID: payment.ID,
		Amount:      payment.AmountPaid,
		Description: description,
	}
	_, err = postSystemEntry(ctx, tx, entry)
	return err
}
