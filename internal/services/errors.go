package services

import (
	"errors"
	"fmt"

	"github.com/sjperalta/ventas-api/internal/models"
	"github.com/sjperalta/ventas-api/internal/repository"
	"github.com/sjperalta/ventas-api/internal/statemachine"
	"github.com/sjperalta/ventas-api/pkg/logger"

	"github.com/shopspring/decimal"
)

// Kind classifies an error for the caller
type Kind string

// Error kinds
const (
	KindNotFound   Kind = "not_found"
	KindBadRequest Kind = "bad_request"
	KindConflict   Kind = "conflict"
	KindInternal   Kind = "internal"
)

// Common service errors
var (
	ErrNotFound              = repository.ErrNotFound
	ErrDuplicate             = repository.ErrDuplicate
	ErrRetryableConflict     = repository.ErrSerialization
	ErrInvalidState          = statemachine.ErrInvalidTransition
	ErrInvalidInput          = errors.New("invalid input")
	ErrEmptyOrder            = errors.New("order must have at least one item")
	ErrInvalidQuantity       = errors.New("quantity must be at least 1")
	ErrInvalidPrice          = errors.New("unit price must not be negative")
	ErrInactiveProduct       = errors.New("product is not active")
	ErrInsufficientInventory = errors.New("insufficient inventory")
	ErrInvalidAmount         = errors.New("amount must be greater than zero")
	ErrAmountPrecision       = errors.New("amounts carry at most 2 decimal places")
	ErrLoanNotFound          = errors.New("loan not found for order")
	ErrLoanClosed            = errors.New("loan already closed")
	ErrAmountExceedsBalance  = errors.New("payment exceeds remaining loan amount")
	ErrProtectedEntry        = errors.New("system-generated ledger entries cannot be changed")
	ErrInvalidDateRange      = errors.New("from date is after to date")
)

var badRequestErrors = []error{
	ErrInvalidState,
	ErrInvalidInput,
	ErrEmptyOrder,
	ErrInvalidQuantity,
	ErrInvalidPrice,
	ErrInactiveProduct,
	ErrInsufficientInventory,
	repository.ErrInsufficientStock,
	ErrInvalidAmount,
	ErrAmountPrecision,
	ErrLoanNotFound,
	ErrLoanClosed,
	ErrAmountExceedsBalance,
	ErrProtectedEntry,
	ErrInvalidDateRange,
}

// KindOf classifies err. Anything unrecognized is Internal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrRetryableConflict):
		return KindConflict
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return KindBadRequest
		}
	}
	return KindInternal
}

// IsRetryable reports whether the caller may retry the operation as-is
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRetryableConflict)
}

// checkScale rejects amounts the decimal(15,2) columns would round
func checkScale(field string, amounts ...decimal.Decimal) error {
	for _, a := range amounts {
		if !models.FitsMoneyScale(a) {
			return fmt.Errorf("%w: %s %s", ErrAmountPrecision, field, a.String())
		}
	}
	return nil
}

// notFound tags a missing collaborator record with what was looked up
func notFound(entity string, id uint) error {
	return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
}

// fail wraps err with the operation name and logs it when it is unexpected.
// Business errors are returned to the caller without logging.
func fail(op string, err error) error {
	if err == nil {
		return nil
	}
	if KindOf(err) == KindInternal {
		logger.Error("operation failed", "op", op, "error", err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
