package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Storage-level errors. Services classify these into caller-facing kinds.
var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicate         = errors.New("duplicate record")
	ErrSerialization     = errors.New("concurrent update conflict, retry the operation")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Postgres SQLSTATE codes the engine cares about
const (
	pgUniqueViolation      = "23505"
	pgCheckViolation       = "23514"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
)

const inventoryQuantityCheck = "chk_inventories_quantity"

// translate maps gorm and Postgres errors onto the package sentinels. Other
// errors pass through untouched.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
		case pgCheckViolation:
			if pgErr.ConstraintName == inventoryQuantityCheck {
				return ErrInsufficientStock
			}
		case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
			return fmt.Errorf("%w (%s)", ErrSerialization, pgErr.Code)
		}
	}
	return err
}
