package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories holds all repository instances bound to one connection or transaction
type Repositories struct {
	Customer     CustomerRepository
	Product      ProductRepository
	Employee     EmployeeRepository
	Order        OrderRepository
	Inventory    InventoryRepository
	Loan         LoanRepository
	Payment      PaymentRepository
	Ledger       LedgerRepository
	DailyBalance DailyBalanceRepository
	Expense      ExpenseRepository
	Salary       SalaryRepository
	Audit        AuditRepository
}

// Store is the persistence handle the services receive. Transaction runs fn
// against repositories bound to a single database transaction: if fn returns
// an error nothing it wrote is kept.
type Store interface {
	Repos() *Repositories
	Transaction(ctx context.Context, fn func(tx *Repositories) error) error
	Close() error
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Customer:     NewCustomerRepository(db),
		Product:      NewProductRepository(db),
		Employee:     NewEmployeeRepository(db),
		Order:        NewOrderRepository(db),
		Inventory:    NewInventoryRepository(db),
		Loan:         NewLoanRepository(db),
		Payment:      NewPaymentRepository(db),
		Ledger:       NewLedgerRepository(db),
		DailyBalance: NewDailyBalanceRepository(db),
		Expense:      NewExpenseRepository(db),
		Salary:       NewSalaryRepository(db),
		Audit:        NewAuditRepository(db),
	}
}

type gormStore struct {
	db    *gorm.DB
	repos *Repositories
}

// NewStore wraps a gorm connection as a Store
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db, repos: NewRepositories(db)}
}

func (s *gormStore) Repos() *Repositories {
	return s.repos
}

func (s *gormStore) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
	return translate(err)
}

func (s *gormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
