// Package memory is an in-process implementation of repository.Store. It is
// used by tests and by STORAGE_DRIVER=memory for local runs.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sjperalta/ventas-api/internal/models"
	"github.com/sjperalta/ventas-api/internal/repository"
)

type state struct {
	seq map[string]uint

	customers map[uint]models.Customer
	products  map[uint]models.Product
	employees map[uint]models.Employee
	orders    map[uint]models.Order
	inventory map[uint]models.Inventory // keyed by product id
	loans     map[uint]models.Loan
	payments  map[uint]models.Payment
	ledger    map[uint]models.LedgerEntry
	balances  map[string]models.DailyBalance // keyed by YYYY-MM-DD
	expenses  map[uint]models.Expense
	salaries  map[uint]models.SalaryRecord
	audits    map[uint]models.AuditLog
}

func newState() *state {
	return &state{
		seq:       make(map[string]uint),
		customers: make(map[uint]models.Customer),
		products:  make(map[uint]models.Product),
		employees: make(map[uint]models.Employee),
		orders:    make(map[uint]models.Order),
		inventory: make(map[uint]models.Inventory),
		loans:     make(map[uint]models.Loan),
		payments:  make(map[uint]models.Payment),
		ledger:    make(map[uint]models.LedgerEntry),
		balances:  make(map[string]models.DailyBalance),
		expenses:  make(map[uint]models.Expense),
		salaries:  make(map[uint]models.SalaryRecord),
		audits:    make(map[uint]models.AuditLog),
	}
}

func (s *state) next(table string) uint {
	s.seq[table]++
	return s.seq[table]
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (s *state) clone() *state {
	orders := make(map[uint]models.Order, len(s.orders))
	for id, o := range s.orders {
		o.Items = append([]models.OrderItem(nil), o.Items...)
		orders[id] = o
	}
	return &state{
		seq:       cloneMap(s.seq),
		customers: cloneMap(s.customers),
		products:  cloneMap(s.products),
		employees: cloneMap(s.employees),
		orders:    orders,
		inventory: cloneMap(s.inventory),
		loans:     cloneMap(s.loans),
		payments:  cloneMap(s.payments),
		ledger:    cloneMap(s.ledger),
		balances:  cloneMap(s.balances),
		expenses:  cloneMap(s.expenses),
		salaries:  cloneMap(s.salaries),
		audits:    cloneMap(s.audits),
	}
}

// Store keeps every table in maps behind one mutex. Transactions hold the
// mutex for their whole duration, so they are fully serialized, and restore
// a snapshot when fn fails.
type Store struct {
	mu    sync.Mutex
	data  *state
	now   func() time.Time
	repos *repository.Repositories
}

// New creates an empty store
func New() *Store {
	s := &Store{data: newState(), now: time.Now}
	s.repos = s.bind(func(fn func(*state) error) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		return fn(s.data)
	})
	return s
}

// SetClock overrides the timestamp source used for CreatedAt and UpdatedAt
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) Repos() *repository.Repositories {
	return s.repos
}

func (s *Store) Transaction(ctx context.Context, fn func(tx *repository.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	snapshot := s.data.clone()
	tx := s.bind(func(op func(*state) error) error {
		return op(s.data)
	})
	if err := fn(tx); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

func (s *Store) Close() error {
	return nil
}

// runner executes op against the current state with the store lock held
type runner func(op func(*state) error) error

func (s *Store) bind(run runner) *repository.Repositories {
	return &repository.Repositories{
		Customer:     &customerRepo{run: run},
		Product:      &productRepo{run: run},
		Employee:     &employeeRepo{run: run},
		Order:        &orderRepo{run: run, now: s.clock},
		Inventory:    &inventoryRepo{run: run, now: s.clock},
		Loan:         &loanRepo{run: run, now: s.clock},
		Payment:      &paymentRepo{run: run, now: s.clock},
		Ledger:       &ledgerRepo{run: run, now: s.clock},
		DailyBalance: &dailyBalanceRepo{run: run, now: s.clock},
		Expense:      &expenseRepo{run: run, now: s.clock},
		Salary:       &salaryRepo{run: run, now: s.clock},
		Audit:        &auditRepo{run: run, now: s.clock},
	}
}

// clock is only called with the store lock held
func (s *Store) clock() time.Time {
	return s.now()
}

// PutCustomer seeds a customer, assigning an id when zero
func (s *Store) PutCustomer(c models.Customer) models.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = s.data.next("customers")
	} else if c.ID > s.data.seq["customers"] {
		s.data.seq["customers"] = c.ID
	}
	s.data.customers[c.ID] = c
	return c
}

// PutProduct seeds a product, assigning an id when zero
func (s *Store) PutProduct(p models.Product) models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.data.next("products")
	} else if p.ID > s.data.seq["products"] {
		s.data.seq["products"] = p.ID
	}
	p.Inventory = nil
	s.data.products[p.ID] = p
	return p
}

// PutEmployee seeds an employee, assigning an id when zero
func (s *Store) PutEmployee(e models.Employee) models.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == 0 {
		e.ID = s.data.next("employees")
	} else if e.ID > s.data.seq["employees"] {
		s.data.seq["employees"] = e.ID
	}
	s.data.employees[e.ID] = e
	return e
}

// PutInventory sets the stock row of a product
func (s *Store) PutInventory(productID uint, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.data.inventory[productID]
	if !ok {
		inv = models.Inventory{ID: s.data.next("inventories"), ProductID: productID}
	}
	inv.Quantity = qty
	inv.UpdatedAt = s.now()
	s.data.inventory[productID] = inv
}

// paginate slices items for the requested page
func paginate[T any](items []T, q *repository.ListQuery) []T {
	if q == nil {
		return items
	}
	start := q.Offset()
	if start > len(items) {
		start = len(items)
	}
	end := len(items)
	if q.PerPage > 0 && start+q.PerPage < end {
		end = start + q.PerPage
	}
	return items[start:end]
}

// newestFirst sorts by created time then id, both descending
func newestFirst[T any](items []T, created func(T) time.Time, id func(T) uint) {
	sort.Slice(items, func(i, j int) bool {
		ci, cj := created(items[i]), created(items[j])
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return id(items[i]) > id(items[j])
	})
}

func dayKey(t time.Time) string {
	return t.Format(models.DateLayout)
}
