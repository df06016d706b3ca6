package memory

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/sjperalta/ventas-api/internal/models"
	"github.com/sjperalta/ventas-api/internal/repository"

	"github.com/shopspring/decimal"
)

func matches(filter string, id uint) bool {
	return filter == "" || filter == strconv.FormatUint(uint64(id), 10)
}

func matchesPtr(filter string, id *uint) bool {
	if filter == "" {
		return true
	}
	return id != nil && matches(filter, *id)
}

// customers

type customerRepo struct{ run runner }

func (r *customerRepo) FindByID(_ context.Context, id uint) (*models.Customer, error) {
	var out *models.Customer
	err := r.run(func(s *state) error {
		c, ok := s.customers[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &c
		return nil
	})
	return out, err
}

func (r *customerRepo) FindByIDs(_ context.Context, ids []uint) ([]models.Customer, error) {
	var out []models.Customer
	err := r.run(func(s *state) error {
		for _, id := range ids {
			if c, ok := s.customers[id]; ok {
				out = append(out, c)
			}
		}
		return nil
	})
	return out, err
}

// products

type productRepo struct{ run runner }

func (r *productRepo) FindByIDs(_ context.Context, ids []uint) ([]models.Product, error) {
	var out []models.Product
	err := r.run(func(s *state) error {
		for _, id := range ids {
			if p, ok := s.products[id]; ok {
				out = append(out, p)
			}
		}
		return nil
	})
	return out, err
}

// employees

type employeeRepo struct{ run runner }

func (r *employeeRepo) FindByID(_ context.Context, id uint) (*models.Employee, error) {
	var out *models.Employee
	err := r.run(func(s *state) error {
		e, ok := s.employees[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &e
		return nil
	})
	return out, err
}

// orders

type orderRepo struct {
	run runner
	now func() time.Time
}

func (r *orderRepo) Create(_ context.Context, order *models.Order) error {
	return r.run(func(s *state) error {
		now := r.now()
		order.ID = s.next("orders")
		if order.CreatedAt.IsZero() {
			order.CreatedAt = now
		}
		order.UpdatedAt = now
		for i := range order.Items {
			order.Items[i].ID = s.next("order_items")
			order.Items[i].OrderID = order.ID
			order.Items[i].CreatedAt = now
		}
		stored := *order
		stored.Items = append([]models.OrderItem(nil), order.Items...)
		stored.Customer = nil
		stored.Loan = nil
		s.orders[order.ID] = stored
		return nil
	})
}

func (s *state) loadOrder(id uint, withAssociations bool) (*models.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	o.Items = append([]models.OrderItem(nil), o.Items...)
	if withAssociations {
		if c, ok := s.customers[o.CustomerID]; ok {
			o.Customer = &c
		}
		for _, l := range s.loans {
			if l.OrderID == o.ID {
				loan := l
				o.Loan = &loan
				break
			}
		}
	}
	return &o, nil
}

func (r *orderRepo) FindByID(_ context.Context, id uint) (*models.Order, error) {
	var out *models.Order
	err := r.run(func(s *state) (err error) {
		out, err = s.loadOrder(id, true)
		return err
	})
	return out, err
}

func (r *orderRepo) FindByIDForUpdate(_ context.Context, id uint) (*models.Order, error) {
	var out *models.Order
	err := r.run(func(s *state) (err error) {
		out, err = s.loadOrder(id, false)
		return err
	})
	return out, err
}

func (r *orderRepo) UpdateStatus(_ context.Context, id uint, status string) error {
	return r.run(func(s *state) error {
		o, ok := s.orders[id]
		if !ok {
			return repository.ErrNotFound
		}
		o.Status = status
		o.UpdatedAt = r.now()
		s.orders[id] = o
		return nil
	})
}

func (r *orderRepo) List(_ context.Context, q *repository.ListQuery) ([]models.Order, int64, error) {
	var out []models.Order
	var total int64
	err := r.run(func(s *state) error {
		var all []models.Order
		for id, o := range s.orders {
			if f := q.Filter("status"); f != "" && o.Status != f {
				continue
			}
			if !matches(q.Filter("customer_id"), o.CustomerID) || !matches(q.Filter("salesperson_id"), o.SalespersonID) {
				continue
			}
			loaded, _ := s.loadOrder(id, true)
			all = append(all, *loaded)
		}
		newestFirst(all, func(o models.Order) time.Time { return o.CreatedAt }, func(o models.Order) uint { return o.ID })
		total = int64(len(all))
		out = paginate(all, q)
		return nil
	})
	return out, total, err
}

func (r *orderRepo) Stats(_ context.Context, dayStart, dayEnd time.Time) (*models.OrderStats, error) {
	stats := &models.OrderStats{DeliveredTotal: decimal.Zero}
	err := r.run(func(s *state) error {
		for _, o := range s.orders {
			switch o.Status {
			case models.OrderStatusDelivered:
				stats.DeliveredTotal = stats.DeliveredTotal.Add(o.TotalAmount)
			case models.OrderStatusPendingAdmin:
				stats.PendingOrders++
			}
			if !o.CreatedAt.Before(dayStart) && o.CreatedAt.Before(dayEnd) {
				stats.OrdersToday++
			}
		}
		return nil
	})
	return stats, err
}

// inventory

type inventoryRepo struct {
	run runner
	now func() time.Time
}

func (r *inventoryRepo) FindByProductID(_ context.Context, productID uint) (*models.Inventory, error) {
	var out *models.Inventory
	err := r.run(func(s *state) error {
		inv, ok := s.inventory[productID]
		if !ok {
			return repository.ErrNotFound
		}
		out = &inv
		return nil
	})
	return out, err
}

func (r *inventoryRepo) FindByProductIDsForUpdate(_ context.Context, productIDs []uint) ([]models.Inventory, error) {
	var out []models.Inventory
	err := r.run(func(s *state) error {
		for _, id := range productIDs {
			if inv, ok := s.inventory[id]; ok {
				out = append(out, inv)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
		return nil
	})
	return out, err
}

func (r *inventoryRepo) Decrement(_ context.Context, productID uint, qty int) error {
	return r.run(func(s *state) error {
		inv, ok := s.inventory[productID]
		if !ok || !inv.Covers(qty) {
			return repository.ErrInsufficientStock
		}
		inv.Quantity -= qty
		inv.UpdatedAt = r.now()
		s.inventory[productID] = inv
		return nil
	})
}

func (r *inventoryRepo) SetQuantity(_ context.Context, productID uint, qty int) error {
	return r.run(func(s *state) error {
		inv, ok := s.inventory[productID]
		if !ok {
			return repository.ErrNotFound
		}
		if qty < 0 {
			return repository.ErrInsufficientStock
		}
		inv.Quantity = qty
		inv.UpdatedAt = r.now()
		s.inventory[productID] = inv
		return nil
	})
}

func (r *inventoryRepo) LowStock(_ context.Context, below, limit int) ([]models.LowStockProduct, error) {
	var out []models.LowStockProduct
	err := r.run(func(s *state) error {
		for _, p := range s.products {
			inv, ok := s.inventory[p.ID]
			if !p.IsActive || !ok || inv.Quantity >= below {
				continue
			}
			out = append(out, models.LowStockProduct{ID: p.ID, Name: p.Name, Stock: inv.Quantity})
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].Name != out[j].Name {
				return out[i].Name < out[j].Name
			}
			return out[i].ID < out[j].ID
		})
		if len(out) > limit {
			out = out[:limit]
		}
		return nil
	})
	return out, err
}

// loans

type loanRepo struct {
	run runner
	now func() time.Time
}

func (r *loanRepo) Create(_ context.Context, loan *models.Loan) error {
	return r.run(func(s *state) error {
		for _, l := range s.loans {
			if l.OrderID == loan.OrderID {
				return fmt.Errorf("%w: loans.order_id", repository.ErrDuplicate)
			}
		}
		now := r.now()
		loan.ID = s.next("loans")
		loan.CreatedAt = now
		loan.UpdatedAt = now
		s.loans[loan.ID] = *loan
		return nil
	})
}

func (s *state) loanByOrder(orderID uint) (*models.Loan, error) {
	for _, l := range s.loans {
		if l.OrderID == orderID {
			loan := l
			return &loan, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *loanRepo) FindByOrderID(_ context.Context, orderID uint) (*models.Loan, error) {
	var out *models.Loan
	err := r.run(func(s *state) (err error) {
		out, err = s.loanByOrder(orderID)
		return err
	})
	return out, err
}

func (r *loanRepo) FindByOrderIDForUpdate(ctx context.Context, orderID uint) (*models.Loan, error) {
	return r.FindByOrderID(ctx, orderID)
}

func (r *loanRepo) UpdateBalance(_ context.Context, loan *models.Loan) error {
	return r.run(func(s *state) error {
		stored, ok := s.loans[loan.ID]
		if !ok {
			return repository.ErrNotFound
		}
		stored.RemainingAmount = loan.RemainingAmount
		stored.Status = loan.Status
		stored.UpdatedAt = r.now()
		s.loans[loan.ID] = stored
		return nil
	})
}

func (r *loanRepo) FindByCustomer(_ context.Context, customerID uint) ([]models.Loan, error) {
	var out []models.Loan
	err := r.run(func(s *state) error {
		for _, l := range s.loans {
			if l.CustomerID == customerID {
				out = append(out, l)
			}
		}
		newestFirst(out, func(l models.Loan) time.Time { return l.CreatedAt }, func(l models.Loan) uint { return l.ID })
		return nil
	})
	return out, err
}

// payments

type paymentRepo struct {
	run runner
	now func() time.Time
}

func (s *state) withCustomer(p models.Payment) models.Payment {
	if c, ok := s.customers[p.CustomerID]; ok {
		p.Customer = &c
	}
	return p
}

func (r *paymentRepo) Create(_ context.Context, payment *models.Payment) error {
	return r.run(func(s *state) error {
		now := r.now()
		payment.ID = s.next("payments")
		if payment.CreatedAt.IsZero() {
			payment.CreatedAt = now
		}
		payment.UpdatedAt = now
		stored := *payment
		stored.Customer = nil
		s.payments[payment.ID] = stored
		return nil
	})
}

func (r *paymentRepo) FindByID(_ context.Context, id uint) (*models.Payment, error) {
	var out *models.Payment
	err := r.run(func(s *state) error {
		p, ok := s.payments[id]
		if !ok {
			return repository.ErrNotFound
		}
		p = s.withCustomer(p)
		out = &p
		return nil
	})
	return out, err
}

func (r *paymentRepo) FindByIDForUpdate(_ context.Context, id uint) (*models.Payment, error) {
	var out *models.Payment
	err := r.run(func(s *state) error {
		p, ok := s.payments[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &p
		return nil
	})
	return out, err
}

func (r *paymentRepo) FindByIDs(_ context.Context, ids []uint) ([]models.Payment, error) {
	var out []models.Payment
	err := r.run(func(s *state) error {
		for _, id := range ids {
			if p, ok := s.payments[id]; ok {
				out = append(out, s.withCustomer(p))
			}
		}
		return nil
	})
	return out, err
}

func (r *paymentRepo) UpdateStatus(_ context.Context, payment *models.Payment) error {
	return r.run(func(s *state) error {
		stored, ok := s.payments[payment.ID]
		if !ok {
			return repository.ErrNotFound
		}
		stored.Status = payment.Status
		stored.ConfirmedAt = payment.ConfirmedAt
		stored.ConfirmedByID = payment.ConfirmedByID
		stored.RejectedAt = payment.RejectedAt
		stored.UpdatedAt = r.now()
		s.payments[payment.ID] = stored
		return nil
	})
}

func (r *paymentRepo) List(_ context.Context, q *repository.ListQuery) ([]models.Payment, int64, error) {
	var out []models.Payment
	var total int64
	err := r.run(func(s *state) error {
		var all []models.Payment
		for _, p := range s.payments {
			if f := q.Filter("status"); f != "" && p.Status != f {
				continue
			}
			if !matches(q.Filter("customer_id"), p.CustomerID) || !matchesPtr(q.Filter("order_id"), p.OrderID) {
				continue
			}
			all = append(all, s.withCustomer(p))
		}
		newestFirst(all, func(p models.Payment) time.Time { return p.CreatedAt }, func(p models.Payment) uint { return p.ID })
		total = int64(len(all))
		out = paginate(all, q)
		return nil
	})
	return out, total, err
}

// ledger

type ledgerRepo struct {
	run runner
	now func() time.Time
}

func (s *state) originTaken(e *models.LedgerEntry) bool {
	if e.ReferenceID == 0 {
		return false
	}
	for id, other := range s.ledger {
		if id != e.ID && other.Category == e.Category && other.ReferenceID == e.ReferenceID {
			return true
		}
	}
	return false
}

func (r *ledgerRepo) Create(_ context.Context, entry *models.LedgerEntry) error {
	return r.run(func(s *state) error {
		if s.originTaken(entry) {
			return fmt.Errorf("%w: idx_ledger_entries_origin", repository.ErrDuplicate)
		}
		now := r.now()
		entry.ID = s.next("ledger_entries")
		entry.CreatedAt = now
		entry.UpdatedAt = now
		s.ledger[entry.ID] = *entry
		return nil
	})
}

func (r *ledgerRepo) FindByID(_ context.Context, id uint) (*models.LedgerEntry, error) {
	var out *models.LedgerEntry
	err := r.run(func(s *state) error {
		e, ok := s.ledger[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &e
		return nil
	})
	return out, err
}

func (r *ledgerRepo) FindByOrigin(_ context.Context, category string, referenceID uint) (*models.LedgerEntry, error) {
	var out *models.LedgerEntry
	err := r.run(func(s *state) error {
		for _, e := range s.ledger {
			if e.Category == category && e.ReferenceID == referenceID {
				entry := e
				out = &entry
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r *ledgerRepo) Update(_ context.Context, entry *models.LedgerEntry) error {
	return r.run(func(s *state) error {
		stored, ok := s.ledger[entry.ID]
		if !ok {
			return repository.ErrNotFound
		}
		if s.originTaken(entry) {
			return fmt.Errorf("%w: idx_ledger_entries_origin", repository.ErrDuplicate)
		}
		stored.EntryDate = entry.EntryDate
		stored.Type = entry.Type
		stored.Category = entry.Category
		stored.Amount = entry.Amount
		stored.Description = entry.Description
		stored.SubCategory = entry.SubCategory
		stored.UpdatedAt = r.now()
		s.ledger[entry.ID] = stored
		return nil
	})
}

func (r *ledgerRepo) Delete(_ context.Context, id uint) error {
	return r.run(func(s *state) error {
		if _, ok := s.ledger[id]; !ok {
			return repository.ErrNotFound
		}
		delete(s.ledger, id)
		return nil
	})
}

func (r *ledgerRepo) List(_ context.Context, dates repository.DateRange) ([]models.LedgerEntry, error) {
	var out []models.LedgerEntry
	err := r.run(func(s *state) error {
		for _, e := range s.ledger {
			if dates.Contains(e.EntryDate) {
				out = append(out, e)
			}
		}
		sort.Slice(out, func(i, j int) bool {
			if !out[i].EntryDate.Equal(out[j].EntryDate) {
				return out[i].EntryDate.Before(out[j].EntryDate)
			}
			return out[i].ID < out[j].ID
		})
		return nil
	})
	return out, err
}

func (r *ledgerRepo) SumByDate(_ context.Context, date time.Time) (decimal.Decimal, decimal.Decimal, error) {
	debit, credit := decimal.Zero, decimal.Zero
	err := r.run(func(s *state) error {
		for _, e := range s.ledger {
			if !e.EntryDate.Equal(date) {
				continue
			}
			switch e.Type {
			case models.LedgerTypeDebit:
				debit = debit.Add(e.Amount)
			case models.LedgerTypeCredit:
				credit = credit.Add(e.Amount)
			}
		}
		return nil
	})
	return debit, credit, err
}

// daily balances

type dailyBalanceRepo struct {
	run runner
	now func() time.Time
}

func (r *dailyBalanceRepo) FindByDate(_ context.Context, date time.Time) (*models.DailyBalance, error) {
	var out *models.DailyBalance
	err := r.run(func(s *state) error {
		b, ok := s.balances[dayKey(date)]
		if !ok {
			return repository.ErrNotFound
		}
		out = &b
		return nil
	})
	return out, err
}

func (r *dailyBalanceRepo) FindLatestBefore(_ context.Context, date time.Time) (*models.DailyBalance, error) {
	var out *models.DailyBalance
	err := r.run(func(s *state) error {
		for _, b := range s.balances {
			if !b.Date.Before(date) {
				continue
			}
			if out == nil || b.Date.After(out.Date) {
				latest := b
				out = &latest
			}
		}
		if out == nil {
			return repository.ErrNotFound
		}
		return nil
	})
	return out, err
}

func (r *dailyBalanceRepo) Upsert(_ context.Context, balance *models.DailyBalance) error {
	return r.run(func(s *state) error {
		now := r.now()
		key := dayKey(balance.Date)
		if existing, ok := s.balances[key]; ok {
			balance.ID = existing.ID
			balance.CreatedAt = existing.CreatedAt
		} else {
			balance.ID = s.next("daily_balances")
			balance.CreatedAt = now
		}
		balance.UpdatedAt = now
		s.balances[key] = *balance
		return nil
	})
}

func (r *dailyBalanceRepo) List(_ context.Context, dates repository.DateRange) ([]models.DailyBalance, error) {
	var out []models.DailyBalance
	err := r.run(func(s *state) error {
		for _, b := range s.balances {
			if dates.Contains(b.Date) {
				out = append(out, b)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
		return nil
	})
	return out, err
}

// expenses and salaries

type expenseRepo struct {
	run runner
	now func() time.Time
}

func (r *expenseRepo) Create(_ context.Context, expense *models.Expense) error {
	return r.run(func(s *state) error {
		now := r.now()
		expense.ID = s.next("expenses")
		if expense.CreatedAt.IsZero() {
			expense.CreatedAt = now
		}
		expense.UpdatedAt = now
		s.expenses[expense.ID] = *expense
		return nil
	})
}

func (r *expenseRepo) FindByIDs(_ context.Context, ids []uint) ([]models.Expense, error) {
	var out []models.Expense
	err := r.run(func(s *state) error {
		for _, id := range ids {
			if e, ok := s.expenses[id]; ok {
				out = append(out, e)
			}
		}
		return nil
	})
	return out, err
}

func (r *expenseRepo) List(_ context.Context, q *repository.ListQuery) ([]models.Expense, int64, error) {
	var out []models.Expense
	var total int64
	err := r.run(func(s *state) error {
		var all []models.Expense
		for _, e := range s.expenses {
			if f := q.Filter("category"); f != "" && e.Category != f {
				continue
			}
			all = append(all, e)
		}
		newestFirst(all, func(e models.Expense) time.Time { return e.CreatedAt }, func(e models.Expense) uint { return e.ID })
		total = int64(len(all))
		out = paginate(all, q)
		return nil
	})
	return out, total, err
}

type salaryRepo struct {
	run runner
	now func() time.Time
}

func (s *state) withEmployee(rec models.SalaryRecord) models.SalaryRecord {
	if e, ok := s.employees[rec.EmployeeID]; ok {
		rec.Employee = &e
	}
	return rec
}

func (r *salaryRepo) Create(_ context.Context, record *models.SalaryRecord) error {
	return r.run(func(s *state) error {
		now := r.now()
		record.ID = s.next("salary_records")
		if record.CreatedAt.IsZero() {
			record.CreatedAt = now
		}
		record.UpdatedAt = now
		stored := *record
		stored.Employee = nil
		s.salaries[record.ID] = stored
		return nil
	})
}

func (r *salaryRepo) FindByIDs(_ context.Context, ids []uint) ([]models.SalaryRecord, error) {
	var out []models.SalaryRecord
	err := r.run(func(s *state) error {
		for _, id := range ids {
			if rec, ok := s.salaries[id]; ok {
				out = append(out, s.withEmployee(rec))
			}
		}
		return nil
	})
	return out, err
}

func (r *salaryRepo) List(_ context.Context, q *repository.ListQuery) ([]models.SalaryRecord, int64, error) {
	var out []models.SalaryRecord
	var total int64
	err := r.run(func(s *state) error {
		var all []models.SalaryRecord
		for _, rec := range s.salaries {
			if !matches(q.Filter("employee_id"), rec.EmployeeID) {
				continue
			}
			all = append(all, s.withEmployee(rec))
		}
		newestFirst(all, func(r models.SalaryRecord) time.Time { return r.CreatedAt }, func(r models.SalaryRecord) uint { return r.ID })
		total = int64(len(all))
		out = paginate(all, q)
		return nil
	})
	return out, total, err
}

// audit

type auditRepo struct {
	run runner
	now func() time.Time
}

func (r *auditRepo) Create(_ context.Context, log *models.AuditLog) error {
	return r.run(func(s *state) error {
		log.ID = s.next("audit_logs")
		if log.CreatedAt.IsZero() {
			log.CreatedAt = r.now()
		}
		s.audits[log.ID] = *log
		return nil
	})
}

func (r *auditRepo) List(_ context.Context, q *repository.ListQuery) ([]models.AuditLog, int64, error) {
	var out []models.AuditLog
	var total int64
	err := r.run(func(s *state) error {
		var all []models.AuditLog
		for _, a := range s.audits {
			if f := q.Filter("entity"); f != "" && a.Entity != f {
				continue
			}
			if !matches(q.Filter("entity_id"), a.EntityID) {
				continue
			}
			all = append(all, a)
		}
		newestFirst(all, func(a models.AuditLog) time.Time { return a.CreatedAt }, func(a models.AuditLog) uint { return a.ID })
		total = int64(len(all))
		out = paginate(all, q)
		return nil
	})
	return out, total, err
}
