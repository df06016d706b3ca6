package services

import (
	"github.com/sjperalta/ventas-api/internal/jobs"
	"github.com/sjperalta/ventas-api/internal/repository"
)

// Actor is the already-authenticated caller of an operation
type Actor struct {
	ID   uint
	Role string
}

// Options carries the business settings the services need
type Options struct {
	Calendar         Calendar
	AutoApproveRoles []string
}

// Services holds all service instances
type Services struct {
	Calendar     Calendar
	Order        *OrderService
	Payment      *PaymentService
	Ledger       *LedgerService
	DailyBalance *DailyBalanceService
	Expense      *ExpenseService
	Salary       *SalaryService
	Inventory    *InventoryService
	Audit        *AuditService
	Dashboard    *DashboardService
}

// NewServices creates all service instances. worker may be nil, in which
// case audit records are written synchronously.
func NewServices(store repository.Store, worker *jobs.Worker, opts Options) *Services {
	if opts.Calendar.Location == nil {
		opts.Calendar = NewCalendar(nil)
	}
	auditSvc := NewAuditService(store.Repos().Audit, worker)
	ledgerSvc := NewLedgerService(store, opts.Calendar, auditSvc)

	return &Services{
		Calendar:     opts.Calendar,
		Order:        NewOrderService(store, opts.Calendar, auditSvc),
		Payment:      NewPaymentService(store, opts.Calendar, opts.AutoApproveRoles, auditSvc),
		Ledger:       ledgerSvc,
		DailyBalance: NewDailyBalanceService(store, opts.Calendar, auditSvc),
		Expense:      NewExpenseService(store, opts.Calendar, auditSvc),
		Salary:       NewSalaryService(store, opts.Calendar, auditSvc),
		Inventory:    NewInventoryService(store, auditSvc),
		Audit:        auditSvc,
		Dashboard:    NewDashboardService(store, opts.Calendar),
	}
}
