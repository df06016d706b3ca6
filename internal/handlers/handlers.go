package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sjperalta/ventas-api/internal/jobs"
	"github.com/sjperalta/ventas-api/internal/middleware"
	"github.com/sjperalta/ventas-api/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health       *HealthHandler
	Order        *OrderHandler
	Payment      *PaymentHandler
	Ledger       *LedgerHandler
	DailyBalance *DailyBalanceHandler
	Expense      *ExpenseHandler
	Salary       *SalaryHandler
	Inventory    *InventoryHandler
	Audit        *AuditHandler
	Dashboard    *DashboardHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services, worker *jobs.Worker) *Handlers {
	return &Handlers{
		Health:       NewHealthHandler(worker),
		Order:        NewOrderHandler(svcs.Order),
		Payment:      NewPaymentHandler(svcs.Payment),
		Ledger:       NewLedgerHandler(svcs.Ledger, svcs.Calendar.Location),
		DailyBalance: NewDailyBalanceHandler(svcs.DailyBalance, svcs.Calendar.Location),
		Expense:      NewExpenseHandler(svcs.Expense),
		Salary:       NewSalaryHandler(svcs.Salary),
		Inventory:    NewInventoryHandler(svcs.Inventory),
		Audit:        NewAuditHandler(svcs.Audit),
		Dashboard:    NewDashboardHandler(svcs.Dashboard),
	}
}

// Register mounts every route on v1. Everything except health requires the
// gateway actor headers; approvals and the books are admin-only.
func (h *Handlers) Register(v1 *gin.RouterGroup) {
	v1.GET("/health", h.Health.Index)

	protected := v1.Group("")
	protected.Use(middleware.Actor())
	admin := middleware.RequireRole(middleware.RoleAdmin)
	{
		orders := protected.Group("/orders")
		{
			orders.POST("", h.Order.Create)
			orders.GET("", h.Order.Index)
			orders.GET("/:order_id", h.Order.Show)
			orders.POST("/:order_id/confirm", admin, h.Order.Confirm)
			orders.POST("/:order_id/cancel", admin, h.Order.Cancel)
			orders.POST("/:order_id/deliver", admin, h.Order.Deliver)
		}

		payments := protected.Group("/payments")
		{
			payments.POST("", h.Payment.Create)
			payments.GET("", h.Payment.Index)
			payments.GET("/:payment_id", h.Payment.Show)
			payments.POST("/:payment_id/confirm", admin, h.Payment.Confirm)
			payments.POST("/:payment_id/reject", admin, h.Payment.Reject)
		}
		protected.GET("/customers/:customer_id/loans", h.Payment.Loans)

		// Static route first so "summary" is not matched as :entry_id
		ledger := protected.Group("/ledger", admin)
		{
			ledger.GET("/summary", h.Ledger.Summary)
			ledger.GET("", h.Ledger.Index)
			ledger.POST("", h.Ledger.Create)
			ledger.PUT("/:entry_id", h.Ledger.Update)
			ledger.DELETE("/:entry_id", h.Ledger.Delete)
		}

		balances := protected.Group("/daily_balances", admin)
		{
			balances.GET("", h.DailyBalance.Index)
			balances.POST("/close", h.DailyBalance.Close)
			balances.POST("/close_range", h.DailyBalance.CloseRange)
		}

		protected.POST("/expenses", admin, h.Expense.Create)
		protected.GET("/expenses", admin, h.Expense.Index)
		protected.POST("/salaries", admin, h.Salary.Create)
		protected.GET("/salaries", admin, h.Salary.Index)

		protected.GET("/inventory/:product_id", h.Inventory.Show)
		protected.PUT("/inventory/:product_id", admin, h.Inventory.Update)

		protected.GET("/audits", admin, h.Audit.Index)
		protected.GET("/dashboard", admin, h.Dashboard.Index)
	}
}
