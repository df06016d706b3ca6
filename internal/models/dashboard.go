package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStats are the order counters shown on the admin dashboard
type OrderStats struct {
	DeliveredTotal decimal.Decimal `json:"total_sales"`
	OrdersToday    int64           `json:"orders_today"`
	PendingOrders  int64           `json:"pending_orders"`
}

// LowStockProduct is an active product running short
type LowStockProduct struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

// RecentOrder is the dashboard digest of one order
type RecentOrder struct {
	ID            uint            `json:"id"`
	Customer      string          `json:"customer"`
	SalespersonID uint            `json:"salesperson_id"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	Date          time.Time       `json:"date"`
	ItemCount     int             `json:"item_count"`
}

// AdminStats is the admin dashboard snapshot
type AdminStats struct {
	OrderStats
	LowStockCount    int               `json:"low_stock_count"`
	LowStockProducts []LowStockProduct `json:"low_stock_products"`
	RecentOrders     []RecentOrder     `json:"recent_orders"`
}
