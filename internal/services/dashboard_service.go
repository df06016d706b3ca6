package services

import (
	"context"
	"time"

	"github.com/sjperalta/ventas-api/internal/models"
	"github.com/sjperalta/ventas-api/internal/repository"
)

// Dashboard limits
const (
	LowStockThreshold = 20
	lowStockLimit     = 10
	recentOrdersLimit = 5
)

type DashboardService struct {
	store    repository.Store
	calendar Calendar
}

func NewDashboardService(store repository.Store, calendar Calendar) *DashboardService {
	return &DashboardService{store: store, calendar: calendar}
}

// AdminStats gathers the order counters, the products running short and the
// latest orders. "Today" is the current business day in the calendar zone.
func (s *DashboardService) AdminStats(ctx context.Context) (*models.AdminStats, error) {
	repos := s.store.Repos()
	start, end := s.businessDayBounds()

	orderStats, err := repos.Order.Stats(ctx, start, end)
	if err != nil {
		return nil, fail("dashboard order stats", err)
	}
	lowStock, err := repos.Inventory.LowStock(ctx, LowStockThreshold, lowStockLimit)
	if err != nil {
		return nil, fail("dashboard low stock", err)
	}

	query := repository.NewListQuery()
	query.PerPage = recentOrdersLimit
	orders, _, err := repos.Order.List(ctx, query)
	if err != nil {
		return nil, fail("dashboard recent orders", err)
	}

	stats := &models.AdminStats{
		OrderStats:       *orderStats,
		LowStockCount:    len(lowStock),
		LowStockProducts: lowStock,
		RecentOrders:     make([]models.RecentOrder, 0, len(orders)),
	}
	if stats.LowStockProducts == nil {
		stats.LowStockProducts = []models.LowStockProduct{}
	}
	for _, o := range orders {
		recent := models.RecentOrder{
			ID:            o.ID,
			SalespersonID: o.SalespersonID,
			Amount:        o.TotalAmount,
			Status:        o.Status,
			Date:          o.CreatedAt,
			ItemCount:     len(o.Items),
		}
		if o.Customer != nil {
			recent.Customer = o.Customer.Name
		}
		stats.RecentOrders = append(stats.RecentOrders, recent)
	}
	return stats, nil
}

// businessDayBounds returns the instants the current business day starts and ends
func (s *DashboardService) businessDayBounds() (time.Time, time.Time) {
	loc := s.calendar.Location
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := s.calendar.now().In(loc).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}
