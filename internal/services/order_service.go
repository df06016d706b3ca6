package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/sjperalta/ventas-api/internal/models"
	"github.com/sjperalta/ventas-api/internal/repository"
	"github.com/sjperalta/ventas-api/internal/statemachine"

	"github.com/shopspring/decimal"
)

// OrderItemInput is one requested order line
type OrderItemInput struct {
	ProductID uint
	Quantity  int
	UnitPrice *decimal.Decimal // overrides the catalog price when set
}

// CreateOrderInput is the payload for OrderService.Create
type CreateOrderInput struct {
	CustomerID  uint
	Items       []OrderItemInput
	PaymentType *string
	Remark      *string
}

type OrderService struct {
	store    repository.Store
	calendar Calendar
	auditSvc *AuditService
}

func NewOrderService(store repository.Store, calendar Calendar, auditSvc *AuditService) *OrderService {
	return &OrderService{store: store, calendar: calendar, auditSvc: auditSvc}
}

func (s *OrderService) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.store.Repos().Order.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFound("order", id)
		}
		return nil, fail("find order", err)
	}
	return order, nil
}

// List returns orders filtered by status, customer_id or salesperson_id
func (s *OrderService) List(ctx context.Context, query *repository.ListQuery) ([]models.Order, int64, error) {
	orders, total, err := s.store.Repos().Order.List(ctx, query)
	if err != nil {
		return nil, 0, fail("list orders", err)
	}
	return orders, total, nil
}

// Create validates the customer and every product, prices the lines and
// stores the order with its items. The total is frozen here.
func (s *OrderService) Create(ctx context.Context, actorID uint, input CreateOrderInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, item := range input.Items {
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%w: product %d has quantity %d", ErrInvalidQuantity, item.ProductID, item.Quantity)
		}
		if item.UnitPrice != nil {
			if item.UnitPrice.IsNegative() {
				return nil, fmt.Errorf("%w: product %d", ErrInvalidPrice, item.ProductID)
			}
			if err := checkScale("unit price", *item.UnitPrice); err != nil {
				return nil, err
			}
		}
	}

	var order *models.Order
	err := s.store.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Customer.FindByID(ctx, input.CustomerID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return notFound("customer", input.CustomerID)
			}
			return err
		}

		products, err := tx.Product.FindByIDs(ctx, distinctProductIDs(input.Items))
		if err != nil {
			return err
		}
		byID := make(map[uint]models.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}

		order = &models.Order{
			CustomerID:    input.CustomerID,
			SalespersonID: actorID,
			Status:        models.OrderStatusPendingAdmin,
			PaymentType:   input.PaymentType,
			Remark:        input.Remark,
			CreatedAt:     s.calendar.now(),
		}
		for _, item := range input.Items {
			product, ok := byID[item.ProductID]
			if !ok {
				return notFound("product", item.ProductID)
			}
			if !product.IsActive {
				return fmt.Errorf("%w: product %d (%s)", ErrInactiveProduct, product.ID, product.Name)
			}
			price := product.UnitPrice
			if item.UnitPrice != nil {
				price = *item.UnitPrice
			}
			order.Items = append(order.Items, models.OrderItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: price,
			})
		}
		order.TotalAmount = order.ItemsTotal()

		return tx.Order.Create(ctx, order)
	})
	if err != nil {
		return nil, fail("create order", err)
	}

	s.auditSvc.Record(actorID, models.AuditActionCreate, EntityOrder, order.ID,
		fmt.Sprintf("total %s, %d items", order.TotalAmount.StringFixed(2), len(order.Items)))
	return order, nil
}

// Confirm reserves stock for every line and moves the order to CONFIRMED.
// All lines are checked before any stock is taken, so a short line leaves
// inventory untouched.
func (s *OrderService) Confirm(ctx context.Context, actorID, orderID uint) (*models.Order, error) {
	var order *models.Order
	err := s.store.Transaction(ctx, func(tx *repository.Repositories) error {
		var err error
		order, err = s.lockOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if !order.MayConfirm() {
			return fmt.Errorf("%w: order %d is %s", ErrInvalidState, order.ID, order.Status)
		}

		needed := order.QuantitiesByProduct()
		productIDs := make([]uint, 0, len(needed))
		for id := range needed {
			productIDs = append(productIDs, id)
		}
		sort.Slice(productIDs, func(i, j int) bool { return productIDs[i] < productIDs[j] })

		stock, err := tx.Inventory.FindByProductIDsForUpdate(ctx, productIDs)
		if err != nil {
			return err
		}
		onHand := make(map[uint]models.Inventory, len(stock))
		for _, inv := range stock {
			onHand[inv.ProductID] = inv
		}

		for _, id := range productIDs {
			inv, ok := onHand[id]
			if !ok {
				return fmt.Errorf("%w: product %d has no inventory", ErrInsufficientInventory, id)
			}
			if !inv.Covers(needed[id]) {
				return fmt.Errorf("%w: product %d requested %d, available %d", ErrInsufficientInventory, id, needed[id], inv.Quantity)
			}
		}

		for _, id := range productIDs {
			if err := tx.Inventory.Decrement(ctx, id, needed[id]); err != nil {
				if errors.Is(err, repository.ErrInsufficientStock) {
					return fmt.Errorf("%w: product %d", ErrInsufficientInventory, id)
				}
				return err
			}
		}

		if err := statemachine.NewOrderFSM(order).Confirm(ctx); err != nil {
			return err
		}
		return tx.Order.UpdateStatus(ctx, order.ID, order.Status)
	})
	if err != nil {
		return nil, fail("confirm order", err)
	}

	s.auditSvc.Record(actorID, models.AuditActionConfirm, EntityOrder, order.ID, "")
	return order, nil
}

// Cancel moves a PENDING_ADMIN order to CANCELLED. Stock was never reserved,
// so nothing else changes.
func (s *OrderService) Cancel(ctx context.Context, actorID, orderID uint) (*models.Order, error) {
	var order *models.Order
	err := s.store.Transaction(ctx, func(tx *repository.Repositories) error {
		var err error
		order, err = s.lockOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if err := statemachine.NewOrderFSM(order).Cancel(ctx); err != nil {
			return err
		}
		return tx.Order.UpdateStatus(ctx, order.ID, order.Status)
	})
	if err != nil {
		return nil, fail("cancel order", err)
	}

	s.auditSvc.Record(actorID, models.AuditActionCancel, EntityOrder, order.ID, "")
	return order, nil
}

// Deliver moves a CONFIRMED order to DELIVERED and opens its loan for the
// full total. An order never gets a second loan.
func (s *OrderService) Deliver(ctx context.Context, actorID, orderID uint) (*models.Order, error) {
	var order *models.Order
	err := s.store.Transaction(ctx, func(tx *repository.Repositories) error {
		var err error
		order, err = s.lockOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if err := statemachine.NewOrderFSM(order).Deliver(ctx); err != nil {
			return err
		}
		if err := tx.Order.UpdateStatus(ctx, order.ID, order.Status); err != nil {
			return err
		}

		loan, err := tx.Loan.FindByOrderID(ctx, order.ID)
		switch {
		case err == nil:
			order.Loan = loan
			return nil
		case !errors.Is(err, ErrNotFound):
			return err
		}

		loan = models.NewLoanForOrder(order)
		if err := tx.Loan.Create(ctx, loan); err != nil {
			return err
		}
		order.Loan = loan
		return nil
	})
	if err != nil {
		return nil, fail("deliver order", err)
	}

	s.auditSvc.Record(actorID, models.AuditActionDeliver, EntityOrder, order.ID,
		fmt.Sprintf("loan %d opened for %s", order.Loan.ID, order.Loan.OriginalAmount.StringFixed(2)))
	return order, nil
}

func (s *OrderService) lockOrder(ctx context.Context, tx *repository.Repositories, orderID uint) (*models.Order, error) {
	order, err := tx.Order.FindByIDForUpdate(ctx, orderID)
	if errors.Is(err, ErrNotFound) {
		return nil, notFound("order", orderID)
	}
	return order, err
}

func distinctProductIDs(items []OrderItemInput) []uint {
	seen := make(map[uint]bool, len(items))
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}
	return ids
}
