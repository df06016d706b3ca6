package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sjperalta/ventas-api/internal/models"
	"github.com/sjperalta/ventas-api/internal/services"
)

type OrderHandler struct {
	orderService *services.OrderService
}

func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

type OrderItemRequest struct {
	ProductID uint             `json:"product_id"`
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

type CreateOrderRequest struct {
	CustomerID  uint               `json:"customer_id"`
	Items       []OrderItemRequest `json:"items"`
	PaymentType *string            `json:"payment_type"`
	Remark      *string            `json:"remark"`
}

// @Summary Create Order
// @Description Create a PENDING_ADMIN order priced from the catalog unless unit_price is given
// @Tags Orders
// @Accept json
// @Produce json
// @Param request body CreateOrderRequest true "Order"
// @Success 201 {object} models.Order
// @Router /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req CreateOrderRequest
	if err := bindBody(c, "order", &req); err != nil {
		badRequest(c, err)
		return
	}

	input := services.CreateOrderInput{
		CustomerID:  req.CustomerID,
		PaymentType: req.PaymentType,
		Remark:      req.Remark,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, services.OrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	order, err := h.orderService.Create(c.Request.Context(), actor(c).ID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": order})
}

// @Summary List Orders
// @Tags Orders
// @Produce json
// @Param status query string false "Filter by status"
// @Param customer_id query int false "Filter by customer"
// @Param salesperson_id query int false "Filter by salesperson"
// @Router /orders [get]
func (h *OrderHandler) Index(c *gin.Context) {
	query := listQuery(c, "status", "customer_id", "salesperson_id")
	orders, total, err := h.orderService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	paginated(c, "orders", orders, total, query)
}

// @Summary Get Order
// @Tags Orders
// @Produce json
// @Param order_id path int true "Order ID"
// @Router /orders/{order_id} [get]
func (h *OrderHandler) Show(c *gin.Context) {
	id, ok := pathID(c, "order_id")
	if !ok {
		return
	}
	order, err := h.orderService.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// @Summary Confirm Order
// @Description Reserve stock for every line and move the order to CONFIRMED
// @Tags Orders
// @Param order_id path int true "Order ID"
// @Router /orders/{order_id}/confirm [post]
func (h *OrderHandler) Confirm(c *gin.Context) {
	h.transition(c, h.orderService.Confirm)
}

// @Summary Cancel Order
// @Tags Orders
// @Param order_id path int true "Order ID"
// @Router /orders/{order_id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	h.transition(c, h.orderService.Cancel)
}

// @Summary Deliver Order
// @Description Mark the order delivered and open its loan
// @Tags Orders
// @Param order_id path int true "Order ID"
// @Router /orders/{order_id}/deliver [post]
func (h *OrderHandler) Deliver(c *gin.Context) {
	h.transition(c, h.orderService.Deliver)
}

func (h *OrderHandler) transition(c *gin.Context, fn func(ctx context.Context, actorID, orderID uint) (*models.Order, error)) {
	id, ok := pathID(c, "order_id")
	if !ok {
		return
	}
	order, err := fn(c.Request.Context(), actor(c).ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}
