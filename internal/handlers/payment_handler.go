package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sjperalta/ventas-api/internal/services"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

type CreatePaymentRequest struct {
	CustomerID    uint            `json:"customer_id"`
	OrderID       *uint           `json:"order_id"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	PaymentMethod string          `json:"payment_method"`
}

// @Summary Create Payment
// @Description Record a payment. With order_id the loan balance is reduced at once; roles allowed to auto-approve get a CONFIRMED payment and its ledger entry.
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body CreatePaymentRequest true "Payment"
// @Success 201 {object} models.Payment
// @Router /payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	var req CreatePaymentRequest
	if err := bindBody(c, "payment", &req); err != nil {
		badRequest(c, err)
		return
	}

	payment, err := h.paymentService.Create(c.Request.Context(), actor(c), services.CreatePaymentInput{
		CustomerID:    req.CustomerID,
		OrderID:       req.OrderID,
		AmountPaid:    req.AmountPaid,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"payment": payment})
}

// @Summary List Payments
// @Tags Payments
// @Produce json
// @Param status query string false "Filter by status"
// @Param customer_id query int false "Filter by customer"
// @Param order_id query int false "Filter by order"
// @Router /payments [get]
func (h *PaymentHandler) Index(c *gin.Context) {
	query := listQuery(c, "status", "customer_id", "order_id")
	payments, total, err := h.paymentService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	paginated(c, "payments", payments, total, query)
}

// @Summary Get Payment
// @Tags Payments
// @Produce json
// @Param payment_id path int true "Payment ID"
// @Router /payments/{payment_id} [get]
func (h *PaymentHandler) Show(c *gin.Context) {
	id, ok := pathID(c, "payment_id")
	if !ok {
		return
	}
	payment, err := h.paymentService.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": payment})
}

// @Summary Confirm Payment
// @Description Confirm a PENDING payment and post its ledger entry. Confirming twice is a no-op.
// @Tags Payments
// @Param payment_id path int true "Payment ID"
// @Router /payments/{payment_id}/confirm [post]
func (h *PaymentHandler) Confirm(c *gin.Context) {
	id, ok := pathID(c, "payment_id")
	if !ok {
		return
	}
	payment, err := h.paymentService.Confirm(c.Request.Context(), actor(c).ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": payment})
}

// @Summary Reject Payment
// @Description Reject a PENDING payment and give the amount back to its loan
// @Tags Payments
// @Param payment_id path int true "Payment ID"
// @Router /payments/{payment_id}/reject [post]
func (h *PaymentHandler) Reject(c *gin.Context) {
	id, ok := pathID(c, "payment_id")
	if !ok {
		return
	}
	payment, err := h.paymentService.Reject(c.Request.Context(), actor(c).ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": payment})
}

// @Summary Customer Loans
// @Tags Payments
// @Produce json
// @Param customer_id path int true "Customer ID"
// @Router /customers/{customer_id}/loans [get]
func (h *PaymentHandler) Loans(c *gin.Context) {
	id, ok := pathID(c, "customer_id")
	if !ok {
		return
	}
	loans, err := h.paymentService.LoansForCustomer(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loans": loans})
}
