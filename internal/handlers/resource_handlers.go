package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/ventas-api/internal/jobs"
	"github.com/sjperalta/ventas-api/internal/services"
)

type HealthHandler struct {
	worker *jobs.Worker
}

func NewHealthHandler(worker *jobs.Worker) *HealthHandler {
	return &HealthHandler{worker: worker}
}

// @Summary Health Check
// @Description Checks if the API is running
// @Tags Health
// @Produce json
// @Router /health [get]
func (h *HealthHandler) Index(c *gin.Context) {
	body := gin.H{
		"status":  "ok",
		"service": "ventas-api",
		"version": "1.0.0",
	}
	if h.worker != nil {
		body["worker"] = h.worker.GetStats()
	}
	c.JSON(http.StatusOK, body)
}

type InventoryHandler struct {
	inventoryService *services.InventoryService
}

func NewInventoryHandler(inventoryService *services.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

type UpdateInventoryRequest struct {
	Quantity *int `json:"quantity"`
}

// @Summary Get Stock
// @Tags Inventory
// @Param product_id path int true "Product ID"
// @Router /inventory/{product_id} [get]
func (h *InventoryHandler) Show(c *gin.Context) {
	id, ok := pathID(c, "product_id")
	if !ok {
		return
	}
	inv, err := h.inventoryService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"inventory": inv})
}

// @Summary Set Stock
// @Description Overwrite the on-hand quantity after a stock count
// @Tags Inventory
// @Param product_id path int true "Product ID"
// @Param request body UpdateInventoryRequest true "Quantity"
// @Router /inventory/{product_id} [put]
func (h *InventoryHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "product_id")
	if !ok {
		return
	}
	var req UpdateInventoryRequest
	if err := bindBody(c, "inventory", &req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Quantity == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity is required"})
		return
	}
	inv, err := h.inventoryService.SetQuantity(c.Request.Context(), actor(c).ID, id, *req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"inventory": inv})
}

type AuditHandler struct {
	auditService *services.AuditService
}

func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// @Summary List Audit Logs
// @Description Get a paginated list of audit logs, newest first
// @Tags Audit
// @Produce json
// @Param entity query string false "Filter by entity"
// @Param entity_id query int false "Filter by entity id"
// @Router /audits [get]
func (h *AuditHandler) Index(c *gin.Context) {
	query := listQuery(c, "entity", "entity_id")
	logs, total, err := h.auditService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	paginated(c, "audits", logs, total, query)
}

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// @Summary Admin Dashboard
// @Description Sales total, today's and pending orders, low stock and the latest orders
// @Tags Dashboard
// @Produce json
// @Router /dashboard [get]
func (h *DashboardHandler) Index(c *gin.Context) {
	stats, err := h.dashboardService.AdminStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dashboard": stats})
}
