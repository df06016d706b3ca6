package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/ventas-api/internal/services"
)

type DailyBalanceHandler struct {
	balanceService *services.DailyBalanceService
	loc            *time.Location
}

func NewDailyBalanceHandler(balanceService *services.DailyBalanceService, loc *time.Location) *DailyBalanceHandler {
	return &DailyBalanceHandler{balanceService: balanceService, loc: loc}
}

type CloseDayRequest struct {
	Date string `json:"date"`
}

type CloseRangeRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// @Summary Close Day
// @Description Compute and store the balance of one day (today when date is omitted)
// @Tags DailyBalances
// @Accept json
// @Param request body CloseDayRequest false "Day"
// @Router /daily_balances/close [post]
func (h *DailyBalanceHandler) Close(c *gin.Context) {
	var req CloseDayRequest
	if err := bindBody(c, "daily_balance", &req); err != nil && !errors.Is(err, errEmptyBody) {
		badRequest(c, err)
		return
	}
	date, err := parseDate("date", req.Date, h.loc)
	if err != nil {
		badRequest(c, err)
		return
	}
	balance, err := h.balanceService.CloseDay(c.Request.Context(), actor(c).ID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"daily_balance": balance})
}

// @Summary Close Range
// @Description Re-close every day from..to in order, repairing the chain after a back-dated change
// @Tags DailyBalances
// @Accept json
// @Param request body CloseRangeRequest true "Range"
// @Router /daily_balances/close_range [post]
func (h *DailyBalanceHandler) CloseRange(c *gin.Context) {
	var req CloseRangeRequest
	if err := bindBody(c, "daily_balance", &req); err != nil {
		badRequest(c, err)
		return
	}
	from, err := parseDate("from", req.From, h.loc)
	if err == nil && from == nil {
		err = fmt.Errorf("%w: from is required", errBadParam)
	}
	if err != nil {
		badRequest(c, err)
		return
	}
	to, err := parseDate("to", req.To, h.loc)
	if err == nil && to == nil {
		err = fmt.Errorf("%w: to is required", errBadParam)
	}
	if err != nil {
		badRequest(c, err)
		return
	}

	balances, err := h.balanceService.CloseRange(c.Request.Context(), actor(c).ID, *from, *to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"daily_balances": balances})
}

// @Summary List Daily Balances
// @Tags DailyBalances
// @Param from query string false "First day (YYYY-MM-DD)"
// @Param to query string false "Last day (YYYY-MM-DD)"
// @Router /daily_balances [get]
func (h *DailyBalanceHandler) Index(c *gin.Context) {
	dates, ok := dateRange(c, h.loc)
	if !ok {
		return
	}
	balances, err := h.balanceService.List(c.Request.Context(), dates)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"daily_balances": balances})
}
