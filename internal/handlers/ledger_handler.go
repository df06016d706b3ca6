package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sjperalta/ventas-api/internal/services"
)

type LedgerHandler struct {
	ledgerService *services.LedgerService
	loc           *time.Location
}

func NewLedgerHandler(ledgerService *services.LedgerService, loc *time.Location) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService, loc: loc}
}

// ManualEntryRequest is an operator entry; type is INCOME or EXPENSE
type ManualEntryRequest struct {
	EntryDate   string          `json:"entry_date"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	SubCategory *string         `json:"sub_category"`
}

func (r ManualEntryRequest) input(loc *time.Location) (services.ManualEntryInput, error) {
	date, err := parseDate("entry_date", r.EntryDate, loc)
	if err != nil {
		return services.ManualEntryInput{}, err
	}
	return services.ManualEntryInput{
		EntryDate:   date,
		Type:        r.Type,
		Amount:      r.Amount,
		Description: r.Description,
		SubCategory: r.SubCategory,
	}, nil
}

// @Summary List Ledger
// @Description Entries in posting order with their origin label and source
// @Tags Ledger
// @Produce json
// @Param from query string false "First day (YYYY-MM-DD)"
// @Param to query string false "Last day (YYYY-MM-DD)"
// @Router /ledger [get]
func (h *LedgerHandler) Index(c *gin.Context) {
	dates, ok := dateRange(c, h.loc)
	if !ok {
		return
	}
	entries, err := h.ledgerService.List(c.Request.Context(), dates)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// @Summary Post Manual Entry
// @Tags Ledger
// @Accept json
// @Produce json
// @Param request body ManualEntryRequest true "Entry"
// @Router /ledger [post]
func (h *LedgerHandler) Create(c *gin.Context) {
	var req ManualEntryRequest
	if err := bindBody(c, "entry", &req); err != nil {
		badRequest(c, err)
		return
	}
	input, err := req.input(h.loc)
	if err != nil {
		badRequest(c, err)
		return
	}
	entry, err := h.ledgerService.PostManual(c.Request.Context(), actor(c).ID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"entry": entry})
}

// @Summary Edit Manual Entry
// @Description System-generated entries are refused
// @Tags Ledger
// @Param entry_id path int true "Entry ID"
// @Router /ledger/{entry_id} [put]
func (h *LedgerHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "entry_id")
	if !ok {
		return
	}
	var req ManualEntryRequest
	if err := bindBody(c, "entry", &req); err != nil {
		badRequest(c, err)
		return
	}
	input, err := req.input(h.loc)
	if err != nil {
		badRequest(c, err)
		return
	}
	entry, err := h.ledgerService.EditManual(c.Request.Context(), actor(c).ID, id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// @Summary Delete Manual Entry
// @Tags Ledger
// @Param entry_id path int true "Entry ID"
// @Router /ledger/{entry_id} [delete]
func (h *LedgerHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "entry_id")
	if !ok {
		return
	}
	if err := h.ledgerService.DeleteManual(c.Request.Context(), actor(c).ID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Daily Summary
// @Description Debit and credit totals of one day, plus its balance when closed
// @Tags Ledger
// @Param date query string false "Day (YYYY-MM-DD), defaults to today"
// @Router /ledger/summary [get]
func (h *LedgerHandler) Summary(c *gin.Context) {
	date, err := parseDate("date", c.Query("date"), h.loc)
	if err != nil {
		badRequest(c, err)
		return
	}
	summary, err := h.ledgerService.DailySummary(c.Request.Context(), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
