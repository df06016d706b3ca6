package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sjperalta/ventas-api/internal/services"
)

type ExpenseHandler struct {
	expenseService *services.ExpenseService
}

func NewExpenseHandler(expenseService *services.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

type CreateExpenseRequest struct {
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Category      string          `json:"category"`
	PaymentMethod string          `json:"payment_method"`
}

// @Summary Record Expense
// @Description Store an expense and post its CREDIT ledger entry
// @Tags Expenses
// @Param request body CreateExpenseRequest true "Expense"
// @Router /expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req CreateExpenseRequest
	if err := bindBody(c, "expense", &req); err != nil {
		badRequest(c, err)
		return
	}
	expense, err := h.expenseService.Create(c.Request.Context(), actor(c).ID, services.ExpenseInput{
		Description:   req.Description,
		Amount:        req.Amount,
		Category:      req.Category,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// @Summary List Expenses
// @Tags Expenses
// @Param category query string false "Filter by category"
// @Router /expenses [get]
func (h *ExpenseHandler) Index(c *gin.Context) {
	query := listQuery(c, "category")
	expenses, total, err := h.expenseService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	paginated(c, "expenses", expenses, total, query)
}

type SalaryHandler struct {
	salaryService *services.SalaryService
}

func NewSalaryHandler(salaryService *services.SalaryService) *SalaryHandler {
	return &SalaryHandler{salaryService: salaryService}
}

type CreateSalaryRequest struct {
	EmployeeID      uint            `json:"employee_id"`
	BasicSalary     decimal.Decimal `json:"basic_salary"`
	BonusAmount     decimal.Decimal `json:"bonus_amount"`
	DeductionAmount decimal.Decimal `json:"deduction_amount"`
}

// @Summary Record Salary
// @Description Pay basic + bonus - deduction and post the CREDIT ledger entry
// @Tags Salaries
// @Param request body CreateSalaryRequest true "Salary"
// @Router /salaries [post]
func (h *SalaryHandler) Create(c *gin.Context) {
	var req CreateSalaryRequest
	if err := bindBody(c, "salary", &req); err != nil {
		badRequest(c, err)
		return
	}
	record, err := h.salaryService.Create(c.Request.Context(), actor(c).ID, services.SalaryInput{
		EmployeeID:      req.EmployeeID,
		BasicSalary:     req.BasicSalary,
		BonusAmount:     req.BonusAmount,
		DeductionAmount: req.DeductionAmount,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"salary": record})
}

// @Summary List Salaries
// @Tags Salaries
// @Param employee_id query int false "Filter by employee"
// @Router /salaries [get]
func (h *SalaryHandler) Index(c *gin.Context) {
	query := listQuery(c, "employee_id")
	records, total, err := h.salaryService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	paginated(c, "salaries", records, total, query)
}
