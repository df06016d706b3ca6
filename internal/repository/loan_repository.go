package repository

import (
	"context"

	"github.com/sjperalta/ventas-api/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LoanRepository defines the interface for loan data access
type LoanRepository interface {
	Create(ctx context.Context, loan *models.Loan) error
	FindByOrderID(ctx context.Context, orderID uint) (*models.Loan, error)
	FindByOrderIDForUpdate(ctx context.Context, orderID uint) (*models.Loan, error)
	UpdateBalance(ctx context.Context, loan *models.Loan) error
	FindByCustomer(ctx context.Context, customerID uint) ([]models.Loan, error)
}

type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

// Create inserts a loan. A second loan for the same order violates the
// unique index and comes back as ErrDuplicate.
func (r *loanRepository) Create(ctx context.Context, loan *models.Loan) error {
	return translate(r.db.WithContext(ctx).Create(loan).Error)
}

func (r *loanRepository) FindByOrderID(ctx context.Context, orderID uint) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&loan).Error
	if err != nil {
		return nil, translate(err)
	}
	return &loan, nil
}

func (r *loanRepository) FindByOrderIDForUpdate(ctx context.Context, orderID uint) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("order_id = ?", orderID).
		First(&loan).Error
	if err != nil {
		return nil, translate(err)
	}
	return &loan, nil
}

// UpdateBalance persists remaining amount and status only
func (r *loanRepository) UpdateBalance(ctx context.Context, loan *models.Loan) error {
	result := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("id = ?", loan.ID).
		Updates(map[string]interface{}{
			"remaining_amount": loan.RemainingAmount,
			"status":           loan.Status,
		})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *loanRepository) FindByCustomer(ctx context.Context, customerID uint) ([]models.Loan, error) {
	var loans []models.Loan
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC, id DESC").
		Find(&loans).Error
	return loans, translate(err)
}
