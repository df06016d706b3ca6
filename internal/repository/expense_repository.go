package repository

import (
	"context"

	"github.com/sjperalta/ventas-api/internal/models"

	"gorm.io/gorm"
)

// ExpenseRepository defines the interface for expense data access
type ExpenseRepository interface {
	Create(ctx context.Context, expense *models.Expense) error
	FindByIDs(ctx context.Context, ids []uint) ([]models.Expense, error)
	List(ctx context.Context, query *ListQuery) ([]models.Expense, int64, error)
}

// SalaryRepository defines the interface for salary record data access
type SalaryRepository interface {
	Create(ctx context.Context, record *models.SalaryRecord) error
	FindByIDs(ctx context.Context, ids []uint) ([]models.SalaryRecord, error)
	List(ctx context.Context, query *ListQuery) ([]models.SalaryRecord, int64, error)
}

type expenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	return translate(r.db.WithContext(ctx).Create(expense).Error)
}

func (r *expenseRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Expense, error) {
	var expenses []models.Expense
	if len(ids) == 0 {
		return expenses, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&expenses).Error
	return expenses, translate(err)
}

// List returns expenses newest first. Supported filters: category.
func (r *expenseRepository) List(ctx context.Context, query *ListQuery) ([]models.Expense, int64, error) {
	var expenses []models.Expense
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Expense{})
	if v := query.Filter("category"); v != "" {
		db = db.Where("category = ?", v)
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}
	err := db.Order("created_at DESC, id DESC").
		Offset(query.Offset()).
		Limit(query.PerPage).
		Find(&expenses).Error
	return expenses, total, translate(err)
}

type salaryRepository struct {
	db *gorm.DB
}

// NewSalaryRepository creates a new salary record repository
func NewSalaryRepository(db *gorm.DB) SalaryRepository {
	return &salaryRepository{db: db}
}

func (r *salaryRepository) Create(ctx context.Context, record *models.SalaryRecord) error {
	return translate(r.db.WithContext(ctx).Omit("Employee").Create(record).Error)
}

func (r *salaryRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.SalaryRecord, error) {
	var records []models.SalaryRecord
	if len(ids) == 0 {
		return records, nil
	}
	err := r.db.WithContext(ctx).Preload("Employee").Where("id IN ?", ids).Find(&records).Error
	return records, translate(err)
}

// List returns salary records newest first. Supported filters: employee_id.
func (r *salaryRepository) List(ctx context.Context, query *ListQuery) ([]models.SalaryRecord, int64, error) {
	var records []models.SalaryRecord
	var total int64

	db := r.db.WithContext(ctx).Model(&models.SalaryRecord{})
	if v := query.Filter("employee_id"); v != "" {
		db = db.Where("employee_id = ?", v)
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}
	err := db.Preload("Employee").
		Order("created_at DESC, id DESC").
		Offset(query.Offset()).
		Limit(query.PerPage).
		Find(&records).Error
	return records, total, translate(err)
}
