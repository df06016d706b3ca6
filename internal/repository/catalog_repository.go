package repository

import (
	"context"

	"github.com/sjperalta/ventas-api/internal/models"

	"gorm.io/gorm"
)

// CustomerRepository is the read-only view of the customer directory
type CustomerRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Customer, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Customer, error)
}

// ProductRepository is the read-only view of the product catalog
type ProductRepository interface {
	FindByIDs(ctx context.Context, ids []uint) ([]models.Product, error)
}

// EmployeeRepository is the read-only view of the staff directory
type EmployeeRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Employee, error)
}

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) FindByID(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, id).Error; err != nil {
		return nil, translate(err)
	}
	return &customer, nil
}

func (r *customerRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Customer, error) {
	var customers []models.Customer
	if len(ids) == 0 {
		return customers, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&customers).Error
	return customers, translate(err)
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	var products []models.Product
	if len(ids) == 0 {
		return products, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error
	return products, translate(err)
}

type employeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) FindByID(ctx context.Context, id uint) (*models.Employee, error) {
	var employee models.Employee
	if err := r.db.WithContext(ctx).First(&employee, id).Error; err != nil {
		return nil, translate(err)
	}
	return &employee, nil
}
