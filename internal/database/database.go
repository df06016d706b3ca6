package database

import (
	"fmt"
	"time"

	"github.com/sjperalta/ventas-api/internal/models"
	pkgLogger "github.com/sjperalta/ventas-api/pkg/logger"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect establishes a connection to the PostgreSQL database
func Connect(databaseURL string, production bool) (*gorm.DB, error) {
	// Configure GORM logger
	logLevel := logger.Warn
	if !production {
		logLevel = logger.Info
	}

	gormLogger := pkgLogger.NewGormLogger(
		logLevel,
		200*time.Millisecond,
	)

	// Open database connection
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true, // Every write path opens its own transaction
		PrepareStmt:            true, // Cache prepared statements
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL database
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	// Verify connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Models lists every table the engine owns or reads, in dependency order
func Models() []interface{} {
	return []interface{}{
		&models.Customer{},
		&models.Product{},
		&models.Employee{},
		&models.Inventory{},
		&models.Order{},
		&models.OrderItem{},
		&models.Loan{},
		&models.Payment{},
		&models.LedgerEntry{},
		&models.DailyBalance{},
		&models.Expense{},
		&models.SalaryRecord{},
		&models.AuditLog{},
	}
}

// Migrate creates or updates the schema, including the unique and check
// constraints the engine relies on for consistency.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
