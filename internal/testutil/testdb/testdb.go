package testdb

import (
	"testing"

	"gemmary-backend/internal/adapter/repository/mysql"
	"gemmary-backend/internal/domain/branch"
	"gemmary-backend/internal/domain/customer"
	"gemmary-backend/internal/domain/item"
	"gemmary-backend/internal/domain/loan"
	"gemmary-backend/internal/domain/transaction"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open creates an in-memory sqlite DB carrying the full warehouse
// schema, for tests that want real SQL behind the repositories.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&customer.Customer{},
		&item.Item{},
		&loan.Loan{},
		&transaction.Transaction{},
		&branch.Branch{},
		&branch.Employee{},
		&mysql.Sequence{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}
