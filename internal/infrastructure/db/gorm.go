package db

import (
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	mysqlrepo "gemmary-backend/internal/adapter/repository/mysql"
	branchDomain "gemmary-backend/internal/domain/branch"
	customerDomain "gemmary-backend/internal/domain/customer"
	itemDomain "gemmary-backend/internal/domain/item"
	loanDomain "gemmary-backend/internal/domain/loan"
	trxDomain "gemmary-backend/internal/domain/transaction"
)

func OpenGorm(dsn string) (*gorm.DB, error) {
	return OpenGormWithDialector(mysql.Open(dsn))
}

// OpenGormWithDialector keeps the pool setup in one place; tests feed
// it a mocked dialector.
func OpenGormWithDialector(dial gorm.Dialector) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	}
	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	log.Println("gorm: connected")
	return db, nil
}

// Migrate brings the star schema up to date: the customer and branch
// dimensions, the operational tables and the transaction fact table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&customerDomain.Customer{},
		&branchDomain.Branch{},
		&branchDomain.Employee{},
		&itemDomain.Item{},
		&loanDomain.Loan{},
		&trxDomain.Transaction{},
		&mysqlrepo.Sequence{},
	)
}
