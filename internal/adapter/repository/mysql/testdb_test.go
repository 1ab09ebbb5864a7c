package mysql

import (
	"testing"
	"time"

	branchDomain "gemmary-backend/internal/domain/branch"
	customerDomain "gemmary-backend/internal/domain/customer"
	itemDomain "gemmary-backend/internal/domain/item"
	loanDomain "gemmary-backend/internal/domain/loan"
	trxDomain "gemmary-backend/internal/domain/transaction"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB creates an in-memory sqlite DB with the full schema. The
// entity tags are sqlite-safe (no MySQL enum types), so the real models
// migrate directly.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&customerDomain.Customer{},
		&itemDomain.Item{},
		&loanDomain.Loan{},
		&trxDomain.Transaction{},
		&branchDomain.Branch{},
		&branchDomain.Employee{},
		&Sequence{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func makeCurrentCustomer(customerID, name string) *customerDomain.Customer {
	now := time.Now().UTC()
	return &customerDomain.Customer{
		CustomerID:      customerID,
		FullName:        name,
		DateOfBirth:     "1990-01-15",
		Phone:           "09171234567",
		IDType:          customerDomain.IDDriversLicense,
		IDNumber:        "N01-23-456789",
		Address:         "123 Mabini St, Quezon City",
		KycStatus:       customerDomain.KycPending,
		RiskLevel:       customerDomain.RiskLow,
		WatchlistStatus: customerDomain.WatchlistClear,
		IsCurrent:       true,
		ValidFrom:       now,
	}
}

func makeActiveLoan(loanID string, customerKey, itemKey uint64, maturity time.Time) *loanDomain.Loan {
	return &loanDomain.Loan{
		LoanID:         loanID,
		CustomerKey:    customerKey,
		ItemKey:        itemKey,
		BranchKey:      1,
		Principal:      50_000,
		InterestRate:   3,
		TermDays:       30,
		InterestAmount: 1_500,
		TotalDue:       51_500,
		LoanDate:       maturity.AddDate(0, 0, -30),
		MaturityDate:   maturity,
		Status:         loanDomain.StatusActive,
	}
}
