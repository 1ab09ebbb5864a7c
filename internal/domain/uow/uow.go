package uow

import (
	"context"
	"time"

	"gemmary-backend/internal/domain/branch"
	"gemmary-backend/internal/domain/customer"
	"gemmary-backend/internal/domain/item"
	"gemmary-backend/internal/domain/loan"
	"gemmary-backend/internal/domain/transaction"
)

// Sequences allocates server-side monotonically-increasing numbers.
// Allocation inside the caller's transaction keeps generated business
// IDs collision-free under concurrent operators.
type Sequences interface {
	// Next increments and returns the counter for scope (e.g. a global
	// "customer" scope or a per-day "loan:250831" scope).
	Next(ctx context.Context, scope string) (int64, error)
}

// DailyScope builds a per-day sequence scope name.
func DailyScope(prefix string, t time.Time) string {
	return prefix + ":" + t.Format("060102")
}

type Repos struct {
	Customers    customer.Repository
	Items        item.Repository
	Loans        loan.Repository
	Transactions transaction.Repository
	Branches     branch.Repository
	Sequences    Sequences
}

type UnitOfWork interface {
	// WithinTx runs fn with every repository bound to one transaction.
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// WithinLoanTx locks the loan row first, then passes it in.
	WithinLoanTx(ctx context.Context, loanKey uint64, fn func(r Repos, l *loan.Loan) error) error
}
