package loan

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	Save(ctx context.Context, l *Loan) error
	GetByKey(ctx context.Context, loanKey uint64) (*Loan, error)
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// GetByKeyForUpdate locks the row; only meaningful inside a tx.
	GetByKeyForUpdate(ctx context.Context, loanKey uint64) (*Loan, error)
	// ChildOf returns the successor loan of a renewed row, if any.
	ChildOf(ctx context.Context, parentLoanKey uint64) (*Loan, error)
	// ActiveDueWithin returns active loans maturing in [now, now+days].
	ActiveDueWithin(ctx context.Context, now time.Time, days int) ([]Loan, error)
	// ActiveOverdue returns active loans past maturity.
	ActiveOverdue(ctx context.Context, now time.Time) ([]Loan, error)
	ByCustomerKey(ctx context.Context, customerKey uint64) ([]Loan, error)
	CountByStatus(ctx context.Context, s Status) (int64, error)
	Delete(ctx context.Context, loanKey uint64) error
}
