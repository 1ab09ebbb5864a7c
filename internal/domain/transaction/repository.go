package transaction

import "context"

// CashFlowSummary aggregates signed flows over a date-key range.
type CashFlowSummary struct {
	Disbursements int64 `json:"disbursements"`
	Collections   int64 `json:"collections"`
	NetCashFlow   int64 `json:"net_cash_flow"`
	Count         int64 `json:"transaction_count"`
}

// Repository reads and appends fact rows. A branchKey of zero means
// no branch filter: the query spans every branch.
type Repository interface {
	// Create appends one fact row. There is no update or delete.
	Create(ctx context.Context, t *Transaction) error
	ByLoanKey(ctx context.Context, loanKey uint64) ([]Transaction, error)
	ByCustomerKey(ctx context.Context, customerKey uint64) ([]Transaction, error)
	ByDateKey(ctx context.Context, branchKey uint64, dateKey int) ([]Transaction, error)
	Recent(ctx context.Context, branchKey uint64, limit int) ([]Transaction, error)
	// SummarizeRange sums stored net_cash_flow values over
	// [fromDateKey, toDateKey]; the sign column is authoritative.
	SummarizeRange(ctx context.Context, branchKey uint64, fromDateKey, toDateKey int) (*CashFlowSummary, error)
}
