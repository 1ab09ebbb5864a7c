package transaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gemmary-backend/internal/domain/transaction"
	"gemmary-backend/internal/domain/uow"
	"gemmary-backend/pkg/id"
)

var ErrInvalidInput = errors.New("invalid transaction input")

const trxSeqPrefix = "trx"

// Recent listing page bounds. An oversized request is clamped to the
// maximum rather than reset to the default.
const (
	defaultRecentLimit = 20
	maxRecentLimit     = 100
)

// Usecase appends cash-flow facts and serves the dashboard
// aggregations. Facts are append-only; there is no update path here at
// all.
type Usecase struct {
	facts transaction.Repository
	uow   uow.UnitOfWork
	now   func() time.Time
}

func NewUsecase(facts transaction.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{facts: facts, uow: tx, now: func() time.Time { return time.Now().UTC() }}
}

// RecordInput is one loan-affecting action. TotalAmount is derived
// from the breakdown, never accepted from the caller, so the stored
// row always sums consistently.
type RecordInput struct {
	CustomerKey uint64 `json:"customer_key"`
	LoanKey     uint64 `json:"loan_key,omitempty"`
	ItemKey     uint64 `json:"item_key,omitempty"`
	BranchKey   uint64 `json:"branch_key"`
	EmployeeKey uint64 `json:"employee_key,omitempty"`

	Type transaction.Type `json:"type"`

	Principal    int64 `json:"principal"`
	Interest     int64 `json:"interest"`
	ServiceFee   int64 `json:"service_fee"`
	Penalty      int64 `json:"penalty"`
	Discount     int64 `json:"discount"`
	OtherCharges int64 `json:"other_charges"`

	PaymentMethod   transaction.PaymentMethod `json:"payment_method,omitempty"`
	ReferenceNumber string                    `json:"reference_number,omitempty"`
	Notes           string                    `json:"notes,omitempty"`
}

func (in RecordInput) total() int64 {
	return in.Principal + in.Interest + in.ServiceFee + in.Penalty + in.OtherCharges - in.Discount
}

// Record stamps the date key, signs the net flow from the direction
// table and appends the fact. The sign is written exactly once here;
// every aggregation downstream sums the stored value.
func (u *Usecase) Record(ctx context.Context, in RecordInput) (*transaction.Transaction, error) {
	dir, err := transaction.DirectionOf(in.Type)
	if err != nil {
		return nil, err
	}
	if in.CustomerKey == 0 {
		return nil, fmt.Errorf("%w: customer_key is required", ErrInvalidInput)
	}
	total := in.total()
	if total < 0 {
		return nil, fmt.Errorf("%w: discount exceeds the charges", ErrInvalidInput)
	}

	now := u.now()
	f := &transaction.Transaction{
		DateKey:         transaction.DateKeyFor(now),
		CustomerKey:     in.CustomerKey,
		LoanKey:         in.LoanKey,
		ItemKey:         in.ItemKey,
		BranchKey:       in.BranchKey,
		EmployeeKey:     in.EmployeeKey,
		Type:            in.Type,
		Principal:       in.Principal,
		Interest:        in.Interest,
		ServiceFee:      in.ServiceFee,
		Penalty:         in.Penalty,
		Discount:        in.Discount,
		OtherCharges:    in.OtherCharges,
		TotalAmount:     total,
		PaymentMethod:   in.PaymentMethod,
		ReferenceNumber: in.ReferenceNumber,
		Notes:           in.Notes,
	}
	switch dir {
	case transaction.Outflow:
		f.NetCashFlow = -total
	case transaction.Inflow:
		f.NetCashFlow = total
	default:
		f.NetCashFlow = 0
	}
	if f.PaymentMethod == "" {
		f.PaymentMethod = transaction.PayCash
	}

	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		seq, err := r.Sequences.Next(ctx, uow.DailyScope(trxSeqPrefix, now))
		if err != nil {
			return fmt.Errorf("allocate transaction id: %w", err)
		}
		f.TransactionID = id.TransactionID(now, seq)
		return r.Transactions.Create(ctx, f)
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (u *Usecase) ByLoan(ctx context.Context, loanKey uint64) ([]transaction.Transaction, error) {
	return u.facts.ByLoanKey(ctx, loanKey)
}

func (u *Usecase) ByCustomer(ctx context.Context, customerKey uint64) ([]transaction.Transaction, error) {
	return u.facts.ByCustomerKey(ctx, customerKey)
}

func (u *Usecase) Recent(ctx context.Context, branchKey uint64, limit int) ([]transaction.Transaction, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}
	return u.facts.Recent(ctx, branchKey, limit)
}

// TodayCashFlow is the dashboard headline: disbursed, collected and
// net for the current date key.
func (u *Usecase) TodayCashFlow(ctx context.Context, branchKey uint64) (*transaction.CashFlowSummary, error) {
	today := transaction.DateKeyFor(u.now())
	return u.facts.SummarizeRange(ctx, branchKey, today, today)
}

// DayStat is one bar of the weekly rollup.
type DayStat struct {
	DateKey int                         `json:"date_key"`
	Summary transaction.CashFlowSummary `json:"summary"`
}

// WeeklyStats returns the last seven days oldest-first, today
// included. Days without facts come back as zero rows so charts get a
// fixed-width series.
func (u *Usecase) WeeklyStats(ctx context.Context, branchKey uint64) ([]DayStat, error) {
	now := u.now()
	out := make([]DayStat, 0, 7)
	for offset := -6; offset <= 0; offset++ {
		day := now.AddDate(0, 0, offset)
		key := transaction.DateKeyFor(day)
		sum, err := u.facts.SummarizeRange(ctx, branchKey, key, key)
		if err != nil {
			return nil, err
		}
		out = append(out, DayStat{DateKey: key, Summary: *sum})
	}
	return out, nil
}
