package mysql

import (
	"context"

	trxDomain "gemmary-backend/internal/domain/transaction"

	"gorm.io/gorm"
)

type TransactionRepository struct{ db *gorm.DB }

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, t *trxDomain.Transaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TransactionRepository) ByLoanKey(ctx context.Context, loanKey uint64) ([]trxDomain.Transaction, error) {
	var out []trxDomain.Transaction
	err := r.db.WithContext(ctx).
		Where("loan_key = ?", loanKey).
		Order("created_at DESC, transaction_key DESC").
		Find(&out).Error
	return out, err
}

func (r *TransactionRepository) ByCustomerKey(ctx context.Context, customerKey uint64) ([]trxDomain.Transaction, error) {
	var out []trxDomain.Transaction
	err := r.db.WithContext(ctx).
		Where("customer_key = ?", customerKey).
		Order("created_at DESC, transaction_key DESC").
		Find(&out).Error
	return out, err
}

// branchScope narrows a query to one branch; branch key 0 spans all
// branches per the Repository contract.
func branchScope(q *gorm.DB, branchKey uint64) *gorm.DB {
	if branchKey == 0 {
		return q
	}
	return q.Where("branch_key = ?", branchKey)
}

func (r *TransactionRepository) ByDateKey(ctx context.Context, branchKey uint64, dateKey int) ([]trxDomain.Transaction, error) {
	var out []trxDomain.Transaction
	err := branchScope(r.db.WithContext(ctx), branchKey).
		Where("date_key = ?", dateKey).
		Order("created_at DESC, transaction_key DESC").
		Find(&out).Error
	return out, err
}

func (r *TransactionRepository) Recent(ctx context.Context, branchKey uint64, limit int) ([]trxDomain.Transaction, error) {
	var out []trxDomain.Transaction
	err := branchScope(r.db.WithContext(ctx), branchKey).
		Order("created_at DESC, transaction_key DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// SummarizeRange aggregates on the stored signed net_cash_flow only;
// the type column never participates here.
func (r *TransactionRepository) SummarizeRange(ctx context.Context, branchKey uint64, fromDateKey, toDateKey int) (*trxDomain.CashFlowSummary, error) {
	type agg struct {
		Disbursements int64
		Collections   int64
		Net           int64
		N             int64
	}
	var a agg
	err := branchScope(r.db.WithContext(ctx).Model(&trxDomain.Transaction{}), branchKey).
		Select(
			"COALESCE(SUM(CASE WHEN net_cash_flow < 0 THEN -net_cash_flow ELSE 0 END), 0) AS disbursements, " +
				"COALESCE(SUM(CASE WHEN net_cash_flow > 0 THEN net_cash_flow ELSE 0 END), 0) AS collections, " +
				"COALESCE(SUM(net_cash_flow), 0) AS net, " +
				"COUNT(*) AS n").
		Where("date_key >= ? AND date_key <= ?", fromDateKey, toDateKey).
		Scan(&a).Error
	if err != nil {
		return nil, err
	}
	return &trxDomain.CashFlowSummary{
		Disbursements: a.Disbursements,
		Collections:   a.Collections,
		NetCashFlow:   a.Net,
		Count:         a.N,
	}, nil
}
