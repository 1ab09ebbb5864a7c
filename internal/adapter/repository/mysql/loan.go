package mysql

import (
	"context"
	"errors"
	"time"

	loanDomain "gemmary-backend/internal/domain/loan"

	"gorm.io/gorm"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRepository) GetByKey(ctx context.Context, loanKey uint64) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	err := r.db.WithContext(ctx).Where("loan_key = ?", loanKey).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, loanDomain.ErrNotFound
	}
	return &out, err
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	err := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, loanDomain.ErrNotFound
	}
	return &out, err
}

func (r *LoanRepository) GetByKeyForUpdate(ctx context.Context, loanKey uint64) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	err := withRowLock(r.db.WithContext(ctx)).
		Where("loan_key = ?", loanKey).
		First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, loanDomain.ErrNotFound
	}
	return &out, err
}

func (r *LoanRepository) ChildOf(ctx context.Context, parentLoanKey uint64) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	err := r.db.WithContext(ctx).Where("parent_loan_key = ?", parentLoanKey).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, loanDomain.ErrNotFound
	}
	return &out, err
}

// currentCustomerJoin keeps superseded customer versions out of loan
// listings: only loans whose customer still has a current row show up.
func (r *LoanRepository) currentCustomerJoin(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&loanDomain.Loan{}).
		Joins("JOIN dim_customer c ON c.customer_key = dim_loan.customer_key AND c.is_current = ?", true)
}

func (r *LoanRepository) ActiveDueWithin(ctx context.Context, now time.Time, days int) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	until := now.AddDate(0, 0, days)
	err := r.currentCustomerJoin(ctx).
		Where("dim_loan.status = ? AND dim_loan.maturity_date >= ? AND dim_loan.maturity_date <= ?",
			loanDomain.StatusActive, now, until).
		Order("dim_loan.maturity_date").
		Find(&out).Error
	return out, err
}

func (r *LoanRepository) ActiveOverdue(ctx context.Context, now time.Time) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	err := r.currentCustomerJoin(ctx).
		Where("dim_loan.status = ? AND dim_loan.maturity_date < ?", loanDomain.StatusActive, now).
		Order("dim_loan.maturity_date").
		Find(&out).Error
	return out, err
}

func (r *LoanRepository) ByCustomerKey(ctx context.Context, customerKey uint64) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	err := r.db.WithContext(ctx).
		Where("customer_key = ?", customerKey).
		Order("created_at DESC, loan_key DESC").
		Find(&out).Error
	return out, err
}

func (r *LoanRepository) CountByStatus(ctx context.Context, s loanDomain.Status) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&loanDomain.Loan{}).
		Where("status = ?", s).
		Count(&n).Error
	return n, err
}

func (r *LoanRepository) Delete(ctx context.Context, loanKey uint64) error {
	return r.db.WithContext(ctx).Where("loan_key = ?", loanKey).Delete(&loanDomain.Loan{}).Error
}
