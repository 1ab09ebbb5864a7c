package loanmock

import (
	"context"
	"time"

	domain "gemmary-backend/internal/domain/loan"
)

// Repo is a function-backed mock that satisfies domain.Repository.
// A nil getter behaves like an empty table.
type Repo struct {
	CreateFn            func(ctx context.Context, l *domain.Loan) error
	SaveFn              func(ctx context.Context, l *domain.Loan) error
	GetByKeyFn          func(ctx context.Context, loanKey uint64) (*domain.Loan, error)
	GetByLoanIDFn       func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByKeyForUpdateFn func(ctx context.Context, loanKey uint64) (*domain.Loan, error)
	ChildOfFn           func(ctx context.Context, parentLoanKey uint64) (*domain.Loan, error)
	ActiveDueWithinFn   func(ctx context.Context, now time.Time, days int) ([]domain.Loan, error)
	ActiveOverdueFn     func(ctx context.Context, now time.Time) ([]domain.Loan, error)
	ByCustomerKeyFn     func(ctx context.Context, customerKey uint64) ([]domain.Loan, error)
	CountByStatusFn     func(ctx context.Context, s domain.Status) (int64, error)
	DeleteFn            func(ctx context.Context, loanKey uint64) error
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByKey(ctx context.Context, loanKey uint64) (*domain.Loan, error) {
	if m.GetByKeyFn != nil {
		return m.GetByKeyFn(ctx, loanKey)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByKeyForUpdate(ctx context.Context, loanKey uint64) (*domain.Loan, error) {
	if m.GetByKeyForUpdateFn != nil {
		return m.GetByKeyForUpdateFn(ctx, loanKey)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) ChildOf(ctx context.Context, parentLoanKey uint64) (*domain.Loan, error) {
	if m.ChildOfFn != nil {
		return m.ChildOfFn(ctx, parentLoanKey)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) ActiveDueWithin(ctx context.Context, now time.Time, days int) ([]domain.Loan, error) {
	if m.ActiveDueWithinFn != nil {
		return m.ActiveDueWithinFn(ctx, now, days)
	}
	return nil, nil
}

func (m *Repo) ActiveOverdue(ctx context.Context, now time.Time) ([]domain.Loan, error) {
	if m.ActiveOverdueFn != nil {
		return m.ActiveOverdueFn(ctx, now)
	}
	return nil, nil
}

func (m *Repo) ByCustomerKey(ctx context.Context, customerKey uint64) ([]domain.Loan, error) {
	if m.ByCustomerKeyFn != nil {
		return m.ByCustomerKeyFn(ctx, customerKey)
	}
	return nil, nil
}

func (m *Repo) CountByStatus(ctx context.Context, s domain.Status) (int64, error) {
	if m.CountByStatusFn != nil {
		return m.CountByStatusFn(ctx, s)
	}
	return 0, nil
}

func (m *Repo) Delete(ctx context.Context, loanKey uint64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, loanKey)
	}
	return nil
}
