package uowmock

import (
	"context"

	"gemmary-backend/internal/domain/loan"
	"gemmary-backend/internal/domain/uow"
)

// UoW is a pass-through unit of work for usecase tests. There is no
// transaction: fn runs against whatever repos the test wired into
// Repos, and an error from fn is simply returned (no rollback).
type UoW struct {
	Repos uow.Repos

	WithinTxFn     func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinLoanTxFn func(ctx context.Context, loanKey uint64, fn func(r uow.Repos, l *loan.Loan) error) error
}

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return fn(m.Repos)
}

func (m *UoW) WithinLoanTx(ctx context.Context, loanKey uint64, fn func(r uow.Repos, l *loan.Loan) error) error {
	if m.WithinLoanTxFn != nil {
		return m.WithinLoanTxFn(ctx, loanKey, fn)
	}
	l, err := m.Repos.Loans.GetByKeyForUpdate(ctx, loanKey)
	if err != nil {
		return err
	}
	return fn(m.Repos, l)
}

// Seq is an in-memory Sequences fake: independent counters per scope.
type Seq struct {
	counters map[string]int64
}

func NewSeq() *Seq { return &Seq{counters: map[string]int64{}} }

func (s *Seq) Next(_ context.Context, scope string) (int64, error) {
	s.counters[scope]++
	return s.counters[scope], nil
}
