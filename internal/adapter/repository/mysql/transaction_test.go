package mysql

import (
	"context"
	"fmt"
	"testing"

	trxDomain "gemmary-backend/internal/domain/transaction"
)

func seedFact(t *testing.T, repo *TransactionRepository, dateKey int, net int64) {
	t.Helper()
	seedBranchFact(t, repo, 1, dateKey, net)
}

func seedBranchFact(t *testing.T, repo *TransactionRepository, branchKey uint64, dateKey int, net int64) {
	t.Helper()
	err := repo.Create(context.Background(), &trxDomain.Transaction{
		TransactionID: fmt.Sprintf("TRX-%d-%d-%d", branchKey, dateKey, net),
		DateKey:       dateKey,
		CustomerKey:   1,
		BranchKey:     branchKey,
		Type:          trxDomain.TypeAdjustment,
		TotalAmount:   net,
		NetCashFlow:   net,
	})
	if err != nil {
		t.Fatalf("seed fact: %v", err)
	}
}

func TestTransactionRepository_SummarizeRange_SignAuthoritative(t *testing.T) {
	db := openTestDB(t)
	repo := NewTransactionRepository(db)

	seedFact(t, repo, 20250831, -50_000) // disbursement
	seedFact(t, repo, 20250831, 51_500)  // collection
	seedFact(t, repo, 20250831, 0)       // neutral
	seedFact(t, repo, 20250820, -10_000) // outside the range

	sum, err := repo.SummarizeRange(context.Background(), 1, 20250825, 20250831)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if sum.Disbursements != 50_000 {
		t.Fatalf("disbursements = %d, want 50000", sum.Disbursements)
	}
	if sum.Collections != 51_500 {
		t.Fatalf("collections = %d, want 51500", sum.Collections)
	}
	if sum.NetCashFlow != 1_500 {
		t.Fatalf("net = %d, want 1500", sum.NetCashFlow)
	}
	if sum.Count != 3 {
		t.Fatalf("count = %d, want 3", sum.Count)
	}
}

func TestTransactionRepository_BranchZero_SpansAllBranches(t *testing.T) {
	db := openTestDB(t)
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	seedBranchFact(t, repo, 1, 20250831, -50_000)
	seedBranchFact(t, repo, 2, 20250831, 30_000)

	// Unscoped summary sees both branches.
	sum, err := repo.SummarizeRange(ctx, 0, 20250831, 20250831)
	if err != nil {
		t.Fatalf("summarize all: %v", err)
	}
	if sum.Count != 2 || sum.Disbursements != 50_000 || sum.Collections != 30_000 {
		t.Fatalf("all-branch summary = %+v, want both rows", sum)
	}

	// A concrete branch key still narrows.
	sum, err = repo.SummarizeRange(ctx, 2, 20250831, 20250831)
	if err != nil {
		t.Fatalf("summarize branch 2: %v", err)
	}
	if sum.Count != 1 || sum.Collections != 30_000 {
		t.Fatalf("branch-2 summary = %+v, want the single collection", sum)
	}

	recent, err := repo.Recent(ctx, 0, 10)
	if err != nil {
		t.Fatalf("recent all: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("recent all-branch rows = %d, want 2", len(recent))
	}

	day, err := repo.ByDateKey(ctx, 0, 20250831)
	if err != nil {
		t.Fatalf("by date key all: %v", err)
	}
	if len(day) != 2 {
		t.Fatalf("by-date all-branch rows = %d, want 2", len(day))
	}
}

func TestTransactionRepository_SummarizeRange_Empty(t *testing.T) {
	db := openTestDB(t)
	repo := NewTransactionRepository(db)

	sum, err := repo.SummarizeRange(context.Background(), 9, 20250101, 20250131)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if sum.Disbursements != 0 || sum.Collections != 0 || sum.NetCashFlow != 0 || sum.Count != 0 {
		t.Fatalf("empty summary = %+v, want zeroes", sum)
	}
}
