package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	loanDomain "gemmary-backend/internal/domain/loan"
)

func TestLoanRepository_DueQueries_ExcludeSupersededCustomers(t *testing.T) {
	db := openTestDB(t)
	loans := NewLoanRepository(db)
	customers := NewCustomerRepository(db)
	ctx := context.Background()
	now := time.Date(2025, 8, 31, 12, 0, 0, 0, time.UTC)

	cur := makeCurrentCustomer("CUS-000010", "With Current Row")
	if err := customers.Insert(ctx, cur); err != nil {
		t.Fatal(err)
	}
	stale := makeCurrentCustomer("CUS-000011", "Superseded Only")
	stale.IsCurrent = false
	if err := customers.Insert(ctx, stale); err != nil {
		t.Fatal(err)
	}

	// Due in 3 days, customer current -> visible.
	visible := makeActiveLoan("PT250831-0001", cur.CustomerKey, 1, now.AddDate(0, 0, 3))
	if err := loans.Create(ctx, visible); err != nil {
		t.Fatal(err)
	}
	// Due in 3 days, customer has no current row -> hidden.
	hidden := makeActiveLoan("PT250831-0002", stale.CustomerKey, 2, now.AddDate(0, 0, 3))
	if err := loans.Create(ctx, hidden); err != nil {
		t.Fatal(err)
	}
	// Far future -> outside the window.
	far := makeActiveLoan("PT250831-0003", cur.CustomerKey, 3, now.AddDate(0, 0, 60))
	if err := loans.Create(ctx, far); err != nil {
		t.Fatal(err)
	}
	// Overdue.
	late := makeActiveLoan("PT250831-0004", cur.CustomerKey, 4, now.AddDate(0, 0, -2))
	if err := loans.Create(ctx, late); err != nil {
		t.Fatal(err)
	}

	due, err := loans.ActiveDueWithin(ctx, now, 7)
	if err != nil {
		t.Fatalf("due within: %v", err)
	}
	if len(due) != 1 || due[0].LoanID != "PT250831-0001" {
		t.Fatalf("due loans = %+v, want only PT250831-0001", due)
	}

	over, err := loans.ActiveOverdue(ctx, now)
	if err != nil {
		t.Fatalf("overdue: %v", err)
	}
	if len(over) != 1 || over[0].LoanID != "PT250831-0004" {
		t.Fatalf("overdue loans = %+v, want only PT250831-0004", over)
	}
}

func TestLoanRepository_ChildOf(t *testing.T) {
	db := openTestDB(t)
	loans := NewLoanRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	parent := makeActiveLoan("PT250801-0001", 1, 1, now)
	if err := loans.Create(ctx, parent); err != nil {
		t.Fatal(err)
	}
	child := makeActiveLoan("PT250831-0005", 1, 1, now.AddDate(0, 0, 30))
	child.ParentLoanKey = &parent.LoanKey
	child.RenewalCount = 1
	if err := loans.Create(ctx, child); err != nil {
		t.Fatal(err)
	}

	got, err := loans.ChildOf(ctx, parent.LoanKey)
	if err != nil {
		t.Fatalf("child of: %v", err)
	}
	if got.LoanID != "PT250831-0005" {
		t.Fatalf("child = %s, want PT250831-0005", got.LoanID)
	}

	if _, err := loans.ChildOf(ctx, child.LoanKey); !errors.Is(err, loanDomain.ErrNotFound) {
		t.Fatalf("childless err = %v, want ErrNotFound", err)
	}
}

func TestLoanRepository_CountByStatus(t *testing.T) {
	db := openTestDB(t)
	loans := NewLoanRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	a := makeActiveLoan("PT250831-0006", 1, 1, now)
	if err := loans.Create(ctx, a); err != nil {
		t.Fatal(err)
	}
	b := makeActiveLoan("PT250831-0007", 1, 2, now)
	b.Status = loanDomain.StatusRedeemed
	if err := loans.Create(ctx, b); err != nil {
		t.Fatal(err)
	}

	n, err := loans.CountByStatus(ctx, loanDomain.StatusActive)
	if err != nil || n != 1 {
		t.Fatalf("active count = %d err = %v, want 1", n, err)
	}
}

func TestSequenceRepository_MonotonicPerScope(t *testing.T) {
	db := openTestDB(t)
	seqs := NewSequenceRepository(db)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := seqs.Next(ctx, "customer")
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if got != want {
			t.Fatalf("seq = %d, want %d", got, want)
		}
	}

	// Scopes are independent counters.
	got, err := seqs.Next(ctx, "loan:250831")
	if err != nil || got != 1 {
		t.Fatalf("fresh scope seq = %d err = %v, want 1", got, err)
	}
}
