package customer

import (
	"context"
	"errors"
	"testing"
	"time"

	"gemmary-backend/internal/adapter/repository/mysql"
	domain "gemmary-backend/internal/domain/customer"
	"gemmary-backend/internal/testutil/testdb"
)

func newTestUsecase(t *testing.T, policy Policy) *Usecase {
	t.Helper()
	db := testdb.Open(t)
	u := NewUsecase(mysql.NewCustomerRepository(db), mysql.NewGormUoW(db), policy)
	// deterministic stepping clock so version intervals are queryable
	base := time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)
	step := 0
	u.now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Hour)
	}
	return u
}

func registrationInput(name string) CreateInput {
	return CreateInput{
		FullName:    name,
		DateOfBirth: "1988-03-21",
		Phone:       "09171234567",
		IDType:      domain.IDUmid,
		IDNumber:    "1234-5678-9012",
		Address:     "45 Rizal Ave, Manila",
	}
}

func TestCreate(t *testing.T) {
	u := newTestUsecase(t, DefaultPolicy())
	ctx := context.Background()

	c, err := u.Create(ctx, registrationInput("Maria Santos"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.CustomerID != "CUS-000001" {
		t.Fatalf("CustomerID: want CUS-000001, got %s", c.CustomerID)
	}
	if !c.IsCurrent {
		t.Fatalf("new customer must be current")
	}
	if c.KycStatus != domain.KycPending || c.WatchlistStatus != domain.WatchlistClear {
		t.Fatalf("compliance defaults: got kyc=%s watchlist=%s", c.KycStatus, c.WatchlistStatus)
	}

	c2, err := u.Create(ctx, registrationInput("Jose Cruz"))
	if err != nil {
		t.Fatalf("Create second: %v", err)
	}
	if c2.CustomerID != "CUS-000002" {
		t.Fatalf("sequence did not advance: got %s", c2.CustomerID)
	}
}

func TestCreate_MissingRequired(t *testing.T) {
	u := newTestUsecase(t, DefaultPolicy())

	_, err := u.Create(context.Background(), CreateInput{FullName: "  ", Phone: "0917"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}
	_, err = u.Create(context.Background(), CreateInput{FullName: "Maria Santos"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing phone: want ErrInvalidInput, got %v", err)
	}
}

// TestVersioning walks the full lifecycle: one create, two updates,
// then history, current and as-of reads against the version chain.
func TestVersioning(t *testing.T) {
	u := newTestUsecase(t, DefaultPolicy())
	ctx := context.Background()

	v1, err := u.Create(ctx, registrationInput("Maria Santos"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	v2, err := u.Update(ctx, v1.CustomerKey, func(next *domain.Customer) {
		next.Phone = "09998887777"
	})
	if err != nil {
		t.Fatalf("first Update: %v", err)
	}
	v3, err := u.Update(ctx, v2.CustomerKey, func(next *domain.Customer) {
		next.Address = "12 Bonifacio Dr, Pasay"
	})
	if err != nil {
		t.Fatalf("second Update: %v", err)
	}

	hist, err := u.History(ctx, v1.CustomerID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(hist) != 3 {
		t.Fatalf("history rows: want 3, got %d", len(hist))
	}
	// newest first
	if hist[0].CustomerKey != v3.CustomerKey || hist[2].CustomerKey != v1.CustomerKey {
		t.Fatalf("history order: got keys %d,%d,%d", hist[0].CustomerKey, hist[1].CustomerKey, hist[2].CustomerKey)
	}
	current := 0
	for _, h := range hist {
		if h.IsCurrent {
			current++
		}
	}
	if current != 1 {
		t.Fatalf("current rows in history: want 1, got %d", current)
	}

	cur, err := u.GetCurrent(ctx, v1.CustomerID)
	if err != nil {
		t.Fatalf("GetCurrent: %v", err)
	}
	if cur.CustomerKey != v3.CustomerKey {
		t.Fatalf("GetCurrent: want key %d, got %d", v3.CustomerKey, cur.CustomerKey)
	}
	if cur.Phone != "09998887777" || cur.Address != "12 Bonifacio Dr, Pasay" {
		t.Fatalf("current row lost carried-forward fields: %+v", cur)
	}

	// a timestamp inside v1's validity window resolves to v1
	between := v1.ValidFrom.Add(30 * time.Minute)
	asOf, err := u.AsOf(ctx, v1.CustomerID, between)
	if err != nil {
		t.Fatalf("AsOf: %v", err)
	}
	if asOf.CustomerKey != v1.CustomerKey {
		t.Fatalf("AsOf(%v): want key %d, got %d", between, v1.CustomerKey, asOf.CustomerKey)
	}
	if asOf.Phone != "09171234567" {
		t.Fatalf("AsOf returned mutated row: phone %s", asOf.Phone)
	}
}

func TestUpdate_SupersededRow(t *testing.T) {
	u := newTestUsecase(t, DefaultPolicy())
	ctx := context.Background()

	v1, err := u.Create(ctx, registrationInput("Maria Santos"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := u.Update(ctx, v1.CustomerKey, func(next *domain.Customer) {
		next.Email = "maria@example.ph"
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	// v1 is no longer current; a stale writer must not fork the chain
	_, err = u.Update(ctx, v1.CustomerKey, func(next *domain.Customer) {
		next.Email = "stale@example.ph"
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("stale update: want ErrConflict, got %v", err)
	}
}

func TestUpdate_CannotBreakChain(t *testing.T) {
	u := newTestUsecase(t, DefaultPolicy())
	ctx := context.Background()

	v1, err := u.Create(ctx, registrationInput("Maria Santos"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	v2, err := u.Update(ctx, v1.CustomerKey, func(next *domain.Customer) {
		next.CustomerID = "CUS-999999"
		next.IsCurrent = false
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if v2.CustomerID != v1.CustomerID || !v2.IsCurrent {
		t.Fatalf("chain fields not re-pinned: %+v", v2)
	}
}

func TestSetWatchlistStatus_InPlace(t *testing.T) {
	u := newTestUsecase(t, DefaultPolicy())
	ctx := context.Background()

	v1, err := u.Create(ctx, registrationInput("Maria Santos"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := u.SetWatchlistStatus(ctx, v1.CustomerKey, domain.WatchlistFlagged, "partial name match")
	if err != nil {
		t.Fatalf("SetWatchlistStatus: %v", err)
	}
	if got.WatchlistStatus != domain.WatchlistFlagged || got.WatchlistNotes != "partial name match" {
		t.Fatalf("flag not applied: %+v", got)
	}
	if got.CustomerKey != v1.CustomerKey {
		t.Fatalf("in-place policy must not create a new version")
	}
	hist, _ := u.History(ctx, v1.CustomerID)
	if len(hist) != 1 {
		t.Fatalf("history rows after in-place flag: want 1, got %d", len(hist))
	}
}

func TestSetWatchlistStatus_Versioned(t *testing.T) {
	u := newTestUsecase(t, Policy{MutableComplianceFlags: false})
	ctx := context.Background()

	v1, err := u.Create(ctx, registrationInput("Maria Santos"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := u.SetWatchlistStatus(ctx, v1.CustomerKey, domain.WatchlistBlocked, "sanctions hit")
	if err != nil {
		t.Fatalf("SetWatchlistStatus: %v", err)
	}
	if got.CustomerKey == v1.CustomerKey {
		t.Fatalf("versioned policy must create a new version")
	}
	hist, _ := u.History(ctx, v1.CustomerID)
	if len(hist) != 2 {
		t.Fatalf("history rows after versioned flag: want 2, got %d", len(hist))
	}
	if hist[0].WatchlistStatus != domain.WatchlistBlocked || hist[1].WatchlistStatus != domain.WatchlistClear {
		t.Fatalf("versioned flag chain wrong: %s then %s", hist[1].WatchlistStatus, hist[0].WatchlistStatus)
	}
}

func TestSetKycStatus(t *testing.T) {
	u := newTestUsecase(t, DefaultPolicy())
	ctx := context.Background()

	v1, err := u.Create(ctx, registrationInput("Maria Santos"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := u.SetKycStatus(ctx, v1.CustomerKey, domain.KycVerified)
	if err != nil {
		t.Fatalf("SetKycStatus: %v", err)
	}
	if got.KycStatus != domain.KycVerified {
		t.Fatalf("kyc status: want %s, got %s", domain.KycVerified, got.KycStatus)
	}
}

func TestSearch_MinLength(t *testing.T) {
	u := newTestUsecase(t, DefaultPolicy())
	ctx := context.Background()

	if _, err := u.Create(ctx, registrationInput("Maria Santos")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := u.Search(ctx, " m ")
	if err != nil {
		t.Fatalf("Search short: %v", err)
	}
	if got != nil {
		t.Fatalf("sub-minimum query must return nothing, got %d rows", len(got))
	}
	got, err = u.Search(ctx, "maria")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Search rows: want 1, got %d", len(got))
	}
}

func TestCheckConsistency(t *testing.T) {
	u := newTestUsecase(t, DefaultPolicy())
	ctx := context.Background()

	v1, err := u.Create(ctx, registrationInput("Maria Santos"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := u.Update(ctx, v1.CustomerKey, func(next *domain.Customer) {
		next.Phone = "09990001111"
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	bad, err := u.CheckConsistency(ctx)
	if err != nil {
		t.Fatalf("CheckConsistency: %v", err)
	}
	if len(bad) != 0 {
		t.Fatalf("invariant violations on a clean chain: %v", bad)
	}
}
