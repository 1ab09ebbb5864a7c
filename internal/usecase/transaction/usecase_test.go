package transaction

import (
	"context"
	"errors"
	"testing"
	"time"

	"gemmary-backend/internal/adapter/repository/mysql"
	trxDomain "gemmary-backend/internal/domain/transaction"
	"gemmary-backend/internal/testutil/testdb"
	"gemmary-backend/internal/testutil/uowmock"
)

func newTestUsecase(t *testing.T) (*Usecase, *time.Time) {
	t.Helper()
	db := testdb.Open(t)
	u := NewUsecase(mysql.NewTransactionRepository(db), mysql.NewGormUoW(db))
	at := time.Date(2025, 8, 15, 14, 0, 0, 0, time.UTC)
	u.now = func() time.Time { return at }
	return u, &at
}

func redemptionInput() RecordInput {
	return RecordInput{
		CustomerKey: 1,
		LoanKey:     1,
		BranchKey:   1,
		Type:        trxDomain.TypeRedemption,
		Principal:   15_000,
		Interest:    450,
		ServiceFee:  100,
	}
}

func TestRecord(t *testing.T) {
	u, _ := newTestUsecase(t)
	ctx := context.Background()

	got, err := u.Record(ctx, redemptionInput())
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if got.TransactionID != "TRX-250815-0001" {
		t.Fatalf("transaction id: got %s", got.TransactionID)
	}
	if got.DateKey != 20250815 {
		t.Fatalf("date key: got %d", got.DateKey)
	}
	if got.TotalAmount != 15_550 || got.NetCashFlow != 15_550 {
		t.Fatalf("totals: total=%d net=%d", got.TotalAmount, got.NetCashFlow)
	}
	if got.PaymentMethod != trxDomain.PayCash {
		t.Fatalf("default payment method: got %s", got.PaymentMethod)
	}
}

// TestRecord_SignLaw checks the direction table end to end: the sign
// of the stored net flow follows the type, never the caller.
func TestRecord_SignLaw(t *testing.T) {
	u, _ := newTestUsecase(t)
	ctx := context.Background()

	cases := []struct {
		typ  trxDomain.Type
		want int // -1, 0, +1
	}{
		{trxDomain.TypeNewLoan, -1},
		{trxDomain.TypeRedemption, +1},
		{trxDomain.TypeRenewal, +1},
		{trxDomain.TypePartialPayment, +1},
		{trxDomain.TypeInterestPayment, +1},
		{trxDomain.TypePenaltyPayment, +1},
		{trxDomain.TypeFeeCollection, +1},
		{trxDomain.TypeForfeiture, 0},
		{trxDomain.TypeAuctionSale, +1},
		{trxDomain.TypeAdjustment, 0},
	}
	for _, tc := range cases {
		in := redemptionInput()
		in.Type = tc.typ
		got, err := u.Record(ctx, in)
		if err != nil {
			t.Fatalf("%s: %v", tc.typ, err)
		}
		sign := 0
		switch {
		case got.NetCashFlow > 0:
			sign = 1
		case got.NetCashFlow < 0:
			sign = -1
		}
		if sign != tc.want {
			t.Errorf("%s: net sign want %d, got %d (net=%d)", tc.typ, tc.want, sign, got.NetCashFlow)
		}
	}
}

func TestRecord_Validation(t *testing.T) {
	u, _ := newTestUsecase(t)
	ctx := context.Background()

	in := redemptionInput()
	in.Type = "BUYBACK"
	if _, err := u.Record(ctx, in); !errors.Is(err, trxDomain.ErrUnknownType) {
		t.Fatalf("unknown type: want ErrUnknownType, got %v", err)
	}

	in = redemptionInput()
	in.CustomerKey = 0
	if _, err := u.Record(ctx, in); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing customer: want ErrInvalidInput, got %v", err)
	}

	in = redemptionInput()
	in.Discount = 50_000
	if _, err := u.Record(ctx, in); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("oversized discount: want ErrInvalidInput, got %v", err)
	}
}

func TestRecord_DiscountReducesTotal(t *testing.T) {
	u, _ := newTestUsecase(t)
	ctx := context.Background()

	in := redemptionInput()
	in.Discount = 150
	got, err := u.Record(ctx, in)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if got.TotalAmount != 15_400 || got.NetCashFlow != 15_400 {
		t.Fatalf("discounted totals: total=%d net=%d", got.TotalAmount, got.NetCashFlow)
	}
}

func TestTodayCashFlow(t *testing.T) {
	u, at := newTestUsecase(t)
	ctx := context.Background()

	disburse := RecordInput{
		CustomerKey: 1, LoanKey: 1, BranchKey: 1,
		Type: trxDomain.TypeNewLoan, Principal: 20_000,
	}
	if _, err := u.Record(ctx, disburse); err != nil {
		t.Fatalf("Record disburse: %v", err)
	}
	if _, err := u.Record(ctx, redemptionInput()); err != nil {
		t.Fatalf("Record collect: %v", err)
	}
	// a fact from yesterday must not leak into today's summary
	*at = at.AddDate(0, 0, -1)
	if _, err := u.Record(ctx, redemptionInput()); err != nil {
		t.Fatalf("Record yesterday: %v", err)
	}
	*at = at.AddDate(0, 0, 1)

	sum, err := u.TodayCashFlow(ctx, 1)
	if err != nil {
		t.Fatalf("TodayCashFlow: %v", err)
	}
	if sum.Disbursements != 20_000 {
		t.Fatalf("disbursements: want 20000, got %d", sum.Disbursements)
	}
	if sum.Collections != 15_550 {
		t.Fatalf("collections: want 15550, got %d", sum.Collections)
	}
	if sum.NetCashFlow != -4_450 {
		t.Fatalf("net: want -4450, got %d", sum.NetCashFlow)
	}
	if sum.Count != 2 {
		t.Fatalf("count: want 2, got %d", sum.Count)
	}
}

func TestWeeklyStats(t *testing.T) {
	u, at := newTestUsecase(t)
	ctx := context.Background()

	// one collection three days ago, one today
	*at = at.AddDate(0, 0, -3)
	if _, err := u.Record(ctx, redemptionInput()); err != nil {
		t.Fatalf("Record old: %v", err)
	}
	*at = at.AddDate(0, 0, 3)
	if _, err := u.Record(ctx, redemptionInput()); err != nil {
		t.Fatalf("Record today: %v", err)
	}

	week, err := u.WeeklyStats(ctx, 1)
	if err != nil {
		t.Fatalf("WeeklyStats: %v", err)
	}
	if len(week) != 7 {
		t.Fatalf("series length: want 7, got %d", len(week))
	}
	if week[6].DateKey != 20250815 || week[0].DateKey != 20250809 {
		t.Fatalf("series bounds: first=%d last=%d", week[0].DateKey, week[6].DateKey)
	}
	if week[6].Summary.Collections != 15_550 {
		t.Fatalf("today bar: %+v", week[6].Summary)
	}
	if week[3].Summary.Collections != 15_550 {
		t.Fatalf("three-days-ago bar: %+v", week[3].Summary)
	}
	// empty days are zero rows, not gaps
	if week[1].Summary.Count != 0 {
		t.Fatalf("empty day not zeroed: %+v", week[1].Summary)
	}
}

func TestRecent(t *testing.T) {
	u, _ := newTestUsecase(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := u.Record(ctx, redemptionInput()); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	got, err := u.Recent(ctx, 1, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("limit: want 2 rows, got %d", len(got))
	}
	// a nonsense limit falls back to the default window
	got, err = u.Recent(ctx, 1, -5)
	if err != nil {
		t.Fatalf("Recent default: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("default limit: want 3 rows, got %d", len(got))
	}
}

// recentLimitRepo records the limit the usecase hands down.
type recentLimitRepo struct {
	trxDomain.Repository
	gotLimit int
}

func (r *recentLimitRepo) Recent(_ context.Context, _ uint64, limit int) ([]trxDomain.Transaction, error) {
	r.gotLimit = limit
	return nil, nil
}

func TestRecent_ClampsOversizedLimit(t *testing.T) {
	repo := &recentLimitRepo{}
	u := NewUsecase(repo, &uowmock.UoW{})

	if _, err := u.Recent(context.Background(), 0, 500); err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if repo.gotLimit != maxRecentLimit {
		t.Fatalf("limit = %d, want clamped to %d", repo.gotLimit, maxRecentLimit)
	}
}
