package loan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gemmary-backend/internal/domain/item"
	"gemmary-backend/internal/domain/loan"
	"gemmary-backend/internal/domain/transaction"
	"gemmary-backend/internal/domain/uow"
	"gemmary-backend/internal/pawncalc"
	"gemmary-backend/pkg/id"
)

var ErrInvalidInput = errors.New("invalid loan input")

const (
	loanSeqPrefix = "loan"
	itemSeqPrefix = "item"
	trxSeqPrefix  = "trx"
)

type Usecase struct {
	loans loan.Repository
	uow   uow.UnitOfWork
	now   func() time.Time
}

func NewUsecase(loans loan.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{loans: loans, uow: tx, now: func() time.Time { return time.Now().UTC() }}
}

// ItemInput describes the collateral. Category decides which subset is
// mandatory; the wizard enforces that before submission, this service
// re-checks only the essentials.
type ItemInput struct {
	Category    item.Category `json:"category"`
	Description string        `json:"description,omitempty"`
	Photos      string        `json:"photos,omitempty"`

	GoldType         string  `json:"gold_type,omitempty"`
	Karat            string  `json:"karat,omitempty"`
	WeightGrams      float64 `json:"weight_grams,omitempty"`
	GoldPricePerGram int64   `json:"gold_price_per_gram,omitempty"`

	Brand        string         `json:"brand,omitempty"`
	Model        string         `json:"model,omitempty"`
	SerialNumber string         `json:"serial_number,omitempty"`
	Condition    item.Condition `json:"condition,omitempty"`

	AppraisalValue int64 `json:"appraisal_value"`
}

// OriginateInput carries one pawn ticket. InterestAmount and TotalDue
// arrive precomputed (the calculator derives them, this service only
// persists); both dashboards and printed tickets read the stored
// values, never recompute.
type OriginateInput struct {
	CustomerKey uint64 `json:"customer_key"`
	BranchKey   uint64 `json:"branch_key"`
	EmployeeKey uint64 `json:"employee_key,omitempty"`

	Item ItemInput `json:"item"`

	Principal      int64   `json:"principal"`
	InterestRate   float64 `json:"interest_rate"`
	TermDays       int     `json:"term_days"`
	ServiceFee     int64   `json:"service_fee"`
	InterestAmount int64   `json:"interest_amount"`
	TotalDue       int64   `json:"total_due"`
}

func (in OriginateInput) validate() error {
	switch {
	case in.CustomerKey == 0:
		return fmt.Errorf("%w: customer_key is required", ErrInvalidInput)
	case !in.Item.Category.Valid():
		return fmt.Errorf("%w: unknown item category %q", ErrInvalidInput, in.Item.Category)
	case in.Item.AppraisalValue <= 0:
		return fmt.Errorf("%w: appraisal_value must be positive", ErrInvalidInput)
	case in.Principal <= 0 || in.InterestRate <= 0 || in.TermDays <= 0:
		return fmt.Errorf("%w: principal, interest_rate and term_days must be positive", ErrInvalidInput)
	}
	return nil
}

// Originate creates the item, the loan and the NEW_LOAN disbursement
// fact in one transaction. Item creation must complete before the loan
// row references its key, so the writes are strictly ordered.
func (u *Usecase) Originate(ctx context.Context, in OriginateInput) (*loan.Loan, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	now := u.now()
	var created *loan.Loan
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		itemSeq, err := r.Sequences.Next(ctx, uow.DailyScope(itemSeqPrefix, now))
		if err != nil {
			return fmt.Errorf("allocate item id: %w", err)
		}
		it := &item.Item{
			ItemID:           id.ItemID(now, itemSeq),
			BranchKey:        in.BranchKey,
			Category:         in.Item.Category,
			Description:      in.Item.Description,
			Photos:           in.Item.Photos,
			GoldType:         in.Item.GoldType,
			Karat:            in.Item.Karat,
			WeightGrams:      in.Item.WeightGrams,
			GoldPricePerGram: in.Item.GoldPricePerGram,
			Brand:            in.Item.Brand,
			Model:            in.Item.Model,
			SerialNumber:     in.Item.SerialNumber,
			Condition:        in.Item.Condition,
			AppraisalValue:   in.Item.AppraisalValue,
			Status:           item.StatusPawned,
		}
		if err := r.Items.Create(ctx, it); err != nil {
			return fmt.Errorf("create item: %w", err)
		}

		ticket := ""
		if loanSeq, err := r.Sequences.Next(ctx, uow.DailyScope(loanSeqPrefix, now)); err != nil {
			// degraded mode: a random suffix instead of the daily
			// counter keeps origination available, uniqueness is then
			// only probabilistic
			ticket = id.FallbackTicket(now)
		} else {
			ticket = id.TicketNumber(now, loanSeq)
		}

		l := &loan.Loan{
			LoanID:         ticket,
			CustomerKey:    in.CustomerKey,
			ItemKey:        it.ItemKey,
			BranchKey:      in.BranchKey,
			EmployeeKey:    in.EmployeeKey,
			Principal:      in.Principal,
			InterestRate:   in.InterestRate,
			TermDays:       in.TermDays,
			ServiceFee:     in.ServiceFee,
			InterestAmount: in.InterestAmount,
			TotalDue:       in.TotalDue,
			LoanDate:       now,
			MaturityDate:   pawncalc.MaturityDate(now, in.TermDays),
			Status:         loan.StatusActive,
		}
		if err := r.Loans.Create(ctx, l); err != nil {
			return fmt.Errorf("create loan: %w", err)
		}

		fact := &transaction.Transaction{
			CustomerKey: in.CustomerKey,
			LoanKey:     l.LoanKey,
			ItemKey:     it.ItemKey,
			BranchKey:   in.BranchKey,
			EmployeeKey: in.EmployeeKey,
			Type:        transaction.TypeNewLoan,
			Principal:   in.Principal,
			TotalAmount: in.Principal,
		}
		if err := u.appendFact(ctx, r, now, fact); err != nil {
			return err
		}
		created = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// appendFact stamps the date key, allocates the fact ID and signs the
// net flow from the direction table before writing.
func (u *Usecase) appendFact(ctx context.Context, r uow.Repos, now time.Time, f *transaction.Transaction) error {
	dir, err := transaction.DirectionOf(f.Type)
	if err != nil {
		return err
	}
	seq, err := r.Sequences.Next(ctx, uow.DailyScope(trxSeqPrefix, now))
	if err != nil {
		return fmt.Errorf("allocate transaction id: %w", err)
	}
	f.TransactionID = id.TransactionID(now, seq)
	f.DateKey = transaction.DateKeyFor(now)
	switch dir {
	case transaction.Outflow:
		f.NetCashFlow = -f.TotalAmount
	case transaction.Inflow:
		f.NetCashFlow = f.TotalAmount
	default:
		f.NetCashFlow = 0
	}
	if f.PaymentMethod == "" {
		f.PaymentMethod = transaction.PayCash
	}
	if err := r.Transactions.Create(ctx, f); err != nil {
		return fmt.Errorf("record %s fact: %w", f.Type, err)
	}
	return nil
}

// transition moves a locked loan to a new status and cascades the item
// status in the same transaction, so the pair can never diverge.
func (u *Usecase) transition(ctx context.Context, r uow.Repos, l *loan.Loan, to loan.Status, at time.Time) error {
	if !loan.CanTransition(l.Status, to) {
		return fmt.Errorf("%w: %s -> %s", loan.ErrInvalidTransition, l.Status, to)
	}
	l.StampStatus(to, at)
	if err := r.Loans.Save(ctx, l); err != nil {
		return fmt.Errorf("save loan %s: %w", l.LoanID, err)
	}
	if itemStatus, ok := loan.ItemStatusFor(to); ok {
		if err := r.Items.SetStatus(ctx, l.ItemKey, itemStatus); err != nil {
			return fmt.Errorf("cascade item status for loan %s: %w", l.LoanID, err)
		}
	}
	return nil
}

// UpdateStatus applies one legal transition with its item cascade.
func (u *Usecase) UpdateStatus(ctx context.Context, loanKey uint64, to loan.Status) (*loan.Loan, error) {
	var out *loan.Loan
	err := u.uow.WithinLoanTx(ctx, loanKey, func(r uow.Repos, l *loan.Loan) error {
		if err := u.transition(ctx, r, l, to, u.now()); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Renew closes the old loan and opens its successor as one unit: the
// parent flips to renewed, a child row reuses the same item and
// principal with interest recomputed for the new term, and the renewal
// payment (parent interest plus any penalty) is recorded as an inflow.
func (u *Usecase) Renew(ctx context.Context, loanKey uint64, newTermDays int) (*loan.Loan, error) {
	if newTermDays <= 0 {
		return nil, fmt.Errorf("%w: new term must be positive", ErrInvalidInput)
	}
	now := u.now()
	var child *loan.Loan
	err := u.uow.WithinLoanTx(ctx, loanKey, func(r uow.Repos, parent *loan.Loan) error {
		if err := u.transition(ctx, r, parent, loan.StatusRenewed, now); err != nil {
			return err
		}

		penalty := u.penaltyAsOf(parent, now)
		newInterest := pawncalc.RenewalInterest(parent.Principal, parent.InterestRate, newTermDays)

		seq, err := r.Sequences.Next(ctx, uow.DailyScope(loanSeqPrefix, now))
		if err != nil {
			return fmt.Errorf("allocate renewal ticket: %w", err)
		}
		c := &loan.Loan{
			LoanID:         id.TicketNumber(now, seq),
			CustomerKey:    parent.CustomerKey,
			ItemKey:        parent.ItemKey,
			BranchKey:      parent.BranchKey,
			EmployeeKey:    parent.EmployeeKey,
			Principal:      parent.Principal,
			InterestRate:   parent.InterestRate,
			TermDays:       newTermDays,
			ServiceFee:     parent.ServiceFee,
			InterestAmount: newInterest,
			TotalDue:       pawncalc.TotalDue(parent.Principal, newInterest, parent.ServiceFee),
			LoanDate:       now,
			MaturityDate:   pawncalc.MaturityDate(now, newTermDays),
			Status:         loan.StatusActive,
			ParentLoanKey:  &parent.LoanKey,
			RenewalCount:   parent.RenewalCount + 1,
		}
		if err := r.Loans.Create(ctx, c); err != nil {
			return fmt.Errorf("create renewal loan: %w", err)
		}

		fact := &transaction.Transaction{
			CustomerKey: parent.CustomerKey,
			LoanKey:     parent.LoanKey,
			ItemKey:     parent.ItemKey,
			BranchKey:   parent.BranchKey,
			Type:        transaction.TypeRenewal,
			Interest:    parent.InterestAmount,
			Penalty:     penalty,
			TotalAmount: parent.InterestAmount + penalty,
		}
		if err := u.appendFact(ctx, r, now, fact); err != nil {
			return err
		}
		child = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return child, nil
}

// Redeem settles a loan: status flips to redeemed (item cascades) and
// the collection fact records principal, interest, fee and the penalty
// accrued past maturity.
func (u *Usecase) Redeem(ctx context.Context, loanKey uint64, method transaction.PaymentMethod) (*loan.Loan, error) {
	now := u.now()
	var out *loan.Loan
	err := u.uow.WithinLoanTx(ctx, loanKey, func(r uow.Repos, l *loan.Loan) error {
		if err := u.transition(ctx, r, l, loan.StatusRedeemed, now); err != nil {
			return err
		}
		penalty := u.penaltyAsOf(l, now)
		fact := &transaction.Transaction{
			CustomerKey:   l.CustomerKey,
			LoanKey:       l.LoanKey,
			ItemKey:       l.ItemKey,
			BranchKey:     l.BranchKey,
			Type:          transaction.TypeRedemption,
			Principal:     l.Principal,
			Interest:      l.InterestAmount,
			ServiceFee:    l.ServiceFee,
			Penalty:       penalty,
			TotalAmount:   l.TotalDue + penalty,
			PaymentMethod: method,
		}
		if err := u.appendFact(ctx, r, now, fact); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Forfeit moves collateral ownership to the shop. No cash moves, the
// fact is neutral and exists for the audit trail.
func (u *Usecase) Forfeit(ctx context.Context, loanKey uint64) (*loan.Loan, error) {
	now := u.now()
	var out *loan.Loan
	err := u.uow.WithinLoanTx(ctx, loanKey, func(r uow.Repos, l *loan.Loan) error {
		if err := u.transition(ctx, r, l, loan.StatusForfeited, now); err != nil {
			return err
		}
		fact := &transaction.Transaction{
			CustomerKey: l.CustomerKey,
			LoanKey:     l.LoanKey,
			ItemKey:     l.ItemKey,
			BranchKey:   l.BranchKey,
			Type:        transaction.TypeForfeiture,
		}
		if err := u.appendFact(ctx, r, now, fact); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Auction sells forfeited collateral and records the sale proceeds.
func (u *Usecase) Auction(ctx context.Context, loanKey uint64, saleAmount int64) (*loan.Loan, error) {
	if saleAmount <= 0 {
		return nil, fmt.Errorf("%w: sale amount must be positive", ErrInvalidInput)
	}
	now := u.now()
	var out *loan.Loan
	err := u.uow.WithinLoanTx(ctx, loanKey, func(r uow.Repos, l *loan.Loan) error {
		if err := u.transition(ctx, r, l, loan.StatusAuctioned, now); err != nil {
			return err
		}
		fact := &transaction.Transaction{
			CustomerKey: l.CustomerKey,
			LoanKey:     l.LoanKey,
			ItemKey:     l.ItemKey,
			BranchKey:   l.BranchKey,
			Type:        transaction.TypeAuctionSale,
			TotalAmount: saleAmount,
		}
		if err := u.appendFact(ctx, r, now, fact); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Cancel voids a ticket without cash movement: the loan becomes a
// tombstone and the item goes back to the customer. No fact row.
func (u *Usecase) Cancel(ctx context.Context, loanKey uint64) (*loan.Loan, error) {
	return u.UpdateStatus(ctx, loanKey, loan.StatusCancelled)
}

// Delete hard-removes a loan and its item. Cancel is almost always the
// right call instead; this stays for data-correction use only.
func (u *Usecase) Delete(ctx context.Context, loanKey uint64) error {
	return u.uow.WithinLoanTx(ctx, loanKey, func(r uow.Repos, l *loan.Loan) error {
		if err := r.Loans.Delete(ctx, l.LoanKey); err != nil {
			return err
		}
		return r.Items.Delete(ctx, l.ItemKey)
	})
}

func (u *Usecase) penaltyAsOf(l *loan.Loan, now time.Time) int64 {
	daysOverdue := -pawncalc.DaysUntilDue(l.MaturityDate, now)
	return pawncalc.PenaltyAmount(l.Principal, l.InterestRate, daysOverdue)
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*loan.Loan, error) {
	return u.loans.GetByLoanID(ctx, loanID)
}

func (u *Usecase) GetByKey(ctx context.Context, loanKey uint64) (*loan.Loan, error) {
	return u.loans.GetByKey(ctx, loanKey)
}

// Successor returns the child loan of a renewed row, if one exists.
func (u *Usecase) Successor(ctx context.Context, loanKey uint64) (*loan.Loan, error) {
	return u.loans.ChildOf(ctx, loanKey)
}

func (u *Usecase) DueWithin(ctx context.Context, days int) ([]loan.Loan, error) {
	return u.loans.ActiveDueWithin(ctx, u.now(), days)
}

func (u *Usecase) Overdue(ctx context.Context) ([]loan.Loan, error) {
	return u.loans.ActiveOverdue(ctx, u.now())
}

func (u *Usecase) ByCustomer(ctx context.Context, customerKey uint64) ([]loan.Loan, error) {
	return u.loans.ByCustomerKey(ctx, customerKey)
}

// Stats is the dashboard loan-count panel.
type Stats struct {
	Active  int64 `json:"active"`
	DueSoon int64 `json:"due_soon"`
	Overdue int64 `json:"overdue"`
}

// DashboardStats counts active loans and splits out the due-soon and
// overdue bands using the shared classification window.
func (u *Usecase) DashboardStats(ctx context.Context) (*Stats, error) {
	active, err := u.loans.CountByStatus(ctx, loan.StatusActive)
	if err != nil {
		return nil, err
	}
	now := u.now()
	dueSoon, err := u.loans.ActiveDueWithin(ctx, now, pawncalc.DueSoonWindowDays)
	if err != nil {
		return nil, err
	}
	overdue, err := u.loans.ActiveOverdue(ctx, now)
	if err != nil {
		return nil, err
	}
	return &Stats{
		Active:  active,
		DueSoon: int64(len(dueSoon)),
		Overdue: int64(len(overdue)),
	}, nil
}
