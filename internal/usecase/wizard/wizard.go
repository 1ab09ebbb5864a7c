package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	customerDomain "gemmary-backend/internal/domain/customer"
	itemDomain "gemmary-backend/internal/domain/item"
	loanDomain "gemmary-backend/internal/domain/loan"
	"gemmary-backend/internal/pawncalc"
	customerUC "gemmary-backend/internal/usecase/customer"
	loanUC "gemmary-backend/internal/usecase/loan"
	"gemmary-backend/internal/usecase/screening"
)

var (
	ErrStepIncomplete = errors.New("step requirements not met")
	ErrWrongStep      = errors.New("operation not valid on this step")
	ErrScreeningGate  = errors.New("screening gate not passed")
)

// Step is the wizard position. Forward movement is gated, backward is
// always allowed.
type Step int

const (
	StepCustomer Step = iota
	StepItem
	StepTerms
	StepReview
)

func (s Step) String() string {
	switch s {
	case StepCustomer:
		return "customer"
	case StepItem:
		return "item"
	case StepTerms:
		return "terms"
	case StepReview:
		return "review"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// termChoices is the fixed term menu in days.
var termChoices = []int{30, 60, 90, 120}

// ltvWarnPercent is the loan-to-value level the terms screen warns at.
const ltvWarnPercent = 80

// principalPresetPercents drives the quick-select buttons.
var principalPresetPercents = []int64{60, 70, 80}

// CustomerDraft selects an existing customer or registers a new one.
// Exactly one of the two fields is set.
type CustomerDraft struct {
	ExistingKey uint64                  `json:"existing_key,omitempty"`
	Register    *customerUC.CreateInput `json:"register,omitempty"`
}

// ItemDraft is the collateral form. Photos are collected as a list and
// serialized on submission.
type ItemDraft struct {
	Category    itemDomain.Category `json:"category"`
	Description string              `json:"description,omitempty"`
	Photos      []string            `json:"photos"`

	GoldType         string  `json:"gold_type,omitempty"`
	Karat            string  `json:"karat,omitempty"`
	WeightGrams      float64 `json:"weight_grams,omitempty"`
	GoldPricePerGram int64   `json:"gold_price_per_gram,omitempty"`

	Brand        string               `json:"brand,omitempty"`
	Model        string               `json:"model,omitempty"`
	SerialNumber string               `json:"serial_number,omitempty"`
	Condition    itemDomain.Condition `json:"condition,omitempty"`

	AppraisalValue int64 `json:"appraisal_value"`
}

// TermsDraft is the loan terms form.
type TermsDraft struct {
	Principal    int64   `json:"principal"`
	InterestRate float64 `json:"interest_rate"`
	TermDays     int     `json:"term_days"`
	ServiceFee   int64   `json:"service_fee"`
}

// fieldRule is one category-specific requirement. The per-category
// tables keep the validator extensible without new switch arms.
type fieldRule struct {
	name string
	ok   func(d *ItemDraft) bool
}

var categoryRules = map[itemDomain.Category][]fieldRule{
	itemDomain.CategoryGold: {
		{"gold_type", func(d *ItemDraft) bool { return d.GoldType != "" }},
		{"weight_grams", func(d *ItemDraft) bool { return d.WeightGrams > 0 }},
		{"karat", func(d *ItemDraft) bool { return d.Karat != "" }},
	},
	itemDomain.CategoryElectronics: {
		{"brand", func(d *ItemDraft) bool { return d.Brand != "" }},
		{"model", func(d *ItemDraft) bool { return d.Model != "" }},
		{"condition", func(d *ItemDraft) bool { return d.Condition != "" }},
	},
	itemDomain.CategoryMobile: {
		{"brand", func(d *ItemDraft) bool { return d.Brand != "" }},
		{"model", func(d *ItemDraft) bool { return d.Model != "" }},
		{"condition", func(d *ItemDraft) bool { return d.Condition != "" }},
	},
	itemDomain.CategoryOther: {},
}

// Wizard owns the draft state for one origination flow. It is a plain
// in-memory object bound to one operator session; nothing persists
// before Submit.
type Wizard struct {
	BranchKey   uint64
	EmployeeKey uint64

	customers *customerUC.Usecase
	loans     *loanUC.Usecase
	provider  screening.Provider

	step      Step
	customer  CustomerDraft
	item      ItemDraft
	terms     TermsDraft
	screening *screening.Screening

	now func() time.Time
}

func New(customers *customerUC.Usecase, loans *loanUC.Usecase, provider screening.Provider, branchKey, employeeKey uint64) *Wizard {
	return &Wizard{
		BranchKey:   branchKey,
		EmployeeKey: employeeKey,
		customers:   customers,
		loans:       loans,
		provider:    provider,
		step:        StepCustomer,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (w *Wizard) Step() Step { return w.step }

// SelectCustomer points the draft at an existing registered customer.
// Screening is skipped: their standing watchlist status is already on
// the current row.
func (w *Wizard) SelectCustomer(customerKey uint64) error {
	if customerKey == 0 {
		return fmt.Errorf("%w: customer step: no customer selected", ErrStepIncomplete)
	}
	w.customer = CustomerDraft{ExistingKey: customerKey}
	return nil
}

// RegisterCustomer stages a new registration and opens its screening.
func (w *Wizard) RegisterCustomer(in customerUC.CreateInput) error {
	scr, err := screening.New(screening.Subject{
		FullName:    in.FullName,
		DateOfBirth: in.DateOfBirth,
		Nationality: in.Nationality,
	})
	if err != nil {
		return fmt.Errorf("customer step: %w", err)
	}
	w.customer = CustomerDraft{Register: &in}
	w.screening = scr
	return nil
}

// Screening exposes the current registration's checks to the UI; nil
// when an existing customer was selected.
func (w *Wizard) Screening() *screening.Screening { return w.screening }

func (w *Wizard) SetItem(d ItemDraft) { w.item = d }

func (w *Wizard) SetTerms(d TermsDraft) { w.terms = d }

func (w *Wizard) customerGate() error {
	if w.customer.ExistingKey != 0 {
		return nil
	}
	in := w.customer.Register
	if in == nil {
		return fmt.Errorf("%w: customer step: select or register a customer", ErrStepIncomplete)
	}
	var missing []string
	for _, f := range []struct {
		name string
		ok   bool
	}{
		{"full_name", in.FullName != ""},
		{"date_of_birth", in.DateOfBirth != ""},
		{"phone", in.Phone != ""},
		{"id_type", in.IDType.Valid()},
		{"id_number", in.IDNumber != ""},
		{"address", in.Address != "" || in.AddressLine1 != ""},
		{"photo", in.Photo != ""},
		{"id_front_photo", in.IDFrontPhoto != ""},
		{"id_back_photo", in.IDBackPhoto != ""},
	} {
		if !f.ok {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: customer step: missing %v", ErrStepIncomplete, missing)
	}
	return nil
}

func (w *Wizard) itemGate() error {
	rules, ok := categoryRules[w.item.Category]
	if !ok {
		return fmt.Errorf("%w: item step: pick a category", ErrStepIncomplete)
	}
	var missing []string
	for _, r := range rules {
		if !r.ok(&w.item) {
			missing = append(missing, r.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: item step: missing %v", ErrStepIncomplete, missing)
	}
	if n := len(w.item.Photos); n < 2 || n > 6 {
		return fmt.Errorf("%w: item step: need 2-6 photos, have %d", ErrStepIncomplete, n)
	}
	if w.item.AppraisalValue <= 0 {
		return fmt.Errorf("%w: item step: appraisal must be positive", ErrStepIncomplete)
	}
	return nil
}

func (w *Wizard) termsGate() error {
	if w.terms.Principal <= 0 || w.terms.InterestRate <= 0 || w.terms.TermDays <= 0 {
		return fmt.Errorf("%w: terms step: principal, rate and term must be positive", ErrStepIncomplete)
	}
	valid := false
	for _, d := range termChoices {
		if w.terms.TermDays == d {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("%w: terms step: term must be one of %v days", ErrStepIncomplete, termChoices)
	}
	if w.terms.ServiceFee < 0 {
		return fmt.Errorf("%w: terms step: service fee cannot be negative", ErrStepIncomplete)
	}
	return nil
}

// Next advances one step after the current step's gate passes.
func (w *Wizard) Next() error {
	switch w.step {
	case StepCustomer:
		if err := w.customerGate(); err != nil {
			return err
		}
	case StepItem:
		if err := w.itemGate(); err != nil {
			return err
		}
	case StepTerms:
		if err := w.termsGate(); err != nil {
			return err
		}
	case StepReview:
		return fmt.Errorf("%w: already on review", ErrWrongStep)
	}
	w.step++
	return nil
}

// Back moves one step toward the customer step; drafts are kept.
func (w *Wizard) Back() {
	if w.step > StepCustomer {
		w.step--
	}
}

// PrincipalPresets are the quick-select amounts at 60/70/80 % of the
// appraised value.
func (w *Wizard) PrincipalPresets() []int64 {
	out := make([]int64, 0, len(principalPresetPercents))
	for _, pct := range principalPresetPercents {
		out = append(out, w.item.AppraisalValue*pct/100)
	}
	return out
}

// TermsPreview is the live recap the terms and review screens render.
// Values here must match what Submit persists, so everything funnels
// through the calculator.
type TermsPreview struct {
	LoanToValuePercent int64     `json:"loan_to_value_percent"`
	LoanToValueWarning bool      `json:"loan_to_value_warning"`
	InterestAmount     int64     `json:"interest_amount"`
	TotalDue           int64     `json:"total_due"`
	MaturityDate       time.Time `json:"maturity_date"`
}

func (w *Wizard) Preview() TermsPreview {
	ltv := pawncalc.LoanToValuePercent(w.terms.Principal, w.item.AppraisalValue)
	interest := pawncalc.InterestAmount(w.terms.Principal, w.terms.InterestRate, w.terms.TermDays)
	return TermsPreview{
		LoanToValuePercent: ltv,
		LoanToValueWarning: ltv > ltvWarnPercent,
		InterestAmount:     interest,
		TotalDue:           pawncalc.TotalDue(w.terms.Principal, interest, w.terms.ServiceFee),
		MaturityDate:       pawncalc.MaturityDate(w.now(), w.terms.TermDays),
	}
}

// Result is what Submit hands back for the printed ticket.
type Result struct {
	Customer *customerDomain.Customer `json:"customer"`
	Loan     *loanDomain.Loan         `json:"loan"`
}

// Submit persists the whole flow: customer first (when registering),
// then item, loan and disbursement fact in one transaction. Failures
// name the step that broke so the operator knows what survived; a
// saved customer with no loan is retryable, not lost work.
func (w *Wizard) Submit(ctx context.Context) (*Result, error) {
	if w.step != StepReview {
		return nil, fmt.Errorf("%w: submit only from review, on %s", ErrWrongStep, w.step)
	}
	for _, gate := range []func() error{w.customerGate, w.itemGate, w.termsGate} {
		if err := gate(); err != nil {
			return nil, err
		}
	}

	var cust *customerDomain.Customer
	var err error
	if w.customer.Register != nil {
		if w.screening.Blocked() {
			return nil, fmt.Errorf("%w: a check came back blocked", ErrScreeningGate)
		}
		outcome, oerr := w.screening.Outcome()
		if oerr != nil {
			return nil, fmt.Errorf("%w: %v", ErrScreeningGate, oerr)
		}
		cust, err = w.customers.Create(ctx, *w.customer.Register)
		if err != nil {
			return nil, fmt.Errorf("customer step failed, nothing saved: %w", err)
		}
		// the screening result reaches the customer row only through
		// this explicit write
		if outcome != customerDomain.WatchlistClear {
			flagged, err := w.customers.SetWatchlistStatus(ctx, cust.CustomerKey, outcome, "origination screening")
			if err != nil {
				return nil, fmt.Errorf("customer %s saved, screening flag failed: %w", cust.CustomerID, err)
			}
			cust = flagged
		}
	} else {
		if cust, err = w.customers.GetByKey(ctx, w.customer.ExistingKey); err != nil {
			return nil, fmt.Errorf("customer step failed, nothing saved: %w", err)
		}
	}

	photos, err := json.Marshal(w.item.Photos)
	if err != nil {
		return nil, fmt.Errorf("item step failed, customer %s saved: %w", cust.CustomerID, err)
	}
	preview := w.Preview()
	l, err := w.loans.Originate(ctx, loanUC.OriginateInput{
		CustomerKey: cust.CustomerKey,
		BranchKey:   w.BranchKey,
		EmployeeKey: w.EmployeeKey,
		Item: loanUC.ItemInput{
			Category:         w.item.Category,
			Description:      w.item.Description,
			Photos:           string(photos),
			GoldType:         w.item.GoldType,
			Karat:            w.item.Karat,
			WeightGrams:      w.item.WeightGrams,
			GoldPricePerGram: w.item.GoldPricePerGram,
			Brand:            w.item.Brand,
			Model:            w.item.Model,
			SerialNumber:     w.item.SerialNumber,
			Condition:        w.item.Condition,
			AppraisalValue:   w.item.AppraisalValue,
		},
		Principal:      w.terms.Principal,
		InterestRate:   w.terms.InterestRate,
		TermDays:       w.terms.TermDays,
		ServiceFee:     w.terms.ServiceFee,
		InterestAmount: preview.InterestAmount,
		TotalDue:       preview.TotalDue,
	})
	if err != nil {
		return nil, fmt.Errorf("loan step failed, customer %s saved, do not retake photos: %w", cust.CustomerID, err)
	}
	return &Result{Customer: cust, Loan: l}, nil
}
