package loan

import (
	"errors"
	"time"

	"gemmary-backend/internal/domain/item"
)

var (
	ErrNotFound          = errors.New("loan not found")
	ErrInvalidTransition = errors.New("invalid loan status transition")
)

type Status string

const (
	StatusActive    Status = "active"
	StatusRenewed   Status = "renewed"
	StatusRedeemed  Status = "redeemed"
	StatusForfeited Status = "forfeited"
	StatusAuctioned Status = "auctioned"
	// StatusCancelled is a tombstone: the ticket was voided without any
	// cash movement. Not part of the original status set; see DESIGN.md.
	StatusCancelled Status = "cancelled"
)

// transitions is the closed legal-move table. active can close three
// ways (or be voided); forfeited stock can still go to auction.
var transitions = map[Status][]Status{
	StatusActive:    {StatusRenewed, StatusRedeemed, StatusForfeited, StatusCancelled},
	StatusForfeited: {StatusAuctioned},
}

// CanTransition reports whether from -> to is a legal status move.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition leaves the status.
func (s Status) Terminal() bool { return len(transitions[s]) == 0 }

// ItemStatusFor maps a closing loan status onto the item status the
// cascade must write. The bool is false when the move does not touch
// the item (renewal keeps it pawned under the child loan).
func ItemStatusFor(s Status) (item.Status, bool) {
	switch s {
	case StatusRedeemed:
		return item.StatusRedeemed, true
	case StatusForfeited:
		return item.StatusForfeited, true
	case StatusAuctioned:
		return item.StatusSold, true
	case StatusCancelled:
		return item.StatusReturned, true
	}
	return "", false
}

// Loan is one pawn ticket. LoanID is the human-facing ticket number.
// Renewals close the old row and open a child row that reuses the same
// item and principal; ParentLoanKey + RenewalCount form the chain.
type Loan struct {
	LoanKey     uint64 `gorm:"primaryKey;column:loan_key" json:"loan_key"`
	LoanID      string `gorm:"size:20;uniqueIndex:ux_loans_loan_id;column:loan_id" json:"loan_id"`
	CustomerKey uint64 `gorm:"index:idx_loans_customer;column:customer_key" json:"customer_key"`
	ItemKey     uint64 `gorm:"index;column:item_key" json:"item_key"`
	BranchKey   uint64 `gorm:"index;column:branch_key" json:"branch_key"`
	EmployeeKey uint64 `gorm:"column:created_by_employee_key" json:"created_by_employee_key,omitempty"`

	// Terms. Amounts are whole pesos; InterestRate is percent per
	// 30-day unit. InterestAmount and TotalDue arrive precomputed from
	// the calculator: this row only persists them.
	Principal      int64   `gorm:"column:principal" json:"principal"`
	InterestRate   float64 `gorm:"type:decimal(6,3);column:interest_rate" json:"interest_rate"`
	TermDays       int     `gorm:"column:term_days" json:"term_days"`
	ServiceFee     int64   `gorm:"column:service_fee" json:"service_fee"`
	InterestAmount int64   `gorm:"column:interest_amount" json:"interest_amount"`
	TotalDue       int64   `gorm:"column:total_due" json:"total_due"`

	LoanDate     time.Time `gorm:"column:loan_date" json:"loan_date"`
	MaturityDate time.Time `gorm:"column:maturity_date" json:"maturity_date"`

	Status      Status     `gorm:"size:12;default:'active';column:status" json:"status"`
	RenewedAt   *time.Time `gorm:"column:renewed_at" json:"renewed_at,omitempty"`
	RedeemedAt  *time.Time `gorm:"column:redeemed_at" json:"redeemed_at,omitempty"`
	ForfeitedAt *time.Time `gorm:"column:forfeited_at" json:"forfeited_at,omitempty"`
	AuctionedAt *time.Time `gorm:"column:auctioned_at" json:"auctioned_at,omitempty"`
	CancelledAt *time.Time `gorm:"column:cancelled_at" json:"cancelled_at,omitempty"`

	ParentLoanKey *uint64 `gorm:"index;column:parent_loan_key" json:"parent_loan_key,omitempty"`
	RenewalCount  int     `gorm:"column:renewal_count" json:"renewal_count"`

	CreatedAt time.Time `gorm:"autoCreateTime;column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;column:updated_at" json:"updated_at"`
}

func (Loan) TableName() string { return "dim_loan" }

// StampStatus sets the status and its matching timestamp field.
func (l *Loan) StampStatus(s Status, at time.Time) {
	l.Status = s
	switch s {
	case StatusRenewed:
		l.RenewedAt = &at
	case StatusRedeemed:
		l.RedeemedAt = &at
	case StatusForfeited:
		l.ForfeitedAt = &at
	case StatusAuctioned:
		l.AuctionedAt = &at
	case StatusCancelled:
		l.CancelledAt = &at
	}
}
