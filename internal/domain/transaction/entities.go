package transaction

import (
	"errors"
	"time"
)

var ErrUnknownType = errors.New("unknown transaction type")

type Type string

const (
	TypeNewLoan         Type = "NEW_LOAN"
	TypeRedemption      Type = "REDEMPTION"
	TypeRenewal         Type = "RENEWAL"
	TypePartialPayment  Type = "PARTIAL_PAYMENT"
	TypeInterestPayment Type = "INTEREST_PAYMENT"
	TypePenaltyPayment  Type = "PENALTY_PAYMENT"
	TypeFeeCollection   Type = "FEE_COLLECTION"
	TypeForfeiture      Type = "FORFEITURE"
	TypeAuctionSale     Type = "AUCTION_SALE"
	TypeAdjustment      Type = "ADJUSTMENT"
)

type Direction string

const (
	Inflow  Direction = "INFLOW"
	Outflow Direction = "OUTFLOW"
	Neutral Direction = "NEUTRAL"
)

// directions is the authoritative sign table. net_cash_flow is written
// once from this table and never re-derived at query time.
var directions = map[Type]Direction{
	TypeNewLoan:         Outflow,
	TypeRedemption:      Inflow,
	TypeRenewal:         Inflow,
	TypePartialPayment:  Inflow,
	TypeInterestPayment: Inflow,
	TypePenaltyPayment:  Inflow,
	TypeFeeCollection:   Inflow,
	TypeForfeiture:      Neutral,
	TypeAuctionSale:     Inflow,
	TypeAdjustment:      Neutral,
}

// DirectionOf resolves the cash-flow direction for a type.
func DirectionOf(t Type) (Direction, error) {
	d, ok := directions[t]
	if !ok {
		return "", ErrUnknownType
	}
	return d, nil
}

func AllTypes() []Type {
	out := make([]Type, 0, len(directions))
	for t := range directions {
		out = append(out, t)
	}
	return out
}

type PaymentMethod string

const (
	PayCash         PaymentMethod = "cash"
	PayBankTransfer PaymentMethod = "bank_transfer"
	PayGcash        PaymentMethod = "gcash"
	PayMaya         PaymentMethod = "maya"
)

// Transaction is an immutable fact row: one per loan-affecting action,
// never updated or deleted. The amount breakdown must sum consistently
// with TotalAmount, and the sign of NetCashFlow follows the direction
// table for the type.
type Transaction struct {
	TransactionKey uint64 `gorm:"primaryKey;column:transaction_key" json:"transaction_key"`
	TransactionID  string `gorm:"size:20;uniqueIndex:ux_fact_trx_id;column:transaction_id" json:"transaction_id"`

	DateKey     int    `gorm:"index:idx_fact_trx_date;column:date_key" json:"date_key"`
	CustomerKey uint64 `gorm:"index;column:customer_key" json:"customer_key"`
	LoanKey     uint64 `gorm:"index;column:loan_key" json:"loan_key,omitempty"`
	ItemKey     uint64 `gorm:"column:item_key" json:"item_key,omitempty"`
	BranchKey   uint64 `gorm:"index:idx_fact_trx_date;column:branch_key" json:"branch_key"`
	EmployeeKey uint64 `gorm:"column:employee_key" json:"employee_key,omitempty"`

	Type Type `gorm:"size:20;column:type_code" json:"type"`

	Principal    int64 `gorm:"column:principal" json:"principal"`
	Interest     int64 `gorm:"column:interest" json:"interest"`
	ServiceFee   int64 `gorm:"column:service_fee" json:"service_fee"`
	Penalty      int64 `gorm:"column:penalty" json:"penalty"`
	Discount     int64 `gorm:"column:discount" json:"discount"`
	OtherCharges int64 `gorm:"column:other_charges" json:"other_charges"`
	TotalAmount  int64 `gorm:"column:total_amount" json:"total_amount"`
	NetCashFlow  int64 `gorm:"column:net_cash_flow" json:"net_cash_flow"`

	PaymentMethod   PaymentMethod `gorm:"size:20;default:'cash';column:payment_method" json:"payment_method"`
	ReferenceNumber string        `gorm:"size:64;column:reference_number" json:"reference_number,omitempty"`
	Notes           string        `gorm:"type:text;column:notes" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;column:created_at" json:"created_at"`
}

func (Transaction) TableName() string { return "fact_transactions" }

// DateKeyFor renders t as the YYYYMMDD integer used for fact queries.
func DateKeyFor(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}
