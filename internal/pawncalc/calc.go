// Package pawncalc derives loan terms: interest, totals, maturity,
// collateral valuation and due-date classification. Every function is
// pure; callers validate inputs (non-negative amounts, sane dates)
// before calling in here.
package pawncalc

import (
	"time"

	"github.com/shopspring/decimal"
)

// Peso amounts are whole-unit int64 everywhere at rest; decimal is used
// only inside the arithmetic so totals never pass through float64.

var thirty = decimal.NewFromInt(30)
var hundred = decimal.NewFromInt(100)

// DueStatus is the three-way classification used by the dashboard,
// loan lists and the redemption screen. Keep it the single source:
// the ranges must partition all integers.
type DueStatus string

const (
	DueCurrent DueStatus = "current"
	DueSoon    DueStatus = "due-soon"
	Overdue    DueStatus = "overdue"
)

// DueSoonWindowDays is the inclusive upper bound of the due-soon band.
// Dashboard counts and due listings take their window from here so the
// bands never drift apart.
const DueSoonWindowDays = 7

// karatPurity maps a karat rating to its pure-gold fraction.
var karatPurity = map[string]decimal.Decimal{
	"10k": decimal.NewFromFloat(0.417),
	"14k": decimal.NewFromFloat(0.583),
	"18k": decimal.NewFromFloat(0.75),
	"21k": decimal.NewFromFloat(0.875),
	"22k": decimal.NewFromFloat(0.917),
	"24k": decimal.NewFromFloat(0.999),
}

// PurityFraction returns the gold content fraction for a karat rating.
// Unrecognized ratings fall back to 18k.
func PurityFraction(karat string) decimal.Decimal {
	if p, ok := karatPurity[karat]; ok {
		return p
	}
	return karatPurity["18k"]
}

// LoanToValuePercent is the principal as a rounded percentage of the
// appraised value; 0 when there is no usable appraisal.
func LoanToValuePercent(principal, appraisal int64) int64 {
	if appraisal <= 0 {
		return 0
	}
	return decimal.NewFromInt(principal).
		Mul(hundred).
		Div(decimal.NewFromInt(appraisal)).
		Round(0).
		IntPart()
}

// InterestAmount computes interest for a term at a monthly (30-day)
// percentage rate, rounded half-up to the nearest whole peso. The
// rounding must match the persisted record or previewed and printed
// totals drift apart.
func InterestAmount(principal int64, monthlyRatePercent float64, termDays int) int64 {
	return decimal.NewFromInt(principal).
		Mul(decimal.NewFromFloat(monthlyRatePercent)).
		Div(hundred).
		Mul(decimal.NewFromInt(int64(termDays))).
		Div(thirty).
		Round(0).
		IntPart()
}

// TotalDue is principal plus interest plus the service fee.
func TotalDue(principal, interestAmount, serviceFee int64) int64 {
	return principal + interestAmount + serviceFee
}

// MaturityDate adds the term in calendar days; no business-day
// adjustment.
func MaturityDate(loanDate time.Time, termDays int) time.Time {
	return loanDate.AddDate(0, 0, termDays)
}

// GoldValue appraises gold collateral: weight x price per gram x karat
// purity, rounded to the nearest peso.
func GoldValue(weightGrams float64, pricePerGram int64, karat string) int64 {
	return decimal.NewFromFloat(weightGrams).
		Mul(decimal.NewFromInt(pricePerGram)).
		Mul(PurityFraction(karat)).
		Round(0).
		IntPart()
}

// DaysUntilDue counts whole days from now to maturity, rounding up so a
// partial remaining day still counts. Negative means overdue by the
// absolute value.
func DaysUntilDue(maturity, now time.Time) int {
	d := maturity.Sub(now)
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) > 0 {
		days++
	}
	return days
}

// ClassifyDue maps days-until-due onto the shared three-way status.
func ClassifyDue(daysUntilDue int) DueStatus {
	switch {
	case daysUntilDue > DueSoonWindowDays:
		return DueCurrent
	case daysUntilDue > 0:
		return DueSoon
	default:
		return Overdue
	}
}

// ClassifyMaturity is ClassifyDue applied straight to a maturity date.
func ClassifyMaturity(maturity, now time.Time) DueStatus {
	return ClassifyDue(DaysUntilDue(maturity, now))
}

// RenewalInterest recomputes interest for a renewal term. The principal
// is not re-appraised on renewal, so this is the plain interest formula
// on the unchanged principal.
func RenewalInterest(principal int64, monthlyRatePercent float64, newTermDays int) int64 {
	return InterestAmount(principal, monthlyRatePercent, newTermDays)
}

// PenaltyAmount charges the interest formula over the days past
// maturity; zero while the loan is not overdue.
func PenaltyAmount(principal int64, monthlyRatePercent float64, daysOverdue int) int64 {
	if daysOverdue <= 0 {
		return 0
	}
	return InterestAmount(principal, monthlyRatePercent, daysOverdue)
}
