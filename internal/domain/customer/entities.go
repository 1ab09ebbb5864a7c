package customer

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("customer not found")
	// ErrConflict signals a lost-update race: the row being closed was
	// no longer the current version.
	ErrConflict = errors.New("customer version conflict")
)

type KycStatus string

const (
	KycPending  KycStatus = "pending"
	KycVerified KycStatus = "verified"
	KycRejected KycStatus = "rejected"
)

type WatchlistStatus string

const (
	WatchlistClear   WatchlistStatus = "clear"
	WatchlistFlagged WatchlistStatus = "flagged"
	WatchlistBlocked WatchlistStatus = "blocked"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

type IDType string

const (
	IDDriversLicense IDType = "drivers_license"
	IDPassport       IDType = "passport"
	IDUmid           IDType = "umid"
	IDSss            IDType = "sss"
	IDPhilhealth     IDType = "philhealth"
	IDVotersID       IDType = "voters_id"
	IDTin            IDType = "tin"
	IDPostalID       IDType = "postal_id"
	IDPrcLicense     IDType = "prc_license"
)

// idTypeLabels is closed: adding an IDType constant without a label is
// caught by TestIDTypeLabels_Exhaustive.
var idTypeLabels = map[IDType]string{
	IDDriversLicense: "Driver's License",
	IDPassport:       "Passport",
	IDUmid:           "UMID",
	IDSss:            "SSS ID",
	IDPhilhealth:     "PhilHealth ID",
	IDVotersID:       "Voter's ID",
	IDTin:            "TIN ID",
	IDPostalID:       "Postal ID",
	IDPrcLicense:     "PRC License",
}

func (t IDType) Valid() bool { _, ok := idTypeLabels[t]; return ok }

func (t IDType) Label() string {
	if l, ok := idTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

func AllIDTypes() []IDType {
	out := make([]IDType, 0, len(idTypeLabels))
	for t := range idTypeLabels {
		out = append(out, t)
	}
	return out
}

type Occupation string

const (
	OccEmployed     Occupation = "employed"
	OccSelfEmployed Occupation = "self_employed"
	OccUnemployed   Occupation = "unemployed"
	OccStudent      Occupation = "student"
	OccRetired      Occupation = "retired"
)

type IncomeRange string

const (
	IncomeUnder10k   IncomeRange = "<10k"
	Income10kTo30k   IncomeRange = "10k-30k"
	Income30kTo50k   IncomeRange = "30k-50k"
	Income50kTo100k  IncomeRange = "50k-100k"
	IncomeOver100k   IncomeRange = ">100k"
	IncomeUndisclosed IncomeRange = "undisclosed"
)

var incomeRangeLabels = map[IncomeRange]string{
	IncomeUnder10k:    "Below ₱10,000",
	Income10kTo30k:    "₱10,000 – ₱30,000",
	Income30kTo50k:    "₱30,000 – ₱50,000",
	Income50kTo100k:   "₱50,000 – ₱100,000",
	IncomeOver100k:    "Above ₱100,000",
	IncomeUndisclosed: "Prefer not to say",
}

func (r IncomeRange) Label() string {
	if l, ok := incomeRangeLabels[r]; ok {
		return l
	}
	return string(r)
}

// Customer is one SCD Type-2 version row. CustomerID is the natural key
// shared by every version; CustomerKey identifies the single row. At
// any time exactly one row per CustomerID has IsCurrent=true and a nil
// ValidTo, and the ValidFrom..ValidTo intervals partition time.
type Customer struct {
	CustomerKey uint64 `gorm:"primaryKey;column:customer_key" json:"customer_key"`
	CustomerID  string `gorm:"size:16;index:idx_customers_natural;column:customer_id" json:"customer_id"`

	// Identity
	FullName    string     `gorm:"size:255;column:full_name" json:"full_name"`
	FirstName   string     `gorm:"size:100;column:first_name" json:"first_name,omitempty"`
	MiddleName  string     `gorm:"size:100;column:middle_name" json:"middle_name,omitempty"`
	LastName    string     `gorm:"size:100;column:last_name" json:"last_name,omitempty"`
	Suffix      string     `gorm:"size:20;column:suffix" json:"suffix,omitempty"`
	DateOfBirth string     `gorm:"size:10;column:date_of_birth" json:"date_of_birth"`
	Nationality string     `gorm:"size:60;column:nationality" json:"nationality,omitempty"`
	Gender      Gender     `gorm:"size:10;column:gender" json:"gender,omitempty"`

	// Government ID
	IDType             IDType `gorm:"size:30;column:id_type" json:"id_type"`
	IDNumber           string `gorm:"size:60;index:idx_customers_id_number;column:id_number" json:"id_number"`
	IDExpiryDate       string `gorm:"size:10;column:id_expiry_date" json:"id_expiry_date,omitempty"`
	IDIssuingAuthority string `gorm:"size:120;column:id_issuing_authority" json:"id_issuing_authority,omitempty"`
	Photo              string `gorm:"type:text;column:photo" json:"photo,omitempty"`
	IDFrontPhoto       string `gorm:"type:text;column:id_front_photo" json:"id_front_photo,omitempty"`
	IDBackPhoto        string `gorm:"type:text;column:id_back_photo" json:"id_back_photo,omitempty"`
	Signature          string `gorm:"type:text;column:signature" json:"signature,omitempty"`

	// Contact. Address is the legacy free-text fallback kept alongside
	// the structured fields.
	AddressLine1     string `gorm:"size:255;column:address_line_1" json:"address_line_1,omitempty"`
	AddressLine2     string `gorm:"size:255;column:address_line_2" json:"address_line_2,omitempty"`
	Barangay         string `gorm:"size:120;column:barangay" json:"barangay,omitempty"`
	CityMunicipality string `gorm:"size:120;column:city_municipality" json:"city_municipality,omitempty"`
	Province         string `gorm:"size:120;column:province" json:"province,omitempty"`
	PostalCode       string `gorm:"size:10;column:postal_code" json:"postal_code,omitempty"`
	Address          string `gorm:"type:text;column:address" json:"address"`
	Phone            string `gorm:"size:30;index:idx_customers_phone;column:phone" json:"phone"`
	AlternatePhone   string `gorm:"size:30;column:alternate_phone" json:"alternate_phone,omitempty"`
	Email            string `gorm:"size:255;column:email" json:"email,omitempty"`

	// Financial profile
	Occupation           Occupation  `gorm:"size:30;column:occupation" json:"occupation,omitempty"`
	EmployerBusinessName string      `gorm:"size:255;column:employer_business_name" json:"employer_business_name,omitempty"`
	MonthlyIncomeRange   IncomeRange `gorm:"size:20;column:monthly_income_range" json:"monthly_income_range,omitempty"`
	SourceOfIncome       string      `gorm:"size:255;column:source_of_income" json:"source_of_income,omitempty"`

	// Compliance
	IsPep           bool            `gorm:"column:is_pep" json:"is_pep"`
	PepDetails      string          `gorm:"type:text;column:pep_details" json:"pep_details,omitempty"`
	KycStatus       KycStatus       `gorm:"size:10;default:'pending';column:kyc_status" json:"kyc_status"`
	RiskLevel       RiskLevel       `gorm:"size:10;default:'low';column:risk_level" json:"risk_level"`
	WatchlistStatus WatchlistStatus `gorm:"size:10;default:'clear';column:watchlist_status" json:"watchlist_status"`
	WatchlistNotes  string          `gorm:"type:text;column:watchlist_notes" json:"watchlist_notes,omitempty"`

	// SCD Type 2
	IsCurrent bool       `gorm:"index:idx_customers_natural;column:is_current" json:"is_current"`
	ValidFrom time.Time  `gorm:"column:valid_from" json:"valid_from"`
	ValidTo   *time.Time `gorm:"column:valid_to" json:"valid_to,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;column:updated_at" json:"updated_at"`
}

func (Customer) TableName() string { return "dim_customer" }
