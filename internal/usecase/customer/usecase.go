package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "gemmary-backend/internal/domain/customer"
	"gemmary-backend/internal/domain/uow"
	"gemmary-backend/pkg/id"
)

// ErrInvalidInput covers registration payloads missing the minimum
// field set; the wizard validates ahead of time, this is the backstop.
var ErrInvalidInput = errors.New("invalid customer input")

const (
	seqScope       = "customer"
	minSearchChars = 2
	searchLimit    = 20
)

// Policy selects how compliance-flag updates behave. The source system
// mutated watchlist/KYC flags in place while versioning everything
// else; whether that is intentional is an open question, so both
// behaviors are first-class here.
type Policy struct {
	// MutableComplianceFlags updates watchlist/KYC flags on the current
	// row in place when true; when false those updates version the row
	// like any other field change.
	MutableComplianceFlags bool
}

func DefaultPolicy() Policy { return Policy{MutableComplianceFlags: true} }

type Usecase struct {
	repo   domain.Repository
	uow    uow.UnitOfWork
	policy Policy
	now    func() time.Time
}

func NewUsecase(repo domain.Repository, tx uow.UnitOfWork, policy Policy) *Usecase {
	return &Usecase{repo: repo, uow: tx, policy: policy, now: func() time.Time { return time.Now().UTC() }}
}

// CreateInput carries the registration field set. Zero values mean
// "not provided"; required-ness is the wizard's concern, this service
// only guards the minimum it needs.
type CreateInput struct {
	FullName    string            `json:"full_name"`
	FirstName   string            `json:"first_name,omitempty"`
	MiddleName  string            `json:"middle_name,omitempty"`
	LastName    string            `json:"last_name,omitempty"`
	Suffix      string            `json:"suffix,omitempty"`
	DateOfBirth string            `json:"date_of_birth"`
	Nationality string            `json:"nationality,omitempty"`
	Gender      domain.Gender     `json:"gender,omitempty"`

	IDType             domain.IDType `json:"id_type"`
	IDNumber           string        `json:"id_number"`
	IDExpiryDate       string        `json:"id_expiry_date,omitempty"`
	IDIssuingAuthority string        `json:"id_issuing_authority,omitempty"`
	Photo              string        `json:"photo,omitempty"`
	IDFrontPhoto       string        `json:"id_front_photo,omitempty"`
	IDBackPhoto        string        `json:"id_back_photo,omitempty"`
	Signature          string        `json:"signature,omitempty"`

	AddressLine1     string `json:"address_line_1,omitempty"`
	AddressLine2     string `json:"address_line_2,omitempty"`
	Barangay         string `json:"barangay,omitempty"`
	CityMunicipality string `json:"city_municipality,omitempty"`
	Province         string `json:"province,omitempty"`
	PostalCode       string `json:"postal_code,omitempty"`
	Address          string `json:"address"`
	Phone            string `json:"phone"`
	AlternatePhone   string `json:"alternate_phone,omitempty"`
	Email            string `json:"email,omitempty"`

	Occupation           domain.Occupation  `json:"occupation,omitempty"`
	EmployerBusinessName string             `json:"employer_business_name,omitempty"`
	MonthlyIncomeRange   domain.IncomeRange `json:"monthly_income_range,omitempty"`
	SourceOfIncome       string             `json:"source_of_income,omitempty"`

	IsPep      bool   `json:"is_pep,omitempty"`
	PepDetails string `json:"pep_details,omitempty"`
}

// Create registers a new customer: allocates the natural key from the
// server-side sequence and inserts the first version row.
func (u *Usecase) Create(ctx context.Context, in CreateInput) (*domain.Customer, error) {
	if strings.TrimSpace(in.FullName) == "" || strings.TrimSpace(in.Phone) == "" {
		return nil, fmt.Errorf("%w: full_name and phone are required", ErrInvalidInput)
	}
	var created *domain.Customer
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		seq, err := r.Sequences.Next(ctx, seqScope)
		if err != nil {
			return fmt.Errorf("allocate customer id: %w", err)
		}
		now := u.now()
		c := &domain.Customer{
			CustomerID:  id.CustomerID(seq),
			FullName:    in.FullName,
			FirstName:   in.FirstName,
			MiddleName:  in.MiddleName,
			LastName:    in.LastName,
			Suffix:      in.Suffix,
			DateOfBirth: in.DateOfBirth,
			Nationality: in.Nationality,
			Gender:      in.Gender,

			IDType:             in.IDType,
			IDNumber:           in.IDNumber,
			IDExpiryDate:       in.IDExpiryDate,
			IDIssuingAuthority: in.IDIssuingAuthority,
			Photo:              in.Photo,
			IDFrontPhoto:       in.IDFrontPhoto,
			IDBackPhoto:        in.IDBackPhoto,
			Signature:          in.Signature,

			AddressLine1:     in.AddressLine1,
			AddressLine2:     in.AddressLine2,
			Barangay:         in.Barangay,
			CityMunicipality: in.CityMunicipality,
			Province:         in.Province,
			PostalCode:       in.PostalCode,
			Address:          in.Address,
			Phone:            in.Phone,
			AlternatePhone:   in.AlternatePhone,
			Email:            in.Email,

			Occupation:           in.Occupation,
			EmployerBusinessName: in.EmployerBusinessName,
			MonthlyIncomeRange:   in.MonthlyIncomeRange,
			SourceOfIncome:       in.SourceOfIncome,

			IsPep:      in.IsPep,
			PepDetails: in.PepDetails,

			KycStatus:       domain.KycPending,
			RiskLevel:       domain.RiskLow,
			WatchlistStatus: domain.WatchlistClear,

			IsCurrent: true,
			ValidFrom: now,
		}
		if err := r.Customers.Insert(ctx, c); err != nil {
			return err
		}
		created = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (u *Usecase) GetByKey(ctx context.Context, customerKey uint64) (*domain.Customer, error) {
	return u.repo.GetByKey(ctx, customerKey)
}

func (u *Usecase) GetCurrent(ctx context.Context, customerID string) (*domain.Customer, error) {
	return u.repo.GetCurrentByID(ctx, customerID)
}

// Update applies SCD Type-2 semantics: close the version at
// customerKey, then insert a new current row carrying every field
// forward except those apply overrides. Both writes share one
// transaction, so a failed insert rolls the close back and the natural
// key never ends up with zero current rows.
func (u *Usecase) Update(ctx context.Context, customerKey uint64, apply func(next *domain.Customer)) (*domain.Customer, error) {
	var updated *domain.Customer
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		prev, err := r.Customers.GetByKey(ctx, customerKey)
		if err != nil {
			return err
		}
		if !prev.IsCurrent {
			return domain.ErrConflict
		}
		now := u.now()
		if err := r.Customers.CloseCurrent(ctx, customerKey, now); err != nil {
			return err
		}

		next := *prev
		next.CustomerKey = 0 // new surrogate key
		next.IsCurrent = true
		next.ValidFrom = now
		next.ValidTo = nil
		next.CreatedAt = time.Time{}
		next.UpdatedAt = time.Time{}
		apply(&next)
		// apply must not break the version chain
		next.CustomerID = prev.CustomerID
		next.IsCurrent = true
		next.ValidTo = nil

		if err := r.Customers.Insert(ctx, &next); err != nil {
			return err
		}
		updated = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (u *Usecase) History(ctx context.Context, customerID string) ([]domain.Customer, error) {
	return u.repo.History(ctx, customerID)
}

func (u *Usecase) AsOf(ctx context.Context, customerID string, ts time.Time) (*domain.Customer, error) {
	return u.repo.AsOf(ctx, customerID, ts)
}

// Search returns current rows matching name/phone/ID number. Queries
// shorter than two characters return nothing rather than everything.
func (u *Usecase) Search(ctx context.Context, query string) ([]domain.Customer, error) {
	if len(strings.TrimSpace(query)) < minSearchChars {
		return nil, nil
	}
	return u.repo.Search(ctx, query, searchLimit)
}

// SetWatchlistStatus records a screening decision. Under the default
// policy this mutates the current row in place; with versioned
// compliance flags it goes through the full close-then-insert.
func (u *Usecase) SetWatchlistStatus(ctx context.Context, customerKey uint64, status domain.WatchlistStatus, notes string) (*domain.Customer, error) {
	if u.policy.MutableComplianceFlags {
		fields := map[string]any{"watchlist_status": status}
		if notes != "" {
			fields["watchlist_notes"] = notes
		}
		if err := u.repo.UpdateCurrentFields(ctx, customerKey, fields); err != nil {
			return nil, err
		}
		return u.repo.GetByKey(ctx, customerKey)
	}
	return u.Update(ctx, customerKey, func(next *domain.Customer) {
		next.WatchlistStatus = status
		if notes != "" {
			next.WatchlistNotes = notes
		}
	})
}

func (u *Usecase) SetKycStatus(ctx context.Context, customerKey uint64, status domain.KycStatus) (*domain.Customer, error) {
	if u.policy.MutableComplianceFlags {
		if err := u.repo.UpdateCurrentFields(ctx, customerKey, map[string]any{"kyc_status": status}); err != nil {
			return nil, err
		}
		return u.repo.GetByKey(ctx, customerKey)
	}
	return u.Update(ctx, customerKey, func(next *domain.Customer) {
		next.KycStatus = status
	})
}

// CheckConsistency reports natural keys violating the one-current-row
// invariant; the cron job logs what it returns.
func (u *Usecase) CheckConsistency(ctx context.Context) (map[string]int64, error) {
	return u.repo.CurrentRowCounts(ctx)
}
