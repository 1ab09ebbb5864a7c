package screening

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	customerDomain "gemmary-backend/internal/domain/customer"
)

var (
	ErrUnknownCheck = errors.New("unknown screening check")
	ErrInvalidState = errors.New("invalid screening state")
	ErrNotComplete  = errors.New("screening not complete")
	ErrSubjectEmpty = errors.New("screening subject needs a name")
)

type CheckType string

const (
	CheckWatchlist    CheckType = "watchlist"
	CheckPep          CheckType = "pep"
	CheckAdverseMedia CheckType = "adverse_media"
)

// AllChecks is the fixed set every screening runs.
var AllChecks = []CheckType{CheckWatchlist, CheckPep, CheckAdverseMedia}

type State string

const (
	StatePending State = "pending"
	StateClear   State = "clear"
	StateFlagged State = "flagged"
	StateBlocked State = "blocked"
)

func (s State) settable() bool {
	switch s {
	case StateClear, StateFlagged, StateBlocked:
		return true
	}
	return false
}

// Subject identifies who is being screened.
type Subject struct {
	FullName    string `json:"full_name"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Nationality string `json:"nationality,omitempty"`
}

// Check is one screening dimension with its latest decision.
type Check struct {
	ID        string    `json:"id"`
	Type      CheckType `json:"type"`
	State     State     `json:"state"`
	Source    string    `json:"source,omitempty"` // "provider" or "manual"
	Notes     string    `json:"notes,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Provider runs one check against an external screening source.
type Provider interface {
	Search(ctx context.Context, subject Subject, check CheckType) (State, error)
}

// SimulatedProvider stands in for a real screening vendor: it returns
// a weighted random result after a short artificial delay. Demo use
// only; production wiring must swap in a vendor-backed Provider.
type SimulatedProvider struct {
	rng   *rand.Rand
	delay time.Duration
	mu    sync.Mutex
}

func NewSimulatedProvider(seed int64) *SimulatedProvider {
	return &SimulatedProvider{rng: rand.New(rand.NewSource(seed)), delay: 300 * time.Millisecond}
}

func (p *SimulatedProvider) Search(ctx context.Context, _ Subject, _ CheckType) (State, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(p.delay):
	}
	p.mu.Lock()
	n := p.rng.Intn(100)
	p.mu.Unlock()
	switch {
	case n < 85:
		return StateClear, nil
	case n < 95:
		return StateFlagged, nil
	default:
		return StateBlocked, nil
	}
}

// Screening tracks the three checks for one subject through a wizard
// run. It lives in memory only; the outcome reaches the customer row
// via an explicit SetWatchlistStatus call, never implicitly.
type Screening struct {
	ID      string  `json:"id"`
	Subject Subject `json:"subject"`

	mu     sync.Mutex
	checks map[CheckType]*Check
}

func New(subject Subject) (*Screening, error) {
	if subject.FullName == "" {
		return nil, ErrSubjectEmpty
	}
	s := &Screening{
		ID:      uuid.NewString(),
		Subject: subject,
		checks:  make(map[CheckType]*Check, len(AllChecks)),
	}
	for _, t := range AllChecks {
		s.checks[t] = &Check{ID: uuid.NewString(), Type: t, State: StatePending}
	}
	return s, nil
}

// Checks returns a snapshot in the fixed check order.
func (s *Screening) Checks() []Check {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Check, 0, len(AllChecks))
	for _, t := range AllChecks {
		out = append(out, *s.checks[t])
	}
	return out
}

// Run asks the provider to decide one check.
func (s *Screening) Run(ctx context.Context, p Provider, t CheckType) (Check, error) {
	s.mu.Lock()
	c, ok := s.checks[t]
	s.mu.Unlock()
	if !ok {
		return Check{}, fmt.Errorf("%w: %s", ErrUnknownCheck, t)
	}
	state, err := p.Search(ctx, s.Subject, t)
	if err != nil {
		return Check{}, fmt.Errorf("screening provider: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c.State = state
	c.Source = "provider"
	c.UpdatedAt = time.Now().UTC()
	return *c, nil
}

// RunAll decides every still-pending check with the provider.
func (s *Screening) RunAll(ctx context.Context, p Provider) error {
	for _, t := range AllChecks {
		s.mu.Lock()
		pending := s.checks[t].State == StatePending
		s.mu.Unlock()
		if !pending {
			continue
		}
		if _, err := s.Run(ctx, p, t); err != nil {
			return err
		}
	}
	return nil
}

// Override records a manual operator decision on one check.
func (s *Screening) Override(t CheckType, state State, notes string) (Check, error) {
	if !state.settable() {
		return Check{}, fmt.Errorf("%w: %s", ErrInvalidState, state)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.checks[t]
	if !ok {
		return Check{}, fmt.Errorf("%w: %s", ErrUnknownCheck, t)
	}
	c.State = state
	c.Source = "manual"
	c.Notes = notes
	c.UpdatedAt = time.Now().UTC()
	return *c, nil
}

// Complete reports whether the wizard may proceed: every check decided
// and none blocked.
func (s *Screening) Complete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.checks {
		if c.State == StatePending || c.State == StateBlocked {
			return false
		}
	}
	return true
}

// Blocked reports whether any check came back blocked.
func (s *Screening) Blocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.checks {
		if c.State == StateBlocked {
			return true
		}
	}
	return false
}

// Outcome folds the three checks into the watchlist status a caller
// may write to the customer row. Worst result wins. Errors while any
// check is still pending.
func (s *Screening) Outcome() (customerDomain.WatchlistStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := customerDomain.WatchlistClear
	for _, c := range s.checks {
		switch c.State {
		case StatePending:
			return "", fmt.Errorf("%w: %s still pending", ErrNotComplete, c.Type)
		case StateBlocked:
			return customerDomain.WatchlistBlocked, nil
		case StateFlagged:
			out = customerDomain.WatchlistFlagged
		}
	}
	return out, nil
}
