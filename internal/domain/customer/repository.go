package customer

import (
	"context"
	"time"
)

type Repository interface {
	// Insert writes one version row.
	Insert(ctx context.Context, c *Customer) error
	// CloseCurrent flips the row at customerKey to is_current=false and
	// stamps valid_to, but only if it is still the current row; returns
	// ErrConflict when it was already closed (lost-update race).
	CloseCurrent(ctx context.Context, customerKey uint64, at time.Time) error
	GetByKey(ctx context.Context, customerKey uint64) (*Customer, error)
	GetCurrentByID(ctx context.Context, customerID string) (*Customer, error)
	// History returns every version for the natural key, newest first.
	History(ctx context.Context, customerID string) ([]Customer, error)
	// AsOf returns the version whose [valid_from, valid_to) interval
	// contains ts.
	AsOf(ctx context.Context, customerID string, ts time.Time) (*Customer, error)
	// Search matches name, phone or ID number against current rows only.
	Search(ctx context.Context, query string, limit int) ([]Customer, error)
	// UpdateCurrentFields mutates fields on the current row in place,
	// bypassing versioning. Used only for the mutable compliance flags.
	UpdateCurrentFields(ctx context.Context, customerKey uint64, fields map[string]any) error
	// CurrentRowCounts reports natural keys whose current-row count is
	// not exactly one; empty means the SCD invariant holds.
	CurrentRowCounts(ctx context.Context) (map[string]int64, error)
}
