package mysql

import (
	"context"
	"errors"
	"strings"
	"time"

	customerDomain "gemmary-backend/internal/domain/customer"

	"gorm.io/gorm"
)

type CustomerRepository struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) *CustomerRepository { return &CustomerRepository{db: db} }

func (r *CustomerRepository) Insert(ctx context.Context, c *customerDomain.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// CloseCurrent is the guarded half of the SCD close-then-insert: the
// WHERE clause refuses rows another writer already closed, so a lost
// update surfaces as ErrConflict instead of a silent double-close.
func (r *CustomerRepository) CloseCurrent(ctx context.Context, customerKey uint64, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&customerDomain.Customer{}).
		Where("customer_key = ? AND is_current = ?", customerKey, true).
		Updates(map[string]any{"is_current": false, "valid_to": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return customerDomain.ErrConflict
	}
	return nil
}

func (r *CustomerRepository) GetByKey(ctx context.Context, customerKey uint64) (*customerDomain.Customer, error) {
	var out customerDomain.Customer
	err := r.db.WithContext(ctx).Where("customer_key = ?", customerKey).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, customerDomain.ErrNotFound
	}
	return &out, err
}

func (r *CustomerRepository) GetCurrentByID(ctx context.Context, customerID string) (*customerDomain.Customer, error) {
	var out customerDomain.Customer
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND is_current = ?", customerID, true).
		First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, customerDomain.ErrNotFound
	}
	return &out, err
}

func (r *CustomerRepository) History(ctx context.Context, customerID string) ([]customerDomain.Customer, error) {
	var out []customerDomain.Customer
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("valid_from DESC, customer_key DESC").
		Find(&out).Error
	return out, err
}

func (r *CustomerRepository) AsOf(ctx context.Context, customerID string, ts time.Time) (*customerDomain.Customer, error) {
	var out customerDomain.Customer
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND valid_from <= ? AND (valid_to IS NULL OR valid_to > ?)", customerID, ts, ts).
		Order("valid_from DESC").
		First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, customerDomain.ErrNotFound
	}
	return &out, err
}

func (r *CustomerRepository) Search(ctx context.Context, query string, limit int) ([]customerDomain.Customer, error) {
	like := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	var out []customerDomain.Customer
	err := r.db.WithContext(ctx).
		Where("is_current = ?", true).
		Where("LOWER(full_name) LIKE ? OR LOWER(phone) LIKE ? OR LOWER(id_number) LIKE ?", like, like, like).
		Limit(limit).
		Order("full_name").
		Find(&out).Error
	return out, err
}

func (r *CustomerRepository) UpdateCurrentFields(ctx context.Context, customerKey uint64, fields map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&customerDomain.Customer{}).
		Where("customer_key = ? AND is_current = ?", customerKey, true).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return customerDomain.ErrNotFound
	}
	return nil
}

// CurrentRowCounts feeds the background consistency check: any natural
// key returned here violates the one-current-row invariant.
func (r *CustomerRepository) CurrentRowCounts(ctx context.Context) (map[string]int64, error) {
	type row struct {
		CustomerID string
		N          int64
	}
	var rows []row
	// SUM over the flag rather than COUNT over a filter so natural keys
	// with zero current rows are reported too.
	err := r.db.WithContext(ctx).
		Model(&customerDomain.Customer{}).
		Select("customer_id, SUM(is_current) AS n").
		Group("customer_id").
		Having("SUM(is_current) <> 1").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, rw := range rows {
		out[rw.CustomerID] = rw.N
	}
	return out, nil
}
