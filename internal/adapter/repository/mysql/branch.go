package mysql

import (
	"context"
	"errors"
	"time"

	branchDomain "gemmary-backend/internal/domain/branch"

	"gorm.io/gorm"
)

type BranchRepository struct{ db *gorm.DB }

func NewBranchRepository(db *gorm.DB) *BranchRepository { return &BranchRepository{db: db} }

func (r *BranchRepository) CreateBranch(ctx context.Context, b *branchDomain.Branch) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BranchRepository) GetBranch(ctx context.Context, branchKey uint64) (*branchDomain.Branch, error) {
	var out branchDomain.Branch
	err := r.db.WithContext(ctx).Where("branch_key = ?", branchKey).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, branchDomain.ErrNotFound
	}
	return &out, err
}

func (r *BranchRepository) ActiveBranches(ctx context.Context) ([]branchDomain.Branch, error) {
	var out []branchDomain.Branch
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name").
		Find(&out).Error
	return out, err
}

func (r *BranchRepository) DeactivateBranch(ctx context.Context, branchKey uint64) error {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).
		Model(&branchDomain.Branch{}).
		Where("branch_key = ? AND is_active = ?", branchKey, true).
		Updates(map[string]any{"is_active": false, "closed_at": now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return branchDomain.ErrNotFound
	}
	return nil
}

func (r *BranchRepository) CreateEmployee(ctx context.Context, e *branchDomain.Employee) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *BranchRepository) GetEmployee(ctx context.Context, employeeKey uint64) (*branchDomain.Employee, error) {
	var out branchDomain.Employee
	err := r.db.WithContext(ctx).Where("employee_key = ?", employeeKey).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, branchDomain.ErrNotFound
	}
	return &out, err
}

func (r *BranchRepository) ActiveEmployees(ctx context.Context, branchKey uint64) ([]branchDomain.Employee, error) {
	var out []branchDomain.Employee
	q := r.db.WithContext(ctx).Where("is_active = ?", true)
	if branchKey != 0 {
		q = q.Where("branch_key = ?", branchKey)
	}
	err := q.Order("full_name").Find(&out).Error
	return out, err
}

func (r *BranchRepository) DeactivateEmployee(ctx context.Context, employeeKey uint64) error {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).
		Model(&branchDomain.Employee{}).
		Where("employee_key = ? AND is_active = ?", employeeKey, true).
		Updates(map[string]any{"is_active": false, "terminated_at": now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return branchDomain.ErrNotFound
	}
	return nil
}
