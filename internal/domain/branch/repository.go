package branch

import "context"

type Repository interface {
	CreateBranch(ctx context.Context, b *Branch) error
	GetBranch(ctx context.Context, branchKey uint64) (*Branch, error)
	ActiveBranches(ctx context.Context) ([]Branch, error)
	DeactivateBranch(ctx context.Context, branchKey uint64) error

	CreateEmployee(ctx context.Context, e *Employee) error
	GetEmployee(ctx context.Context, employeeKey uint64) (*Employee, error)
	ActiveEmployees(ctx context.Context, branchKey uint64) ([]Employee, error)
	DeactivateEmployee(ctx context.Context, employeeKey uint64) error
}
