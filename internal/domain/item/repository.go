package item

import "context"

type Repository interface {
	Create(ctx context.Context, it *Item) error
	GetByKey(ctx context.Context, itemKey uint64) (*Item, error)
	GetByItemID(ctx context.Context, itemID string) (*Item, error)
	// SetStatus updates only the status column.
	SetStatus(ctx context.Context, itemKey uint64, status Status) error
	Delete(ctx context.Context, itemKey uint64) error
}
