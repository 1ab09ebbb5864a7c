package mysql

import (
	"context"
	"errors"

	itemDomain "gemmary-backend/internal/domain/item"

	"gorm.io/gorm"
)

type ItemRepository struct{ db *gorm.DB }

func NewItemRepository(db *gorm.DB) *ItemRepository { return &ItemRepository{db: db} }

func (r *ItemRepository) Create(ctx context.Context, it *itemDomain.Item) error {
	return r.db.WithContext(ctx).Create(it).Error
}

func (r *ItemRepository) GetByKey(ctx context.Context, itemKey uint64) (*itemDomain.Item, error) {
	var out itemDomain.Item
	err := r.db.WithContext(ctx).Where("item_key = ?", itemKey).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, itemDomain.ErrNotFound
	}
	return &out, err
}

func (r *ItemRepository) GetByItemID(ctx context.Context, itemID string) (*itemDomain.Item, error) {
	var out itemDomain.Item
	err := r.db.WithContext(ctx).Where("item_id = ?", itemID).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, itemDomain.ErrNotFound
	}
	return &out, err
}

func (r *ItemRepository) SetStatus(ctx context.Context, itemKey uint64, status itemDomain.Status) error {
	res := r.db.WithContext(ctx).
		Model(&itemDomain.Item{}).
		Where("item_key = ?", itemKey).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return itemDomain.ErrNotFound
	}
	return nil
}

func (r *ItemRepository) Delete(ctx context.Context, itemKey uint64) error {
	return r.db.WithContext(ctx).Where("item_key = ?", itemKey).Delete(&itemDomain.Item{}).Error
}
