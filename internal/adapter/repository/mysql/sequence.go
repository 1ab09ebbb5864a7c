package mysql

import (
	"context"

	"gorm.io/gorm"
)

// Sequence is one named counter row. Business IDs (customer numbers,
// daily ticket numbers) are allocated here server-side so concurrent
// operators never race to the same number.
type Sequence struct {
	Scope string `gorm:"primaryKey;size:40;column:scope"`
	Value int64  `gorm:"column:value"`
}

func (Sequence) TableName() string { return "sequences" }

type SequenceRepository struct{ db *gorm.DB }

func NewSequenceRepository(db *gorm.DB) *SequenceRepository { return &SequenceRepository{db: db} }

// Next increments the counter for scope and returns the new value,
// creating the row on first use. The row lock is held until the
// caller's transaction ends, so numbers handed out inside a rolled-back
// tx are reusable and committed numbers are gap-free per scope.
func (r *SequenceRepository) Next(ctx context.Context, scope string) (int64, error) {
	var seq Sequence
	err := withRowLock(r.db.WithContext(ctx)).
		Where("scope = ?", scope).
		First(&seq).Error
	switch {
	case err == nil:
		seq.Value++
		if err := r.db.WithContext(ctx).Save(&seq).Error; err != nil {
			return 0, err
		}
		return seq.Value, nil
	case err == gorm.ErrRecordNotFound:
		seq = Sequence{Scope: scope, Value: 1}
		if err := r.db.WithContext(ctx).Create(&seq).Error; err != nil {
			return 0, err
		}
		return 1, nil
	default:
		return 0, err
	}
}
