package item

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("item not found")

type Status string

const (
	StatusPawned    Status = "pawned"
	StatusRedeemed  Status = "redeemed"
	StatusForfeited Status = "forfeited"
	StatusSold      Status = "sold"
	StatusReturned  Status = "returned"
)

type Category string

const (
	CategoryGold        Category = "gold"
	CategoryElectronics Category = "electronics"
	CategoryMobile      Category = "mobile"
	CategoryOther       Category = "other"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryGold, CategoryElectronics, CategoryMobile, CategoryOther:
		return true
	}
	return false
}

type Condition string

const (
	CondExcellent Condition = "excellent"
	CondGood      Condition = "good"
	CondFair      Condition = "fair"
	CondPoor      Condition = "poor"
)

// Item is a collateral object. Category decides which attribute subset
// is meaningful: gold carries type/weight/karat, electronics and mobile
// carry brand/model/condition. AppraisalValue is whole pesos.
type Item struct {
	ItemKey   uint64   `gorm:"primaryKey;column:item_key" json:"item_key"`
	ItemID    string   `gorm:"size:20;uniqueIndex:ux_items_item_id;column:item_id" json:"item_id"`
	BranchKey uint64   `gorm:"index;column:branch_key" json:"branch_key"`
	Category  Category `gorm:"size:20;column:category" json:"category"`

	Description string `gorm:"type:text;column:description" json:"description,omitempty"`
	Photos      string `gorm:"type:text;column:photos" json:"photos,omitempty"` // JSON array of URLs

	// Gold
	GoldType         string  `gorm:"size:60;column:gold_type" json:"gold_type,omitempty"`
	Karat            string  `gorm:"size:10;column:karat" json:"karat,omitempty"`
	WeightGrams      float64 `gorm:"column:weight_grams" json:"weight_grams,omitempty"`
	GoldPricePerGram int64   `gorm:"column:gold_price_per_gram" json:"gold_price_per_gram,omitempty"`

	// Electronics / mobile
	Brand        string    `gorm:"size:80;column:brand" json:"brand,omitempty"`
	Model        string    `gorm:"size:120;column:model" json:"model,omitempty"`
	SerialNumber string    `gorm:"size:120;column:serial_number" json:"serial_number,omitempty"`
	Condition    Condition `gorm:"size:20;column:item_condition" json:"condition,omitempty"`

	AppraisalValue int64  `gorm:"column:appraisal_value" json:"appraisal_value"`
	Status         Status `gorm:"size:20;default:'pawned';column:status" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime;column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;column:updated_at" json:"updated_at"`
}

func (Item) TableName() string { return "dim_item" }
