package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubmittedItem is one line of a shopper submission. Rows are append-only.
type SubmittedItem struct {
	ID               uint64           `gorm:"column:id;primaryKey"`
	Identity         string           `gorm:"column:identity;type:text;not null"`
	GroupingName     string           `gorm:"column:grouping_name;type:text;not null"`
	ProductCode      string           `gorm:"column:product_code;type:text;not null"`
	Quantity         decimal.Decimal  `gorm:"column:quantity;type:numeric(12,3);not null"`
	ExpiresOn        *time.Time       `gorm:"column:expires_on;type:date"`
	UnitPrice        *decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2)"`
	PromotionalPrice bool             `gorm:"column:promotional_price;not null;default:false"`
	ExtraDisplay     bool             `gorm:"column:extra_display;not null;default:false"`
	ContactName      string           `gorm:"column:contact_name;type:text;not null;default:''"`
	ContactPhone     string           `gorm:"column:contact_phone;type:text;not null;default:''"`
	Note             *string          `gorm:"column:note;type:text"`
	SubmittedAt      time.Time        `gorm:"column:submitted_at;not null"`
}
