package models

import "github.com/shopspring/decimal"

// Product is one catalog entry. The table is replaced wholesale on every
// catalog refresh.
type Product struct {
	Code     string          `gorm:"column:code;type:text;primaryKey"`
	Name     string          `gorm:"column:name;type:text;not null"`
	Unit     string          `gorm:"column:unit;type:text;not null;default:''"`
	Price    decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null;default:0"`
	ImageURL *string         `gorm:"column:image_url;type:text"`
}
