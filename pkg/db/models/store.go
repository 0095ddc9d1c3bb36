package models

// Store is an individual retail location (loja).
type Store struct {
	ID   uint   `gorm:"column:id;primaryKey"`
	Name string `gorm:"column:name;type:text;not null;uniqueIndex"`
}
