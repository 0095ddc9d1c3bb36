package models

import "time"

// AllowedUser is an e-mail permitted to sign in as a shopper.
type AllowedUser struct {
	Email string `gorm:"column:email;type:text;primaryKey"`
}

// AdminUser holds administrator credentials.
type AdminUser struct {
	ID           uint      `gorm:"column:id;primaryKey"`
	Email        string    `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash;type:text;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
