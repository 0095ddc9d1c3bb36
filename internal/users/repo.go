package users

import (
	"context"
	"errors"
	"strings"

	"github.com/PHRJr/BuritisProject/internal/repo"
	"github.com/PHRJr/BuritisProject/pkg/db/models"
	"gorm.io/gorm"
)

const insertBatchSize = 500

// Repository exposes the shopper allow-list.
type Repository struct {
	repo.Base
}

// NewRepository constructs an allow-list repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository scoped to the supplied transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Tx(tx)}
}

// IsAllowed reports whether the e-mail is on the allow-list. Matching is
// case-insensitive.
func (r *Repository) IsAllowed(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.AllowedUser{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Replace deletes every allowed e-mail and inserts the provided list.
func (r *Repository) Replace(ctx context.Context, emails []string) error {
	if err := r.DB(ctx).Exec("DELETE FROM allowed_users").Error; err != nil {
		return err
	}
	if len(emails) == 0 {
		return nil
	}
	rows := make([]models.AllowedUser, len(emails))
	for i, email := range emails {
		rows[i] = models.AllowedUser{Email: email}
	}
	return r.DB(ctx).CreateInBatches(&rows, insertBatchSize).Error
}

// Count returns the size of the allow-list.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.AllowedUser{}).Count(&count).Error
	return count, err
}

// AdminRepository persists administrator credentials.
type AdminRepository struct {
	repo.Base
}

// NewAdminRepository constructs an admin repo bound to the provided GORM DB.
func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{Base: repo.NewBase(db)}
}

// FindByEmail returns nil without error when no admin matches.
func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	var admin models.AdminUser
	err := r.DB(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// Create inserts a new administrator.
func (r *AdminRepository) Create(ctx context.Context, email, passwordHash string) (*models.AdminUser, error) {
	admin := &models.AdminUser{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
	}
	if err := r.DB(ctx).Create(admin).Error; err != nil {
		return nil, err
	}
	return admin, nil
}

// UpdatePasswordHash stores a new hash for the administrator.
func (r *AdminRepository) UpdatePasswordHash(ctx context.Context, id uint, passwordHash string) error {
	return r.DB(ctx).
		Model(&models.AdminUser{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash).Error
}
