package orders

import (
	"context"

	"github.com/PHRJr/BuritisProject/internal/repo"
	"github.com/PHRJr/BuritisProject/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence operations for submitted items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	InsertItem(ctx context.Context, item *models.SubmittedItem) error
}

type repository struct {
	repo.Base
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{Base: r.Tx(tx)}
}

func (r *repository) InsertItem(ctx context.Context, item *models.SubmittedItem) error {
	return r.DB(ctx).Create(item).Error
}
