package reports

import (
	"context"

	"github.com/PHRJr/BuritisProject/internal/repo"
	"github.com/PHRJr/BuritisProject/pkg/db/models"
	"gorm.io/gorm"
)

// Repository reads the submitted item ledger.
type Repository interface {
	ListNewestFirst(ctx context.Context) ([]models.SubmittedItem, error)
}

type repository struct {
	repo.Base
}

// NewRepository binds a GORM DB to report queries.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) ListNewestFirst(ctx context.Context) ([]models.SubmittedItem, error) {
	var items []models.SubmittedItem
	if err := r.DB(ctx).Order("id DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
