package catalog

import (
	"context"
	"fmt"

	"github.com/PHRJr/BuritisProject/internal/repo"
	"github.com/PHRJr/BuritisProject/pkg/db/models"
	"gorm.io/gorm"
)

const insertBatchSize = 500

// Repository defines persistence operations for the catalog tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Clear(ctx context.Context) error
	InsertProducts(ctx context.Context, products []models.Product) error
	InsertNetworks(ctx context.Context, names []string) (map[string]uint, error)
	InsertStores(ctx context.Context, names []string) (map[string]uint, error)
	InsertNetworkProducts(ctx context.Context, links []models.NetworkProduct) error
	InsertNetworkStores(ctx context.Context, links []models.NetworkStore) error
	ListNetworkNames(ctx context.Context) ([]string, error)
	ListStoreNames(ctx context.Context, network string) ([]string, error)
	ProductsByNetwork(ctx context.Context, network string) ([]models.Product, error)
	ProductsByStore(ctx context.Context, store string) ([]models.Product, error)
	AllProducts(ctx context.Context) ([]models.Product, error)
}

type repository struct {
	repo.Base
}

// NewRepository binds a GORM DB to catalog operations.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{Base: r.Tx(tx)}
}

// Clear removes every catalog row, dependents first.
func (r *repository) Clear(ctx context.Context) error {
	for _, table := range []string{"network_products", "network_stores", "products", "networks", "stores"} {
		if err := r.DB(ctx).Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

func (r *repository) InsertProducts(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.DB(ctx).CreateInBatches(&products, insertBatchSize).Error
}

func (r *repository) InsertNetworks(ctx context.Context, names []string) (map[string]uint, error) {
	rows := make([]models.Network, len(names))
	for i, name := range names {
		rows[i] = models.Network{Name: name}
	}
	if len(rows) > 0 {
		if err := r.DB(ctx).CreateInBatches(&rows, insertBatchSize).Error; err != nil {
			return nil, err
		}
	}
	ids := make(map[string]uint, len(rows))
	for _, row := range rows {
		ids[row.Name] = row.ID
	}
	return ids, nil
}

func (r *repository) InsertStores(ctx context.Context, names []string) (map[string]uint, error) {
	rows := make([]models.Store, len(names))
	for i, name := range names {
		rows[i] = models.Store{Name: name}
	}
	if len(rows) > 0 {
		if err := r.DB(ctx).CreateInBatches(&rows, insertBatchSize).Error; err != nil {
			return nil, err
		}
	}
	ids := make(map[string]uint, len(rows))
	for _, row := range rows {
		ids[row.Name] = row.ID
	}
	return ids, nil
}

func (r *repository) InsertNetworkProducts(ctx context.Context, links []models.NetworkProduct) error {
	if len(links) == 0 {
		return nil
	}
	return r.DB(ctx).CreateInBatches(&links, insertBatchSize).Error
}

func (r *repository) InsertNetworkStores(ctx context.Context, links []models.NetworkStore) error {
	if len(links) == 0 {
		return nil
	}
	return r.DB(ctx).CreateInBatches(&links, insertBatchSize).Error
}

func (r *repository) ListNetworkNames(ctx context.Context) ([]string, error) {
	names := []string{}
	if err := r.DB(ctx).
		Model(&models.Network{}).
		Order("name ASC").
		Pluck("name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

func (r *repository) ListStoreNames(ctx context.Context, network string) ([]string, error) {
	names := []string{}
	if err := r.DB(ctx).
		Table("stores").
		Joins("JOIN network_stores ON network_stores.store_id = stores.id").
		Joins("JOIN networks ON networks.id = network_stores.network_id").
		Where("networks.name = ?", network).
		Order("stores.name ASC").
		Pluck("stores.name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

func (r *repository) ProductsByNetwork(ctx context.Context, network string) ([]models.Product, error) {
	var products []models.Product
	if err := r.DB(ctx).
		Joins("JOIN network_products ON network_products.product_code = products.code").
		Joins("JOIN networks ON networks.id = network_products.network_id").
		Where("networks.name = ?", network).
		Order("products.name ASC, products.code ASC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ProductsByStore returns the distinct products offered by any network the store belongs to.
func (r *repository) ProductsByStore(ctx context.Context, store string) ([]models.Product, error) {
	offered := r.DB(ctx).
		Table("network_products").
		Select("network_products.product_code").
		Joins("JOIN network_stores ON network_stores.network_id = network_products.network_id").
		Joins("JOIN stores ON stores.id = network_stores.store_id").
		Where("stores.name = ?", store)

	var products []models.Product
	if err := r.DB(ctx).
		Where("products.code IN (?)", offered).
		Order("products.name ASC, products.code ASC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) AllProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.DB(ctx).
		Order("name ASC, code ASC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}
