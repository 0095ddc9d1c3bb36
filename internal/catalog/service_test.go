package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/PHRJr/BuritisProject/pkg/config"
	"github.com/PHRJr/BuritisProject/pkg/db"
	"github.com/PHRJr/BuritisProject/pkg/db/dbtest"
	"github.com/PHRJr/BuritisProject/pkg/db/models"
	"github.com/PHRJr/BuritisProject/pkg/enums"
	pkgerrors "github.com/PHRJr/BuritisProject/pkg/errors"
	"github.com/PHRJr/BuritisProject/pkg/logger"
	"github.com/PHRJr/BuritisProject/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	productsCSV = "codigo,nome,unidade,preco_unitario,imagem_url\n" +
		"P1,Arroz,kg,\"12,50\",\n" +
		"P2,Feijão,kg,8.9,http://img/p2.png\n" +
		"P3,Café,un,15,\n"
	matrixCSV = "A,B,C\n" +
		"P1,P2,\n" +
		"P3,P9,\n" +
		"P1,,\n"
	storesCSV = "rede,loja\n" +
		"A,Loja Centro\n" +
		"B,Loja Centro\n" +
		"B,Loja Norte\n" +
		"Z,Loja Fantasma\n"
)

func defaultCatalogConfig() config.CatalogConfig {
	return config.CatalogConfig{
		ProductDelimiter:     ",",
		AssociationDelimiter: ",",
		NotFoundSentinel:     "Não encontrada",
	}
}

func newTestService(t *testing.T, conn *gorm.DB, repo Repository, m *metrics.Metrics) Service {
	t.Helper()
	if repo == nil {
		repo = NewRepository(conn)
	}
	svc, err := NewService(repo, db.FromConn(conn), defaultCatalogConfig(), m, logger.Nop())
	require.NoError(t, err)
	return svc
}

func fullUpload() Upload {
	return Upload{
		Products:        []byte(productsCSV),
		NetworkProducts: []byte(matrixCSV),
		NetworkStores:   []byte(storesCSV),
	}
}

func TestNewServiceValidatesDependencies(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	tx := db.FromConn(conn)

	_, err := NewService(nil, tx, defaultCatalogConfig(), nil, logger.Nop())
	require.Error(t, err)
	_, err = NewService(repo, nil, defaultCatalogConfig(), nil, logger.Nop())
	require.Error(t, err)
	_, err = NewService(repo, tx, defaultCatalogConfig(), nil, nil)
	require.Error(t, err)

	cfg := defaultCatalogConfig()
	cfg.ProductDelimiter = ":"
	_, err = NewService(repo, tx, cfg, nil, logger.Nop())
	require.Error(t, err)
}

func TestReplacePersistsCatalog(t *testing.T) {
	conn := dbtest.Open(t)
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	svc := newTestService(t, conn, nil, m)
	ctx := context.Background()

	summary, err := svc.Replace(ctx, fullUpload())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Products)
	assert.Equal(t, 3, summary.Networks)
	assert.Equal(t, 2, summary.Stores)
	assert.Equal(t, 3, summary.NetworkProducts, "duplicate A/P1 is removed")
	assert.Equal(t, 1, summary.NetworkProductsSkipped, "unknown product P9")
	assert.Equal(t, 3, summary.NetworkStores)
	assert.Equal(t, 1, summary.NetworkStoresSkipped, "unknown network Z")

	networks, err := svc.ListNetworks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, networks)

	stores, err := svc.ListStores(ctx, "B")
	require.NoError(t, err)
	assert.Equal(t, []string{"Loja Centro", "Loja Norte"}, stores)

	products, err := svc.ListProducts(ctx, Grouping{Kind: enums.GroupingKindNetwork, Name: "A"})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Arroz", products[0].Name)
	assert.Equal(t, "12.50", products[0].Price)
	assert.Nil(t, products[0].ImageURL)
	assert.Equal(t, "Café", products[1].Name)

	assert.Equal(t, float64(1), counterValue(t, reg, "catalog_refresh_total", metrics.ResultSuccess))
	assert.Equal(t, float64(1), counterValue(t, reg, "catalog_rows_skipped_total", metrics.KindNetworkStore))
}

func counterValue(t *testing.T, reg *prometheus.Registry, name, label string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, pair := range metric.GetLabel() {
				if pair.GetValue() == label {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestReplaceStoreProductsComeFromEveryNetwork(t *testing.T) {
	conn := dbtest.Open(t)
	svc := newTestService(t, conn, nil, nil)
	ctx := context.Background()

	_, err := svc.Replace(ctx, fullUpload())
	require.NoError(t, err)

	products, err := svc.ListProducts(ctx, Grouping{Kind: enums.GroupingKindStore, Name: "Loja Centro"})
	require.NoError(t, err)

	names := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Arroz", "Café", "Feijão"}, names)
}

func TestReplaceCountsGoodAndBadRows(t *testing.T) {
	conn := dbtest.Open(t)
	svc := newTestService(t, conn, nil, nil)

	var b strings.Builder
	b.WriteString("codigo,nome,unidade,preco\n")
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&b, "C%02d,Produto %02d,un,1\n", i, i)
	}
	for i := 0; i < 5; i++ {
		fmt.Fprintf(&b, ",Sem código %d,un,1\n", i)
	}
	b.WriteString("C00,Repetido,un,2\n")

	summary, err := svc.Replace(context.Background(), Upload{
		Products:        []byte(b.String()),
		NetworkProducts: []byte("A\nC00\n"),
	})
	require.NoError(t, err)
	assert.Equal(t, 40, summary.Products)
	assert.Equal(t, 6, summary.ProductsSkipped)
	assert.NotEmpty(t, summary.Warnings)

	var stored models.Product
	require.NoError(t, conn.First(&stored, "code = ?", "C00").Error)
	assert.Equal(t, "Produto 00", stored.Name, "first occurrence wins")
}

func TestReplaceRequiresFiles(t *testing.T) {
	conn := dbtest.Open(t)
	svc := newTestService(t, conn, nil, nil)

	_, err := svc.Replace(context.Background(), Upload{Products: []byte(productsCSV)})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.Replace(context.Background(), Upload{Products: []byte("nome\nx\n"), NetworkProducts: []byte(matrixCSV)})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestReplaceIsIdempotent(t *testing.T) {
	conn := dbtest.Open(t)
	svc := newTestService(t, conn, nil, nil)
	ctx := context.Background()

	first, err := svc.Replace(ctx, fullUpload())
	require.NoError(t, err)
	second, err := svc.Replace(ctx, fullUpload())
	require.NoError(t, err)
	assert.Equal(t, first, second)

	var count int64
	require.NoError(t, conn.Model(&models.NetworkProduct{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

type failingRepo struct {
	Repository
}

func (f failingRepo) WithTx(tx *gorm.DB) Repository {
	return failingRepo{Repository: f.Repository.WithTx(tx)}
}

func (failingRepo) InsertNetworkStores(context.Context, []models.NetworkStore) error {
	return errors.New("boom")
}

func TestReplaceRollsBackOnFailure(t *testing.T) {
	conn := dbtest.Open(t)
	ctx := context.Background()

	good := newTestService(t, conn, nil, nil)
	_, err := good.Replace(ctx, Upload{
		Products:        []byte("codigo,nome\nOLD,Antigo\n"),
		NetworkProducts: []byte("X\nOLD\n"),
	})
	require.NoError(t, err)

	bad := newTestService(t, conn, failingRepo{Repository: NewRepository(conn)}, nil)
	_, err = bad.Replace(ctx, fullUpload())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeInternal, typed.Code())
	assert.Contains(t, typed.Message(), "lojas")

	networks, err := good.ListNetworks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"X"}, networks)

	var products []models.Product
	require.NoError(t, conn.Find(&products).Error)
	require.Len(t, products, 1)
	assert.Equal(t, "OLD", products[0].Code)
}

func TestListNetworksEmptyThenPopulated(t *testing.T) {
	conn := dbtest.Open(t)
	svc := newTestService(t, conn, nil, nil)
	ctx := context.Background()

	networks, err := svc.ListNetworks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{}, networks)

	_, err = svc.Replace(ctx, Upload{
		Products:        []byte("codigo,nome\nP1,Arroz\n"),
		NetworkProducts: []byte("B,A\nP1,P1\n"),
	})
	require.NoError(t, err)

	networks, err = svc.ListNetworks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, networks)
}

func TestListStoresEmptyNetwork(t *testing.T) {
	conn := dbtest.Open(t)
	svc := newTestService(t, conn, nil, nil)

	stores, err := svc.ListStores(context.Background(), "  ")
	require.NoError(t, err)
	assert.Equal(t, []string{}, stores)
}

func TestListProductsFallsBackToWholeCatalog(t *testing.T) {
	conn := dbtest.Open(t)
	svc := newTestService(t, conn, nil, nil)
	ctx := context.Background()

	_, err := svc.Replace(ctx, fullUpload())
	require.NoError(t, err)

	cases := []Grouping{
		{Kind: enums.GroupingKindNetwork, Name: " não ENCONTRADA "},
		{Kind: enums.GroupingKindNetwork, Name: "C"},
		{Kind: enums.GroupingKindNetwork, Name: "Inexistente"},
		{Kind: enums.GroupingKindStore, Name: "Loja Fantasma"},
	}
	for _, grouping := range cases {
		products, err := svc.ListProducts(ctx, grouping)
		require.NoError(t, err, grouping.Name)
		assert.Len(t, products, 3, grouping.Name)
	}
}

func TestListProductsValidatesGrouping(t *testing.T) {
	conn := dbtest.Open(t)
	svc := newTestService(t, conn, nil, nil)

	_, err := svc.ListProducts(context.Background(), Grouping{Kind: enums.GroupingKindNetwork})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.ListProducts(context.Background(), Grouping{Kind: "x", Name: "A"})
	require.Error(t, err)
}
