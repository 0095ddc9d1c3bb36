package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PHRJr/BuritisProject/internal/ingest"
	"github.com/PHRJr/BuritisProject/pkg/config"
	"github.com/PHRJr/BuritisProject/pkg/db/models"
	"github.com/PHRJr/BuritisProject/pkg/enums"
	pkgerrors "github.com/PHRJr/BuritisProject/pkg/errors"
	"github.com/PHRJr/BuritisProject/pkg/logger"
	"github.com/PHRJr/BuritisProject/pkg/metrics"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the catalog refresh and the shopper-facing lookups.
type Service interface {
	Replace(ctx context.Context, upload Upload) (*ReplaceSummary, error)
	ListNetworks(ctx context.Context) ([]string, error)
	ListStores(ctx context.Context, network string) ([]string, error)
	ListProducts(ctx context.Context, grouping Grouping) ([]ProductDTO, error)
}

type service struct {
	repo      Repository
	tx        txRunner
	cfg       config.CatalogConfig
	metrics   *metrics.Metrics
	logg      *logger.Logger
	now       func() time.Time
	productD  rune
	relationD rune
}

// NewService wires the catalog repository with its transaction runner.
func NewService(repo Repository, tx txRunner, cfg config.CatalogConfig, m *metrics.Metrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	productD, err := ingest.ParseDelimiter(cfg.ProductDelimiter)
	if err != nil {
		return nil, fmt.Errorf("product delimiter: %w", err)
	}
	relationD, err := ingest.ParseDelimiter(cfg.AssociationDelimiter)
	if err != nil {
		return nil, fmt.Errorf("association delimiter: %w", err)
	}
	if m == nil {
		m = metrics.New(nil)
	}
	return &service{
		repo:      repo,
		tx:        tx,
		cfg:       cfg,
		metrics:   m,
		logg:      logg,
		now:       time.Now,
		productD:  productD,
		relationD: relationD,
	}, nil
}

// Replace swaps the whole catalog for the uploaded generation in a single
// transaction. Parsing happens before the transaction opens.
func (s *service) Replace(ctx context.Context, upload Upload) (*ReplaceSummary, error) {
	started := s.now()

	if len(upload.Products) == 0 || len(upload.NetworkProducts) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Envie o arquivo de produtos e o arquivo de redes.")
	}

	p, err := s.parse(upload)
	if err != nil {
		s.metrics.ObserveRefresh(metrics.ResultFailure, s.now().Sub(started))
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.persist(ctx, s.repo.WithTx(tx), p)
	})
	if err != nil {
		s.metrics.ObserveRefresh(metrics.ResultFailure, s.now().Sub(started))
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Erro ao atualizar dados.")
	}

	result := metrics.ResultSuccess
	if p.summary.Products == 0 {
		result = metrics.ResultEmpty
	}
	s.metrics.ObserveRefresh(result, s.now().Sub(started))
	s.metrics.AddRows(metrics.KindProduct, p.summary.Products, p.summary.ProductsSkipped)
	s.metrics.AddRows(metrics.KindNetworkProduct, p.summary.NetworkProducts, p.summary.NetworkProductsSkipped)
	s.metrics.AddRows(metrics.KindNetworkStore, p.summary.NetworkStores, p.summary.NetworkStoresSkipped)

	ctx = s.logg.WithFields(ctx, map[string]any{
		"products":         p.summary.Products,
		"products_skipped": p.summary.ProductsSkipped,
		"networks":         p.summary.Networks,
		"stores":           p.summary.Stores,
		"network_products": p.summary.NetworkProducts,
		"network_stores":   p.summary.NetworkStores,
	})
	s.logg.Info(ctx, "catalog refreshed")

	summary := p.summary
	return &summary, nil
}

func (s *service) parse(upload Upload) (plan, error) {
	rows, productReport, err := ingest.DecodeProducts(upload.Products, s.productD)
	if err != nil {
		return plan{}, parseError("produtos", err)
	}
	networks, err := ingest.MatrixGroups(upload.NetworkProducts, s.relationD)
	if err != nil {
		return plan{}, parseError("redes", err)
	}
	matrix, err := ingest.ParseMatrix(upload.NetworkProducts, s.relationD)
	if err != nil {
		return plan{}, parseError("redes", err)
	}

	var (
		storePairs  []ingest.Pair
		storeReport ingest.Report
	)
	if len(upload.NetworkStores) > 0 {
		storePairs, storeReport, err = ingest.ParsePairs(upload.NetworkStores, s.relationD, string(enums.GroupingKindNetwork), string(enums.GroupingKindStore))
		if err != nil {
			return plan{}, parseError("lojas", err)
		}
	}

	return buildPlan(rows, productReport, networks, matrix, storePairs, storeReport), nil
}

func parseError(file string, err error) error {
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("Arquivo de %s inválido: %s", file, err.Error()))
}

func (s *service) persist(ctx context.Context, repo Repository, p plan) error {
	if err := repo.Clear(ctx); err != nil {
		return stepError(err, "falha ao limpar o catálogo")
	}
	if err := repo.InsertProducts(ctx, p.products); err != nil {
		return stepError(err, "falha ao inserir produtos")
	}
	networkIDs, err := repo.InsertNetworks(ctx, p.networks)
	if err != nil {
		return stepError(err, "falha ao inserir redes")
	}
	storeIDs, err := repo.InsertStores(ctx, p.stores)
	if err != nil {
		return stepError(err, "falha ao inserir lojas")
	}

	productLinks := make([]models.NetworkProduct, 0, len(p.networkProducts))
	for _, pair := range p.networkProducts {
		id, ok := networkIDs[pair.Group]
		if !ok {
			continue
		}
		productLinks = append(productLinks, models.NetworkProduct{NetworkID: id, ProductCode: pair.Member})
	}
	if err := repo.InsertNetworkProducts(ctx, productLinks); err != nil {
		return stepError(err, "falha ao associar produtos às redes")
	}

	storeLinks := make([]models.NetworkStore, 0, len(p.networkStores))
	for _, pair := range p.networkStores {
		networkID, ok := networkIDs[pair.Group]
		if !ok {
			continue
		}
		storeID, ok := storeIDs[pair.Member]
		if !ok {
			continue
		}
		storeLinks = append(storeLinks, models.NetworkStore{NetworkID: networkID, StoreID: storeID})
	}
	if err := repo.InsertNetworkStores(ctx, storeLinks); err != nil {
		return stepError(err, "falha ao associar lojas às redes")
	}
	return nil
}

func stepError(err error, step string) error {
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Erro ao atualizar dados: "+step+".").
		WithDetails(map[string]any{"step": step})
}

func (s *service) ListNetworks(ctx context.Context) ([]string, error) {
	names, err := s.repo.ListNetworkNames(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Erro ao listar redes.")
	}
	return names, nil
}

func (s *service) ListStores(ctx context.Context, network string) ([]string, error) {
	network = strings.TrimSpace(network)
	if network == "" {
		return []string{}, nil
	}
	names, err := s.repo.ListStoreNames(ctx, network)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Erro ao listar lojas.")
	}
	return names, nil
}

// ListProducts resolves the products for a network or store. The sentinel
// name and unknown groupings both yield the whole catalog.
func (s *service) ListProducts(ctx context.Context, grouping Grouping) ([]ProductDTO, error) {
	name := strings.TrimSpace(grouping.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Informe a rede ou a loja.")
	}

	var (
		products []models.Product
		err      error
	)
	switch {
	case s.isSentinel(name):
	case grouping.Kind == enums.GroupingKindStore:
		products, err = s.repo.ProductsByStore(ctx, name)
	case grouping.Kind == enums.GroupingKindNetwork:
		products, err = s.repo.ProductsByNetwork(ctx, name)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Tipo de agrupamento inválido.")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Erro ao buscar produtos.")
	}

	if len(products) == 0 {
		products, err = s.repo.AllProducts(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Erro ao buscar produtos.")
		}
	}

	out := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		out = append(out, FromModel(p))
	}
	return out, nil
}

func (s *service) isSentinel(name string) bool {
	sentinel := strings.TrimSpace(s.cfg.NotFoundSentinel)
	return sentinel != "" && strings.EqualFold(name, sentinel)
}
