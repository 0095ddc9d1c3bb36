package catalog

import (
	"github.com/PHRJr/BuritisProject/internal/ingest"
	"github.com/PHRJr/BuritisProject/pkg/db/models"
	"github.com/PHRJr/BuritisProject/pkg/enums"
)

// ProductDTO is the catalog entry returned to shoppers.
type ProductDTO struct {
	Code     string  `json:"codigo"`
	Name     string  `json:"nome"`
	Unit     string  `json:"unidade"`
	Price    string  `json:"preco"`
	ImageURL *string `json:"url_imagem"`
}

// FromModel maps a product row to its API representation.
func FromModel(p models.Product) ProductDTO {
	return ProductDTO{
		Code:     p.Code,
		Name:     p.Name,
		Unit:     p.Unit,
		Price:    p.Price.StringFixed(2),
		ImageURL: p.ImageURL,
	}
}

// Grouping scopes a product lookup to a network or a store.
type Grouping struct {
	Kind enums.GroupingKind
	Name string
}

// Upload carries the raw files of a catalog refresh. NetworkStores is optional.
type Upload struct {
	Products        []byte
	NetworkProducts []byte
	NetworkStores   []byte
}

// ReplaceSummary reports what a refresh persisted and what it dropped.
type ReplaceSummary struct {
	Products               int              `json:"produtos"`
	ProductsSkipped        int              `json:"produtos_ignorados"`
	Networks               int              `json:"redes"`
	Stores                 int              `json:"lojas"`
	NetworkProducts        int              `json:"relacoes_rede_produto"`
	NetworkProductsSkipped int              `json:"relacoes_rede_produto_ignoradas"`
	NetworkStores          int              `json:"relacoes_rede_loja"`
	NetworkStoresSkipped   int              `json:"relacoes_rede_loja_ignoradas"`
	Warnings               []ingest.Warning `json:"avisos,omitempty"`
}
