package catalog

import (
	"strings"

	"github.com/PHRJr/BuritisProject/internal/ingest"
	"github.com/PHRJr/BuritisProject/pkg/db/models"
)

// plan is the fully resolved catalog generation, ready to insert.
type plan struct {
	products        []models.Product
	networks        []string
	stores          []string
	networkProducts []ingest.Pair
	networkStores   []ingest.Pair
	summary         ReplaceSummary
}

// buildPlan dedupes products by code, keeps network order from the matrix
// header and drops associations that point at unknown products or networks.
func buildPlan(rows []ingest.ProductRow, productReport ingest.Report, networks []string, matrix []ingest.Pair, storePairs []ingest.Pair, storeReport ingest.Report) plan {
	p := plan{}
	p.summary.Warnings = append(p.summary.Warnings, productReport.Warnings...)
	p.summary.ProductsSkipped = productReport.Skipped

	codes := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		if _, seen := codes[row.Code]; seen {
			p.summary.ProductsSkipped++
			p.summary.Warnings = append(p.summary.Warnings, ingest.Warning{Line: row.Line, Reason: "código duplicado: " + row.Code})
			continue
		}
		codes[row.Code] = struct{}{}
		product := models.Product{Code: row.Code, Name: row.Name, Unit: row.Unit, Price: row.Price}
		if url := strings.TrimSpace(row.ImageURL); url != "" {
			product.ImageURL = &url
		}
		p.products = append(p.products, product)
	}

	knownNetworks := make(map[string]struct{}, len(networks))
	for _, name := range networks {
		if name == "" {
			continue
		}
		if _, seen := knownNetworks[name]; seen {
			continue
		}
		knownNetworks[name] = struct{}{}
		p.networks = append(p.networks, name)
	}

	seenProducts := make(map[ingest.Pair]struct{}, len(matrix))
	for _, pair := range matrix {
		if _, ok := codes[pair.Member]; !ok {
			p.summary.NetworkProductsSkipped++
			continue
		}
		if _, dup := seenProducts[pair]; dup {
			continue
		}
		seenProducts[pair] = struct{}{}
		p.networkProducts = append(p.networkProducts, pair)
	}

	p.summary.NetworkStoresSkipped = storeReport.Skipped
	p.summary.Warnings = append(p.summary.Warnings, storeReport.Warnings...)
	knownStores := make(map[string]struct{})
	seenStores := make(map[ingest.Pair]struct{}, len(storePairs))
	for _, pair := range storePairs {
		if _, ok := knownNetworks[pair.Group]; !ok {
			p.summary.NetworkStoresSkipped++
			continue
		}
		if _, dup := seenStores[pair]; dup {
			continue
		}
		seenStores[pair] = struct{}{}
		if _, ok := knownStores[pair.Member]; !ok {
			knownStores[pair.Member] = struct{}{}
			p.stores = append(p.stores, pair.Member)
		}
		p.networkStores = append(p.networkStores, pair)
	}

	p.summary.Products = len(p.products)
	p.summary.Networks = len(p.networks)
	p.summary.Stores = len(p.stores)
	p.summary.NetworkProducts = len(p.networkProducts)
	p.summary.NetworkStores = len(p.networkStores)
	return p
}
