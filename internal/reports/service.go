// Package reports renders the submitted item ledger as a spreadsheet-friendly CSV.
package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/PHRJr/BuritisProject/internal/ingest"
	"github.com/PHRJr/BuritisProject/pkg/db/models"
	pkgerrors "github.com/PHRJr/BuritisProject/pkg/errors"
	"github.com/PHRJr/BuritisProject/pkg/logger"
	"github.com/PHRJr/BuritisProject/pkg/metrics"
	"github.com/jszwec/csvutil"
)

const (
	ExportFilename    = "relatorio_entradas.csv"
	ExportContentType = "text/csv; charset=utf-8"

	utf8BOM = "\ufeff"
)

// Export is a rendered report ready to be streamed as an attachment.
type Export struct {
	Filename    string
	ContentType string
	Rows        int
	Body        []byte
}

// Service builds ledger exports.
type Service interface {
	ExportEntries(ctx context.Context) (*Export, error)
}

type service struct {
	repo    Repository
	delim   rune
	metrics *metrics.Metrics
	logg    *logger.Logger
}

// NewService wires the ledger repository. delimiter follows the catalog
// delimiter syntax.
func NewService(repo Repository, delimiter string, m *metrics.Metrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reports repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	delim, err := ingest.ParseDelimiter(delimiter)
	if err != nil {
		return nil, fmt.Errorf("export delimiter: %w", err)
	}
	if m == nil {
		m = metrics.New(nil)
	}
	return &service{repo: repo, delim: delim, metrics: m, logg: logg}, nil
}

func (s *service) ExportEntries(ctx context.Context) (*Export, error) {
	items, err := s.repo.ListNewestFirst(ctx)
	if err != nil {
		s.metrics.IncExport(metrics.ResultFailure)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Erro interno ao gerar o relatório.")
	}
	if len(items) == 0 {
		s.metrics.IncExport(metrics.ResultEmpty)
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Nenhuma entrada para exportar.")
	}

	body, err := s.render(items)
	if err != nil {
		s.metrics.IncExport(metrics.ResultFailure)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Erro interno ao gerar o relatório.")
	}

	s.metrics.IncExport(metrics.ResultSuccess)
	s.logg.Info(s.logg.WithField(ctx, "rows", len(items)), "entries exported")

	return &Export{
		Filename:    ExportFilename,
		ContentType: ExportContentType,
		Rows:        len(items),
		Body:        body,
	}, nil
}

func (s *service) render(items []models.SubmittedItem) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(utf8BOM)

	w := csv.NewWriter(&buf)
	w.Comma = s.delim
	enc := csvutil.NewEncoder(w)
	for _, item := range items {
		if err := enc.Encode(newEntryRow(item)); err != nil {
			return nil, fmt.Errorf("encode entry %d: %w", item.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
