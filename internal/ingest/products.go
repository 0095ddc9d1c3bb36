package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/PHRJr/BuritisProject/pkg/types"
	"github.com/jszwec/csvutil"
	"github.com/shopspring/decimal"
)

// ProductRow is a product line accepted from the catalog file.
type ProductRow struct {
	Code     string
	Name     string
	Unit     string
	Price    decimal.Decimal
	ImageURL string
	Line     int
}

type productRecord struct {
	Code     string `csv:"codigo"`
	Name     string `csv:"nome"`
	Unit     string `csv:"unidade"`
	Price    string `csv:"preco_unitario"`
	ImageURL string `csv:"imagem_url"`
}

var productHeaderAliases = map[string]string{
	"código":         "codigo",
	"cod":            "codigo",
	"preco":          "preco_unitario",
	"preço":          "preco_unitario",
	"preço_unitário": "preco_unitario",
	"preco_unit":     "preco_unitario",
	"url_imagem":     "imagem_url",
	"imagem":         "imagem_url",
}

var headerFolder = strings.NewReplacer(" ", "_", "-", "_")

// DecodeProducts decodes the product file. Rows without code or name are dropped
// and reported; malformed prices fall back to zero with a warning. The parse
// only fails when the file itself is unreadable.
func DecodeProducts(data []byte, delim rune) ([]ProductRow, Report, error) {
	var report Report

	r := newReader(data, delim)
	header, err := readHeader(r)
	if err != nil {
		return nil, report, err
	}
	seen := make(map[string]bool, len(header))
	for i := range header {
		key := normalizeProductHeader(header[i])
		if key == "" || seen[key] {
			key = fmt.Sprintf("_coluna_%d", i+1)
		}
		seen[key] = true
		header[i] = key
	}
	if indexOf(header, "codigo") < 0 || indexOf(header, "nome") < 0 {
		return nil, report, fmt.Errorf("cabeçalho deve conter as colunas codigo e nome")
	}

	src := &paddedReader{r: r, width: len(header)}
	dec, err := csvutil.NewDecoder(src, header...)
	if err != nil {
		return nil, report, fmt.Errorf("preparando leitura de produtos: %w", err)
	}

	var rows []ProductRow
	for {
		var rec productRecord
		if err := dec.Decode(&rec); err == io.EOF {
			break
		} else if err != nil {
			return nil, report, fmt.Errorf("lendo produtos: %w", err)
		}

		code := strings.TrimSpace(rec.Code)
		name := strings.TrimSpace(rec.Name)
		if code == "" || name == "" {
			report.Skipped++
			report.warn(src.line, "produto sem codigo ou nome")
			continue
		}

		price := decimal.Zero
		if raw := strings.TrimSpace(rec.Price); raw != "" {
			parsed, err := types.ParseLocaleDecimal(raw)
			if err != nil {
				report.warn(src.line, "preço inválido %q para %s, usando 0", raw, code)
			} else {
				price = parsed.Round(2)
			}
		}

		rows = append(rows, ProductRow{
			Code:     code,
			Name:     name,
			Unit:     strings.TrimSpace(rec.Unit),
			Price:    price,
			ImageURL: strings.TrimSpace(rec.ImageURL),
			Line:     src.line,
		})
		report.Accepted++
	}
	return rows, report, nil
}

func normalizeProductHeader(value string) string {
	key := headerFolder.Replace(strings.ToLower(cleanHeader(value)))
	if alias, ok := productHeaderAliases[key]; ok {
		return alias
	}
	return key
}

// paddedReader feeds csvutil records of exactly width fields and skips blank lines.
type paddedReader struct {
	r     *csv.Reader
	width int
	line  int
}

func (p *paddedReader) Read() ([]string, error) {
	for {
		record, err := p.r.Read()
		if err != nil {
			return nil, err
		}
		if isBlank(record) {
			continue
		}
		p.line = line(p.r)
		switch {
		case len(record) < p.width:
			padded := make([]string, p.width)
			copy(padded, record)
			record = padded
		case len(record) > p.width:
			record = record[:p.width]
		}
		return record, nil
	}
}
