// Package ingest turns uploaded CSV buffers into rows the catalog can persist.
package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

const bom = "\ufeff"

// ErrEmptyFile is returned when a buffer holds no header row.
var ErrEmptyFile = errors.New("arquivo vazio")

// Row is one record keyed by trimmed header names.
type Row struct {
	Line   int
	Values map[string]string
}

// Get returns the value for column, matching the header case-insensitively.
func (r Row) Get(column string) string {
	if v, ok := r.Values[column]; ok {
		return v
	}
	for k, v := range r.Values {
		if strings.EqualFold(k, column) {
			return v
		}
	}
	return ""
}

// Pair associates a grouping name (network or store) with a member value.
type Pair struct {
	Group  string
	Member string
}

// Warning explains why a source row was dropped or altered.
type Warning struct {
	Line   int    `json:"linha"`
	Reason string `json:"motivo"`
}

// Report summarises a tolerant parse.
type Report struct {
	Accepted int       `json:"aceitos"`
	Skipped  int       `json:"ignorados"`
	Warnings []Warning `json:"avisos,omitempty"`
}

func (r *Report) warn(line int, format string, args ...any) {
	r.Warnings = append(r.Warnings, Warning{Line: line, Reason: fmt.Sprintf(format, args...)})
}

// ParseDelimiter maps a configured delimiter to the rune used by the parser.
func ParseDelimiter(value string) (rune, error) {
	switch value {
	case "", ",":
		return ',', nil
	case ";":
		return ';', nil
	case "|":
		return '|', nil
	case "\t", `\t`, "tab", "TAB":
		return '\t', nil
	}
	return 0, fmt.Errorf("unsupported csv delimiter %q", value)
}

func newReader(data []byte, delim rune) *csv.Reader {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	return r
}

func readHeader(r *csv.Reader) ([]string, error) {
	header, err := r.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("lendo cabeçalho: %w", err)
	}
	for i := range header {
		header[i] = cleanHeader(header[i])
	}
	return header, nil
}

func cleanHeader(value string) string {
	return strings.TrimSpace(strings.TrimPrefix(value, bom))
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func line(r *csv.Reader) int {
	l, _ := r.FieldPos(0)
	return l
}
