package ingest

import (
	"fmt"
	"io"
)

// ParseMatrix reads a pivoted file whose header row holds grouping names and
// whose body rows list, per column, the product codes offered by that grouping.
// Pairs are emitted row by row, left to right. Empty cells and cells under an
// empty header are skipped.
func ParseMatrix(data []byte, delim rune) ([]Pair, error) {
	r := newReader(data, delim)
	header, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	var pairs []Pair
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("lendo linha: %w", err)
		}
		for i := range record {
			if i >= len(header) || header[i] == "" {
				continue
			}
			code := cell(record, i)
			if code == "" {
				continue
			}
			pairs = append(pairs, Pair{Group: header[i], Member: code})
		}
	}
	return pairs, nil
}

// MatrixGroups returns the distinct non-empty grouping names of a pivoted file
// in header order, including groupings whose column is empty.
func MatrixGroups(data []byte, delim rune) ([]string, error) {
	header, err := readHeader(newReader(data, delim))
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(header))
	groups := make([]string, 0, len(header))
	for _, name := range header {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		groups = append(groups, name)
	}
	return groups, nil
}
