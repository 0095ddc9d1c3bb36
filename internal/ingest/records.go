package ingest

import (
	"fmt"
	"io"
	"strings"
)

// ParseRecords reads one row per record. Short rows are padded with empty
// values and blank lines are skipped; source order is preserved.
func ParseRecords(data []byte, delim rune) ([]Row, error) {
	r := newReader(data, delim)
	header, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	var rows []Row
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("lendo linha: %w", err)
		}
		if isBlank(record) {
			continue
		}

		values := make(map[string]string, len(header))
		for i, column := range header {
			if column == "" {
				continue
			}
			value := ""
			if i < len(record) {
				value = strings.TrimSpace(record[i])
			}
			values[column] = value
		}
		rows = append(rows, Row{Line: line(r), Values: values})
	}
	return rows, nil
}

// ParsePairs reads a flat two-column association list such as "rede,loja".
// Rows with either side blank are skipped and reported.
func ParsePairs(data []byte, delim rune, groupCol, memberCol string) ([]Pair, Report, error) {
	var report Report

	r := newReader(data, delim)
	header, err := readHeader(r)
	if err != nil {
		return nil, report, err
	}
	groupIdx, memberIdx := indexOf(header, groupCol), indexOf(header, memberCol)
	if groupIdx < 0 || memberIdx < 0 {
		return nil, report, fmt.Errorf("cabeçalho deve conter as colunas %q e %q", groupCol, memberCol)
	}

	var pairs []Pair
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, report, fmt.Errorf("lendo linha: %w", err)
		}
		if isBlank(record) {
			continue
		}

		group, member := cell(record, groupIdx), cell(record, memberIdx)
		if group == "" || member == "" {
			report.Skipped++
			report.warn(line(r), "linha sem %s ou %s", groupCol, memberCol)
			continue
		}
		pairs = append(pairs, Pair{Group: group, Member: member})
		report.Accepted++
	}
	return pairs, report, nil
}

// Header returns the cleaned header row.
func Header(data []byte, delim rune) ([]string, error) {
	return readHeader(newReader(data, delim))
}

// HasColumn reports whether header holds column, ignoring case.
func HasColumn(header []string, column string) bool {
	return indexOf(header, column) >= 0
}

func indexOf(header []string, column string) int {
	for i, h := range header {
		if strings.EqualFold(h, column) {
			return i
		}
	}
	return -1
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
