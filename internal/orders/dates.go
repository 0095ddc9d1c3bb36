package orders

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// parseExpiry reads dates typed as d/m/yy or d/m/yyyy. Two digit years land
// in the 2000s. The ISO form sent by date inputs is accepted as well.
func parseExpiry(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return &t, nil
	}

	parts := strings.Split(raw, "/")
	if len(parts) != 3 {
		return nil, fmt.Errorf("invalid date %q", raw)
	}
	day, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, fmt.Errorf("invalid day in %q", raw)
	}
	month, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, fmt.Errorf("invalid month in %q", raw)
	}
	yearText := strings.TrimSpace(parts[2])
	year, err := strconv.Atoi(yearText)
	if err != nil {
		return nil, fmt.Errorf("invalid year in %q", raw)
	}
	switch len(yearText) {
	case 2:
		year += 2000
	case 4:
	default:
		return nil, fmt.Errorf("invalid year in %q", raw)
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return nil, fmt.Errorf("impossible date %q", raw)
	}
	return &t, nil
}
