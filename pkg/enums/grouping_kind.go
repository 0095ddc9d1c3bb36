package enums

import "fmt"

// GroupingKind selects whether a catalog lookup is scoped to a network or a store.
type GroupingKind string

const (
	GroupingKindNetwork GroupingKind = "rede"
	GroupingKindStore   GroupingKind = "loja"
)

var validGroupingKinds = []GroupingKind{
	GroupingKindNetwork,
	GroupingKindStore,
}

// String implements fmt.Stringer.
func (g GroupingKind) String() string {
	return string(g)
}

// IsValid reports whether the value is a known GroupingKind.
func (g GroupingKind) IsValid() bool {
	for _, candidate := range validGroupingKinds {
		if candidate == g {
			return true
		}
	}
	return false
}

// ParseGroupingKind converts raw input into a GroupingKind.
func ParseGroupingKind(value string) (GroupingKind, error) {
	for _, candidate := range validGroupingKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid grouping kind %q", value)
}
