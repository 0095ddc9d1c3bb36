package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// LooseNumber holds a numeric field that clients send either as a JSON number
// or as text typed by a person ("1,5", "R$ 2,00").
type LooseNumber struct {
	Raw   string
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *LooseNumber) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*n = LooseNumber{}
		return nil
	}

	if trimmed[0] == '"' {
		var raw string
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		*n = LooseNumber{Raw: raw, Valid: raw != ""}
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(trimmed, &num); err != nil {
		return fmt.Errorf("expected number or string, got %s", string(trimmed))
	}
	*n = LooseNumber{Raw: num.String(), Valid: true}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n LooseNumber) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Raw)
}

// NewLooseNumber builds a present value from raw text.
func NewLooseNumber(raw string) LooseNumber {
	raw = strings.TrimSpace(raw)
	return LooseNumber{Raw: raw, Valid: raw != ""}
}

// Decimal parses the raw text, accepting decimal commas.
func (n LooseNumber) Decimal() (decimal.Decimal, error) {
	if !n.Valid {
		return decimal.Zero, fmt.Errorf("value is empty")
	}
	return ParseLocaleDecimal(n.Raw)
}

// ParseLocaleDecimal parses numbers written with either separator. When both
// separators appear the right-most one is the decimal mark.
func ParseLocaleDecimal(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "R$")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return decimal.Zero, fmt.Errorf("value is empty")
	}

	comma := strings.LastIndex(s, ",")
	dot := strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && dot >= 0 && comma > dot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case comma >= 0 && dot >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		s = strings.ReplaceAll(s, ",", ".")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid number %q", raw)
	}
	return d, nil
}

// LooseBool accepts JSON booleans as well as the string and numeric forms
// produced by HTML forms.
type LooseBool bool

// UnmarshalJSON implements json.Unmarshaler.
func (b *LooseBool) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*b = false
		return nil
	}

	var value any
	if err := json.Unmarshal(trimmed, &value); err != nil {
		return err
	}

	switch v := value.(type) {
	case bool:
		*b = LooseBool(v)
	case float64:
		*b = v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "on", "sim", "s", "yes":
			*b = true
		case "", "false", "0", "off", "nao", "não", "n", "no":
			*b = false
		default:
			return fmt.Errorf("invalid boolean %q", v)
		}
	default:
		return fmt.Errorf("invalid boolean %s", string(trimmed))
	}
	return nil
}
