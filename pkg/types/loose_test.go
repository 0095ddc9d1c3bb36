package types

import (
	"encoding/json"
	"testing"
)

func TestLooseNumberUnmarshal(t *testing.T) {
	type payload struct {
		Qty LooseNumber `json:"quantidade"`
	}

	cases := map[string]struct {
		body  string
		valid bool
		want  string
	}{
		"string comma": {body: `{"quantidade":"2,5"}`, valid: true, want: "2.5"},
		"json number":  {body: `{"quantidade":3}`, valid: true, want: "3"},
		"blank string": {body: `{"quantidade":"  "}`, valid: false},
		"null":         {body: `{"quantidade":null}`, valid: false},
		"missing":      {body: `{}`, valid: false},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var got payload
			if err := json.Unmarshal([]byte(tc.body), &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got.Qty.Valid != tc.valid {
				t.Fatalf("expected valid=%v got %+v", tc.valid, got.Qty)
			}
			if !tc.valid {
				return
			}
			d, err := got.Qty.Decimal()
			if err != nil {
				t.Fatalf("decimal: %v", err)
			}
			if d.String() != tc.want {
				t.Fatalf("expected %s got %s", tc.want, d.String())
			}
		})
	}
}

func TestLooseNumberRejectsObjects(t *testing.T) {
	var n LooseNumber
	if err := json.Unmarshal([]byte(`{"a":1}`), &n); err == nil {
		t.Fatalf("expected error for object input")
	}
}

func TestParseLocaleDecimal(t *testing.T) {
	cases := map[string]string{
		"1,00":     "1",
		"1.5":      "1.5",
		"R$ 12,90": "12.9",
		"1.234,56": "1234.56",
		"1,234.56": "1234.56",
		" 0,125 ":  "0.125",
		"10":       "10",
	}
	for in, want := range cases {
		got, err := ParseLocaleDecimal(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if got.String() != want {
			t.Fatalf("parse %q expected %s got %s", in, want, got.String())
		}
	}

	for _, bad := range []string{"", "abc", "1,2,3x"} {
		if _, err := ParseLocaleDecimal(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestLooseBoolUnmarshal(t *testing.T) {
	cases := map[string]bool{
		`true`:  true,
		`false`: false,
		`"on"`:  true,
		`"sim"`: true,
		`""`:    false,
		`1`:     true,
		`0`:     false,
		`null`:  false,
	}
	for in, want := range cases {
		var b LooseBool
		if err := json.Unmarshal([]byte(in), &b); err != nil {
			t.Fatalf("unmarshal %s: %v", in, err)
		}
		if bool(b) != want {
			t.Fatalf("unmarshal %s expected %v got %v", in, want, b)
		}
	}

	var b LooseBool
	if err := json.Unmarshal([]byte(`"talvez"`), &b); err == nil {
		t.Fatalf("expected error for unknown boolean text")
	}
}
