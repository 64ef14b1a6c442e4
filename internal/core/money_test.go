package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"0", "0", true},
		{"1500.25", "1500.25", true},
		{"1,500.25", "1500.25", true},
		{" £20 ", "20", true},
		{"20 GBP", "20", true},
		{"0.001", "0.001", true},
		{"-1", "", false},
		{"abc", "", false},
		{"", "", false},
		{"1.2.3", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || !got.Equal(decimal.RequireFromString(tc.out)) {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestParseAmountNegativeIsDistinct(t *testing.T) {
	_, err := ParseAmount("-5")
	if !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("expected ErrNegativeAmount, got %v", err)
	}
}

func TestFormatGBP(t *testing.T) {
	cases := map[string]string{
		"0":         "0",
		"999.4":     "999",
		"1234567.8": "1,234,568",
		"1700":      "1,700",
	}
	for in, want := range cases {
		if got := FormatGBP(decimal.RequireFromString(in)); got != want {
			t.Errorf("FormatGBP(%s) = %q, want %q", in, got, want)
		}
	}
}

func TestPercentGuardsZeroTotal(t *testing.T) {
	if _, ok := Percent(decimal.NewFromInt(5), decimal.Zero); ok {
		t.Fatal("expected no percentage for zero total")
	}
	p, ok := Percent(decimal.NewFromInt(25), decimal.NewFromInt(200))
	if !ok || !p.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("expected 12.5, got %s ok=%v", p, ok)
	}
	if got := FormatPercent(p); got != "12.50" {
		t.Fatalf("FormatPercent = %q", got)
	}
}
