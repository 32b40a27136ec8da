package scrape

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNormalizeBrazilianConvention(t *testing.T) {
	got, err := Normalize("1.234,56")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if got.String() != "1234.56" {
		t.Fatalf("unexpected value %s", got)
	}
}

func TestNormalizeUSConvention(t *testing.T) {
	got, err := Normalize("1,234.56")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if got.String() != "1234.56" {
		t.Fatalf("unexpected value %s", got)
	}
}

func TestNormalizeLoneComma(t *testing.T) {
	got, err := Normalize("0,0533")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if got.String() != "0.0533" {
		t.Fatalf("unexpected value %s", got)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	first, err := Normalize("45.678,90")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	second, err := Normalize(first.String())
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if !first.Equal(second) {
		t.Fatalf("not idempotent: %s vs %s", first, second)
	}
}

func TestNormalizeStripsNoise(t *testing.T) {
	got, err := Normalize("R$ 5.533,40 ")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if got.String() != "5533.4" {
		t.Fatalf("unexpected value %s", got)
	}
}

func TestNormalizePercentSuffix(t *testing.T) {
	got, err := Normalize("+0,42%")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if got.String() != "0.42" {
		t.Fatalf("unexpected value %s", got)
	}
}

func TestNormalizeUnparsable(t *testing.T) {
	for _, raw := range []string{"", "-", "N/A", "abc"} {
		if _, err := Normalize(raw); !errors.Is(err, ErrUnparsable) {
			t.Fatalf("expected ErrUnparsable for %q, got %v", raw, err)
		}
	}
}

func TestDecimalPlaces(t *testing.T) {
	cases := map[string]int{
		"4.123":  3,
		"0,0533": 4,
		"104.25": 2,
		"42":     0,
	}
	for raw, want := range cases {
		if got := DecimalPlaces(raw); got != want {
			t.Fatalf("DecimalPlaces(%q) = %d, want %d", raw, got, want)
		}
	}
}

func TestFormatSigned(t *testing.T) {
	if got := FormatSigned(decimal.NewFromFloat(0.015), 3); got != "+0.015" {
		t.Fatalf("unexpected positive %s", got)
	}
	if got := FormatSigned(decimal.NewFromFloat(-1.5), 2); got != "-1.50" {
		t.Fatalf("unexpected negative %s", got)
	}
	if got := FormatSigned(decimal.Zero, 2); got != "0.00" {
		t.Fatalf("zero must stay unsigned, got %s", got)
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(decimal.NewFromFloat(0.42)); got != "+0.42%" {
		t.Fatalf("unexpected %s", got)
	}
	if got := FormatPercent(decimal.NewFromFloat(-1.05)); got != "-1.05%" {
		t.Fatalf("unexpected %s", got)
	}
}
