package scrape

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrUnparsable is returned when a cell text holds no usable number.
var ErrUnparsable = errors.New("scrape: unparsable numeric text")

// CleanNumeric strips everything but digits, separators, signs and the
// percent mark from raw cell text (entities, thin spaces, currency symbols).
func CleanNumeric(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == ',' || r == '+' || r == '-' || r == '%':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Normalize parses a cell text into a decimal, resolving the separator
// convention by inspection: when a comma is present it is the decimal mark
// and dots are thousands grouping ("1.234,56"), otherwise the dot is the
// decimal mark and commas are grouping ("1,234.56"). Runs unchanged on
// already-normalized text.
func Normalize(raw string) (decimal.Decimal, error) {
	s := CleanNumeric(raw)
	s = strings.TrimSuffix(s, "%")
	if s == "" || s == "+" || s == "-" {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnparsable, raw)
	}
	ci, di := strings.LastIndex(s, ","), strings.LastIndex(s, ".")
	switch {
	case ci >= 0 && di >= 0 && ci > di:
		// "1.234,56": dots group thousands, comma marks decimals.
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case ci >= 0 && di >= 0:
		// "1,234.56": commas group thousands.
		s = strings.ReplaceAll(s, ",", "")
	case ci >= 0:
		// Comma alone is a decimal mark ("0,0533").
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnparsable, raw)
	}
	return d, nil
}

// DecimalPlaces counts fractional digits of the normalized form of raw.
// Used to preserve the precision FX providers quote with.
func DecimalPlaces(raw string) int {
	d, err := Normalize(raw)
	if err != nil {
		return 0
	}
	exp := d.Exponent()
	if exp >= 0 {
		return 0
	}
	return int(-exp)
}

// FormatFixed renders d with exactly places fractional digits.
func FormatFixed(d decimal.Decimal, places int) string {
	return d.StringFixed(int32(places))
}

// FormatSigned renders d with a leading + for positive values. Zero stays
// unsigned.
func FormatSigned(d decimal.Decimal, places int) string {
	s := d.StringFixed(int32(places))
	if d.Sign() > 0 {
		return "+" + s
	}
	return s
}

// FormatPercent renders d as a signed percentage with two decimals,
// e.g. "+0.42%", "-1.05%", "0.00%".
func FormatPercent(d decimal.Decimal) string {
	return FormatSigned(d, 2) + "%"
}
