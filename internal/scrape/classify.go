package scrape

import (
	"regexp"
	"strings"
)

// FieldShape is the lexical class of a table cell's text. Shapes drive the
// fallback extraction path when a provider reorders its columns.
type FieldShape int

const (
	ShapeUnknown FieldShape = iota
	ShapeDecimal
	ShapeSignedDecimal
	ShapePercent
	ShapeVolume
	ShapeClockTime
	ShapeShortDate
	ShapeGlobexCode
	ShapeMonthYear
	ShapeText
)

func (s FieldShape) String() string {
	switch s {
	case ShapeDecimal:
		return "decimal"
	case ShapeSignedDecimal:
		return "signed_decimal"
	case ShapePercent:
		return "percent"
	case ShapeVolume:
		return "volume"
	case ShapeClockTime:
		return "clock_time"
	case ShapeShortDate:
		return "short_date"
	case ShapeGlobexCode:
		return "globex_code"
	case ShapeMonthYear:
		return "month_year"
	case ShapeText:
		return "text"
	default:
		return "unknown"
	}
}

var (
	rePercent    = regexp.MustCompile(`^[+-]?\d{1,3}(?:[.,]\d+)?%$`)
	reSignedDec  = regexp.MustCompile(`^[+-](?:\d{1,3}(?:[.,]\d{3})+(?:[.,]\d+)?|\d+(?:[.,]\d+)?)$`)
	reDecimal    = regexp.MustCompile(`^\d{1,3}(?:[.,]\d{3})+(?:[.,]\d+)?$|^\d+(?:[.,]\d+)?$`)
	reVolume     = regexp.MustCompile(`^\d+(?:[.,]\d+)?[KMB]$`)
	reClockTime  = regexp.MustCompile(`^\d{1,2}:\d{2}(?::\d{2})?$`)
	reShortDate  = regexp.MustCompile(`^\d{1,2}/\d{1,2}(?:/\d{2,4})?$`)
	reGlobexCode = regexp.MustCompile(`^6[A-Z][FGHJKMNQUVXZ]\d$|^\d[A-Z]{2}\d$`)
	reMonthYear  = regexp.MustCompile(`^[A-Z]{3}\s+\d{4}$`)
)

// Classify reports the shape of a trimmed cell text. Precedence puts the
// more specific shapes first so e.g. "15:30" never reads as a decimal.
func Classify(text string) FieldShape {
	t := strings.TrimSpace(text)
	if t == "" || t == "-" || t == "--" {
		return ShapeUnknown
	}
	switch {
	case rePercent.MatchString(t):
		return ShapePercent
	case reClockTime.MatchString(t):
		return ShapeClockTime
	case reShortDate.MatchString(t):
		return ShapeShortDate
	case reGlobexCode.MatchString(t):
		return ShapeGlobexCode
	case reMonthYear.MatchString(strings.ToUpper(t)):
		return ShapeMonthYear
	case reSignedDec.MatchString(t):
		return ShapeSignedDecimal
	case reVolume.MatchString(t):
		return ShapeVolume
	case reDecimal.MatchString(t):
		return ShapeDecimal
	default:
		return ShapeText
	}
}

// matchesAny reports whether shape is one of want.
func matchesAny(shape FieldShape, want ...FieldShape) bool {
	for _, w := range want {
		if shape == w {
			return true
		}
	}
	return false
}
