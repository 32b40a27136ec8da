package scrape

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"MarketBoard/internal/domain/models"
)

// ErrRowSkipped marks a row that lacks the fields a quote cannot exist
// without (a name and a nonzero last price).
var ErrRowSkipped = errors.New("scrape: row skipped")

// AssetClass selects the display precision of a quote.
type AssetClass int

const (
	ClassIndex AssetClass = iota // equity indices, commodities: 2 places
	ClassYield                   // treasury yields: 3 places
	ClassFX                      // currency pairs, futures: 4 to 5 places
)

// AssetSpec captures per-source assembly policy.
type AssetSpec struct {
	Class AssetClass

	// DeriveRange synthesizes high/low from last and change when the
	// provider's table has no range columns or echoes last into both.
	DeriveRange bool
}

// reCombinedChange matches the "change (percent%)" cell some futures
// providers use, e.g. "-0.00035 (-0.19%)".
var reCombinedChange = regexp.MustCompile(`^([+-]?[\d.,]+)\s*\(([+-]?[\d.,]+)%\)$`)

var half = decimal.NewFromFloat(0.5)

// Places returns the fractional digits for a quote of the given class,
// keyed off the raw last text for FX so providers quoting five places keep
// them.
func Places(class AssetClass, rawLast string) int {
	switch class {
	case ClassYield:
		return 3
	case ClassFX:
		if p := DecimalPlaces(rawLast); p > 4 {
			if p > 5 {
				return 5
			}
			return p
		}
		return 4
	default:
		return 2
	}
}

// Assemble turns one row's raw fields into a normalized quote. Derived
// values fill holes the provider left: previous defaults to last, a missing
// range collapses onto last or is spread from the change, and the range is
// clamped so low <= last <= high always holds.
func Assemble(fields RawFields, spec AssetSpec) (*models.AssetQuote, error) {
	name := strings.TrimSpace(fields[RoleName])
	if name == "" {
		return nil, ErrRowSkipped
	}
	last, err := Normalize(fields[RoleLast])
	if err != nil || last.IsZero() {
		return nil, ErrRowSkipped
	}
	places := Places(spec.Class, fields[RoleLast])

	rawChange, rawPercent := fields[RoleChange], fields[RoleChangePercent]
	if m := reCombinedChange.FindStringSubmatch(rawChange); m != nil {
		rawChange = m[1]
		if rawPercent == "" {
			rawPercent = m[2] + "%"
		}
	}
	change, err := Normalize(rawChange)
	if err != nil {
		change = decimal.Zero
	}
	percent, err := Normalize(rawPercent)
	if err != nil {
		percent = decimal.Zero
	}

	previous, err := Normalize(fields[RolePrevious])
	if err != nil {
		previous = last
	}
	high, errHigh := Normalize(fields[RoleHigh])
	low, errLow := Normalize(fields[RoleLow])
	// A zero bound is a provider placeholder, not a traded extreme.
	if errHigh != nil || high.IsZero() {
		high = last
	}
	if errLow != nil || low.IsZero() {
		low = last
	}
	// Absent bounds collapse onto last above, so one equality test covers
	// both the missing-range and the flat-range rows.
	if spec.DeriveRange && high.Equal(last) && low.Equal(last) && !change.IsZero() {
		spread := change.Abs().Mul(half)
		high = last.Add(spread)
		low = last.Sub(spread)
	}
	if high.LessThan(last) {
		high = last
	}
	if low.GreaterThan(last) {
		low = last
	}

	q := &models.AssetQuote{
		Name:          name,
		Period:        strings.TrimSpace(fields[RoleMonth]),
		Last:          FormatFixed(last, places),
		Previous:      FormatFixed(previous, places),
		High:          FormatFixed(high, places),
		Low:           FormatFixed(low, places),
		Change:        FormatSigned(change, places),
		ChangePercent: FormatPercent(percent),
		Volume:        volumeText(fields[RoleVolume]),
		AsOf:          timeText(fields[RoleTime]),
	}
	if raw := fields[RoleOpen]; raw != "" {
		if open, err := Normalize(raw); err == nil {
			q.Open = FormatFixed(open, places)
		}
	}
	if raw := fields[RolePriorSettle]; raw != "" {
		if ps, err := Normalize(raw); err == nil {
			q.PriorSettle = FormatFixed(ps, places)
		}
	}
	if raw := strings.TrimSpace(fields[RoleOpenInterest]); raw != "" {
		q.OpenInterest = raw
	}
	return q, nil
}

func volumeText(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "-" || raw == "--" {
		return "0"
	}
	return raw
}

func timeText(raw string) string {
	raw = strings.TrimSpace(raw)
	switch Classify(raw) {
	case ShapeClockTime, ShapeShortDate:
		return raw
	default:
		return ""
	}
}
