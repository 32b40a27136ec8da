package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Role names the meaning of a table column.
type Role string

const (
	RoleName          Role = "name"
	RoleMonth         Role = "month"
	RoleLast          Role = "last"
	RolePrevious      Role = "previous"
	RoleHigh          Role = "high"
	RoleLow           Role = "low"
	RoleOpen          Role = "open"
	RolePriorSettle   Role = "prior_settle"
	RoleChange        Role = "change"
	RoleChangePercent Role = "change_percent"
	RoleVolume        Role = "volume"
	RoleOpenInterest  Role = "open_interest"
	RoleTime          Role = "time"
)

// RoleMap assigns roles to column positions for a source's current layout.
type RoleMap map[Role]int

// RawFields holds the extracted-but-unnormalized cell texts of one row.
type RawFields map[Role]string

// Bounds is the plausibility window for a numeric role. Values outside it
// are treated as misaligned columns and re-resolved by shape.
type Bounds struct {
	Min float64
	Max float64
}

func (b Bounds) contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// roleShapes maps each role to the cell shapes that can satisfy it during
// the fallback scan.
var roleShapes = map[Role][]FieldShape{
	RoleLast:          {ShapeDecimal, ShapeSignedDecimal},
	RolePrevious:      {ShapeDecimal},
	RoleHigh:          {ShapeDecimal},
	RoleLow:           {ShapeDecimal},
	RoleOpen:          {ShapeDecimal},
	RolePriorSettle:   {ShapeDecimal},
	RoleChange:        {ShapeSignedDecimal},
	RoleChangePercent: {ShapePercent},
	RoleVolume:        {ShapeVolume, ShapeDecimal},
	RoleOpenInterest:  {ShapeVolume, ShapeDecimal},
	RoleTime:          {ShapeClockTime, ShapeShortDate},
	RoleMonth:         {ShapeGlobexCode, ShapeMonthYear},
}

// roleScanOrder fixes the resolution order of roles, mirroring the usual
// column order of the provider tables. Map iteration would let two roles
// that accept the same shape (high and low are both plain decimals) claim
// cells in a different order from one run to the next.
var roleScanOrder = []Role{
	RoleMonth,
	RoleLast,
	RolePrevious,
	RoleHigh,
	RoleLow,
	RoleOpen,
	RolePriorSettle,
	RoleChange,
	RoleChangePercent,
	RoleVolume,
	RoleOpenInterest,
	RoleTime,
}

// CellTexts returns the trimmed text of every cell in a table row.
func CellTexts(row *goquery.Selection) []string {
	var out []string
	row.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
		out = append(out, squashSpace(cell.Text()))
	})
	return out
}

func squashSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ExtractRow resolves each role of rm against the row's cells. Positional
// lookup wins when the cell at the mapped index has a plausible shape and
// value; otherwise the row is scanned left to right for the first unclaimed
// cell whose shape fits the role. Roles that resolve nowhere stay absent
// from the result.
func ExtractRow(cells []string, rm RoleMap, bounds map[Role]Bounds) RawFields {
	fields := make(RawFields, len(rm))
	claimed := make([]bool, len(cells))

	// The name column is positional only. A shape scan cannot tell one
	// text cell from another.
	if idx, ok := rm[RoleName]; ok && idx >= 0 && idx < len(cells) && cells[idx] != "" {
		fields[RoleName] = cells[idx]
		claimed[idx] = true
	}

	for _, role := range roleScanOrder {
		idx, ok := rm[role]
		if !ok {
			continue
		}
		if idx >= 0 && idx < len(cells) && plausible(role, cells[idx], bounds) {
			fields[role] = cells[idx]
			claimed[idx] = true
		}
	}

	for _, role := range roleScanOrder {
		if _, mapped := rm[role]; !mapped {
			continue
		}
		if _, ok := fields[role]; ok {
			continue
		}
		want, ok := roleShapes[role]
		if !ok {
			continue
		}
		for i, cell := range cells {
			if claimed[i] {
				continue
			}
			if !matchesAny(Classify(cell), want...) {
				continue
			}
			if !inBounds(role, cell, bounds) {
				continue
			}
			fields[role] = cell
			claimed[i] = true
			break
		}
	}
	return fields
}

func plausible(role Role, cell string, bounds map[Role]Bounds) bool {
	want, ok := roleShapes[role]
	if !ok {
		return cell != ""
	}
	if !matchesAny(Classify(cell), want...) {
		return false
	}
	return inBounds(role, cell, bounds)
}

func inBounds(role Role, cell string, bounds map[Role]Bounds) bool {
	b, ok := bounds[role]
	if !ok {
		return true
	}
	d, err := Normalize(cell)
	if err != nil {
		return false
	}
	f, _ := d.Float64()
	return b.contains(f)
}
