package scrape

import (
	"strings"
	"testing"
)

func TestLocateFirstSelectorWins(t *testing.T) {
	doc, err := ParseDocument([]byte(`
		<table class="modern"><tbody><tr data-test="row"><td>A</td></tr></tbody></table>
		<table id="legacy"><tbody><tr><td>B</td></tr></tbody></table>`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	rows, winner, err := Locate(doc, []string{`tr[data-test="row"]`, `table#legacy tbody tr`})
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if winner != `tr[data-test="row"]` {
		t.Fatalf("unexpected winner %q", winner)
	}
	if rows.Length() != 1 {
		t.Fatalf("unexpected row count %d", rows.Length())
	}
}

func TestLocateFallsThroughToLegacy(t *testing.T) {
	doc, err := ParseDocument([]byte(`<table id="legacy"><tbody><tr><td>B</td></tr></tbody></table>`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	_, winner, err := Locate(doc, []string{`tr[data-test="row"]`, `table#legacy tbody tr`})
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if winner != `table#legacy tbody tr` {
		t.Fatalf("unexpected winner %q", winner)
	}
}

func TestLocateNoMatch(t *testing.T) {
	doc, err := ParseDocument([]byte(`<div>maintenance page</div>`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, _, err := Locate(doc, []string{`table tbody tr`}); err != ErrNoTableFound {
		t.Fatalf("expected ErrNoTableFound, got %v", err)
	}
}

func TestCellTextsSquashesWhitespace(t *testing.T) {
	doc, err := ParseDocument([]byte(`<table><tr><td>  U.S.
		10Y  </td><td>4.123</td></tr></table>`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cells := CellTexts(doc.Find("tr").First())
	if len(cells) != 2 {
		t.Fatalf("unexpected cell count %d", len(cells))
	}
	if cells[0] != "U.S. 10Y" {
		t.Fatalf("unexpected cell %q", cells[0])
	}
}

func TestExtractRowPositional(t *testing.T) {
	cells := []string{"U.S. 10Y", "4.123", "4.120", "4.201", "4.083", "+0.015", "+0.42%", "15:30"}
	rm := RoleMap{
		RoleName: 0, RoleLast: 1, RolePrevious: 2, RoleHigh: 3,
		RoleLow: 4, RoleChange: 5, RoleChangePercent: 6, RoleTime: 7,
	}
	fields := ExtractRow(cells, rm, nil)
	if fields[RoleName] != "U.S. 10Y" {
		t.Fatalf("name %q", fields[RoleName])
	}
	if fields[RoleLast] != "4.123" {
		t.Fatalf("last %q", fields[RoleLast])
	}
	if fields[RoleChangePercent] != "+0.42%" {
		t.Fatalf("percent %q", fields[RoleChangePercent])
	}
	if fields[RoleTime] != "15:30" {
		t.Fatalf("time %q", fields[RoleTime])
	}
}

func TestExtractRowShapeFallbackOnShiftedColumns(t *testing.T) {
	// An injected icon cell shifts every numeric column one to the right.
	cells := []string{"U.S. 2Y", "", "4.123", "+0.015", "+0.42%", "15:30"}
	rm := RoleMap{RoleName: 0, RoleLast: 1, RoleChange: 2, RoleChangePercent: 3, RoleTime: 4}
	fields := ExtractRow(cells, rm, nil)
	if fields[RoleLast] != "4.123" {
		t.Fatalf("last %q", fields[RoleLast])
	}
	if fields[RoleChange] != "+0.015" {
		t.Fatalf("change %q", fields[RoleChange])
	}
	if fields[RoleChangePercent] != "+0.42%" {
		t.Fatalf("percent %q", fields[RoleChangePercent])
	}
	if fields[RoleTime] != "15:30" {
		t.Fatalf("time %q", fields[RoleTime])
	}
}

func TestExtractRowBoundsRejectImplausible(t *testing.T) {
	// A yield of 5533.40 is a misaligned column, not a rate. The scan must
	// pick the plausible cell instead.
	cells := []string{"U.S. 30Y", "5533.40", "4.702", "+0.010"}
	rm := RoleMap{RoleName: 0, RoleLast: 1, RoleChange: 3}
	bounds := map[Role]Bounds{RoleLast: {Min: 0.1, Max: 10}}
	fields := ExtractRow(cells, rm, bounds)
	if fields[RoleLast] != "4.702" {
		t.Fatalf("last %q", fields[RoleLast])
	}
}

func TestExtractRowMissingRoleStaysAbsent(t *testing.T) {
	cells := []string{"EUR/USD", "1.0850"}
	rm := RoleMap{RoleName: 0, RoleLast: 1, RoleTime: 5}
	fields := ExtractRow(cells, rm, nil)
	if _, ok := fields[RoleTime]; ok {
		t.Fatalf("time should be absent, got %q", fields[RoleTime])
	}
}

func TestExtractRowNameNeverResolvedByShape(t *testing.T) {
	cells := []string{"", "Bitcoin", "67.890,12"}
	rm := RoleMap{RoleName: 0, RoleLast: 2}
	fields := ExtractRow(cells, rm, nil)
	if _, ok := fields[RoleName]; ok {
		t.Fatalf("name should be absent for empty positional cell")
	}
	if !strings.Contains(fields[RoleLast], "67.890,12") {
		t.Fatalf("last %q", fields[RoleLast])
	}
}

func TestExtractRowHighLowFollowColumnOrder(t *testing.T) {
	// High and low both accept a plain decimal, so the scan must hand out
	// unclaimed cells in column order: high first, then low.
	cells := []string{"", "U.S. 2Y", "4.123", "+0.015", "+0.42%", "4.201", "4.083"}
	rm := RoleMap{RoleName: 1, RoleLast: 2, RoleChange: 3, RoleChangePercent: 4, RoleHigh: 0, RoleLow: 0}
	fields := ExtractRow(cells, rm, nil)
	if fields[RoleHigh] != "4.201" {
		t.Fatalf("high %q", fields[RoleHigh])
	}
	if fields[RoleLow] != "4.083" {
		t.Fatalf("low %q", fields[RoleLow])
	}
}

func TestExtractRowDeterministic(t *testing.T) {
	cells := []string{"", "U.S. 2Y", "4.123", "+0.015", "+0.42%", "4.201", "4.083"}
	rm := RoleMap{RoleName: 1, RoleLast: 2, RoleChange: 3, RoleChangePercent: 4, RoleHigh: 0, RoleLow: 0}
	first := ExtractRow(cells, rm, nil)
	for i := 0; i < 200; i++ {
		got := ExtractRow(cells, rm, nil)
		if len(got) != len(first) {
			t.Fatalf("run %d: field count changed: %v vs %v", i, got, first)
		}
		for role, v := range first {
			if got[role] != v {
				t.Fatalf("run %d: %s = %q, want %q", i, role, got[role], v)
			}
		}
	}
}
