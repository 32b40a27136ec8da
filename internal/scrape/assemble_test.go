package scrape

import (
	"errors"
	"testing"
)

func TestAssembleYieldRow(t *testing.T) {
	fields := RawFields{
		RoleName:          "U.S. 10Y",
		RoleLast:          "4.123",
		RolePrevious:      "4.120",
		RoleHigh:          "4.201",
		RoleLow:           "4.083",
		RoleChange:        "+0.015",
		RoleChangePercent: "+0.42%",
		RoleTime:          "15:30",
	}
	q, err := Assemble(fields, AssetSpec{Class: ClassYield})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if q.Last != "4.123" || q.Previous != "4.120" {
		t.Fatalf("last/previous %s/%s", q.Last, q.Previous)
	}
	if q.Change != "+0.015" {
		t.Fatalf("change %s", q.Change)
	}
	if q.ChangePercent != "+0.42%" {
		t.Fatalf("percent %s", q.ChangePercent)
	}
	if q.Volume != "0" {
		t.Fatalf("volume default %s", q.Volume)
	}
	if q.AsOf != "15:30" {
		t.Fatalf("as-of %s", q.AsOf)
	}
}

func TestAssembleSkipsEmptyName(t *testing.T) {
	_, err := Assemble(RawFields{RoleLast: "4.123"}, AssetSpec{})
	if !errors.Is(err, ErrRowSkipped) {
		t.Fatalf("expected ErrRowSkipped, got %v", err)
	}
}

func TestAssembleSkipsZeroLast(t *testing.T) {
	_, err := Assemble(RawFields{RoleName: "X", RoleLast: "0,00"}, AssetSpec{})
	if !errors.Is(err, ErrRowSkipped) {
		t.Fatalf("expected ErrRowSkipped, got %v", err)
	}
}

func TestAssembleCombinedChangeCell(t *testing.T) {
	fields := RawFields{
		RoleName:   "BRL/USD",
		RoleMonth:  "6LG6",
		RoleLast:   "0.18335",
		RoleChange: "-0.00035 (-0.19%)",
	}
	q, err := Assemble(fields, AssetSpec{Class: ClassFX})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if q.Change != "-0.00035" {
		t.Fatalf("change %s", q.Change)
	}
	if q.ChangePercent != "-0.19%" {
		t.Fatalf("percent %s", q.ChangePercent)
	}
	if q.Period != "6LG6" {
		t.Fatalf("period %s", q.Period)
	}
	// The provider quotes five places; they must survive.
	if q.Last != "0.18335" {
		t.Fatalf("last %s", q.Last)
	}
}

func TestAssembleDerivedRange(t *testing.T) {
	fields := RawFields{
		RoleName:   "Dow Jones",
		RoleLast:   "44100.00",
		RoleChange: "+200.00",
	}
	q, err := Assemble(fields, AssetSpec{Class: ClassIndex, DeriveRange: true})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if q.High != "44200.00" {
		t.Fatalf("high %s", q.High)
	}
	if q.Low != "44000.00" {
		t.Fatalf("low %s", q.Low)
	}
}

func TestAssembleMissingRangeCollapsesOnLast(t *testing.T) {
	fields := RawFields{RoleName: "EUR/USD", RoleLast: "1.0850"}
	q, err := Assemble(fields, AssetSpec{Class: ClassFX})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if q.High != "1.0850" || q.Low != "1.0850" {
		t.Fatalf("range %s/%s", q.High, q.Low)
	}
	if q.Previous != "1.0850" {
		t.Fatalf("previous %s", q.Previous)
	}
}

func TestAssembleClampsRange(t *testing.T) {
	fields := RawFields{
		RoleName: "Ibovespa",
		RoleLast: "140.250,00",
		RoleHigh: "139.000,00",
		RoleLow:  "141.000,00",
	}
	q, err := Assemble(fields, AssetSpec{Class: ClassIndex})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if q.High != "140250.00" {
		t.Fatalf("high not clamped: %s", q.High)
	}
	if q.Low != "140250.00" {
		t.Fatalf("low not clamped: %s", q.Low)
	}
}

func TestAssembleOptionalCMEFields(t *testing.T) {
	fields := RawFields{
		RoleName:        "BRL/USD",
		RoleMonth:       "6LG6",
		RoleLast:        "0.1834",
		RoleOpen:        "0.1830",
		RolePriorSettle: "0.1836",
		RoleVolume:      "12.345",
	}
	q, err := Assemble(fields, AssetSpec{Class: ClassFX})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if q.Open != "0.1830" {
		t.Fatalf("open %s", q.Open)
	}
	if q.PriorSettle != "0.1836" {
		t.Fatalf("prior settle %s", q.PriorSettle)
	}
	if q.Volume != "12.345" {
		t.Fatalf("volume %s", q.Volume)
	}
}

func TestPlaces(t *testing.T) {
	if got := Places(ClassIndex, "140.250,00"); got != 2 {
		t.Fatalf("index places %d", got)
	}
	if got := Places(ClassYield, "4.1"); got != 3 {
		t.Fatalf("yield places %d", got)
	}
	if got := Places(ClassFX, "0.1834"); got != 4 {
		t.Fatalf("fx places %d", got)
	}
	if got := Places(ClassFX, "0.18335"); got != 5 {
		t.Fatalf("fx five places %d", got)
	}
}

func TestAssembleFlatRangeDerivesFromChange(t *testing.T) {
	// Providers sometimes echo last into high and low; a nonzero change
	// still spreads the range around last.
	fields := RawFields{
		RoleName:   "U.S. 2Y",
		RoleLast:   "4.123",
		RoleHigh:   "4.123",
		RoleLow:    "4.123",
		RoleChange: "+0.015",
	}
	q, err := Assemble(fields, AssetSpec{Class: ClassYield, DeriveRange: true})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if q.High != "4.131" {
		t.Fatalf("high %s", q.High)
	}
	if q.Low != "4.116" {
		t.Fatalf("low %s", q.Low)
	}
}

func TestAssembleZeroBoundTreatedAsAbsent(t *testing.T) {
	fields := RawFields{
		RoleName:   "Dow Jones",
		RoleLast:   "44100.00",
		RoleHigh:   "44150.00",
		RoleLow:    "0",
		RoleChange: "+200.00",
	}
	q, err := Assemble(fields, AssetSpec{Class: ClassIndex, DeriveRange: true})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if q.High != "44150.00" {
		t.Fatalf("high %s", q.High)
	}
	// Low collapses onto last, not zero; the range stays unflattened
	// because high survived, so no derivation fires.
	if q.Low != "44100.00" {
		t.Fatalf("low %s", q.Low)
	}
}
