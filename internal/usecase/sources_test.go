package usecase

import (
	"testing"

	"MarketBoard/internal/scrape"
)

func TestSourcesRegistry(t *testing.T) {
	sources := Sources()
	if len(sources) != 12 {
		t.Fatalf("expected 12 sources, got %d", len(sources))
	}
	seen := map[string]bool{}
	for _, src := range sources {
		if src.ID == "" || src.URL == "" {
			t.Fatalf("incomplete source %+v", src)
		}
		if seen[src.ID] {
			t.Fatalf("duplicate source id %s", src.ID)
		}
		seen[src.ID] = true
		if src.TTL <= 0 {
			t.Fatalf("source %s has no TTL", src.ID)
		}
		if src.Kind == scrape.KindQuotes && len(src.Selectors) == 0 {
			t.Fatalf("quote source %s has no selectors", src.ID)
		}
	}
	for _, id := range []string{"treasuries", "brazilianReal", "usdBRL", "economicCalendar", "b3Indicators"} {
		if !seen[id] {
			t.Fatalf("missing source %s", id)
		}
	}
}

func TestSourceKinds(t *testing.T) {
	for _, src := range Sources() {
		switch src.ID {
		case "economicCalendar":
			if src.Kind != scrape.KindCalendar {
				t.Fatalf("economicCalendar kind %v", src.Kind)
			}
		case "b3Indicators":
			if src.Kind != scrape.KindIndicators {
				t.Fatalf("b3Indicators kind %v", src.Kind)
			}
			if len(src.Indicators) == 0 {
				t.Fatalf("b3Indicators has no patterns")
			}
		default:
			if src.Kind != scrape.KindQuotes {
				t.Fatalf("source %s kind %v", src.ID, src.Kind)
			}
		}
	}
}

func TestSectionFor(t *testing.T) {
	cases := map[string]string{
		"brazilianReal":    "dolarAmericas",
		"worldIndices":     "moedas",
		"dollarMajors":     "dolarMundo",
		"dollarEmerging":   "dolarEmergentes",
		"americasFutures":  "americas",
		"europeIndices":    "europa",
		"asiaPacific":      "asiaOceania",
		"crypto":           "criptomoedas",
		"b3Indicators":     "dolarCupom",
		"treasuries":       "treasuries",
		"economicCalendar": "economicCalendar",
	}
	for id, want := range cases {
		if got := SectionFor(id); got != want {
			t.Fatalf("SectionFor(%s) = %s, want %s", id, got, want)
		}
	}
}

func TestTenorPeriod(t *testing.T) {
	fields := scrape.RawFields{scrape.RoleName: "U.S. 2 Year"}
	fields = tenorPeriod(fields)
	if fields[scrape.RoleMonth] != "2Year" {
		t.Fatalf("period %q", fields[scrape.RoleMonth])
	}
}

func TestGlobexContract(t *testing.T) {
	fields := scrape.RawFields{scrape.RoleMonth: "FEB 2026 6LG6"}
	fields = globexContract(fields)
	if fields[scrape.RoleName] != "6LG6" {
		t.Fatalf("name %q", fields[scrape.RoleName])
	}
	if fields[scrape.RoleMonth] != "FEB 2026" {
		t.Fatalf("month %q", fields[scrape.RoleMonth])
	}
}

func TestGlobexContractWithoutCode(t *testing.T) {
	fields := scrape.RawFields{scrape.RoleMonth: "Totals"}
	fields = globexContract(fields)
	if fields[scrape.RoleName] != "Totals" {
		t.Fatalf("name %q", fields[scrape.RoleName])
	}
}
