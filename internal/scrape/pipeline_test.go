package scrape

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"MarketBoard/pkg/logger"
)

type fakeFetcher struct {
	body []byte
	err  error
}

func (f *fakeFetcher) Fetch(_ context.Context, _ string, _ map[string]string) ([]byte, error) {
	return f.body, f.err
}

type fakeMetrics struct {
	scrapes map[string]int
	errors  map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{scrapes: map[string]int{}, errors: map[string]int{}}
}

func (m *fakeMetrics) RecordScrape(source, outcome string)   { m.scrapes[source+"/"+outcome]++ }
func (m *fakeMetrics) RecordScrapeError(source, kind string) { m.errors[source+"/"+kind]++ }
func (m *fakeMetrics) RecordRows(string, int)                {}
func (m *fakeMetrics) RecordSnapshotAge(string, float64)     {}
func (m *fakeMetrics) RecordDuration(string, float64)        {}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stdout", TimeFormat: time.RFC3339})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

const treasuriesMarkup = `<html><body>
<table class="datatable-v2"><tbody>
<tr data-test="bond-row"><td><i></i></td><td>U.S. 2Y</td><td>4.123</td><td>4.120</td><td>4.201</td><td>4.083</td><td>+0.015</td><td>+0.42%</td><td>15:30</td></tr>
<tr data-test="bond-row"><td><i></i></td><td>U.S. 10Y</td><td>4.456</td><td>4.450</td><td>4.500</td><td>4.400</td><td>-0.010</td><td>-0.22%</td><td>15:30</td></tr>
<tr data-test="bond-row"><td><i></i></td><td>Germany 10Y</td><td>2.345</td><td>2.340</td><td>2.400</td><td>2.300</td><td>+0.005</td><td>+0.21%</td><td>15:30</td></tr>
</tbody></table>
</body></html>`

func testTreasuriesSource() *Source {
	return &Source{
		ID:        "treasuries",
		URL:       "https://example.com/rates",
		Selectors: []string{`tr[data-test="bond-row"]`},
		Roles: RoleMap{
			RoleName: 1, RoleLast: 2, RolePrevious: 3, RoleHigh: 4,
			RoleLow: 5, RoleChange: 6, RoleChangePercent: 7, RoleTime: 8,
		},
		Bounds:   map[Role]Bounds{RoleLast: {Min: 0.1, Max: 10}},
		Spec:     AssetSpec{Class: ClassYield},
		TTL:      5 * time.Second,
		MinCells: 6,
		NameOK:   func(name string) bool { return strings.HasPrefix(name, "U.S.") },
	}
}

func TestPipelineRunQuotes(t *testing.T) {
	p := NewPipeline(&fakeFetcher{body: []byte(treasuriesMarkup)}, newTestLogger(t), newFakeMetrics())
	snap, err := p.Run(context.Background(), testTreasuriesSource())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(snap.Quotes) != 2 {
		t.Fatalf("expected 2 quotes after name filter, got %d", len(snap.Quotes))
	}
	q := snap.Quotes[0]
	if q.Name != "U.S. 2Y" || q.Last != "4.123" || q.ChangePercent != "+0.42%" {
		t.Fatalf("unexpected quote %+v", q)
	}
	if snap.TTL != 5*time.Second {
		t.Fatalf("ttl %v", snap.TTL)
	}
}

func TestPipelineRunEmptyPage(t *testing.T) {
	metrics := newFakeMetrics()
	p := NewPipeline(&fakeFetcher{body: []byte(`<html><body>under maintenance</body></html>`)}, newTestLogger(t), metrics)
	_, err := p.Run(context.Background(), testTreasuriesSource())
	if err == nil {
		t.Fatalf("expected error")
	}
	if metrics.errors["treasuries/empty"] != 1 {
		t.Fatalf("expected empty error recorded, got %v", metrics.errors)
	}
}

func TestPipelineRunFetchFailure(t *testing.T) {
	metrics := newFakeMetrics()
	fe := &FetchError{Kind: FailStatus, URL: "https://example.com/rates", StatusCode: 503}
	p := NewPipeline(&fakeFetcher{err: fe}, newTestLogger(t), metrics)
	_, err := p.Run(context.Background(), testTreasuriesSource())
	if err == nil {
		t.Fatalf("expected error")
	}
	if metrics.errors["treasuries/status"] != 1 {
		t.Fatalf("expected status error recorded, got %v", metrics.errors)
	}
}

func TestPipelineBlobFallback(t *testing.T) {
	markup := `<html><body><script>
	window.__data = {"contracts": [
		{"code":"6LG6","last":0.18335,"change":-0.00035,"priorSettle":0.1837,"open":0.1835,"volume":12345},
		{"code":"6LH6","last":0.18405,"change":0.0001,"priorSettle":0.184,"open":0.184,"volume":800}
	]};
	</script></body></html>`
	src := &Source{
		ID:          "brazilianReal",
		URL:         "https://example.com/brl",
		Selectors:   []string{`tr[data-test="futures-row"]`},
		Roles:       RoleMap{RoleName: 0, RoleLast: 3},
		Spec:        AssetSpec{Class: ClassFX, DeriveRange: true},
		TTL:         5 * time.Second,
		BlobPattern: regexp.MustCompile(`^\d[A-Z]{2}\d$`),
	}
	p := NewPipeline(&fakeFetcher{body: []byte(markup)}, newTestLogger(t), newFakeMetrics())
	snap, err := p.Run(context.Background(), src)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(snap.Quotes) != 2 {
		t.Fatalf("expected 2 contracts, got %d", len(snap.Quotes))
	}
	if snap.Quotes[0].Name != "6LG6" {
		t.Fatalf("name %s", snap.Quotes[0].Name)
	}
	if snap.Quotes[0].Last != "0.18335" {
		t.Fatalf("last %s", snap.Quotes[0].Last)
	}
	if snap.Quotes[0].PriorSettle == "" {
		t.Fatalf("prior settle missing")
	}
}

func TestPipelineAltRolesRetry(t *testing.T) {
	// Compact layout: no high/low columns, change right after last.
	markup := `<html><body><table><tbody>
	<tr class="quoteRow"><td>EUR/USD</td><td>1.0850</td><td>+0.0012</td><td>+0.11%</td><td>15:30</td></tr>
	</tbody></table></body></html>`
	src := &Source{
		ID:        "worldIndices",
		URL:       "https://example.com/fx",
		Selectors: []string{`tr.quoteRow`},
		Roles: RoleMap{
			RoleName: 0, RoleLast: 6, RoleChange: 7, RoleChangePercent: 8,
		},
		AltRoles: RoleMap{
			RoleName: 0, RoleLast: 1, RoleChange: 2, RoleChangePercent: 3, RoleTime: 4,
		},
		Spec:     AssetSpec{Class: ClassFX},
		TTL:      5 * time.Second,
		MinCells: 4,
	}
	p := NewPipeline(&fakeFetcher{body: []byte(markup)}, newTestLogger(t), newFakeMetrics())
	snap, err := p.Run(context.Background(), src)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(snap.Quotes) != 1 {
		t.Fatalf("expected 1 quote, got %d", len(snap.Quotes))
	}
	if snap.Quotes[0].Last != "1.0850" {
		t.Fatalf("last %s", snap.Quotes[0].Last)
	}
}
