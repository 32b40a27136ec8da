package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"MarketBoard/internal/domain/models"
	"MarketBoard/internal/scrape"
	"MarketBoard/internal/snapshot"
	"MarketBoard/pkg/logger"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stdout", TimeFormat: time.RFC3339})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

type nopMetrics struct{}

func (nopMetrics) RecordScrape(string, string)       {}
func (nopMetrics) RecordScrapeError(string, string)  {}
func (nopMetrics) RecordRows(string, int)            {}
func (nopMetrics) RecordSnapshotAge(string, float64) {}
func (nopMetrics) RecordDuration(string, float64)    {}

// scriptedFetcher serves canned bodies per URL and counts calls.
type scriptedFetcher struct {
	mu     sync.Mutex
	bodies map[string][]byte
	errs   map[string]error
	calls  map[string]int
}

func newScriptedFetcher() *scriptedFetcher {
	return &scriptedFetcher{
		bodies: map[string][]byte{},
		errs:   map[string]error{},
		calls:  map[string]int{},
	}
}

func (f *scriptedFetcher) Fetch(_ context.Context, url string, _ map[string]string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[url]++
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	return f.bodies[url], nil
}

func (f *scriptedFetcher) callCount(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[url]
}

const fxMarkup = `<html><body><table><tbody>
<tr class="quoteRow"><td>USD/BRL</td><td>5,3321</td><td>+0,0120</td><td>+0,23%</td><td>15:30</td></tr>
</tbody></table></body></html>`

func fxSource(id, url string) *scrape.Source {
	return &scrape.Source{
		ID:        id,
		URL:       url,
		Selectors: []string{`tr.quoteRow`},
		Roles:     scrape.RoleMap{scrape.RoleName: 0, scrape.RoleLast: 1, scrape.RoleChange: 2, scrape.RoleChangePercent: 3, scrape.RoleTime: 4},
		Spec:      scrape.AssetSpec{Class: scrape.ClassFX},
		TTL:       time.Minute,
	}
}

func newTestDashboard(t *testing.T, fetcher scrape.Fetcher, sources []*scrape.Source, opts ...DashboardOption) *Dashboard {
	t.Helper()
	log := newTestLogger(t)
	pipeline := scrape.NewPipeline(fetcher, log, nopMetrics{})
	store := snapshot.NewStore(log)
	return NewDashboard(pipeline, store, sources, nopMetrics{}, log, opts...)
}

func TestRefreshServesCachedWithinTTL(t *testing.T) {
	fetcher := newScriptedFetcher()
	fetcher.bodies["https://example.com/fx"] = []byte(fxMarkup)
	src := fxSource("dollarEmerging", "https://example.com/fx")
	d := newTestDashboard(t, fetcher, []*scrape.Source{src})
	ctx := context.Background()

	first := d.Refresh(ctx, "dollarEmerging")
	if first == nil || len(first.Quotes) != 1 {
		t.Fatalf("unexpected first refresh %+v", first)
	}
	second := d.Refresh(ctx, "dollarEmerging")
	if second == nil {
		t.Fatalf("second refresh nil")
	}
	if fetcher.callCount("https://example.com/fx") != 1 {
		t.Fatalf("expected one fetch inside TTL, got %d", fetcher.callCount("https://example.com/fx"))
	}
}

func TestRefreshFallsBackToStale(t *testing.T) {
	fetcher := newScriptedFetcher()
	fetcher.bodies["https://example.com/fx"] = []byte(fxMarkup)
	src := fxSource("dollarEmerging", "https://example.com/fx")
	src.TTL = time.Millisecond
	d := newTestDashboard(t, fetcher, []*scrape.Source{src})
	ctx := context.Background()

	first := d.Refresh(ctx, "dollarEmerging")
	if first == nil {
		t.Fatalf("first refresh nil")
	}
	time.Sleep(5 * time.Millisecond)

	// Provider starts serving an empty page; the stale snapshot wins over
	// the packaged defaults.
	fetcher.bodies["https://example.com/fx"] = []byte(`<html><body></body></html>`)
	stale := d.Refresh(ctx, "dollarEmerging")
	if stale == nil {
		t.Fatalf("stale refresh nil")
	}
	if stale.Fallback {
		t.Fatalf("stale data must not be marked fallback")
	}
	if len(stale.Quotes) != 1 || stale.Quotes[0].Name != "USD/BRL" {
		t.Fatalf("unexpected stale quotes %+v", stale.Quotes)
	}
}

func TestRefreshFallsBackToDefaults(t *testing.T) {
	fetcher := newScriptedFetcher()
	fetcher.bodies["https://example.com/rates"] = []byte(`<html><body></body></html>`)
	src := fxSource("treasuries", "https://example.com/rates")
	d := newTestDashboard(t, fetcher, []*scrape.Source{src})
	ctx := context.Background()

	snap := d.Refresh(ctx, "treasuries")
	if snap == nil {
		t.Fatalf("expected packaged defaults")
	}
	if !snap.Fallback {
		t.Fatalf("defaults must be marked fallback")
	}
	if len(snap.Quotes) == 0 {
		t.Fatalf("defaults must carry quotes")
	}

	// The defaults are cached: the next refresh inside the TTL must not
	// hit the provider again.
	before := fetcher.callCount("https://example.com/rates")
	_ = d.Refresh(ctx, "treasuries")
	if got := fetcher.callCount("https://example.com/rates"); got != before {
		t.Fatalf("defaults not cached, fetches went %d -> %d", before, got)
	}
}

func TestRefreshRetriesRetryableFailure(t *testing.T) {
	fetcher := newScriptedFetcher()
	url := "https://example.com/fx"
	fetcher.errs[url] = &scrape.FetchError{Kind: scrape.FailStatus, URL: url, StatusCode: 503}
	src := fxSource("dollarEmerging", url)
	d := newTestDashboard(t, fetcher, []*scrape.Source{src})

	_ = d.Refresh(context.Background(), "dollarEmerging")
	if got := fetcher.callCount(url); got != 2 {
		t.Fatalf("expected one retry, got %d fetches", got)
	}
}

func TestRefreshDoesNotRetryClientError(t *testing.T) {
	fetcher := newScriptedFetcher()
	url := "https://example.com/fx"
	fetcher.errs[url] = &scrape.FetchError{Kind: scrape.FailStatus, URL: url, StatusCode: 403}
	src := fxSource("dollarEmerging", url)
	d := newTestDashboard(t, fetcher, []*scrape.Source{src})

	_ = d.Refresh(context.Background(), "dollarEmerging")
	if got := fetcher.callCount(url); got != 1 {
		t.Fatalf("expected no retry on 403, got %d fetches", got)
	}
}

func TestRefreshUnknownSource(t *testing.T) {
	d := newTestDashboard(t, newScriptedFetcher(), nil)
	if snap := d.Refresh(context.Background(), "nope"); snap != nil {
		t.Fatalf("expected nil for unknown source")
	}
	if _, err := d.SourceStatus(context.Background(), "nope"); err == nil {
		t.Fatalf("expected error for unknown source")
	}
}

func TestBuildPayloadMergesUSDBRL(t *testing.T) {
	fetcher := newScriptedFetcher()
	fetcher.bodies["https://example.com/emerging"] = []byte(`<html><body><table><tbody>
	<tr class="quoteRow"><td>USD/MXN</td><td>18,4500</td><td>-0,0200</td><td>-0,11%</td><td>15:30</td></tr>
	</tbody></table></body></html>`)
	fetcher.bodies["https://example.com/usdbrl"] = []byte(fxMarkup)

	emerging := fxSource("dollarEmerging", "https://example.com/emerging")
	usdbrl := fxSource("usdBRL", "https://example.com/usdbrl")
	d := newTestDashboard(t, fetcher, []*scrape.Source{emerging, usdbrl})

	payload := d.BuildPayload(context.Background())
	quotes, ok := payload.Sections["dolarEmergentes"].([]models.AssetQuote)
	if !ok {
		t.Fatalf("dolarEmergentes section missing: %v", payload.Sections)
	}
	if len(quotes) != 2 {
		t.Fatalf("expected merged section of 2, got %d", len(quotes))
	}
	found := false
	for _, q := range quotes {
		if q.Name == "USD/BRL" {
			found = true
		}
	}
	if !found {
		t.Fatalf("USD/BRL not merged into emerging section")
	}
	if _, ok := payload.Sections["usdBRL"]; ok {
		t.Fatalf("usdBRL must not appear as its own section")
	}
	if len(payload.Sections["futuros"].([]models.AssetQuote)) == 0 {
		t.Fatalf("static futuros section missing")
	}
	if len(payload.Sections["dxyCme"].([]models.AssetQuote)) == 0 {
		t.Fatalf("static dxyCme section missing")
	}
	if len(payload.Sections["commodities"].([]models.AssetQuote)) == 0 {
		t.Fatalf("static commodities section missing")
	}
	if payload.Timestamp == 0 {
		t.Fatalf("timestamp not set")
	}
}

func TestCacheStatus(t *testing.T) {
	fetcher := newScriptedFetcher()
	fetcher.bodies["https://example.com/fx"] = []byte(fxMarkup)
	src := fxSource("dollarEmerging", "https://example.com/fx")
	d := newTestDashboard(t, fetcher, []*scrape.Source{src})
	ctx := context.Background()

	statuses := d.CacheStatus(ctx)
	if len(statuses) != 1 || !statuses[0].Stale {
		t.Fatalf("unscraped source must report stale: %+v", statuses[0])
	}

	_ = d.Refresh(ctx, "dollarEmerging")
	statuses = d.CacheStatus(ctx)
	if statuses[0].Stale {
		t.Fatalf("fresh source must not report stale")
	}
	if statuses[0].Records != 1 {
		t.Fatalf("records %v", statuses[0].Records)
	}
}

func TestMergeUSDBRLUpdatesMajorsRow(t *testing.T) {
	sections := map[string]any{
		"dolarMundo": []models.AssetQuote{
			{Name: "USD/JPY", Last: "148.5000"},
			{Name: "USD/BRL", Last: "5.0000"},
		},
		"dolarEmergentes": []models.AssetQuote{
			{Name: "USD/MXN", Last: "18.4500"},
		},
	}
	mergeUSDBRL(sections, models.AssetQuote{Name: "USD/BRL", Last: "5.3321"})

	majors := sections["dolarMundo"].([]models.AssetQuote)
	if majors[1].Last != "5.3321" {
		t.Fatalf("majors USD/BRL not refreshed: %s", majors[1].Last)
	}
	emerging := sections["dolarEmergentes"].([]models.AssetQuote)
	if len(emerging) != 2 || emerging[1].Name != "USD/BRL" {
		t.Fatalf("emerging merge wrong: %v", emerging)
	}
}

func TestMergeUSDBRLNeverAppendsToMajors(t *testing.T) {
	sections := map[string]any{
		"dolarMundo":      []models.AssetQuote{{Name: "USD/JPY", Last: "148.5000"}},
		"dolarEmergentes": []models.AssetQuote{},
	}
	mergeUSDBRL(sections, models.AssetQuote{Name: "USD/BRL", Last: "5.3321"})
	if n := len(sections["dolarMundo"].([]models.AssetQuote)); n != 1 {
		t.Fatalf("majors length changed to %d", n)
	}
}
