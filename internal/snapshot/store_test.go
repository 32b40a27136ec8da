package snapshot

import (
	"context"
	"testing"
	"time"

	"MarketBoard/internal/domain/models"
	"MarketBoard/pkg/cache"
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

func testSnap(id string, fetchedAt time.Time, ttl time.Duration) *models.SourceSnapshot {
	return &models.SourceSnapshot{
		SourceID:  id,
		Quotes:    []models.AssetQuote{{Name: "U.S. 10Y", Last: "4.123"}},
		FetchedAt: fetchedAt,
		TTL:       ttl,
	}
}

func TestStorePutGet(t *testing.T) {
	s := NewStore(newTestLogger(t))
	ctx := context.Background()
	now := time.Now()

	if _, ok := s.Get(ctx, "treasuries"); ok {
		t.Fatalf("empty store must miss")
	}
	s.Put(ctx, testSnap("treasuries", now, 5*time.Second))
	snap, ok := s.Get(ctx, "treasuries")
	if !ok || snap.SourceID != "treasuries" {
		t.Fatalf("expected hit, got %v %v", snap, ok)
	}
}

func TestStoreFreshness(t *testing.T) {
	s := NewStore(newTestLogger(t))
	ctx := context.Background()
	now := time.Now()
	s.Put(ctx, testSnap("treasuries", now, 5*time.Second))

	if _, ok := s.Fresh(ctx, "treasuries", now.Add(3*time.Second)); !ok {
		t.Fatalf("snapshot inside TTL must be fresh")
	}
	if _, ok := s.Fresh(ctx, "treasuries", now.Add(6*time.Second)); ok {
		t.Fatalf("snapshot past TTL must not be fresh")
	}
	// Stale snapshots stay retrievable for the fallback path.
	if _, ok := s.Get(ctx, "treasuries"); !ok {
		t.Fatalf("stale snapshot must remain retrievable")
	}
}

func TestStoreBackendRoundTrip(t *testing.T) {
	backend := cache.NewMemoryCache()
	ctx := context.Background()
	now := time.Now()

	writer := NewStore(newTestLogger(t), WithBackend(backend))
	writer.Put(ctx, testSnap("treasuries", now, 5*time.Second))

	// A second store sharing the backend simulates a restarted process.
	reader := NewStore(newTestLogger(t), WithBackend(backend))
	snap, ok := reader.Get(ctx, "treasuries")
	if !ok {
		t.Fatalf("expected backend hit")
	}
	if snap.TTL != 5*time.Second {
		t.Fatalf("ttl not restored: %v", snap.TTL)
	}
	if len(snap.Quotes) != 1 || snap.Quotes[0].Name != "U.S. 10Y" {
		t.Fatalf("quotes not restored: %+v", snap.Quotes)
	}
}

func TestStoreIDs(t *testing.T) {
	s := NewStore(newTestLogger(t))
	ctx := context.Background()
	now := time.Now()
	s.Put(ctx, testSnap("treasuries", now, time.Second))
	s.Put(ctx, testSnap("crypto", now, time.Second))
	if got := len(s.IDs()); got != 2 {
		t.Fatalf("expected 2 ids, got %d", got)
	}
}

func TestDefaultSnapshotsCoverEverySource(t *testing.T) {
	now := time.Now()
	ids := []string{
		"treasuries", "brazilianReal", "usdBRL", "worldIndices", "dollarMajors",
		"dollarEmerging", "americasFutures", "europeIndices", "asiaPacific",
		"crypto", "economicCalendar", "b3Indicators",
	}
	for _, id := range ids {
		snap := Default(id, now, 5*time.Second)
		if snap == nil {
			t.Fatalf("no default for %s", id)
		}
		if !snap.Fallback {
			t.Fatalf("default for %s must be marked fallback", id)
		}
		if snap.Len() == 0 {
			t.Fatalf("default for %s is empty", id)
		}
	}
}

func TestDefaultCalendarShape(t *testing.T) {
	snap := Default("economicCalendar", time.Now(), time.Minute)
	if len(snap.Events) == 0 {
		t.Fatalf("expected events")
	}
	for _, ev := range snap.Events {
		if ev.Event == "" || ev.Impact == "" {
			t.Fatalf("incomplete event %+v", ev)
		}
	}
}

func TestStaticSections(t *testing.T) {
	sections := StaticSections(time.Now())
	for _, name := range []string{"futuros", "dxyCme", "commodities"} {
		if len(sections[name]) == 0 {
			t.Fatalf("static section %s is empty", name)
		}
	}
}
