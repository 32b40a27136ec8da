package usecase

import (
	"context"
	"testing"
	"time"

	"MarketBoard/internal/scrape"
)

func TestRefresherKeepsSnapshotsWarm(t *testing.T) {
	fetcher := newScriptedFetcher()
	fetcher.bodies["https://example.com/fx"] = []byte(fxMarkup)
	src := fxSource("dollarEmerging", "https://example.com/fx")
	d := newTestDashboard(t, fetcher, []*scrape.Source{src})

	r := NewRefresher(d, 5*time.Millisecond, newTestLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	deadline := time.After(time.Second)
	for fetcher.callCount("https://example.com/fx") == 0 {
		select {
		case <-deadline:
			t.Fatalf("refresher never scraped")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()
	<-done

	if _, ok := d.store.Fresh(context.Background(), "dollarEmerging", time.Now()); !ok {
		t.Fatalf("snapshot not warmed")
	}
}

func TestRefresherDisabledWithZeroInterval(t *testing.T) {
	d := newTestDashboard(t, newScriptedFetcher(), nil)
	r := NewRefresher(d, 0, newTestLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("disabled refresher did not exit on cancel")
	}
}
