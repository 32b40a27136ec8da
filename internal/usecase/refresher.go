package usecase

import (
	"context"
	"time"

	"MarketBoard/pkg/logger"
)

// Refresher keeps snapshots warm so requests rarely pay scrape latency.
// Every tick it refreshes whichever sources have gone stale; the TTL gate
// inside Dashboard.Refresh makes redundant ticks free.
type Refresher struct {
	dash     *Dashboard
	interval time.Duration
	log      *logger.Logger
}

// NewRefresher builds the loop. A zero interval disables it.
func NewRefresher(dash *Dashboard, interval time.Duration, log *logger.Logger) *Refresher {
	return &Refresher{dash: dash, interval: interval, log: log}
}

// Run blocks until ctx is canceled.
func (r *Refresher) Run(ctx context.Context) {
	if r.interval <= 0 {
		r.log.Info("background refresh disabled")
		<-ctx.Done()
		return
	}
	r.log.Info("background refresh started", logger.Duration("interval", r.interval))
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info("background refresh stopped")
			return
		case <-ticker.C:
			for _, src := range r.dash.Sources() {
				if ctx.Err() != nil {
					return
				}
				r.dash.Refresh(ctx, src.ID)
			}
		}
	}
}
