package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"MarketBoard/internal/domain/models"
	"MarketBoard/internal/domain/repository"
	"MarketBoard/internal/scrape"
	"MarketBoard/internal/service/ratelimit"
	"MarketBoard/internal/snapshot"
	"MarketBoard/pkg/logger"
)

// Scrape attempts per source are token-bucket limited on top of the TTL
// gate, so a provider outage cannot turn the fallback path into a request
// storm against that provider.
const (
	scrapeBurst     = 3.0
	scrapeRefillSec = 0.5
)

// ErrUnknownSource is returned for source IDs outside the registry.
var ErrUnknownSource = errors.New("unknown source")

var errScrapeThrottled = errors.New("scrape throttled")

// Dashboard aggregates all sources into one payload. Each request fans out
// across the sources concurrently; each source serves its fresh snapshot
// when one exists, scrapes otherwise, and degrades to the stale snapshot or
// the packaged defaults when the scrape fails.
type Dashboard struct {
	pipeline *scrape.Pipeline
	store    *snapshot.Store
	sources  []*scrape.Source
	byID     map[string]*scrape.Source

	publisher repository.Publisher
	history   repository.HistoryStore
	metrics   repository.Metrics
	log       *logger.Logger

	// inflight serializes refreshes per source so concurrent requests do
	// not trigger overlapping scrapes of the same provider.
	inflight map[string]*sync.Mutex
	limiter  *ratelimit.Limiter
}

// DashboardOption configures optional sinks.
type DashboardOption func(*Dashboard)

// WithPublisher emits a refresh event after every successful scrape.
func WithPublisher(p repository.Publisher) DashboardOption {
	return func(d *Dashboard) {
		d.publisher = p
	}
}

// WithHistory persists every successful scrape for time-series queries.
func WithHistory(h repository.HistoryStore) DashboardOption {
	return func(d *Dashboard) {
		d.history = h
	}
}

// NewDashboard builds the aggregator over the given source set.
func NewDashboard(pipeline *scrape.Pipeline, store *snapshot.Store, sources []*scrape.Source,
	metrics repository.Metrics, log *logger.Logger, opts ...DashboardOption) *Dashboard {
	d := &Dashboard{
		pipeline: pipeline,
		store:    store,
		sources:  sources,
		byID:     make(map[string]*scrape.Source, len(sources)),
		metrics:  metrics,
		log:      log,
		inflight: make(map[string]*sync.Mutex, len(sources)),
		limiter:  ratelimit.New(),
	}
	for _, src := range sources {
		d.byID[src.ID] = src
		d.inflight[src.ID] = &sync.Mutex{}
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Sources lists the configured source IDs.
func (d *Dashboard) Sources() []*scrape.Source {
	return d.sources
}

// BuildPayload assembles the full dashboard. Sources refresh concurrently;
// a failing source never fails the payload.
func (d *Dashboard) BuildPayload(ctx context.Context) *models.DashboardPayload {
	now := time.Now()
	sections := make(map[string]any, len(d.sources)+2)
	for name, quotes := range snapshot.StaticSections(now) {
		sections[name] = quotes
	}

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		usdBRL *models.SourceSnapshot
		latest time.Time
	)
	for _, src := range d.sources {
		wg.Add(1)
		go func(src *scrape.Source) {
			defer wg.Done()
			snap := d.Refresh(ctx, src.ID)
			if snap == nil {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if snap.FetchedAt.After(latest) {
				latest = snap.FetchedAt
			}
			if src.ID == "usdBRL" {
				// Folded into the emerging pairs section below.
				usdBRL = snap
				return
			}
			sections[SectionFor(src.ID)] = sectionRecords(snap)
		}(src)
	}
	wg.Wait()

	if usdBRL != nil && len(usdBRL.Quotes) > 0 {
		mergeUSDBRL(sections, usdBRL.Quotes[0])
	}

	return &models.DashboardPayload{
		Sections:   sections,
		Timestamp:  now.UnixMilli(),
		LastUpdate: latest,
	}
}

// Refresh returns the snapshot to serve for a source right now, honoring
// the TTL gate and the fallback chain. It returns nil only for unknown
// sources.
func (d *Dashboard) Refresh(ctx context.Context, sourceID string) *models.SourceSnapshot {
	src, ok := d.byID[sourceID]
	if !ok {
		return nil
	}
	now := time.Now()
	if snap, ok := d.store.Fresh(ctx, src.ID, now); ok {
		d.metrics.RecordSnapshotAge(src.ID, now.Sub(snap.FetchedAt).Seconds())
		return snap
	}

	// One scrape per source at a time. Whoever waited re-checks freshness
	// because the holder usually refreshed for them.
	lock := d.inflight[src.ID]
	lock.Lock()
	defer lock.Unlock()
	if snap, ok := d.store.Fresh(ctx, src.ID, time.Now()); ok {
		return snap
	}

	if d.limiter.Allow(src.ID, scrapeBurst, scrapeRefillSec) {
		snap, err := d.scrapeWithRetry(ctx, src)
		if err == nil {
			d.store.Put(ctx, snap)
			d.afterRefresh(ctx, snap)
			return snap
		}
		return d.degrade(ctx, src, err)
	}
	d.log.Debug("scrape rate limited", logger.String("source", src.ID))
	return d.degrade(ctx, src, errScrapeThrottled)
}

// degrade serves the best remaining data for a source whose scrape failed
// or was throttled: the stale snapshot when one exists, the packaged
// defaults otherwise.
func (d *Dashboard) degrade(ctx context.Context, src *scrape.Source, err error) *models.SourceSnapshot {
	if stale, ok := d.store.Get(ctx, src.ID); ok {
		d.log.Warn("serving stale snapshot",
			logger.String("source", src.ID),
			logger.Duration("age", time.Since(stale.FetchedAt)),
			logger.Error(err))
		d.metrics.RecordSnapshotAge(src.ID, time.Since(stale.FetchedAt).Seconds())
		return stale
	}

	d.log.Warn("serving packaged defaults", logger.String("source", src.ID), logger.Error(err))
	def := snapshot.Default(src.ID, time.Now(), src.TTL)
	if def != nil {
		// Cached so repeated failures do not re-scrape inside the TTL.
		d.store.Put(ctx, def)
	}
	return def
}

// SourceStatus reports one source's snapshot state without forcing a scrape.
func (d *Dashboard) SourceStatus(ctx context.Context, sourceID string) (*models.SourceStatus, error) {
	src, ok := d.byID[sourceID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, sourceID)
	}
	snap, ok := d.store.Get(ctx, src.ID)
	if !ok {
		return &models.SourceStatus{SourceID: src.ID, Stale: true}, nil
	}
	return &models.SourceStatus{
		SourceID:  src.ID,
		Records:   sectionRecords(snap),
		FetchedAt: snap.FetchedAt,
		Stale:     snap.Stale(time.Now()),
		Fallback:  snap.Fallback,
	}, nil
}

// CacheStatus summarizes every source's snapshot state.
func (d *Dashboard) CacheStatus(ctx context.Context) []*models.SourceStatus {
	now := time.Now()
	out := make([]*models.SourceStatus, 0, len(d.sources))
	for _, src := range d.sources {
		st := &models.SourceStatus{SourceID: src.ID, Stale: true}
		if snap, ok := d.store.Get(ctx, src.ID); ok {
			st.Records = snap.Len()
			st.FetchedAt = snap.FetchedAt
			st.Stale = snap.Stale(now)
			st.Fallback = snap.Fallback
		}
		out = append(out, st)
	}
	return out
}

func (d *Dashboard) scrapeWithRetry(ctx context.Context, src *scrape.Source) (*models.SourceSnapshot, error) {
	snap, err := d.pipeline.Run(ctx, src)
	if err == nil {
		return snap, nil
	}
	var fe *scrape.FetchError
	if errors.As(err, &fe) && fe.Retryable() && ctx.Err() == nil {
		return d.pipeline.Run(ctx, src)
	}
	return nil, err
}

func (d *Dashboard) afterRefresh(ctx context.Context, snap *models.SourceSnapshot) {
	if d.publisher != nil {
		ev := &models.RefreshEvent{
			SourceID:  snap.SourceID,
			Records:   snap.Len(),
			Fallback:  snap.Fallback,
			FetchedAt: snap.FetchedAt,
		}
		if err := d.publisher.PublishRefresh(ctx, ev); err != nil {
			d.log.Warn("refresh event publish failed",
				logger.String("source", snap.SourceID), logger.Error(err))
		}
	}
	if d.history != nil && len(snap.Quotes) > 0 {
		if err := d.history.StoreSnapshot(ctx, snap); err != nil {
			d.log.Warn("history write failed",
				logger.String("source", snap.SourceID), logger.Error(err))
		}
	}
}

func sectionRecords(snap *models.SourceSnapshot) any {
	switch {
	case snap.Indicators != nil:
		return snap.Indicators
	case snap.Events != nil:
		return snap.Events
	default:
		return snap.Quotes
	}
}

// mergeUSDBRL upserts the live USD/BRL quote into the emerging pairs
// section, replacing the scraped or default row of the same name, and
// refreshes the matching row of the majors section when one exists.
func mergeUSDBRL(sections map[string]any, quote models.AssetQuote) {
	if quotes, ok := sections["dolarMundo"].([]models.AssetQuote); ok {
		for i := range quotes {
			if quotes[i].Name == quote.Name {
				quotes[i] = quote
				sections["dolarMundo"] = quotes
				break
			}
		}
	}

	quotes, _ := sections["dolarEmergentes"].([]models.AssetQuote)
	for i := range quotes {
		if quotes[i].Name == quote.Name {
			quotes[i] = quote
			sections["dolarEmergentes"] = quotes
			return
		}
	}
	sections["dolarEmergentes"] = append(quotes, quote)
}
