package repository

import (
	"context"
	"time"

	"MarketBoard/internal/domain/models"
)

// Publisher emits refresh events so downstream consumers (websocket fans,
// audit sinks) learn about new snapshots without polling.
type Publisher interface {
	PublishRefresh(ctx context.Context, ev *models.RefreshEvent) error
	Close() error
}

// HistoryStore persists scraped quotes for later time-series queries.
type HistoryStore interface {
	Init(ctx context.Context) error
	StoreSnapshot(ctx context.Context, snap *models.SourceSnapshot) error
	Query(ctx context.Context, source, name string, from, to time.Time, limit int) ([]*models.HistoricalQuote, error)
	Health(ctx context.Context) error
	Close() error
}

// Metrics records scrape pipeline observations.
type Metrics interface {
	RecordScrape(source, outcome string)
	RecordScrapeError(source, kind string)
	RecordRows(source string, rows int)
	RecordSnapshotAge(source string, seconds float64)
	RecordDuration(source string, seconds float64)
}
