package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"MarketBoard/internal/domain/models"
	"MarketBoard/internal/domain/repository"
)

// ClickHouseHistory implements HistoryStore on ClickHouse. One row per
// quote per successful scrape.
type ClickHouseHistory struct {
	db    *sql.DB
	table string
}

// NewClickHouseHistory creates ClickHouse-backed history storage.
func NewClickHouseHistory(db *sql.DB, table string) repository.HistoryStore {
	return &ClickHouseHistory{db: db, table: table}
}

// Schema returns the idempotent DDL for the history table.
func (s *ClickHouseHistory) Schema() []string {
	return []string{fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		scraped_at DateTime,
		source LowCardinality(String),
		name String,
		last String,
		change String
	) ENGINE = MergeTree()
	PARTITION BY toYYYYMM(scraped_at)
	ORDER BY (source, name, scraped_at)
	TTL scraped_at + INTERVAL 90 DAY`, s.table)}
}

func (s *ClickHouseHistory) Init(ctx context.Context) error {
	for _, stmt := range s.Schema() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("history init: %w", err)
		}
	}
	return nil
}

// StoreSnapshot inserts every quote of a snapshot in one multi-row insert.
func (s *ClickHouseHistory) StoreSnapshot(ctx context.Context, snap *models.SourceSnapshot) error {
	if len(snap.Quotes) == 0 {
		return nil
	}
	values := make([]string, 0, len(snap.Quotes))
	args := make([]interface{}, 0, len(snap.Quotes)*5)
	for _, q := range snap.Quotes {
		if q.Name == "" {
			continue
		}
		values = append(values, "(?, ?, ?, ?, ?)")
		args = append(args, snap.FetchedAt, snap.SourceID, q.Name, q.Last, q.Change)
	}
	if len(values) == 0 {
		return nil
	}
	q := fmt.Sprintf("INSERT INTO %s (scraped_at, source, name, last, change) VALUES %s",
		s.table, strings.Join(values, ","))
	_, err := s.db.ExecContext(ctx, q, args...)
	return err
}

func (s *ClickHouseHistory) Query(ctx context.Context, source, name string, from, to time.Time, limit int) ([]*models.HistoricalQuote, error) {
	q := fmt.Sprintf("SELECT source, name, last, change, scraped_at FROM %s WHERE source = ? AND name = ? AND scraped_at >= ? AND scraped_at <= ? ORDER BY scraped_at DESC LIMIT ?", s.table)
	rows, err := s.db.QueryContext(ctx, q, source, name, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.HistoricalQuote
	for rows.Next() {
		h := &models.HistoricalQuote{}
		if err := rows.Scan(&h.SourceID, &h.Name, &h.Last, &h.Change, &h.ScrapedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *ClickHouseHistory) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseHistory) Close() error {
	return s.db.Close()
}
