package models

import "time"

// RefreshEvent announces a completed snapshot refresh on the event bus.
type RefreshEvent struct {
	SourceID  string    `json:"sourceId"`
	Records   int       `json:"records"`
	Fallback  bool      `json:"fallback"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// HistoricalQuote is one persisted observation of an asset's last price.
type HistoricalQuote struct {
	SourceID  string    `json:"sourceId"`
	Name      string    `json:"name"`
	Last      string    `json:"value"`
	Change    string    `json:"variation"`
	ScrapedAt time.Time `json:"scrapedAt"`
}
