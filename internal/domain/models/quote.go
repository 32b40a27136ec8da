package models

import "time"

// AssetQuote is one normalized row of a source table: a currency pair,
// futures contract, bond tenor or equity index. Display strings carry the
// precision of the asset class (2dp indices, 3dp yields, 4-5dp FX/futures).
type AssetQuote struct {
	Name          string `json:"name"`
	Period        string `json:"mes,omitempty"`
	Last          string `json:"value"`
	Previous      string `json:"previous,omitempty"`
	High          string `json:"max,omitempty"`
	Low           string `json:"min,omitempty"`
	Open          string `json:"open,omitempty"`
	PriorSettle   string `json:"priorSettle,omitempty"`
	Change        string `json:"variation"`
	ChangePercent string `json:"percent"`
	Volume        string `json:"volume,omitempty"`
	OpenInterest  string `json:"openInterest,omitempty"`
	AsOf          string `json:"time"`
}

// EconomicEvent is one row of an economic-calendar listing.
type EconomicEvent struct {
	Time     string `json:"time"`
	Country  string `json:"country"`
	Event    string `json:"event"`
	Actual   string `json:"actual"`
	Forecast string `json:"forecast"`
	Previous string `json:"previous"`
	Impact   string `json:"impact"`
}

// IndicatorSet holds labelled scalar indicators scraped from a text-heavy
// page (B3 derivative indicators: clean coupon, spot rates).
type IndicatorSet struct {
	Values    map[string]string `json:"valores"`
	Timestamp time.Time         `json:"timestamp"`
}

// SourceSnapshot is one complete captured result set for a single source.
// Records is exactly one of Quotes/Events/Indicators depending on the kind
// of source; order is the source table order and is significant.
type SourceSnapshot struct {
	SourceID   string          `json:"sourceId"`
	Quotes     []AssetQuote    `json:"quotes,omitempty"`
	Events     []EconomicEvent `json:"events,omitempty"`
	Indicators *IndicatorSet   `json:"indicators,omitempty"`
	FetchedAt  time.Time       `json:"fetchedAt"`
	TTL        time.Duration   `json:"-"`

	// Fallback marks snapshots built from packaged defaults rather than a
	// live scrape.
	Fallback bool `json:"fallback,omitempty"`
}

// Stale reports whether the snapshot has outlived its TTL at the given time.
func (s *SourceSnapshot) Stale(now time.Time) bool {
	return now.Sub(s.FetchedAt) > s.TTL
}

// Len returns the number of records in whichever record set is populated.
func (s *SourceSnapshot) Len() int {
	switch {
	case s.Indicators != nil:
		return len(s.Indicators.Values)
	case s.Events != nil:
		return len(s.Events)
	default:
		return len(s.Quotes)
	}
}

// DashboardPayload is the aggregator output: one entry per configured
// source plus a capture timestamp. Built fresh per request, never stored.
type DashboardPayload struct {
	Sections   map[string]any `json:"sections"`
	Timestamp  int64          `json:"timestamp"`
	LastUpdate time.Time      `json:"lastUpdate"`
}

// SourceStatus describes one source's snapshot for the per-source endpoint.
type SourceStatus struct {
	SourceID  string    `json:"sourceId"`
	Records   any       `json:"records"`
	FetchedAt time.Time `json:"fetchedAt"`
	Stale     bool      `json:"stale"`
	Fallback  bool      `json:"fallback"`
}
