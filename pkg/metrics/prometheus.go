package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	scrapesTotal   *prometheus.CounterVec
	scrapeErrors   *prometheus.CounterVec
	rowsExtracted  *prometheus.GaugeVec
	snapshotAge    *prometheus.GaugeVec
	scrapeDuration *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		scrapesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketboard_scrapes_total",
				Help: "Total number of scrape attempts per source and outcome",
			},
			[]string{"source", "outcome"},
		),
		scrapeErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketboard_scrape_errors_total",
				Help: "Total number of scrape failures per source and kind",
			},
			[]string{"source", "kind"},
		),
		rowsExtracted: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "marketboard_rows_extracted",
				Help: "Rows extracted by the last successful scrape of a source",
			},
			[]string{"source"},
		),
		snapshotAge: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "marketboard_snapshot_age_seconds",
				Help: "Age of the snapshot served for a source",
			},
			[]string{"source"},
		),
		scrapeDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "marketboard_scrape_duration_seconds",
				Help:    "Duration of scrape operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),
	}
}

// RecordScrape records one scrape attempt and its outcome.
func (r *Recorder) RecordScrape(source, outcome string) {
	r.scrapesTotal.WithLabelValues(source, outcome).Inc()
}

// RecordScrapeError records a scrape failure by kind.
func (r *Recorder) RecordScrapeError(source, kind string) {
	r.scrapeErrors.WithLabelValues(source, kind).Inc()
}

// RecordRows records how many rows the last successful scrape produced.
func (r *Recorder) RecordRows(source string, rows int) {
	r.rowsExtracted.WithLabelValues(source).Set(float64(rows))
}

// RecordSnapshotAge records the age of the snapshot served for a source.
func (r *Recorder) RecordSnapshotAge(source string, seconds float64) {
	r.snapshotAge.WithLabelValues(source).Set(seconds)
}

// RecordDuration records scrape latency in seconds.
func (r *Recorder) RecordDuration(source string, seconds float64) {
	r.scrapeDuration.WithLabelValues(source).Observe(seconds)
}
