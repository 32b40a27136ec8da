package scrape

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/PuerkitoBio/goquery"

	"MarketBoard/internal/domain/models"
	"MarketBoard/internal/domain/repository"
	"MarketBoard/pkg/logger"
)

// Kind selects the extraction strategy for a source.
type Kind int

const (
	KindQuotes Kind = iota
	KindCalendar
	KindIndicators
)

// ErrNoRows is returned when the page parsed but every extraction strategy
// came up empty.
var ErrNoRows = errors.New("scrape: no rows extracted")

// Source describes everything needed to scrape one provider page: where it
// lives, how to find its table across markup generations, what each column
// means and how to shape the resulting quotes.
type Source struct {
	ID      string
	URL     string
	Headers map[string]string
	Kind    Kind

	// Selectors are row selectors in priority order; the first that
	// matches wins.
	Selectors []string

	// Roles maps columns for the current layout; AltRoles, when set, is a
	// second layout retried per row when Roles resolves no last price.
	Roles    RoleMap
	AltRoles RoleMap

	// Bounds reject implausible values per role before assembly.
	Bounds map[Role]Bounds

	Spec     AssetSpec
	TTL      time.Duration
	MaxRows  int
	MinCells int

	// NameOK filters rows after extraction. Nil keeps everything.
	NameOK func(name string) bool

	// Rework rewrites raw fields before assembly, for provider quirks
	// like a combined contract cell ("FEB 2026 6LG6").
	Rework func(fields RawFields) RawFields

	// BlobPattern enables the inline-script JSON fallback and constrains
	// which object names count as rows of this source. Nil disables it.
	BlobPattern *regexp.Regexp

	// Calendar/indicator sources only.
	Indicators  []IndicatorPattern
	ScriptHints []string
}

// Pipeline runs the fetch-locate-extract-assemble chain for any source.
type Pipeline struct {
	fetcher Fetcher
	log     *logger.Logger
	metrics repository.Metrics
}

// NewPipeline wires a pipeline over the given fetcher.
func NewPipeline(fetcher Fetcher, log *logger.Logger, metrics repository.Metrics) *Pipeline {
	return &Pipeline{fetcher: fetcher, log: log, metrics: metrics}
}

// Run scrapes one source and returns its snapshot. Failures of any stage
// come back as an error; the caller owns the fallback policy.
func (p *Pipeline) Run(ctx context.Context, src *Source) (*models.SourceSnapshot, error) {
	start := time.Now()
	body, err := p.fetcher.Fetch(ctx, src.URL, src.Headers)
	if err != nil {
		p.observeFailure(src.ID, err)
		return nil, err
	}

	doc, err := ParseDocument(body)
	if err != nil {
		p.observeFailure(src.ID, err)
		return nil, fmt.Errorf("source %s: %w", src.ID, err)
	}

	snap := &models.SourceSnapshot{
		SourceID:  src.ID,
		FetchedAt: time.Now(),
		TTL:       src.TTL,
	}

	switch src.Kind {
	case KindCalendar:
		snap.Events = ExtractCalendar(doc)
		if len(snap.Events) == 0 {
			p.observeFailure(src.ID, ErrNoRows)
			return nil, fmt.Errorf("source %s: %w", src.ID, ErrNoRows)
		}
	case KindIndicators:
		values := ExtractIndicators(doc, src.Indicators, src.ScriptHints)
		if len(values) == 0 {
			p.observeFailure(src.ID, ErrNoRows)
			return nil, fmt.Errorf("source %s: %w", src.ID, ErrNoRows)
		}
		snap.Indicators = &models.IndicatorSet{Values: values, Timestamp: snap.FetchedAt}
	default:
		quotes, err := p.extractQuotes(doc, src)
		if err != nil {
			p.observeFailure(src.ID, err)
			return nil, err
		}
		snap.Quotes = quotes
	}

	elapsed := time.Since(start)
	p.metrics.RecordScrape(src.ID, "success")
	p.metrics.RecordDuration(src.ID, elapsed.Seconds())
	p.metrics.RecordRows(src.ID, snap.Len())
	p.log.Info("source scraped",
		logger.String("source", src.ID),
		logger.Int("rows", snap.Len()),
		logger.Duration("elapsed", elapsed))
	return snap, nil
}

func (p *Pipeline) extractQuotes(doc *goquery.Document, src *Source) ([]models.AssetQuote, error) {
	var quotes []models.AssetQuote

	rows, selector, err := Locate(doc, src.Selectors)
	if err == nil {
		quotes = p.quotesFromRows(rows, src)
		if len(quotes) > 0 {
			p.log.Debug("table extraction succeeded",
				logger.String("source", src.ID),
				logger.String("selector", selector))
		}
	}

	if len(quotes) == 0 && src.BlobPattern != nil {
		for _, fields := range ScanQuoteBlobs(doc, src.BlobPattern) {
			if q := p.assembleRow(fields, src); q != nil {
				quotes = append(quotes, *q)
			}
			if src.MaxRows > 0 && len(quotes) >= src.MaxRows {
				break
			}
		}
		if len(quotes) > 0 {
			p.log.Debug("script blob extraction succeeded",
				logger.String("source", src.ID),
				logger.Int("rows", len(quotes)))
		}
	}

	if len(quotes) == 0 {
		return nil, fmt.Errorf("source %s: %w", src.ID, ErrNoRows)
	}
	return quotes, nil
}

func (p *Pipeline) quotesFromRows(rows *goquery.Selection, src *Source) []models.AssetQuote {
	var quotes []models.AssetQuote
	rows.EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := CellTexts(row)
		if len(cells) < src.MinCells {
			return true
		}
		fields := ExtractRow(cells, src.Roles, src.Bounds)
		if fields[RoleLast] == "" && src.AltRoles != nil {
			fields = ExtractRow(cells, src.AltRoles, src.Bounds)
		}
		if q := p.assembleRow(fields, src); q != nil {
			quotes = append(quotes, *q)
		}
		return src.MaxRows == 0 || len(quotes) < src.MaxRows
	})
	return quotes
}

func (p *Pipeline) assembleRow(fields RawFields, src *Source) *models.AssetQuote {
	if src.Rework != nil {
		fields = src.Rework(fields)
	}
	if src.NameOK != nil && !src.NameOK(fields[RoleName]) {
		return nil
	}
	q, err := Assemble(fields, src.Spec)
	if err != nil {
		return nil
	}
	return q
}

func (p *Pipeline) observeFailure(sourceID string, err error) {
	kind := "parse"
	var fe *FetchError
	if errors.As(err, &fe) {
		kind = string(fe.Kind)
	} else if errors.Is(err, ErrNoRows) || errors.Is(err, ErrNoTableFound) {
		kind = "empty"
	}
	p.metrics.RecordScrape(sourceID, "failure")
	p.metrics.RecordScrapeError(sourceID, kind)
	p.log.Warn("source scrape failed",
		logger.String("source", sourceID),
		logger.String("kind", kind),
		logger.Error(err))
}
