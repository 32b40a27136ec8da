package scrape

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// IndicatorPattern locates one named figure on a page that publishes
// indicators as free-form text rather than a quote table.
type IndicatorPattern struct {
	// Key is the field name in the resulting indicator set.
	Key string

	// Label is the human heading near the figure, used for the table
	// strategy. The part before " - " must appear in a cell.
	Label string

	// Patterns are tried in order against script bodies and page text.
	// Each must capture the numeric value in group 1.
	Patterns []*regexp.Regexp
}

// reIndicatorHints gates which scripts are worth scanning at all.
var reIndicatorValue = regexp.MustCompile(`(\d+[.,]\d+)`)

// ExtractIndicators resolves each pattern against the page, scripts first,
// then the rendered text, then table rows whose cells mention the label.
// Values come back dot-decimal. Keys that resolve nowhere are absent.
func ExtractIndicators(doc *goquery.Document, patterns []IndicatorPattern, scriptHints []string) map[string]string {
	values := make(map[string]string, len(patterns))

	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		text := s.Text()
		if !containsAnyFold(text, scriptHints) {
			return
		}
		matchPatterns(text, patterns, values)
	})

	if len(values) == 0 {
		matchPatterns(doc.Find("body").Text(), patterns, values)

		doc.Find("table tbody tr").Each(func(_ int, row *goquery.Selection) {
			rowText := row.Text()
			for _, p := range patterns {
				if values[p.Key] != "" {
					continue
				}
				label, _, _ := strings.Cut(p.Label, " - ")
				if !strings.Contains(rowText, label) {
					continue
				}
				if m := reIndicatorValue.FindStringSubmatch(rowText); m != nil {
					values[p.Key] = strings.ReplaceAll(m[1], ",", ".")
				}
			}
		})
	}
	return values
}

func matchPatterns(text string, patterns []IndicatorPattern, values map[string]string) {
	for _, p := range patterns {
		if values[p.Key] != "" {
			continue
		}
		for _, re := range p.Patterns {
			if m := re.FindStringSubmatch(text); m != nil {
				values[p.Key] = strings.ReplaceAll(m[1], ",", ".")
				break
			}
		}
	}
}

func containsAnyFold(text string, hints []string) bool {
	if len(hints) == 0 {
		return true
	}
	lower := strings.ToLower(text)
	for _, h := range hints {
		if strings.Contains(lower, strings.ToLower(h)) {
			return true
		}
	}
	return false
}
