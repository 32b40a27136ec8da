package scrape

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoTableFound is returned when none of a source's candidate selectors
// matched any rows in the fetched markup.
var ErrNoTableFound = errors.New("scrape: no candidate selector matched")

// ParseDocument parses raw markup into a goquery document.
func ParseDocument(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}
	return doc, nil
}

// Locate tries each row selector in order and returns the rows matched by
// the first selector that yields any, along with the winning selector.
// Providers restyle their tables often, so every source carries the current
// markup's selector first and older generations after it.
func Locate(doc *goquery.Document, selectors []string) (*goquery.Selection, string, error) {
	for _, sel := range selectors {
		rows := doc.Find(sel)
		if rows.Length() > 0 {
			return rows, sel, nil
		}
	}
	return nil, "", ErrNoTableFound
}
