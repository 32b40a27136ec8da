package scrape

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Secondary extraction strategy for pages that render their tables client
// side: the quote data usually sits in an inline script as a JSON array.

var reBlobArray = regexp.MustCompile(`(?s)(?:contracts|quotes|instruments|products|bonds|rates|treasuries|data)"?\s*[:=]\s*(\[.*?\])`)

// blobAliases maps each role to the JSON keys providers use for it, in
// preference order.
var blobAliases = map[Role][]string{
	RoleName:          {"symbol", "code", "name", "instrument"},
	RoleMonth:         {"month", "expirationMonth", "contractMonth", "mes"},
	RoleLast:          {"last", "lastPrice", "price", "value", "yield"},
	RolePrevious:      {"previous", "previousClose", "prevClose"},
	RoleHigh:          {"high", "dayHigh", "max"},
	RoleLow:           {"low", "dayLow", "min"},
	RoleOpen:          {"open", "openPrice"},
	RolePriorSettle:   {"priorSettle", "settle", "settlement"},
	RoleChange:        {"change", "netChange", "variation"},
	RoleChangePercent: {"changePercent", "percentChange", "percent"},
	RoleVolume:        {"volume", "totalVolume"},
	RoleOpenInterest:  {"openInterest", "oi"},
	RoleTime:          {"time", "updated", "lastUpdate"},
}

// ScanQuoteBlobs walks the document's inline scripts looking for a JSON
// array of quote objects whose name field matches namePat, and converts
// each hit into raw fields for the normal assembly path. Returns nil when
// no script yields anything.
func ScanQuoteBlobs(doc *goquery.Document, namePat *regexp.Regexp) []RawFields {
	var out []RawFields
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if len(text) < 16 {
			return true
		}
		for _, m := range reBlobArray.FindAllStringSubmatch(text, 4) {
			var items []map[string]any
			if err := json.Unmarshal([]byte(m[1]), &items); err != nil {
				continue
			}
			for _, item := range items {
				fields := blobFields(item)
				name := fields[RoleName]
				if name == "" {
					continue
				}
				if namePat != nil && !namePat.MatchString(name) {
					continue
				}
				out = append(out, fields)
			}
			if len(out) > 0 {
				return false
			}
		}
		return true
	})
	return out
}

func blobFields(item map[string]any) RawFields {
	fields := make(RawFields)
	for role, keys := range blobAliases {
		for _, key := range keys {
			v, ok := item[key]
			if !ok {
				continue
			}
			if text := blobText(v); text != "" {
				fields[role] = text
				break
			}
		}
	}
	return fields
}

func blobText(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		return ""
	}
}
