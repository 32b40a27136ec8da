package scrape

import (
	"fmt"
	"regexp"
	"strings"
	"testing"
)

func TestExtractCalendarEventItems(t *testing.T) {
	doc, err := ParseDocument([]byte(`<html><body><table><tbody>
	<tr class="js-event-item">
		<td class="time">09:00</td>
		<td class="flagCur">BRL</td>
		<td class="impact" title="Alta">***</td>
		<td class="event">IPCA (Mensal)</td>
		<td class="actual">0,25%</td>
		<td class="forecast">0,30%</td>
		<td class="previous">0,44%</td>
	</tr>
	<tr class="js-event-item">
		<td class="time">10:30</td>
		<td class="flagCur">USD</td>
		<td class="impact"></td>
		<td class="event">Pedidos de bens duráveis</td>
		<td class="actual"></td>
		<td class="forecast"></td>
		<td class="previous">-0,8%</td>
	</tr>
	</tbody></table></body></html>`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	events := ExtractCalendar(doc)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Event != "IPCA (Mensal)" || events[0].Impact != "Alta" {
		t.Fatalf("unexpected event %+v", events[0])
	}
	if events[1].Actual != "-" || events[1].Forecast != "-" {
		t.Fatalf("missing figures must default to dash: %+v", events[1])
	}
	if events[1].Impact != "Média" {
		t.Fatalf("missing impact must default: %+v", events[1])
	}
}

func TestExtractCalendarPositionalFallback(t *testing.T) {
	doc, err := ParseDocument([]byte(`<html><body>
	<table id="economicCalendarData"><tbody>
	<tr><td>09:00</td><td>BRL</td><td>IGP-M</td><td>0,10%</td><td>0,12%</td><td>0,20%</td></tr>
	</tbody></table></body></html>`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	events := ExtractCalendar(doc)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Event != "IGP-M" || events[0].Previous != "0,20%" {
		t.Fatalf("unexpected event %+v", events[0])
	}
}

func TestExtractCalendarCapsEvents(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 15; i++ {
		fmt.Fprintf(&b, `<div class="js-event-item"><span class="time">09:%02d</span><span class="event">Event %d</span></div>`, i, i)
	}
	b.WriteString("</body></html>")
	doc, err := ParseDocument([]byte(b.String()))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	events := ExtractCalendar(doc)
	if len(events) != maxCalendarEvents {
		t.Fatalf("expected cap at %d, got %d", maxCalendarEvents, len(events))
	}
}

func TestExtractIndicatorsFromScript(t *testing.T) {
	doc, err := ParseDocument([]byte(`<html><body>
	<script>var pageData = {"cupomCambial": {"difOperCasada": 4,85, "label": "Dif. Oper. Casada"}};</script>
	</body></html>`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	patterns := []IndicatorPattern{{
		Key:      "difOperCasada",
		Label:    "Dif. Oper. Casada - Taxa",
		Patterns: []*regexp.Regexp{regexp.MustCompile(`difOperCasada"?\s*[:=]\s*"?(\d+[.,]\d+)`)},
	}}
	values := ExtractIndicators(doc, patterns, []string{"cupom"})
	if values["difOperCasada"] != "4.85" {
		t.Fatalf("unexpected values %v", values)
	}
}

func TestExtractIndicatorsTableFallback(t *testing.T) {
	doc, err := ParseDocument([]byte(`<html><body><table><tbody>
	<tr><td>Dif. Oper. Casada</td><td>4,85</td></tr>
	</tbody></table></body></html>`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	patterns := []IndicatorPattern{{
		Key:      "difOperCasada",
		Label:    "Dif. Oper. Casada - Taxa",
		Patterns: []*regexp.Regexp{regexp.MustCompile(`difOperCasada"?\s*[:=]\s*"?(\d+[.,]\d+)`)},
	}}
	values := ExtractIndicators(doc, patterns, []string{"cupom"})
	if values["difOperCasada"] != "4.85" {
		t.Fatalf("unexpected values %v", values)
	}
}
