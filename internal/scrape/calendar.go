package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"MarketBoard/internal/domain/models"
)

const maxCalendarEvents = 10

// ExtractCalendar pulls upcoming events from an economic calendar page.
// The primary strategy reads the event-item markup by class; when that
// yields nothing the older positional table layout is tried.
func ExtractCalendar(doc *goquery.Document) []models.EconomicEvent {
	var events []models.EconomicEvent

	doc.Find(".js-event-item, .eventRow, [data-event-id]").EachWithBreak(func(i int, el *goquery.Selection) bool {
		if i >= maxCalendarEvents {
			return false
		}
		ev := models.EconomicEvent{
			Time:     squashSpace(el.Find(".time, .timeCol").Text()),
			Country:  squashSpace(el.Find(".flagCur, .country").Text()),
			Event:    squashSpace(el.Find(".event, .eventCol").Text()),
			Actual:   squashSpace(el.Find(".actual, .actualCol").Text()),
			Forecast: squashSpace(el.Find(".forecast, .forecastCol").Text()),
			Previous: squashSpace(el.Find(".previous, .previousCol").Text()),
			Impact:   eventImpact(el),
		}
		if ev.Event != "" {
			events = append(events, fillEventDefaults(ev))
		}
		return true
	})

	if len(events) == 0 {
		doc.Find("table#economicCalendarData tbody tr, .calendarRow").EachWithBreak(func(i int, el *goquery.Selection) bool {
			if i >= maxCalendarEvents {
				return false
			}
			cells := CellTexts(el)
			if len(cells) < 6 {
				return true
			}
			ev := models.EconomicEvent{
				Time:     cells[0],
				Country:  cells[1],
				Event:    cells[2],
				Actual:   cells[3],
				Forecast: cells[4],
				Previous: cells[5],
			}
			if ev.Event != "" {
				events = append(events, fillEventDefaults(ev))
			}
			return true
		})
	}
	return events
}

func eventImpact(el *goquery.Selection) string {
	imp := el.Find(".impact, .imp")
	if title, ok := imp.Attr("title"); ok && strings.TrimSpace(title) != "" {
		return strings.TrimSpace(title)
	}
	return squashSpace(imp.Text())
}

func fillEventDefaults(ev models.EconomicEvent) models.EconomicEvent {
	if ev.Time == "" {
		ev.Time = "N/A"
	}
	if ev.Country == "" {
		ev.Country = "N/A"
	}
	if ev.Actual == "" {
		ev.Actual = "-"
	}
	if ev.Forecast == "" {
		ev.Forecast = "-"
	}
	if ev.Previous == "" {
		ev.Previous = "-"
	}
	if ev.Impact == "" {
		ev.Impact = "Média"
	}
	return ev
}
