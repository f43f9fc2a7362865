// Package render turns event results into the HTML fragment shown in chat.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"event-companion-backend/internal/events"
	"event-companion-backend/internal/nlu"
)

const weekendSpan = 48 * time.Hour

// DateQualifier labels a search window for headings, with a leading space:
// " in October 2026", " this weekend" or " from October 30 to November 01".
// The weekend label is used only when the message said "weekend".
func DateQualifier(r nlu.DateRange, text string) string {
	switch {
	case r.SameMonth():
		return fmt.Sprintf(" in %s %d", r.Start.Month(), r.Start.Year())
	case strings.Contains(strings.ToLower(text), "weekend") && r.Span() <= weekendSpan:
		return " this weekend"
	default:
		return fmt.Sprintf(" from %s to %s", r.Start.Format("January 02"), r.End.Format("January 02"))
	}
}

var listing = template.Must(template.New("events").Parse(
	`<div class="events-response"><p>{{.Intro}}</p><h2>Events in {{.Location}}{{.When}}</h2><div class="events-grid">` +
		`{{range .Events}}<div class="event-card">` +
		`{{if .Image}}<img src="{{.Image}}" alt="{{.Name}}" class="event-image">{{end}}` +
		`<div class="event-content"><h3>{{.Name}}</h3><div class="event-details">` +
		`<p><strong>📅</strong> {{.Date}}</p>` +
		`<p><strong>📍</strong> {{.Location}}</p>` +
		`<p><strong>💰</strong> {{.Price}}</p>` +
		`<p><strong>🏷️</strong> {{.Category}}</p>` +
		`<p>{{.Description}}</p>` +
		`</div><a href="{{.URL}}" target="_blank" rel="noopener noreferrer" class="ticket-button">Get Tickets →</a></div></div>{{end}}` +
		`</div></div>`))

type listingData struct {
	Intro    string
	Location string
	When     string
	Events   []events.Event
}

// EventsHTML renders the intro sentence, a heading and one card per event.
// All text is escaped.
func EventsHTML(intro, location, when string, evs []events.Event) (string, error) {
	var b bytes.Buffer
	err := listing.Execute(&b, listingData{Intro: intro, Location: location, When: when, Events: evs})
	if err != nil {
		return "", fmt.Errorf("render events: %w", err)
	}
	return b.String(), nil
}
