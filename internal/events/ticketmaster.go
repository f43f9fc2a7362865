package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Searcher runs a query around a resolved point.
type Searcher interface {
	Search(ctx context.Context, q Query, at Coordinates) ([]Event, error)
}

const (
	kmToMiles       = 0.621371
	defaultRadiusKm = 10
	pageSize        = 20
	maxDescription  = 200
	apiTimeLayout   = "2006-01-02T15:04:05Z"
	dateLayout      = "2006-01-02"

	noPrice       = "Check website for prices"
	noDescription = "No description available"
)

// Ticketmaster is a client for the Discovery API v2 event search.
type Ticketmaster struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
}

func NewTicketmaster(endpoint, apiKey string, httpClient *http.Client) *Ticketmaster {
	return &Ticketmaster{httpClient: httpClient, endpoint: endpoint, apiKey: apiKey}
}

func (t *Ticketmaster) Configured() bool { return t != nil && t.apiKey != "" }

// Discovery response (minimal fields used). Events stay raw so one bad
// record does not sink the page.
type discoveryResponse struct {
	Embedded struct {
		Events []json.RawMessage `json:"events"`
	} `json:"_embedded"`
}

type discoveryEvent struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Info        string `json:"info"`
	URL         string `json:"url"`
	Dates       struct {
		Start struct {
			DateTime  string `json:"dateTime"`
			LocalDate string `json:"localDate"`
		} `json:"start"`
	} `json:"dates"`
	Images []struct {
		URL   string `json:"url"`
		Ratio string `json:"ratio"`
		Width int    `json:"width"`
	} `json:"images"`
	PriceRanges []struct {
		Min *float64 `json:"min"`
		Max *float64 `json:"max"`
	} `json:"priceRanges"`
	Classifications []struct {
		Segment struct {
			Name string `json:"name"`
		} `json:"segment"`
	} `json:"classifications"`
	Embedded struct {
		Venues []discoveryVenue `json:"venues"`
	} `json:"_embedded"`
}

type discoveryVenue struct {
	Name    string `json:"name"`
	Address struct {
		Line1 string `json:"line1"`
	} `json:"address"`
	Location struct {
		Latitude  string `json:"latitude"`
		Longitude string `json:"longitude"`
	} `json:"location"`
}

func (t *Ticketmaster) searchParams(q Query, at Coordinates) url.Values {
	km := q.RadiusKm
	if km <= 0 {
		km = defaultRadiusKm
	}
	miles := int(float64(km) * kmToMiles)
	if miles < 1 {
		miles = 1
	}
	qv := url.Values{}
	qv.Set("apikey", t.apiKey)
	qv.Set("latlong", strconv.FormatFloat(at.Lat, 'f', -1, 64)+","+strconv.FormatFloat(at.Lon, 'f', -1, 64))
	qv.Set("radius", strconv.Itoa(miles))
	qv.Set("unit", "miles")
	qv.Set("startDateTime", q.Range.Start.UTC().Format(apiTimeLayout))
	qv.Set("endDateTime", q.Range.End.UTC().Format(apiTimeLayout))
	qv.Set("size", strconv.Itoa(pageSize))
	qv.Set("sort", "date,asc")
	for k, v := range q.Facets.Params() {
		qv.Set(k, v)
	}
	return qv
}

// Search returns normalized events. It fails with ErrNoResults when the API
// has nothing, and with ErrMalformed when no record could be parsed.
func (t *Ticketmaster) Search(ctx context.Context, q Query, at Coordinates) ([]Event, error) {
	if !t.Configured() {
		return nil, ErrNotConfigured
	}
	var resp discoveryResponse
	if err := getJSON(ctx, t.httpClient, t.endpoint, t.searchParams(q, at), nil, &resp); err != nil {
		return nil, fmt.Errorf("ticketmaster search: %w", err)
	}
	if len(resp.Embedded.Events) == 0 {
		return nil, ErrNoResults
	}

	out := make([]Event, 0, len(resp.Embedded.Events))
	for i, raw := range resp.Embedded.Events {
		ev, err := normalizeEvent(raw, at)
		if err != nil {
			log.Printf("[events] skipping record %d: %v", i, err)
			continue
		}
		out = append(out, ev)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: none of %d records usable", ErrMalformed, len(resp.Embedded.Events))
	}
	return out, nil
}

func normalizeEvent(raw json.RawMessage, at Coordinates) (Event, error) {
	var de discoveryEvent
	if err := json.Unmarshal(raw, &de); err != nil {
		return Event{}, err
	}
	date, err := eventDate(de)
	if err != nil {
		return Event{}, err
	}

	ev := Event{
		Name:        orDefault(de.Name, "Unnamed Event"),
		Description: truncate(firstNonEmpty(de.Description, de.Info, noDescription), maxDescription),
		Location:    "TBA",
		Date:        date,
		URL:         orDefault(de.URL, "#"),
		Coordinates: at,
		Category:    "General",
		Price:       formatPrice(de),
		Image:       pickImage(de),
	}
	if len(de.Classifications) > 0 && de.Classifications[0].Segment.Name != "" {
		ev.Category = de.Classifications[0].Segment.Name
	}
	if len(de.Embedded.Venues) > 0 {
		v := de.Embedded.Venues[0]
		ev.Location = venueLine(v)
		// venue position beats the geocoded city centre
		lat, errLat := strconv.ParseFloat(v.Location.Latitude, 64)
		lon, errLon := strconv.ParseFloat(v.Location.Longitude, 64)
		if errLat == nil && errLon == nil {
			ev.Coordinates = Coordinates{Lat: lat, Lon: lon}
		}
	}
	return ev, nil
}

func eventDate(de discoveryEvent) (string, error) {
	if s := de.Dates.Start.DateTime; s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t.Format(dateLayout), nil
		}
	}
	if s := de.Dates.Start.LocalDate; s != "" {
		if t, err := time.Parse(dateLayout, s); err == nil {
			return t.Format(dateLayout), nil
		}
	}
	return "", errors.New("no usable start date")
}

func formatPrice(de discoveryEvent) string {
	if len(de.PriceRanges) == 0 {
		return noPrice
	}
	pr := de.PriceRanges[0]
	var lo, hi float64
	if pr.Min != nil {
		lo = *pr.Min
	}
	if pr.Max != nil {
		hi = *pr.Max
	}
	switch {
	case lo == 0 && hi == 0:
		return noPrice
	case lo == hi:
		return fmt.Sprintf("$%.2f", lo)
	default:
		return fmt.Sprintf("$%.2f - $%.2f", lo, hi)
	}
}

// pickImage prefers a wide 16:9 image and falls back to the first one.
func pickImage(de discoveryEvent) string {
	for _, img := range de.Images {
		if img.Ratio == "16_9" && img.Width >= 640 && img.URL != "" {
			return img.URL
		}
	}
	if len(de.Images) > 0 {
		return de.Images[0].URL
	}
	return ""
}

func venueLine(v discoveryVenue) string {
	name := orDefault(v.Name, "TBA")
	if line := strings.TrimSpace(v.Address.Line1); line != "" {
		return name + ", " + line
	}
	return name
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	r := []rune(s)
	return string(r[:limit-3]) + "..."
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
