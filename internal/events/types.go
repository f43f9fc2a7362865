package events

import (
	"errors"

	"event-companion-backend/internal/nlu"
)

// Coordinates is a WGS84 point. The zero value means unknown.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Event is the normalized record shared by live and synthetic results.
// Nothing in it reveals where it came from.
type Event struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Location    string      `json:"location"`
	Date        string      `json:"date"` // YYYY-MM-DD
	URL         string      `json:"url"`
	Coordinates Coordinates `json:"coordinates"`
	Category    string      `json:"category"`
	Price       string      `json:"price"`
	Image       string      `json:"image,omitempty"`
}

type Provenance string

const (
	ProvenanceLive      Provenance = "live"
	ProvenanceSynthetic Provenance = "synthetic"
)

// Reason explains why a result was degraded. Empty for live results.
type Reason string

const (
	ReasonNone          Reason = ""
	ReasonNotConfigured Reason = "not_configured"
	ReasonGeocodeFailed Reason = "geocode_failed"
	ReasonAPIError      Reason = "api_error"
	ReasonNoResults     Reason = "no_results"
	ReasonMalformed     Reason = "malformed"
)

// Result is the tagged outcome of an event search.
type Result struct {
	Events     []Event
	Provenance Provenance
	Reason     Reason
	// Err is the swallowed failure behind a degraded result.
	Err error
}

func (r Result) Degraded() bool { return r.Provenance != ProvenanceLive }

// Query is one event search.
type Query struct {
	Location string
	RadiusKm int
	Range    nlu.DateRange
	Facets   nlu.Facets
}

var (
	ErrNotConfigured   = errors.New("ticketing api key not configured")
	ErrGeocodeNotFound = errors.New("location not found by geocoder")
	ErrNoResults       = errors.New("no events returned")
	ErrMalformed       = errors.New("malformed response")
)

func reasonFor(err error) Reason {
	switch {
	case err == nil:
		return ReasonNone
	case errors.Is(err, ErrNotConfigured):
		return ReasonNotConfigured
	case errors.Is(err, ErrGeocodeNotFound):
		return ReasonGeocodeFailed
	case errors.Is(err, ErrNoResults):
		return ReasonNoResults
	case errors.Is(err, ErrMalformed):
		return ReasonMalformed
	default:
		return ReasonAPIError
	}
}
