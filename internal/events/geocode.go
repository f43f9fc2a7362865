package events

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Geocoder resolves a place name to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, place string) (Coordinates, error)
}

// Nominatim talks to an OpenStreetMap Nominatim search endpoint.
type Nominatim struct {
	httpClient *http.Client
	endpoint   string
	userAgent  string
}

func NewNominatim(endpoint, userAgent string, httpClient *http.Client) *Nominatim {
	return &Nominatim{httpClient: httpClient, endpoint: endpoint, userAgent: userAgent}
}

type nominatimPlace struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (n *Nominatim) Geocode(ctx context.Context, place string) (Coordinates, error) {
	qv := url.Values{}
	qv.Set("q", place)
	qv.Set("format", "json")
	qv.Set("limit", "1")
	header := http.Header{}
	// Nominatim usage policy rejects anonymous clients.
	header.Set("User-Agent", n.userAgent)

	var places []nominatimPlace
	if err := getJSON(ctx, n.httpClient, n.endpoint, qv, header, &places); err != nil {
		return Coordinates{}, fmt.Errorf("geocode %q: %w", place, err)
	}
	if len(places) == 0 {
		return Coordinates{}, fmt.Errorf("geocode %q: %w", place, ErrGeocodeNotFound)
	}
	lat, errLat := strconv.ParseFloat(places[0].Lat, 64)
	lon, errLon := strconv.ParseFloat(places[0].Lon, 64)
	if errLat != nil || errLon != nil {
		return Coordinates{}, fmt.Errorf("geocode %q: %w: bad coordinates %q,%q", place, ErrGeocodeNotFound, places[0].Lat, places[0].Lon)
	}
	return Coordinates{Lat: lat, Lon: lon}, nil
}
