package events

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"event-companion-backend/internal/nlu"
)

var friday = time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)

func weekendQuery(city string) Query {
	return Query{
		Location: city,
		RadiusKm: 10,
		Range:    nlu.DateRange{Start: friday, End: friday.AddDate(0, 0, 2)},
		Facets:   nlu.Facets{Classification: "music", FamilyFriendly: true},
	}
}

type fakeGeocoder struct {
	at  Coordinates
	err error
}

func (f fakeGeocoder) Geocode(context.Context, string) (Coordinates, error) { return f.at, f.err }

// recorder keeps the last request a fake server saw.
type recorder struct {
	mu  sync.Mutex
	req *http.Request
}

func (r *recorder) last() *http.Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.req
}

func serveJSON(t *testing.T, status int, body string, seen *recorder) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			seen.mu.Lock()
			seen.req = r.Clone(context.Background())
			seen.mu.Unlock()
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

const discoveryPage = `{
  "_embedded": {
    "events": [
      {
        "name": "Jazz at the Pier",
        "info": "  An evening of jazz.  ",
        "url": "https://tickets.example/jazz",
        "dates": {"start": {"dateTime": "2026-10-17T02:00:00Z", "localDate": "2026-10-16"}},
        "images": [
          {"url": "https://img.example/small.jpg", "ratio": "16_9", "width": 320},
          {"url": "https://img.example/square.jpg", "ratio": "1_1", "width": 1024},
          {"url": "https://img.example/wide.jpg", "ratio": "16_9", "width": 1024}
        ],
        "priceRanges": [{"min": 25, "max": 25}],
        "classifications": [{"segment": {"name": "Music"}}],
        "_embedded": {"venues": [{
          "name": "Navy Pier",
          "address": {"line1": "600 E Grand Ave"},
          "location": {"latitude": "41.8917", "longitude": "-87.6086"}
        }]}
      },
      {
        "name": "No Date Show",
        "dates": {"start": {}}
      },
      {
        "dates": {"start": {"localDate": "2026-10-18"}},
        "priceRanges": [{"min": 10, "max": 40.5}]
      },
      "not an object"
    ]
  }
}`

func TestTicketmasterSearchNormalizes(t *testing.T) {
	srv := serveJSON(t, http.StatusOK, discoveryPage, nil)
	tm := NewTicketmaster(srv.URL, "k", srv.Client())
	center := Coordinates{Lat: 41.88, Lon: -87.63}

	evs, err := tm.Search(context.Background(), weekendQuery("Chicago"), center)
	require.NoError(t, err)
	require.Len(t, evs, 2)

	full := evs[0]
	assert.Equal(t, "Jazz at the Pier", full.Name)
	assert.Equal(t, "An evening of jazz.", full.Description)
	assert.Equal(t, "Navy Pier, 600 E Grand Ave", full.Location)
	assert.Equal(t, "2026-10-17", full.Date)
	assert.Equal(t, "$25.00", full.Price)
	assert.Equal(t, "Music", full.Category)
	assert.Equal(t, "https://img.example/wide.jpg", full.Image)
	assert.Equal(t, Coordinates{Lat: 41.8917, Lon: -87.6086}, full.Coordinates)

	sparse := evs[1]
	assert.Equal(t, "Unnamed Event", sparse.Name)
	assert.Equal(t, "No description available", sparse.Description)
	assert.Equal(t, "TBA", sparse.Location)
	assert.Equal(t, "2026-10-18", sparse.Date)
	assert.Equal(t, "#", sparse.URL)
	assert.Equal(t, "General", sparse.Category)
	assert.Equal(t, "$10.00 - $40.50", sparse.Price)
	assert.Empty(t, sparse.Image)
	assert.Equal(t, center, sparse.Coordinates)
}

func TestTicketmasterSearchParams(t *testing.T) {
	seen := &recorder{}
	srv := serveJSON(t, http.StatusOK, discoveryPage, seen)
	tm := NewTicketmaster(srv.URL+"/discovery/v2/events.json", "secret", srv.Client())

	_, err := tm.Search(context.Background(), weekendQuery("Chicago"), Coordinates{Lat: 41.88, Lon: -87.63})
	require.NoError(t, err)

	req := seen.last()
	require.NotNil(t, req)
	q := req.URL.Query()
	assert.Equal(t, "/discovery/v2/events.json", req.URL.Path)
	assert.Equal(t, "secret", q.Get("apikey"))
	assert.Equal(t, "41.88,-87.63", q.Get("latlong"))
	assert.Equal(t, "6", q.Get("radius"))
	assert.Equal(t, "miles", q.Get("unit"))
	assert.Equal(t, "2026-10-16T10:00:00Z", q.Get("startDateTime"))
	assert.Equal(t, "2026-10-18T10:00:00Z", q.Get("endDateTime"))
	assert.Equal(t, "20", q.Get("size"))
	assert.Equal(t, "date,asc", q.Get("sort"))
	assert.Equal(t, "music", q.Get("classificationName"))
	assert.Equal(t, "yes", q.Get("familyFriendly"))
	assert.False(t, q.Has("genreName"))
}

func TestTicketmasterErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"empty page", http.StatusOK, `{"page": {"totalElements": 0}}`, ErrNoResults},
		{"no usable record", http.StatusOK, `{"_embedded": {"events": [{"name": "x"}]}}`, ErrMalformed},
		{"not json", http.StatusOK, `<html>`, ErrMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serveJSON(t, tt.status, tt.body, nil)
			_, err := NewTicketmaster(srv.URL, "k", srv.Client()).Search(context.Background(), weekendQuery("Boise"), Coordinates{})
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("http error hides api key", func(t *testing.T) {
		srv := serveJSON(t, http.StatusUnauthorized, `{"fault": "Invalid ApiKey"}`, nil)
		_, err := NewTicketmaster(srv.URL, "topsecret", srv.Client()).Search(context.Background(), weekendQuery("Boise"), Coordinates{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "401")
		assert.NotContains(t, err.Error(), "topsecret")
		assert.Equal(t, ReasonAPIError, reasonFor(err))
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := NewTicketmaster("http://unused", "", http.DefaultClient).Search(context.Background(), weekendQuery("Boise"), Coordinates{})
		assert.ErrorIs(t, err, ErrNotConfigured)
	})
}

func TestDescriptionTruncation(t *testing.T) {
	long := strings.Repeat("a", 250)
	got := truncate(long, maxDescription)
	assert.Equal(t, 200, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "..."))

	exact := strings.Repeat("é", 200)
	assert.Equal(t, exact, truncate(exact, maxDescription))
}

func TestNominatim(t *testing.T) {
	t.Run("resolves first place", func(t *testing.T) {
		seen := &recorder{}
		srv := serveJSON(t, http.StatusOK, `[{"lat": "47.6038", "lon": "-122.3301", "display_name": "Seattle"}]`, seen)
		at, err := NewNominatim(srv.URL, "event_chatbot", srv.Client()).Geocode(context.Background(), "Seattle")
		require.NoError(t, err)
		assert.Equal(t, Coordinates{Lat: 47.6038, Lon: -122.3301}, at)
		req := seen.last()
		require.NotNil(t, req)
		assert.Equal(t, "event_chatbot", req.Header.Get("User-Agent"))
		assert.Equal(t, "Seattle", req.URL.Query().Get("q"))
		assert.Equal(t, "1", req.URL.Query().Get("limit"))
	})

	t.Run("not found", func(t *testing.T) {
		srv := serveJSON(t, http.StatusOK, `[]`, nil)
		_, err := NewNominatim(srv.URL, "ua", srv.Client()).Geocode(context.Background(), "Narnia")
		assert.ErrorIs(t, err, ErrGeocodeNotFound)
	})
}

func TestSourceDegradesToSynthetic(t *testing.T) {
	center := Coordinates{Lat: 43.6, Lon: -116.2}

	tests := []struct {
		name       string
		geo        fakeGeocoder
		apiKey     string
		status     int
		body       string
		wantReason Reason
		wantCoords Coordinates
	}{
		{"geocode failure", fakeGeocoder{err: ErrGeocodeNotFound}, "k", http.StatusOK, discoveryPage, ReasonGeocodeFailed, Coordinates{}},
		{"no api key", fakeGeocoder{at: center}, "", http.StatusOK, discoveryPage, ReasonNotConfigured, center},
		{"server error", fakeGeocoder{at: center}, "k", http.StatusInternalServerError, `oops`, ReasonAPIError, center},
		{"zero events", fakeGeocoder{at: center}, "k", http.StatusOK, `{}`, ReasonNoResults, center},
		{"garbage body", fakeGeocoder{at: center}, "k", http.StatusOK, `[1,2`, ReasonMalformed, center},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serveJSON(t, tt.status, tt.body, nil)
			src := NewSource(tt.geo, NewTicketmaster(srv.URL, tt.apiKey, srv.Client()))

			res := src.GetEvents(context.Background(), weekendQuery("Boise"))
			assert.Equal(t, ProvenanceSynthetic, res.Provenance)
			assert.Equal(t, tt.wantReason, res.Reason)
			assert.Error(t, res.Err)
			assert.True(t, res.Degraded())
			require.Len(t, res.Events, 5)

			for i, ev := range res.Events {
				assert.NotEmpty(t, ev.Name)
				assert.NotEmpty(t, ev.Location)
				assert.NotEmpty(t, ev.Category)
				assert.NotEmpty(t, ev.URL)
				assert.Equal(t, friday.AddDate(0, 0, i+1).Format("2006-01-02"), ev.Date)
				assert.Equal(t, tt.wantCoords, ev.Coordinates)
			}
		})
	}
}

func TestSourceLive(t *testing.T) {
	srv := serveJSON(t, http.StatusOK, discoveryPage, nil)
	src := NewSource(fakeGeocoder{at: Coordinates{Lat: 1, Lon: 2}}, NewTicketmaster(srv.URL, "k", srv.Client()))

	res := src.GetEvents(context.Background(), weekendQuery("Chicago"))
	assert.Equal(t, ProvenanceLive, res.Provenance)
	assert.Equal(t, ReasonNone, res.Reason)
	assert.NoError(t, res.Err)
	assert.False(t, res.Degraded())
	assert.Len(t, res.Events, 2)
}

func TestSynthetic(t *testing.T) {
	t.Run("curated city", func(t *testing.T) {
		evs := Synthetic("Seattle", &Coordinates{Lat: 47.6, Lon: -122.3}, friday)
		require.Len(t, evs, 5)
		assert.Equal(t, "Bumbershoot Music & Arts Festival", evs[0].Name)
		assert.Equal(t, "Seattle Center", evs[0].Location)
		assert.Equal(t, "https://www.eventbrite.com/d/seattle/music-arts-festival/", evs[0].URL)
		assert.Equal(t, "2026-10-17", evs[0].Date)
		assert.Equal(t, "2026-10-21", evs[4].Date)
	})

	t.Run("alias shares the curated list", func(t *testing.T) {
		evs := Synthetic("New York City", nil, friday)
		assert.Equal(t, "Summer Stage in Central Park", evs[0].Name)
		assert.Equal(t, "https://www.eventbrite.com/d/new-york-city/concert-series/", evs[0].URL)
	})

	t.Run("generic template", func(t *testing.T) {
		evs := Synthetic("Salt Lake City", nil, friday)
		require.Len(t, evs, 5)
		assert.Equal(t, "Salt Lake City Summer Music Festival", evs[0].Name)
		assert.Equal(t, "Salt Lake City City Park", evs[0].Location)
		assert.Equal(t, "Annual music festival featuring local and regional artists in Salt Lake City.", evs[0].Description)
		assert.Equal(t, "Food Truck Friday", evs[1].Name)
		assert.Equal(t, Coordinates{}, evs[1].Coordinates)
	})
}

func TestReasonFor(t *testing.T) {
	assert.Equal(t, ReasonNone, reasonFor(nil))
	assert.Equal(t, ReasonNoResults, reasonFor(ErrNoResults))
	assert.Equal(t, ReasonAPIError, reasonFor(errors.New("dial tcp: refused")))
}
