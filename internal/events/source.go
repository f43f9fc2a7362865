package events

import (
	"context"
	"log"
)

// Source is the event adapter used by chat turns. It never fails: every
// error path degrades to Synthetic events and says why in the Result.
type Source struct {
	geo    Geocoder
	search Searcher
}

func NewSource(geo Geocoder, search Searcher) *Source {
	return &Source{geo: geo, search: search}
}

func (s *Source) GetEvents(ctx context.Context, q Query) Result {
	at, err := s.geo.Geocode(ctx, q.Location)
	if err != nil {
		return s.degrade(q, nil, ReasonGeocodeFailed, err)
	}
	evs, err := s.search.Search(ctx, q, at)
	if err != nil {
		return s.degrade(q, &at, reasonFor(err), err)
	}
	log.Printf("[events] %d live events for %s", len(evs), q.Location)
	return Result{Events: evs, Provenance: ProvenanceLive}
}

func (s *Source) degrade(q Query, at *Coordinates, reason Reason, err error) Result {
	log.Printf("[events] using suggestions for %s (%s): %v", q.Location, reason, err)
	return Result{
		Events:     Synthetic(q.Location, at, q.Range.Start),
		Provenance: ProvenanceSynthetic,
		Reason:     reason,
		Err:        err,
	}
}
