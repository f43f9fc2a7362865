// Package chat runs one chat turn: read the slots, pick a route, and produce
// either an event listing or a conversational reply.
package chat

import (
	"context"
	"log"

	"event-companion-backend/internal/events"
	"event-companion-backend/internal/metrics"
	"event-companion-backend/internal/nlu"
	"event-companion-backend/internal/render"
	"event-companion-backend/internal/responder"
)

type EventSource interface {
	GetEvents(ctx context.Context, q events.Query) events.Result
}

type Conversation interface {
	Respond(ctx context.Context, text string, c responder.Context) responder.Reply
	Introduce(ctx context.Context, location string, count int, when string) responder.Reply
}

type Route string

const (
	RouteEvents       Route = "events"
	RouteNoEvents     Route = "no_events"
	RouteConversation Route = "conversation"
	RouteError        Route = "error"
)

// Reply is the outcome of a turn.
type Reply struct {
	// Text is an HTML fragment when HTML is set, plain text otherwise.
	Text string
	HTML bool
	// Location is the city to carry into the next turn, "" if none.
	Location string
	Route    Route
	// Provenance and Reason describe the event search, if one ran.
	Provenance events.Provenance
	Reason     events.Reason
}

type Service struct {
	parser   *nlu.Parser
	events   EventSource
	conv     Conversation
	metrics  *metrics.Metrics
	radiusKm int
}

func NewService(parser *nlu.Parser, src EventSource, conv Conversation, m *metrics.Metrics, radiusKm int) *Service {
	return &Service{parser: parser, events: src, conv: conv, metrics: m, radiusKm: radiusKm}
}

// Reply answers message. carried is the location the client kept from the
// previous turn; it is ignored unless it names a known city.
func (s *Service) Reply(ctx context.Context, message, carried string) (Reply, error) {
	location := s.resolveLocation(message, carried)

	if location == "" || !s.parser.IsEventQuery(message) {
		r := s.conv.Respond(ctx, message, responder.Context{Location: location})
		s.metrics.Reply(string(r.Source), string(r.Reason))
		s.metrics.Turn(string(RouteConversation))
		return Reply{Text: r.Text, Location: location, Route: RouteConversation}, nil
	}

	dr := s.parser.ParseDateRange(message)
	res := s.events.GetEvents(ctx, events.Query{
		Location: location,
		RadiusKm: s.radiusKm,
		Range:    dr,
		Facets:   s.parser.ExtractFacets(message),
	})
	s.metrics.EventResult(string(res.Provenance), string(res.Reason))
	when := render.DateQualifier(dr, message)
	out := Reply{Location: location, Provenance: res.Provenance, Reason: res.Reason}

	if len(res.Events) == 0 {
		r := s.conv.Respond(ctx, message, responder.Context{Location: location, NoEvents: true, When: when})
		s.metrics.Reply(string(r.Source), string(r.Reason))
		s.metrics.Turn(string(RouteNoEvents))
		out.Text, out.Route = r.Text, RouteNoEvents
		return out, nil
	}

	intro := s.conv.Introduce(ctx, location, len(res.Events), when)
	s.metrics.Reply(string(intro.Source), string(intro.Reason))
	html, err := render.EventsHTML(intro.Text, location, when, res.Events)
	if err != nil {
		s.metrics.Turn(string(RouteError))
		return Reply{}, err
	}
	log.Printf("[chat] %d events for %s%s (%s)", len(res.Events), location, when, res.Provenance)
	s.metrics.Turn(string(RouteEvents))
	out.Text, out.HTML, out.Route = html, true, RouteEvents
	return out, nil
}

// resolveLocation keeps the carried city for bare date follow-ups such as
// "what about tomorrow?", and otherwise prefers a city named in the message.
func (s *Service) resolveLocation(message, carried string) string {
	if carried != "" {
		city, ok := s.parser.Gazetteer().Lookup(carried)
		if !ok {
			log.Printf("[chat] ignoring unknown carried location %q", carried)
		}
		carried = city
	}
	if carried != "" && s.parser.IsTimeOnly(message) {
		return carried
	}
	if city, ok := s.parser.ExtractLocation(message); ok {
		return city
	}
	return carried
}
