package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts chat outcomes. A nil *Metrics is valid and records nothing.
type Metrics struct {
	turns   *prometheus.CounterVec
	events  *prometheus.CounterVec
	replies *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		turns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "companion",
			Name:      "chat_turns_total",
			Help:      "Chat turns by route (events, no_events, conversation, error)",
		}, []string{"route"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "companion",
			Name:      "event_results_total",
			Help:      "Event searches by provenance and degradation reason",
		}, []string{"provenance", "reason"}),
		replies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "companion",
			Name:      "replies_total",
			Help:      "Responder replies by source and fallback reason",
		}, []string{"source", "reason"}),
	}
	reg.MustRegister(m.turns, m.events, m.replies)
	return m
}

func (m *Metrics) Turn(route string) {
	if m == nil {
		return
	}
	m.turns.WithLabelValues(route).Inc()
}

func (m *Metrics) EventResult(provenance, reason string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(provenance, orNone(reason)).Inc()
}

func (m *Metrics) Reply(source, reason string) {
	if m == nil {
		return
	}
	m.replies.WithLabelValues(source, orNone(reason)).Inc()
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
