package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"event-companion-backend/internal/chat"
	"event-companion-backend/internal/config"
	"event-companion-backend/internal/events"
	"event-companion-backend/internal/metrics"
	"event-companion-backend/internal/nlu"
	"event-companion-backend/internal/responder"
	"event-companion-backend/internal/types"
)

//go:embed static/index.html
var indexHTML []byte

const (
	locationHeader = "X-Event-Location"
	apology        = "I encountered an error. Could you try rephrasing your message?"
	turnTimeout    = 30 * time.Second
)

// Replier answers one chat turn.
type Replier interface {
	Reply(ctx context.Context, message, carried string) (chat.Reply, error)
}

type Server struct {
	router   *chi.Mux
	cfg      config.Config
	chat     Replier
	registry *prometheus.Registry
}

func NewServer(cfg config.Config) (*Server, error) {
	httpClient := events.NewHTTPClient(cfg.OutboundTimeout)
	src := events.NewSource(
		events.NewNominatim(cfg.GeocoderURL, cfg.GeocoderUserAgent, httpClient),
		events.NewTicketmaster(cfg.TicketmasterURL, cfg.TicketmasterAPIKey, httpClient),
	)

	spec, err := loadSpec(cfg.PromptFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load responder prompts: %w", err)
	}
	var completer responder.Completer
	if cfg.OpenAIAPIKey != "" {
		completer = responder.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, httpClient)
	}
	conv, err := responder.New(spec, completer, cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to build responder: %w", err)
	}

	var reg *prometheus.Registry
	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m = metrics.New(reg)
	}

	svc := chat.NewService(nlu.NewParser(), src, conv, m, cfg.SearchRadiusKm)
	return newServer(cfg, svc, reg), nil
}

func loadSpec(path string) (responder.Spec, error) {
	if path == "" {
		return responder.DefaultSpec()
	}
	log.Printf("[server] loading responder prompts from %s", path)
	return responder.LoadSpec(path)
}

// newServer wires routes around an existing Replier. reg may be nil.
func newServer(cfg config.Config, replier Replier, reg *prometheus.Registry) *Server {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{cfg.AllowedOrigin},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Requested-With"},
		ExposedHeaders: []string{locationHeader},
		MaxAge:         300,
	}))

	s := &Server{router: r, cfg: cfg, chat: replier, registry: reg}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Get("/", s.handleIndex)
	s.router.Post("/chat", s.handleFormChat)
	s.router.Get("/api/health", s.handleHealth)
	s.router.Post("/api/chat", s.handleChat)
	if s.registry != nil {
		s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
}

func (s *Server) Router() http.Handler { return s.router }

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleFormChat serves the page's form posts. Apart from a missing message
// it always answers 200: failures become a fixed apology.
func (s *Server) handleFormChat(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}
	message := strings.TrimSpace(r.PostForm.Get("message"))
	if message == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}
	carried := strings.TrimSpace(r.PostForm.Get("location"))

	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[chat] panic in turn: %v", rec)
			writeText(w, apology)
		}
	}()

	ctx, cancel := context.WithTimeout(r.Context(), turnTimeout)
	defer cancel()
	reply, err := s.chat.Reply(ctx, message, carried)
	if err != nil {
		log.Printf("[chat] turn failed: %v", err)
		writeText(w, apology)
		return
	}
	if reply.Location != "" {
		w.Header().Set(locationHeader, reply.Location)
	}
	if reply.HTML {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(reply.Text))
		return
	}
	writeText(w, reply.Text)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), turnTimeout)
	defer cancel()
	reply, err := s.chat.Reply(ctx, strings.TrimSpace(req.Message), strings.TrimSpace(req.Location))
	if err != nil {
		log.Printf("[chat] turn failed: %v", err)
		s.writeError(w, http.StatusInternalServerError, apology)
		return
	}
	if reply.Location != "" {
		w.Header().Set(locationHeader, reply.Location)
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(types.ChatResponse{
		Reply:    reply.Text,
		HTML:     reply.HTML,
		Location: reply.Location,
		Intent:   intentOf(reply),
	})
}

func intentOf(reply chat.Reply) *types.IntentResponse {
	in := &types.IntentResponse{Type: string(reply.Route)}
	if reply.Provenance != "" {
		in.Payload = map[string]any{"provenance": string(reply.Provenance)}
		if reply.Reason != "" {
			in.Payload["reason"] = string(reply.Reason)
		}
	}
	return in
}

func writeText(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(text))
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg})
}
