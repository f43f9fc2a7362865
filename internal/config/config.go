package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	AllowedOrigin string
	// Ticketing discovery API
	TicketmasterAPIKey string
	TicketmasterURL    string
	// Geocoding
	GeocoderURL       string
	GeocoderUserAgent string
	// Generative text (any OpenAI-compatible endpoint)
	OpenAIAPIKey  string
	OpenAIBaseURL string
	Model         string
	// Optional YAML override of the built-in responder prompt spec
	PromptFile string
	// Search defaults
	SearchRadiusKm  int
	OutboundTimeout time.Duration
	MetricsEnabled  bool
}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Port:               getEnvDefault("PORT", "8081"),
		AllowedOrigin:      getEnvDefault("ALLOWED_ORIGIN", "*"),
		TicketmasterAPIKey: os.Getenv("TICKETMASTER_API_KEY"),
		TicketmasterURL:    getEnvDefault("TICKETMASTER_API_URL", "https://app.ticketmaster.com/discovery/v2/events.json"),
		GeocoderURL:        getEnvDefault("GEOCODER_URL", "https://nominatim.openstreetmap.org/search"),
		GeocoderUserAgent:  getEnvDefault("GEOCODER_USER_AGENT", "event_chatbot"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:      os.Getenv("OPENAI_BASE_URL"),
		Model:              getEnvDefault("OPENAI_MODEL", "gpt-4o-mini"),
		PromptFile:         os.Getenv("PROMPT_FILE"),
		SearchRadiusKm:     getEnvIntDefault("SEARCH_RADIUS_KM", 10),
		OutboundTimeout:    getEnvDurationDefault("OUTBOUND_TIMEOUT", 10*time.Second),
		MetricsEnabled:     getEnvBoolDefault("METRICS_ENABLED", true),
	}
	if cfg.TicketmasterAPIKey == "" {
		log.Println("warning: TICKETMASTER_API_KEY is not set; event searches will use built-in suggestions")
	}
	if cfg.OpenAIAPIKey == "" {
		log.Println("warning: OPENAI_API_KEY is not set; replies will use templates only")
	}
	return cfg
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvIntDefault(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func getEnvDurationDefault(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil && d > 0 {
			return d
		}
	}
	return def
}

func getEnvBoolDefault(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}
