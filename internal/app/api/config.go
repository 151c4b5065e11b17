package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.temporal.io/sdk/client"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port              string
	PostgresDSN       string
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool
	SessionTTL        time.Duration
	// ProblemBaseURI, when set, makes problem type URIs absolute.
	ProblemBaseURI string
	// OrderDeleteRestocks controls whether deleting an order returns its
	// consumed stock to the pool.
	OrderDeleteRestocks bool
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:                envDefault("PORT", "8080"),
		PostgresDSN:         strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		TemporalAddress:     envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace:   envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:    isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		SessionTTL:          24 * time.Hour,
		ProblemBaseURI:      strings.TrimSpace(os.Getenv("PROBLEM_BASE_URI")),
		OrderDeleteRestocks: isTruthy(os.Getenv("ORDER_DELETE_RESTOCKS")),
	}
	if raw := strings.TrimSpace(os.Getenv("SESSION_TTL_HOURS")); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours <= 0 {
			return Config{}, fmt.Errorf("SESSION_TTL_HOURS must be a positive integer")
		}
		cfg.SessionTTL = time.Duration(hours) * time.Hour
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
