package app

import (
	"os"
	"strconv"
)

// Config stores runtime configuration loaded from environment variables.
type Config struct {
	AppEnv   string
	HTTPAddr string

	// Content-generation backend.
	GenAPIBaseURL     string
	GenAPIToken       string
	GenTimeoutMinutes int

	// Editor behaviour.
	EditQuiescenceMS int

	// API access.
	AuthToken       string
	RateLimitPerMin int
}

func LoadConfig() Config {
	return Config{
		AppEnv:            envOrDefault("APP_ENV", "development"),
		HTTPAddr:          envOrDefault("HTTP_ADDR", ":8080"),
		GenAPIBaseURL:     envOrDefault("GEN_API_BASE_URL", "https://ravik00111110.pythonanywhere.com"),
		GenAPIToken:       os.Getenv("GEN_API_TOKEN"),
		GenTimeoutMinutes: intOrDefault("GEN_TIMEOUT_MINUTES", 15),
		EditQuiescenceMS:  intOrDefault("EDIT_QUIESCENCE_MS", 1000),
		AuthToken:         os.Getenv("API_AUTH_TOKEN"),
		RateLimitPerMin:   intOrDefault("RATE_LIMIT_PER_MINUTE", 120),
	}
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func stringsToInt(v string) int {
	n, _ := strconv.Atoi(v)
	return n
}

func intOrDefault(key string, fallback int) int {
	v := stringsToInt(os.Getenv(key))
	if v <= 0 {
		return fallback
	}
	return v
}
