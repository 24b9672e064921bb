package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	DBUrl           string
	TwilioAuthToken string
	OllamaURL       string
	OllamaModel     string
	AppEnv          string
	EnableLiveFeed  bool
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	dbUrl, exists := os.LookupEnv("DB_URL")
	if !exists || dbUrl == "" {
		return nil, fmt.Errorf("DB_URL is required")
	}

	return &Config{
		Port:            getEnv("PORT", "8080"),
		DBUrl:           dbUrl,
		TwilioAuthToken: getEnv("TWILIO_AUTH_TOKEN", ""),
		OllamaURL:       getEnv("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel:     getEnv("OLLAMA_MODEL", "gemma3:latest"),
		AppEnv:          normalizeEnv(getEnv("APP_ENV", "production")),
		EnableLiveFeed:  getEnvBool("ENABLE_LIVE_FEED", true),
	}, nil
}

// SignatureCheckEnabled reports whether inbound webhook signatures should be
// validated. An empty auth token disables the check for local development.
func (c *Config) SignatureCheckEnabled() bool {
	return c != nil && c.TwilioAuthToken != ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}

	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func normalizeEnv(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dev", "develop", "development", "local":
		return "development"
	case "prod", "production":
		return "production"
	case "stage", "staging":
		return "staging"
	case "test", "testing":
		return "test"
	default:
		return strings.ToLower(strings.TrimSpace(value))
	}
}
