package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   Server
	Database Database
	CORS     CORS
	Quotes   Quotes
	Import   Import
}

// Server holds server-specific configuration
type Server struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// Database holds database-specific configuration
type Database struct {
	Path string
}

// CORS holds CORS-specific configuration
type CORS struct {
	AllowedOrigins []string
}

// Quotes holds market-data configuration: the quote API endpoint, how long a
// cached quote stays fresh, and the cron schedule for background refreshes.
type Quotes struct {
	APIBaseURL      string
	CacheTTL        time.Duration
	RefreshSchedule string
}

// Import holds configuration for the external import source. FernetKey is the
// base64 key used to encrypt stored access tokens at rest.
type Import struct {
	FernetKey string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	cacheTTL, err := time.ParseDuration(getEnv("QUOTE_CACHE_TTL", "60m"))
	if err != nil {
		return nil, fmt.Errorf("invalid QUOTE_CACHE_TTL: %w", err)
	}

	config := &Config{
		Server: Server{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: Database{
			Path: getEnv("DB_PATH", "./data/ledger.db"),
		},
		CORS: CORS{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
		Quotes: Quotes{
			APIBaseURL:      getEnv("QUOTE_API_BASE_URL", "https://nepseapi.surajrimal.dev"),
			CacheTTL:        cacheTTL,
			RefreshSchedule: getEnv("QUOTE_REFRESH_SCHEDULE", "@every 30m"),
		},
		Import: Import{
			FernetKey: getEnv("IMPORT_FERNET_KEY", ""),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
