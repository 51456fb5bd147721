package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server Configuration
	Server ServerConfig

	// Backend API Configuration
	Backend BackendConfig

	// Session Configuration
	Session SessionConfig

	// Google OAuth Configuration
	Google GoogleConfig

	// Logging Configuration
	Logging LoggingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port       string
	BaseURL    string // Externally visible URL, used for OAuth redirect URIs
	CORSOrigin string
}

// BackendConfig holds the backend REST API configuration
type BackendConfig struct {
	URL string // Base URL of the backend API, e.g. http://localhost:5000/api/v1
}

// SessionConfig holds session cookie configuration
type SessionConfig struct {
	Secret string // HS256 signing secret for the session cookie; empty disables sign-in
	MaxAge time.Duration
}

// GoogleConfig holds Google OAuth configuration.
// OAuth sign-in is disabled when ClientID or ClientSecret is empty.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // json, console
}

// Enabled reports whether Google OAuth sign-in is configured.
func (g GoogleConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:" + port
	}

	corsOrigin := os.Getenv("CORS_ORIGIN")
	if corsOrigin == "" {
		corsOrigin = baseURL
	}

	// Backend API base URL - allow override for dev
	backendURL := os.Getenv("BACKEND_API_URL")
	if backendURL == "" {
		backendURL = "http://localhost:5000/api/v1"
	}

	// Session max age in seconds - default 24 hours
	maxAge := 24 * time.Hour
	if raw := os.Getenv("SESSION_MAX_AGE"); raw != "" {
		if seconds, err := strconv.Atoi(raw); err == nil && seconds > 0 {
			maxAge = time.Duration(seconds) * time.Second
		}
	}

	// Logging configuration - defaults suitable for production
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	logFormat := os.Getenv("LOG_FORMAT")
	if logFormat == "" {
		logFormat = "json"
	}

	return &Config{
		Server: ServerConfig{
			Port:       port,
			BaseURL:    baseURL,
			CORSOrigin: corsOrigin,
		},
		Backend: BackendConfig{
			URL: backendURL,
		},
		Session: SessionConfig{
			Secret: os.Getenv("SESSION_SECRET"),
			MaxAge: maxAge,
		},
		Google: GoogleConfig{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		},
		Logging: LoggingConfig{
			Level:  logLevel,
			Format: logFormat,
		},
	}, nil
}
