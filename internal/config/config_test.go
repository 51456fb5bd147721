package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("BASE_URL", "")
	t.Setenv("CORS_ORIGIN", "")
	t.Setenv("BACKEND_API_URL", "")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("SESSION_MAX_AGE", "")
	t.Setenv("GOOGLE_CLIENT_ID", "")
	t.Setenv("GOOGLE_CLIENT_SECRET", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "3000" {
		t.Errorf("Port = %q, want 3000", cfg.Server.Port)
	}
	if cfg.Server.BaseURL != "http://localhost:3000" {
		t.Errorf("BaseURL = %q, want http://localhost:3000", cfg.Server.BaseURL)
	}
	if cfg.Backend.URL != "http://localhost:5000/api/v1" {
		t.Errorf("Backend.URL = %q, want http://localhost:5000/api/v1", cfg.Backend.URL)
	}
	if cfg.Session.MaxAge != 24*time.Hour {
		t.Errorf("Session.MaxAge = %v, want 24h", cfg.Session.MaxAge)
	}
	if cfg.Google.Enabled() {
		t.Error("Google.Enabled() = true with no credentials")
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v, want info/json", cfg.Logging)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("BASE_URL", "https://money.example.com")
	t.Setenv("CORS_ORIGIN", "")
	t.Setenv("BACKEND_API_URL", "https://api.example.com/api/v1")
	t.Setenv("SESSION_MAX_AGE", "3600")
	t.Setenv("GOOGLE_CLIENT_ID", "client-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "client-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "8081" {
		t.Errorf("Port = %q, want 8081", cfg.Server.Port)
	}
	// CORS origin falls back to the base URL
	if cfg.Server.CORSOrigin != "https://money.example.com" {
		t.Errorf("CORSOrigin = %q, want base URL", cfg.Server.CORSOrigin)
	}
	if cfg.Session.MaxAge != time.Hour {
		t.Errorf("Session.MaxAge = %v, want 1h", cfg.Session.MaxAge)
	}
	if !cfg.Google.Enabled() {
		t.Error("Google.Enabled() = false with credentials set")
	}
}

func TestLoad_InvalidMaxAgeFallsBack(t *testing.T) {
	t.Setenv("SESSION_MAX_AGE", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Session.MaxAge != 24*time.Hour {
		t.Errorf("Session.MaxAge = %v, want 24h fallback", cfg.Session.MaxAge)
	}
}
