package config

import (
	"fmt"
	"os"
	"time"
)

// Config carries every process-level setting. It is loaded once in main and
// passed explicitly to handlers and services; nothing else reads the
// environment.
type Config struct {
	Port        string
	DatabaseURL string

	// JWTSecret signs both session credentials and invitation tokens.
	JWTSecret     string
	SessionTTL    time.Duration
	InvitationTTL time.Duration

	// RequestTimeout bounds each request; store calls run under the request
	// context, so the deadline propagates into in-flight queries.
	RequestTimeout time.Duration

	ResendAPIKey string
	FromEmail    string
	FrontendURL  string

	UploadDir string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:           os.Getenv("PORT"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		SessionTTL:     24 * time.Hour,
		InvitationTTL:  180 * time.Second,
		RequestTimeout: 15 * time.Second,
		ResendAPIKey:   os.Getenv("RESEND_API_KEY"),
		FromEmail:      os.Getenv("FROM_EMAIL"),
		FrontendURL:    os.Getenv("FRONTEND_URL"),
		UploadDir:      os.Getenv("UPLOAD_DIR"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.FrontendURL == "" {
		cfg.FrontendURL = "http://localhost:3000"
	}
	if cfg.FromEmail == "" {
		cfg.FromEmail = "noreply@onboard.example.com"
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = "/tmp/uploads"
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	return cfg, nil
}
