package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/samiti")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Auth.JWTExpiry != 24*time.Hour {
		t.Fatalf("expected 24h expiry, got %s", cfg.Auth.JWTExpiry)
	}
	if cfg.Uploads.Dir != "uploads" {
		t.Fatalf("expected default upload dir, got %q", cfg.Uploads.Dir)
	}
	if cfg.Uploads.MaxBytes != 5<<20 {
		t.Fatalf("expected 5MB upload cap, got %d", cfg.Uploads.MaxBytes)
	}
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "secret")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is unset")
	}
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/samiti")
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when JWT_SECRET is unset")
	}
}

func TestGetEnvIntIgnoresGarbage(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")
	if got := getEnvInt("SERVER_PORT", 8080); got != 8080 {
		t.Fatalf("expected fallback 8080, got %d", got)
	}
}
