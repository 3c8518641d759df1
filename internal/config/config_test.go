package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("SYNC_INTERVAL_SECONDS", "")
	t.Setenv("PAYMENT_VERIFICATION_TTL_SECONDS", "")
	t.Setenv("ADMIN_EMAIL", "")
	t.Setenv("JWT_SECRET", "")

	cfg := FromEnv()
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("expected default addr, got %q", cfg.HTTPAddr)
	}
	if cfg.SyncInterval != 5*time.Second {
		t.Fatalf("expected 5s sync interval, got %s", cfg.SyncInterval)
	}
	if cfg.PaymentTTL != 3*time.Minute {
		t.Fatalf("expected 3m payment ttl, got %s", cfg.PaymentTTL)
	}
	if cfg.AdminEnabled() {
		t.Fatalf("admin must be disabled without credentials")
	}
	if cfg.JWTSecret != "" || cfg.SessionsEnabled() {
		t.Fatalf("expected no default jwt secret, got %q", cfg.JWTSecret)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("SYNC_INTERVAL_SECONDS", "30")
	t.Setenv("SYNC_FALLBACK_MIRROR", "true")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("ADMIN_EMAIL", "ops@example.com")
	t.Setenv("ADMIN_PASSWORD", "secret")
	t.Setenv("JWT_SECRET", "from-env")

	cfg := FromEnv()
	if cfg.SyncInterval != 30*time.Second {
		t.Fatalf("expected 30s, got %s", cfg.SyncInterval)
	}
	if !cfg.SyncFallbackMirror {
		t.Fatalf("expected mirror fallback enabled")
	}
	if cfg.RedisDB != 3 {
		t.Fatalf("expected redis db 3, got %d", cfg.RedisDB)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins %v", cfg.CORSOrigins)
	}
	if !cfg.AdminEnabled() {
		t.Fatalf("expected admin enabled")
	}
	if cfg.JWTSecret != "from-env" || !cfg.SessionsEnabled() {
		t.Fatalf("expected jwt secret from env, got %q", cfg.JWTSecret)
	}
}

func TestEnvDurationIgnoresGarbage(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "soon")
	if got := envDuration("SHUTDOWN_TIMEOUT_SECONDS", time.Second); got != time.Second {
		t.Fatalf("expected fallback, got %s", got)
	}
}
