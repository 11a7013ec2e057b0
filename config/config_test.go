package config_test

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/ErlanBelekov/blog-api/config"
)

const testSecret = "config-test-secret-at-least-32-chars"

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/blog")
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("CODE_HMAC_SECRET", testSecret)
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Env != "local" {
		t.Errorf("Env = %q, want local", cfg.Env)
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d, want 12", cfg.BcryptCost)
	}
	if cfg.CodeTTL != 5*time.Minute {
		t.Errorf("CodeTTL = %v, want 5m", cfg.CodeTTL)
	}
	if cfg.SweepSchedule != "@every 1m" {
		t.Errorf("SweepSchedule = %q", cfg.SweepSchedule)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("CODE_HMAC_SECRET", testSecret)

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for missing DATABASE_URL")
	}
}

func TestLoad_ShortJWTSecret(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SECRET", "short")

	_, err := config.Load()
	if err == nil || !strings.Contains(err.Error(), "invalid config") {
		t.Fatalf("want invalid config error, got %v", err)
	}
}

func TestLoad_ProductionRequiresResend(t *testing.T) {
	setRequired(t)
	t.Setenv("ENV", "production")

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error when RESEND_* is unset in production")
	}

	t.Setenv("RESEND_API_KEY", "re_test")
	t.Setenv("RESEND_FROM", "blog@example.com")
	if _, err := config.Load(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSlogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
	}
	for in, want := range cases {
		cfg := &config.Config{LogLevel: in}
		if got := cfg.SlogLevel(); got != want {
			t.Errorf("SlogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
