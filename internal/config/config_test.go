package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DSN", "LOG_FILE", "TEMPLATE_DIR", "STATIC_DIR", "CORS_ORIGINS", "COOKIE_SECURE", "SESSION_IDLE"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Port != "8080" || cfg.DBDSN != defaultDSN || cfg.TemplateDir != "./web/templates" || cfg.CookieSecure || cfg.SessionIdle != 12*time.Hour {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DSN", ":memory:")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("CORS_ORIGINS", "https://shop.example")
	cfg := Load()
	if cfg.Port != "9090" || cfg.DBDSN != ":memory:" || !cfg.CookieSecure || cfg.CORSOrigins != "https://shop.example" {
		t.Fatalf("env not applied: %+v", cfg)
	}
}

func TestLoadBadSessionIdleFallsBack(t *testing.T) {
	t.Setenv("SESSION_IDLE", "soon")
	if cfg := Load(); cfg.SessionIdle != 12*time.Hour {
		t.Fatalf("want 12h fallback, got %v", cfg.SessionIdle)
	}
	t.Setenv("SESSION_IDLE", "30m")
	if cfg := Load(); cfg.SessionIdle != 30*time.Minute {
		t.Fatalf("want 30m, got %v", cfg.SessionIdle)
	}
}
