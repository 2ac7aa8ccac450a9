package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"APP_ADDR", "SQLITE_PATH", "MIGRATIONS_DIR", "SHEET_WEBHOOK_URL", "WEBHOOK_TIMEOUT",
		"CLICK_LOCATION_TIMEOUT", "PHOTO_LOCATION_TIMEOUT", "MAX_PHOTO_BYTES", "SESSION_TTL",
		"COOKIE_SECURE", "PROGRAM_PERIOD", "TIMEZONE", "OPERATOR_KEY_HASH", "BRIDGE_KEY_HASH",
	} {
		old, had := os.LookupEnv(k)
		os.Unsetenv(k)
		t.Cleanup(func() {
			if had {
				os.Setenv(k, old)
			} else {
				os.Unsetenv(k)
			}
		})
	}
}

func missingEnvFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoadRequiresWebhook(t *testing.T) {
	clearEnv(t)
	if _, err := Load(missingEnvFile(t)); err == nil {
		t.Fatalf("expected error for missing SHEET_WEBHOOK_URL")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("SHEET_WEBHOOK_URL", "https://sheets.example.com/exec")

	cfg, err := Load(missingEnvFile(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.SQLitePath != "enrollment.db" {
		t.Fatalf("unexpected defaults: addr=%q path=%q", cfg.Addr, cfg.SQLitePath)
	}
	if cfg.WebhookTimeout != 30*time.Second || cfg.ClickLocationTimeout != 5*time.Second || cfg.PhotoLocationTimeout != 10*time.Second {
		t.Fatalf("unexpected timeouts: %+v", cfg)
	}
	if cfg.MaxPhotoBytes != 10<<20 {
		t.Fatalf("expected 10MB photo limit, got %d", cfg.MaxPhotoBytes)
	}
	if cfg.ProgramPeriod != "December 2025" {
		t.Fatalf("expected default program period, got %q", cfg.ProgramPeriod)
	}
	loc, err := cfg.Location()
	if err != nil {
		t.Fatalf("location: %v", err)
	}
	if loc.String() != "Asia/Kolkata" {
		t.Fatalf("expected Asia/Kolkata, got %s", loc)
	}
}

func TestLoadReadsEnvFileWithoutOverriding(t *testing.T) {
	clearEnv(t)
	envPath := filepath.Join(t.TempDir(), ".env")
	body := "SHEET_WEBHOOK_URL=https://file.example.com/exec\nAPP_ADDR=:9090\nCLICK_LOCATION_TIMEOUT=3s\n"
	if err := os.WriteFile(envPath, []byte(body), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("APP_ADDR", ":7070")

	cfg, err := Load(envPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.WebhookURL != "https://file.example.com/exec" {
		t.Fatalf("expected webhook from file, got %q", cfg.WebhookURL)
	}
	if cfg.Addr != ":7070" {
		t.Fatalf("expected process env to win, got %q", cfg.Addr)
	}
	if cfg.ClickLocationTimeout != 3*time.Second {
		t.Fatalf("expected 3s click timeout, got %v", cfg.ClickLocationTimeout)
	}
}

func TestValidateRejectsNonsense(t *testing.T) {
	base := Config{
		SQLitePath:           "x.db",
		WebhookURL:           "https://sheets.example.com/exec",
		WebhookTimeout:       time.Second,
		ClickLocationTimeout: time.Second,
		PhotoLocationTimeout: time.Second,
		MaxPhotoBytes:        1,
		SessionTTL:           time.Hour,
		TimeZone:             "UTC",
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("expected base config to validate: %v", err)
	}

	cases := map[string]func(c *Config){
		"relative url":   func(c *Config) { c.WebhookURL = "/exec" },
		"zero timeout":   func(c *Config) { c.ClickLocationTimeout = 0 },
		"no photo bytes": func(c *Config) { c.MaxPhotoBytes = 0 },
		"bad zone":       func(c *Config) { c.TimeZone = "Mars/Olympus" },
	}
	for name, mutate := range cases {
		c := base
		mutate(&c)
		if err := c.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}
