// Package config loads the enrollment server settings.
//
// Sources, highest priority first: process environment, an optional .env
// file in the working directory, then the defaults below.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is read once at startup and not modified afterwards.
type Config struct {
	Addr          string
	SQLitePath    string
	MigrationsDir string // empty uses the migrations compiled into the binary

	WebhookURL     string
	WebhookTimeout time.Duration

	ClickLocationTimeout time.Duration
	PhotoLocationTimeout time.Duration
	MaxPhotoBytes        int64

	SessionTTL    time.Duration
	CookieSecure  bool
	ProgramPeriod string
	TimeZone      string

	OperatorKeyHash string // enables the ledger export when set
	BridgeKeyHash   string // when set, host bridge pushes must carry X-Bridge-Key
}

// Load reads the configuration and validates it. envFiles are optional .env
// paths; when none are given ".env" is tried.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// godotenv.Load never overrides variables already set in the environment.
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := &Config{
		Addr:          getEnvOrDefault("APP_ADDR", ":8080"),
		SQLitePath:    getEnvOrDefault("SQLITE_PATH", "enrollment.db"),
		MigrationsDir: os.Getenv("MIGRATIONS_DIR"),

		WebhookURL:     strings.TrimSpace(os.Getenv("SHEET_WEBHOOK_URL")),
		WebhookTimeout: getEnvDuration("WEBHOOK_TIMEOUT", 30*time.Second),

		ClickLocationTimeout: getEnvDuration("CLICK_LOCATION_TIMEOUT", 5*time.Second),
		PhotoLocationTimeout: getEnvDuration("PHOTO_LOCATION_TIMEOUT", 10*time.Second),
		MaxPhotoBytes:        getEnvInt64("MAX_PHOTO_BYTES", 10<<20),

		SessionTTL:    getEnvDuration("SESSION_TTL", 12*time.Hour),
		CookieSecure:  getEnvBool("COOKIE_SECURE", false),
		ProgramPeriod: getEnvOrDefault("PROGRAM_PERIOD", "December 2025"),
		TimeZone:      getEnvOrDefault("TIMEZONE", "Asia/Kolkata"),

		OperatorKeyHash: os.Getenv("OPERATOR_KEY_HASH"),
		BridgeKeyHash:   os.Getenv("BRIDGE_KEY_HASH"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects missing required values and non-positive limits.
func (c *Config) Validate() error {
	if c.WebhookURL == "" {
		return errors.New("SHEET_WEBHOOK_URL environment variable is required")
	}
	u, err := url.Parse(c.WebhookURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("SHEET_WEBHOOK_URL must be an absolute http(s) URL, got %q", c.WebhookURL)
	}
	if c.SQLitePath == "" {
		return errors.New("SQLITE_PATH cannot be empty")
	}

	for name, d := range map[string]time.Duration{
		"WEBHOOK_TIMEOUT":        c.WebhookTimeout,
		"CLICK_LOCATION_TIMEOUT": c.ClickLocationTimeout,
		"PHOTO_LOCATION_TIMEOUT": c.PhotoLocationTimeout,
		"SESSION_TTL":            c.SessionTTL,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %v", name, d)
		}
	}
	if c.MaxPhotoBytes < 1 {
		return fmt.Errorf("MAX_PHOTO_BYTES must be at least 1, got %d", c.MaxPhotoBytes)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves TimeZone, used for click logs and photo timestamps.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go duration strings like "5s" or "1h30m".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
