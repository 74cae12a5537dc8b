// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ContactPolicy decides how the contact endpoint reports a failed notification.
type ContactPolicy string

const (
	// PolicyGraceful acknowledges the submission even when email delivery fails.
	PolicyGraceful ContactPolicy = "graceful"
	// PolicyStrict surfaces delivery failures as a server error.
	PolicyStrict ContactPolicy = "strict"
)

// Config holds all runtime configuration values. It is built once at startup
// and passed to the components that need it.
type Config struct {
	Port          string
	LogLevel      string
	ContactPolicy ContactPolicy
	// ContactRateLimit is the number of contact submissions allowed per IP per minute.
	ContactRateLimit int
	// TrustedProxyCount is the number of reverse proxies whose X-Forwarded-For
	// entries are trusted when identifying clients.
	TrustedProxyCount int
	Email             EmailConfig
	Database          DatabaseConfig
}

// EmailConfig configures the outbound notifier.
type EmailConfig struct {
	Host string
	Port int
	User string
	Pass string
	// From defaults to User.
	From string
	// To is EMAIL_TO, falling back to PERSONAL_EMAIL. There is no built-in default.
	To           string
	ResendAPIKey string
	Timeout      time.Duration
}

// DatabaseConfig configures the lead store.
type DatabaseConfig struct {
	URL         string
	Name        string
	Timeout     time.Duration
	AutoMigrate bool
}

// Load reads configuration values from the process environment.
func Load() (Config, error) {
	var errs []error

	emailPort, err := intEnv("EMAIL_PORT", 587)
	errs = append(errs, err)
	emailTimeout, err := durationEnv("EMAIL_TIMEOUT", 15*time.Second)
	errs = append(errs, err)
	dbTimeout, err := durationEnv("DATABASE_TIMEOUT", 5*time.Second)
	errs = append(errs, err)
	rateLimit, err := intEnv("CONTACT_RATE_LIMIT", 10)
	errs = append(errs, err)
	proxies, err := countEnv("TRUSTED_PROXY_COUNT", 0)
	errs = append(errs, err)
	autoMigrate, err := boolEnv("DATABASE_AUTO_MIGRATE", false)
	errs = append(errs, err)
	policy, err := parsePolicy(os.Getenv("CONTACT_POLICY"))
	errs = append(errs, err)

	port := getenv("PORT", "8000")
	if _, err := strconv.Atoi(port); err != nil {
		errs = append(errs, fmt.Errorf("invalid PORT %q", port))
	}

	user := os.Getenv("EMAIL_USER")
	cfg := Config{
		Port:              port,
		LogLevel:          os.Getenv("LOG_LEVEL"),
		ContactPolicy:     policy,
		ContactRateLimit:  rateLimit,
		TrustedProxyCount: proxies,
		Email: EmailConfig{
			Host:         os.Getenv("EMAIL_HOST"),
			Port:         emailPort,
			User:         user,
			Pass:         os.Getenv("EMAIL_PASS"),
			From:         getenv("EMAIL_FROM", user),
			To:           getenv("EMAIL_TO", os.Getenv("PERSONAL_EMAIL")),
			ResendAPIKey: os.Getenv("RESEND_API_KEY"),
			Timeout:      emailTimeout,
		},
		Database: DatabaseConfig{
			URL:         os.Getenv("DATABASE_URL"),
			Name:        os.Getenv("DATABASE_NAME"),
			Timeout:     dbTimeout,
			AutoMigrate: autoMigrate,
		},
	}
	if err := errors.Join(errs...); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback, fmt.Errorf("invalid %s %q: want a positive integer", key, s)
	}
	return n, nil
}

func countEnv(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fallback, fmt.Errorf("invalid %s %q: want a non-negative integer", key, s)
	}
	return n, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback, fmt.Errorf("invalid %s %q: want a positive duration such as 10s", key, s)
	}
	return d, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s %q", key, s)
	}
	return b, nil
}

func parsePolicy(s string) (ContactPolicy, error) {
	switch ContactPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyGraceful:
		return PolicyGraceful, nil
	case PolicyStrict:
		return PolicyStrict, nil
	default:
		return PolicyGraceful, fmt.Errorf("invalid CONTACT_POLICY %q: want graceful or strict", s)
	}
}
