// Copyright (c) 2026 ChurchOS. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. A local '.env' file is
read first (via 'joho/godotenv') so developers do not have to export variables by
hand; values already present in the environment always win.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, handlers) via constructors.
  - Zero Hidden State: No global variables are used to store config.
  - Fail Fast: Every missing required variable is reported in a single error.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/netip"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// # Configuration Schema

// Config holds all runtime configuration for the ChurchOS API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`
	AppVersion  string `env:"APP_VERSION"  envDefault:"1.0.0"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL"`

	// NavigationCacheTTL bounds how long a memoized navigation result lives.
	NavigationCacheTTL time.Duration `env:"NAV_CACHE_TTL" envDefault:"10m"`

	// Bearer token verification (tokens are issued by the identity provider)
	JWTPubKeyPath string `env:"JWT_PUBLIC_KEY_PATH"`
	JWTIssuer     string `env:"JWT_ISSUER" envDefault:"churchos.app"`

	// Client-side identity provider settings, re-served by /client-config
	Firebase Firebase `envPrefix:"FIREBASE_"`

	// Upstream ministry services polled by the feed relay
	BackendAPIURL     string `env:"BACKEND_API_URL"      envDefault:"http://localhost:8000"`
	BackendAPIURLProd string `env:"BACKEND_API_URL_PROD" envDefault:"https://api.churchos.app"`
	FeedsEnabled      bool   `env:"FEEDS_ENABLED"        envDefault:"true"`

	// Payments (publishable keys only)
	StripePublishableKey     string `env:"STRIPE_PUBLISHABLE_KEY"`
	StripePublishableKeyProd string `env:"STRIPE_PUBLISHABLE_KEY_PROD"`

	// Analytics
	GoogleAnalyticsID string `env:"GOOGLE_ANALYTICS_ID"`
	MixpanelToken     string `env:"MIXPANEL_TOKEN"`

	Features Features

	// Localization
	DefaultLocale    string   `env:"DEFAULT_LOCALE"    envDefault:"en"`
	SupportedLocales []string `env:"SUPPORTED_LOCALES" envDefault:"en,de,fr,twi,hausa,yoruba,he,ar" envSeparator:","`

	// Cross-Origin Resource Sharing
	ExtraOrigins []string `env:"EXTRA_ORIGINS" envSeparator:","`

	// TrustedProxies lists the CIDRs (or bare addresses) of reverse proxies
	// allowed to set X-Real-IP / X-Forwarded-For. Empty trusts no one.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`
}

// Firebase is the public web SDK configuration.
type Firebase struct {
	APIKey            string `env:"API_KEY"             json:"apiKey"`
	AuthDomain        string `env:"AUTH_DOMAIN"         json:"authDomain"`
	ProjectID         string `env:"PROJECT_ID"          json:"projectId"`
	StorageBucket     string `env:"STORAGE_BUCKET"      json:"storageBucket"`
	MessagingSenderID string `env:"MESSAGING_SENDER_ID" json:"messagingSenderId"`
	AppID             string `env:"APP_ID"              json:"appId"`
}

// Features are the boolean feature flags shared with the browser shell.
type Features struct {
	AICharacters  bool `env:"ENABLE_AI_CHARACTERS"  json:"ai_characters"`
	Livestreaming bool `env:"ENABLE_LIVESTREAMING"  json:"livestreaming"`
	XRHolyLand    bool `env:"ENABLE_XR_HOLYLAND"    json:"xr_holy_land"`
	MobileControl bool `env:"ENABLE_MOBILE_CONTROL" json:"mobile_control"`
	Analytics     bool `env:"ENABLE_ANALYTICS"      json:"analytics"`
	Billing       bool `env:"ENABLE_BILLING"        json:"billing"`
}

// # Validation

// ValidationError reports every configuration problem found by [Config.Validate].
type ValidationError struct {
	// Missing lists the names of required variables that are unset or empty.
	Missing []string
	// Invalid lists human-readable descriptions of malformed values.
	Invalid []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required environment variables: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid values: "+strings.Join(e.Invalid, "; "))
	}
	return "config: " + strings.Join(parts, "; ")
}

// Validate checks the required subset and cross-field rules.
//
// It returns a [*ValidationError] naming every problem, or nil.
func (c *Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"FIREBASE_API_KEY", c.Firebase.APIKey},
		{"FIREBASE_AUTH_DOMAIN", c.Firebase.AuthDomain},
		{"FIREBASE_PROJECT_ID", c.Firebase.ProjectID},
		{"FIREBASE_STORAGE_BUCKET", c.Firebase.StorageBucket},
		{"FIREBASE_MESSAGING_SENDER_ID", c.Firebase.MessagingSenderID},
		{"FIREBASE_APP_ID", c.Firebase.AppID},
		{"DATABASE_URL", c.DatabaseURL},
		{"REDIS_URL", c.RedisURL},
		{"JWT_PUBLIC_KEY_PATH", c.JWTPubKeyPath},
	}

	validationErr := &ValidationError{}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			validationErr.Missing = append(validationErr.Missing, field.name)
		}
	}

	if !slices.Contains(c.SupportedLocales, c.DefaultLocale) {
		validationErr.Invalid = append(validationErr.Invalid,
			fmt.Sprintf("DEFAULT_LOCALE %q is not listed in SUPPORTED_LOCALES", c.DefaultLocale))
	}

	if c.NavigationCacheTTL <= 0 {
		validationErr.Invalid = append(validationErr.Invalid, "NAV_CACHE_TTL must be positive")
	}

	for _, raw := range c.TrustedProxies {
		if raw = strings.TrimSpace(raw); raw == "" {
			continue
		}
		if _, err := parseProxy(raw); err != nil {
			validationErr.Invalid = append(validationErr.Invalid, fmt.Sprintf("TRUSTED_PROXIES entry %q is not a CIDR or address", raw))
		}
	}

	if len(validationErr.Missing) == 0 && len(validationErr.Invalid) == 0 {
		return nil
	}
	return validationErr
}

// # Configuration Loading

// Load reads an optional .env file, parses environment variables into a
// [Config] struct and validates it.
func Load() (*Config, error) {

	// A missing .env file is the normal case outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env file: %w", err)
	}

	return Parse()
}

// Parse maps the current environment onto a [Config] and validates it,
// without touching the filesystem.
func Parse() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// ActiveBackendAPIURL returns the upstream base URL for the current environment.
func (c *Config) ActiveBackendAPIURL() string {
	if c.IsProduction() {
		return c.BackendAPIURLProd
	}
	return c.BackendAPIURL
}

// ActiveStripeKey returns the publishable Stripe key for the current environment.
func (c *Config) ActiveStripeKey() string {
	if c.IsProduction() {
		return c.StripePublishableKeyProd
	}
	return c.StripePublishableKey
}

// AllowedOrigins returns the extra CORS origins with blanks removed.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range c.ExtraOrigins {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// TrustedProxyPrefixes returns the parsed TrustedProxies. Entries rejected by
// [Config.Validate] are skipped.
func (c *Config) TrustedProxyPrefixes() []netip.Prefix {
	var prefixes []netip.Prefix
	for _, raw := range c.TrustedProxies {
		if prefix, err := parseProxy(strings.TrimSpace(raw)); err == nil {
			prefixes = append(prefixes, prefix)
		}
	}
	return prefixes
}

// parseProxy accepts "10.0.0.0/8" as well as a single address such as "10.0.0.7".
func parseProxy(raw string) (netip.Prefix, error) {
	if strings.Contains(raw, "/") {
		prefix, err := netip.ParsePrefix(raw)
		return prefix.Masked(), err
	}
	addr, err := netip.ParseAddr(raw)
	if err != nil {
		return netip.Prefix{}, err
	}
	return netip.PrefixFrom(addr, addr.BitLen()), nil
}
