// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the server configuration from MVS_ environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage drivers
const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"MVS_DB_PATH" envDefault:"./data/mvs.db"`
	SessionSecret string `env:"MVS_SESSION_SECRET,required"`
	ServerHost    string `env:"MVS_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"MVS_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"MVS_ENV" envDefault:"development"`
	LogLevel      string `env:"MVS_LOG_LEVEL" envDefault:"info"`
	SiteURL       string `env:"MVS_SITE_URL"`                     // Public base URL for the sitemap; derived per request when empty
	NoIndex       bool   `env:"MVS_NO_INDEX" envDefault:"false"` // Block crawlers (staging)

	// Media storage
	StorageDriver string `env:"MVS_STORAGE_DRIVER" envDefault:"local"`
	UploadsDir    string `env:"MVS_UPLOADS_DIR" envDefault:"./uploads"`
	UploadsURL    string `env:"MVS_UPLOADS_URL" envDefault:"/uploads"`
	MaxUploadMB   int    `env:"MVS_MAX_UPLOAD_MB" envDefault:"20"`
	S3            S3     `envPrefix:"MVS_S3_"`

	// Cache configuration
	RedisURL    string `env:"MVS_REDIS_URL"`                      // Optional Redis URL for a shared counter and cache
	CachePrefix string `env:"MVS_CACHE_PREFIX" envDefault:"mvs:"` // Redis key prefix

	// Bootstrap admin, created on first start when no user exists
	AdminEmail    string `env:"MVS_ADMIN_EMAIL"`
	AdminPassword string `env:"MVS_ADMIN_PASSWORD"`

	// Footer visitor counter
	VisitorBase     int64         `env:"MVS_VISITOR_BASE" envDefault:"100982"`
	VisitorTick     time.Duration `env:"MVS_VISITOR_TICK" envDefault:"1m"`
	VisitorDebounce time.Duration `env:"MVS_VISITOR_DEBOUNCE" envDefault:"30m"`
}

// S3 holds the S3-compatible object storage settings.
type S3 struct {
	Endpoint  string `env:"ENDPOINT"`
	Region    string `env:"REGION" envDefault:"auto"`
	Bucket    string `env:"BUCKET"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	PublicURL string `env:"PUBLIC_URL"`
	PathStyle bool   `env:"PATH_STYLE" envDefault:"true"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// MaxUploadBytes returns the per-file upload limit in bytes.
func (c Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// HasBootstrapAdmin reports whether an admin account should be seeded.
func (c Config) HasBootstrapAdmin() bool {
	return c.AdminEmail != "" && c.AdminPassword != ""
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// MinSessionSecretLength is the minimum required length for the session secret.
// AES-256 requires 32 bytes minimum for secure encryption.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Warn about low-entropy secrets
	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("MVS_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

// Validate checks values that env tags cannot express.
func (c *Config) Validate() error {
	if len(c.SessionSecret) < MinSessionSecretLength {
		return fmt.Errorf("MVS_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(c.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if c.SessionSecret != weak {
			continue
		}
		if !c.IsDevelopment() {
			return errors.New("MVS_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
		slog.Warn("MVS_SESSION_SECRET is a known default value; never deploy it")
	}

	switch c.StorageDriver {
	case StorageLocal:
	case StorageS3:
		if c.S3.Bucket == "" || c.S3.AccessKey == "" || c.S3.SecretKey == "" {
			return errors.New("MVS_STORAGE_DRIVER=s3 requires MVS_S3_BUCKET, MVS_S3_ACCESS_KEY and MVS_S3_SECRET_KEY")
		}
	default:
		return fmt.Errorf("MVS_STORAGE_DRIVER must be %q or %q, got %q", StorageLocal, StorageS3, c.StorageDriver)
	}

	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("MVS_MAX_UPLOAD_MB must be positive, got %d", c.MaxUploadMB)
	}
	if c.VisitorTick < time.Second {
		return fmt.Errorf("MVS_VISITOR_TICK must be at least 1s, got %s", c.VisitorTick)
	}
	if c.VisitorDebounce < 0 {
		return fmt.Errorf("MVS_VISITOR_DEBOUNCE must not be negative, got %s", c.VisitorDebounce)
	}
	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		return errors.New("MVS_ADMIN_EMAIL and MVS_ADMIN_PASSWORD must be set together")
	}
	return nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
