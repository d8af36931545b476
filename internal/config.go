package internal

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/Zachkp/folio/internal/contact"
)

// EnvPrefix is the prefix of environment variables overriding the config file.
const EnvPrefix = "FOLIO_"

// Config represents the application configuration.
type Config struct {
	LogLevel string         `koanf:"log_level"`
	HTTP     HTTPConfig     `koanf:"http"`
	SQLite   SQLiteConfig   `koanf:"sqlite"`
	Content  ContentConfig  `koanf:"content"`
	SMTP     SMTPConfig     `koanf:"smtp"`
	Visitors VisitorsConfig `koanf:"visitors"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
	); err != nil {
		return err
	}
	if err := c.HTTP.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.SMTP.Validate(); err != nil {
		return err
	}
	return c.Visitors.Validate()
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return l
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `koanf:"port"`
	// Mode is the gin mode: debug, release or test.
	Mode string `koanf:"mode"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.Mode, validation.In("debug", "release", "test")),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `koanf:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// ContentConfig points at the YAML file projects and skills are seeded from.
type ContentConfig struct {
	SeedPath string `koanf:"seed_path"`
	// Watch reseeds the database whenever the seed file changes.
	Watch bool `koanf:"watch"`
}

// SMTPConfig wraps contact.SMTPConfig for validation.
type SMTPConfig struct {
	contact.SMTPConfig `koanf:",squash"`
}

// Validate validates the SMTP configuration. Empty credentials are allowed;
// contact messages are then stored but not mailed.
func (c *SMTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.Host, validation.When(c.Configured(), validation.Required)),
	)
}

// VisitorsConfig controls visitor tracking.
type VisitorsConfig struct {
	Enabled       bool   `koanf:"enabled"`
	Salt          string `koanf:"salt"`
	RetentionDays int    `koanf:"retention_days"`
}

// Retention returns the retention period.
func (c *VisitorsConfig) Retention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

// Validate validates the visitors configuration.
func (c *VisitorsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.RetentionDays, validation.Min(0)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		HTTP: HTTPConfig{
			Port: 8080,
			Mode: "release",
		},
		SQLite: SQLiteConfig{
			Path: "./data/folio.db",
		},
		Content: ContentConfig{
			SeedPath: "./config/content.yaml",
		},
		SMTP: SMTPConfig{contact.SMTPConfig{
			Host: "smtp.gmail.com",
			Port: 587,
		}},
		Visitors: VisitorsConfig{
			Enabled:       true,
			RetentionDays: 365,
		},
	}
}
