package internal

import (
	"log/slog"

	"github.com/Zachkp/folio/internal/contact"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	logger *slog.Logger
	mailer contact.Mailer
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithLogger replaces the JSON stdout logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *application) {
		a.logger = l
	}
}

// WithMailer replaces the SMTP mailer built from config.
func WithMailer(m contact.Mailer) Option {
	return func(a *application) {
		a.mailer = m
	}
}
