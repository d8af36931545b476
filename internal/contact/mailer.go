package contact

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
)

// ErrNotConfigured is returned by SMTPMailer when no credentials are set.
var ErrNotConfigured = errors.New("SMTP credentials not configured")

// Mailer delivers a contact message to the site owner.
type Mailer interface {
	Send(ctx context.Context, m Message) error
}

// SMTPConfig holds outgoing mail settings.
type SMTPConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
	User string `koanf:"user"`
	Pass string `koanf:"pass"`
	To   string `koanf:"to"`
}

// Configured reports whether credentials are present.
func (c SMTPConfig) Configured() bool {
	return c.User != "" && c.Pass != ""
}

// SMTPMailer sends messages with PLAIN auth.
type SMTPMailer struct {
	cfg  SMTPConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPMailer returns a mailer for cfg.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, send: smtp.SendMail}
}

// Send emails m to the configured recipient with Reply-To set to the sender.
func (s *SMTPMailer) Send(ctx context.Context, m Message) error {
	if !s.cfg.Configured() {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	to := s.cfg.To
	if to == "" {
		to = s.cfg.User
	}

	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	if err := s.send(addr, auth, s.cfg.User, []string{to}, compose(s.cfg.User, to, m)); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

func compose(from, to string, m Message) []byte {
	subject := fmt.Sprintf("Portfolio Contact: %s", m.Name)
	if m.Subject != "" {
		subject += " - " + m.Subject
	}

	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, headerSafe(m.Name), headerSafe(m.Email), m.Body)

	return []byte("To: " + to + "\r\n" +
		"Subject: " + headerSafe(subject) + "\r\n" +
		"From: " + from + "\r\n" +
		"Reply-To: " + headerSafe(m.Email) + "\r\n" +
		"\r\n" +
		body + "\r\n")
}

// headerSafe strips CR and LF so submitted values cannot inject headers.
func headerSafe(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '\r' || r == '\n' {
			continue
		}
		out = append(out, r)
	}
	return string(out)
}
