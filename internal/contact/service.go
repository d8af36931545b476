package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Zachkp/folio/internal/store"
)

// ErrDelivery wraps mailer failures. The message is stored regardless.
var ErrDelivery = errors.New("message delivery failed")

// Store persists contact messages.
type Store struct {
	db *store.DB
}

// NewStore returns a Store over db.
func NewStore(db *store.DB) *Store {
	return &Store{db: db}
}

// Save inserts m.
func (s *Store) Save(ctx context.Context, m Message) error {
	delivered := 0
	if m.Delivered {
		delivered = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (id, name, email, subject, message, delivered, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Name, m.Email, m.Subject, m.Body, delivered, store.FormatTime(m.CreatedAt))
	if err != nil {
		return fmt.Errorf("save message: %w", err)
	}
	return nil
}

// MarkDelivered flags a message as sent.
func (s *Store) MarkDelivered(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE messages SET delivered = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark delivered: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// List returns the most recent messages, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, subject, message, delivered, created_at
		FROM messages
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var (
			m         Message
			delivered int
			created   string
		)
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Body, &delivered, &created); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.Delivered = delivered != 0
		if m.CreatedAt, err = store.ParseTime(created); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Service validates, stores and delivers submissions.
type Service struct {
	store  *Store
	mailer Mailer
	log    *slog.Logger
	now    func() time.Time
}

// NewService creates a contact service.
func NewService(st *Store, mailer Mailer, log *slog.Logger) *Service {
	return &Service{store: st, mailer: mailer, log: log, now: time.Now}
}

// Submit validates f, stores it and emails it. Validation failures return a
// validation error (see FieldErrors) and nothing is stored. Mail failures
// return an error wrapping ErrDelivery along with the stored message.
func (s *Service) Submit(ctx context.Context, f Form) (*Message, error) {
	f.Normalize()
	if err := f.Validate(); err != nil {
		return nil, err
	}

	m := Message{
		ID:        uuid.NewString(),
		Name:      f.Name,
		Email:     f.Email,
		Subject:   f.Subject,
		Body:      f.Message,
		CreatedAt: s.now(),
	}
	if err := s.store.Save(ctx, m); err != nil {
		return nil, err
	}

	if err := s.mailer.Send(ctx, m); err != nil {
		s.log.Error("Error sending email",
			slog.String("message_id", m.ID),
			slog.String("error", err.Error()))
		return &m, fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	if err := s.store.MarkDelivered(ctx, m.ID); err != nil {
		s.log.Warn("mark delivered failed", slog.String("message_id", m.ID), slog.String("error", err.Error()))
	}
	m.Delivered = true
	s.log.Info("Email sent successfully", slog.String("message_id", m.ID))
	return &m, nil
}
