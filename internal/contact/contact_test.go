package contact

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/smtp"
	"strings"
	"testing"

	"github.com/Zachkp/folio/internal/store"
)

type fakeMailer struct {
	sent []Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, m Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m)
	return nil
}

func setupService(t *testing.T, mailer Mailer) (*Service, *Store) {
	t.Helper()
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	st := NewStore(db)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(st, mailer, log), st
}

func TestFormValidate(t *testing.T) {
	tests := []struct {
		name string
		form Form
		want map[string]string
	}{
		{"valid", Form{Name: "Ada", Email: "ada@example.com", Message: "hi"}, nil},
		{"subject optional", Form{Name: "Ada", Email: "ada@example.com", Subject: "", Message: "hi"}, nil},
		{"all missing", Form{}, map[string]string{
			"name":    "Name is required",
			"email":   "Email is required",
			"message": "Message is required",
		}},
		{"bad email", Form{Name: "Ada", Email: "ada@example", Message: "hi"}, map[string]string{
			"email": "Email is invalid",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FieldErrors(tt.form.Validate())
			if len(got) != len(tt.want) {
				t.Fatalf("errors = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("%s = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestFieldErrorsIgnoresOtherErrors(t *testing.T) {
	if FieldErrors(errors.New("boom")) != nil {
		t.Error("plain error should not produce field errors")
	}
	if FieldErrors(nil) != nil {
		t.Error("nil should not produce field errors")
	}
}

func TestSubmitStoresAndSends(t *testing.T) {
	mailer := &fakeMailer{}
	svc, st := setupService(t, mailer)
	ctx := context.Background()

	m, err := svc.Submit(ctx, Form{Name: "  Ada ", Email: "ada@example.com", Subject: "Hello", Message: "Hi there"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if m.ID == "" || !m.Delivered || m.Name != "Ada" {
		t.Errorf("message = %+v", m)
	}
	if len(mailer.sent) != 1 || mailer.sent[0].Body != "Hi there" {
		t.Errorf("sent = %+v", mailer.sent)
	}

	stored, err := st.List(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 1 || !stored[0].Delivered || stored[0].Subject != "Hello" {
		t.Errorf("stored = %+v", stored)
	}
}

func TestSubmitValidationStoresNothing(t *testing.T) {
	mailer := &fakeMailer{}
	svc, st := setupService(t, mailer)
	ctx := context.Background()

	_, err := svc.Submit(ctx, Form{Name: "   ", Email: "x", Message: "hi"})
	errs := FieldErrors(err)
	if errs["name"] == "" || errs["email"] == "" {
		t.Fatalf("errors = %v", errs)
	}

	stored, _ := st.List(ctx, 10)
	if len(stored) != 0 || len(mailer.sent) != 0 {
		t.Errorf("stored=%d sent=%d, want 0", len(stored), len(mailer.sent))
	}
}

func TestSubmitDeliveryFailureKeepsMessage(t *testing.T) {
	svc, st := setupService(t, &fakeMailer{err: ErrNotConfigured})
	ctx := context.Background()

	m, err := svc.Submit(ctx, Form{Name: "Ada", Email: "ada@example.com", Message: "hi"})
	if !errors.Is(err, ErrDelivery) {
		t.Fatalf("err = %v, want ErrDelivery", err)
	}
	if m == nil || m.Delivered {
		t.Fatalf("message = %+v", m)
	}

	stored, _ := st.List(ctx, 10)
	if len(stored) != 1 || stored[0].Delivered {
		t.Errorf("stored = %+v", stored)
	}
}

func TestMarkDeliveredUnknown(t *testing.T) {
	_, st := setupService(t, &fakeMailer{})
	if err := st.MarkDelivered(context.Background(), "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSMTPMailerNotConfigured(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com", Port: 587})
	if err := m.Send(context.Background(), Message{}); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}

func TestSMTPMailerComposes(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com", Port: 587, User: "me@example.com", Pass: "secret"})

	var (
		gotAddr string
		gotTo   []string
		gotMsg  string
	)
	m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, string(msg)
		return nil
	}

	err := m.Send(context.Background(), Message{
		Name:  "Ada",
		Email: "ada@example.com\r\nBcc: victim@example.com",
		Body:  "Hello",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if gotAddr != "smtp.example.com:587" {
		t.Errorf("addr = %q", gotAddr)
	}
	if len(gotTo) != 1 || gotTo[0] != "me@example.com" {
		t.Errorf("to = %v, want fallback to user", gotTo)
	}
	if !strings.Contains(gotMsg, "Subject: Portfolio Contact: Ada\r\n") {
		t.Errorf("message missing subject:\n%s", gotMsg)
	}
	if strings.Contains(gotMsg, "\r\nBcc:") {
		t.Errorf("header injection not stripped:\n%s", gotMsg)
	}
}
