// Package contact handles contact form submissions.
package contact

import (
	"errors"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// Form is a contact form submission.
type Form struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Subject string `json:"subject" form:"subject"`
	Message string `json:"message" form:"message"`
}

// Normalize trims surrounding whitespace from every field.
func (f *Form) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Subject = strings.TrimSpace(f.Subject)
	f.Message = strings.TrimSpace(f.Message)
}

// Validate validates the form. Subject is optional.
func (f Form) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.Required.Error("Name is required")),
		validation.Field(&f.Email,
			validation.Required.Error("Email is required"),
			validation.Match(emailPattern).Error("Email is invalid"),
		),
		validation.Field(&f.Message, validation.Required.Error("Message is required")),
	)
}

// FieldErrors flattens a validation error into field -> message. It returns
// nil if err is not a validation error.
func FieldErrors(err error) map[string]string {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for field, e := range verrs {
		out[field] = e.Error()
	}
	return out
}

// Message is a stored submission.
type Message struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject,omitempty"`
	Body      string    `json:"message"`
	Delivered bool      `json:"delivered"`
	CreatedAt time.Time `json:"createdAt"`
}
