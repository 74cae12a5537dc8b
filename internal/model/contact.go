package model

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// MaxNameLength is the maximum number of characters accepted for a name.
	MaxNameLength = 100
	// MaxMessageLength is the maximum number of characters accepted for a message.
	MaxMessageLength = 5000
	// MaxDeliveryErrorLength bounds the error text stored on a lead.
	MaxDeliveryErrorLength = 300
)

// ContactSubmission is a validated contact form submission.
// Construct it with NewContactSubmission; the zero value is not valid.
type ContactSubmission struct {
	Name    string
	Email   string
	Message string
}

// NewContactSubmission validates the raw form fields and returns a submission.
// The returned error is a *ValidationError naming the first offending field.
func NewContactSubmission(name, email, message string) (ContactSubmission, error) {
	switch n := utf8.RuneCountInString(name); {
	case n == 0:
		return ContactSubmission{}, &ValidationError{Field: "name", Reason: "String should have at least 1 character"}
	case n > MaxNameLength:
		return ContactSubmission{}, &ValidationError{Field: "name", Reason: "String should have at most 100 characters"}
	}

	if err := validateEmail(email); err != nil {
		return ContactSubmission{}, err
	}

	switch n := utf8.RuneCountInString(message); {
	case n == 0:
		return ContactSubmission{}, &ValidationError{Field: "message", Reason: "String should have at least 1 character"}
	case n > MaxMessageLength:
		return ContactSubmission{}, &ValidationError{Field: "message", Reason: "String should have at most 5000 characters"}
	}

	return ContactSubmission{Name: name, Email: email, Message: message}, nil
}

// validateEmail accepts a bare RFC 5322 address with a dotted domain name.
// Display names ("Ada <ada@example.com>") and domain literals
// ("ada@[127.0.0.1]") are rejected.
func validateEmail(email string) error {
	invalid := &ValidationError{Field: "email", Reason: "value is not a valid email address"}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Name != "" || addr.Address != email {
		return invalid
	}
	at := strings.LastIndex(email, "@")
	domain := email[at+1:]
	if strings.HasPrefix(domain, "[") || !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return invalid
	}
	return nil
}

// DeliveryOutcome is the result of one notification attempt.
type DeliveryOutcome struct {
	Delivered bool
	// Error is a human-readable failure reason, empty on success.
	Error string
}

// ContactLead is the persisted record of one submission and its delivery outcome.
// The document ID is assigned by the store.
type ContactLead struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	Delivered bool      `json:"delivered"`
	Error     *string   `json:"error"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Truncate returns s cut to at most n characters.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
