// Package mailer delivers notification emails through an SMTP relay or the
// Resend API.
//
// Both transports implement [Sender]. A sender that lacks the settings it needs
// returns a [*ConfigurationError] without touching the network; any failure once
// delivery has started is reported as a [*DeliveryError]. Neither error ever
// carries the relay password.
package mailer

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
)

// Sender defines the minimal interface that email providers must implement.
type Sender interface {
	// Send delivers an email message. Empty From and To fall back to the
	// sender's configured defaults.
	Send(ctx context.Context, email *Email) error
}

// Email represents a fully-prepared email message ready for sending.
type Email struct {
	Subject string   // Email subject
	HTML    string   // HTML body content
	Text    string   // Plain text alternative
	From    string   // Override default sender
	ReplyTo string   // Reply-to address
	To      []string // Override default recipient
}

// Recipient formats a name and email into RFC 5322 address format.
// Returns "Name <email>" if name is provided, otherwise just email.
func Recipient(name, email string) string {
	if name == "" {
		return email
	}
	return (&mail.Address{Name: name, Address: email}).String()
}

// envelopeAddress extracts the bare address used in SMTP MAIL/RCPT commands.
func envelopeAddress(s string) string {
	if addr, err := mail.ParseAddress(s); err == nil {
		return addr.Address
	}
	return strings.TrimSpace(s)
}

func resolve(email *Email, defaultFrom, defaultTo string) (from string, to []string) {
	from = email.From
	if from == "" {
		from = defaultFrom
	}
	to = email.To
	if len(to) == 0 && defaultTo != "" {
		to = []string{defaultTo}
	}
	return from, to
}

func validateEmail(email *Email) error {
	if email == nil || email.Subject == "" {
		return fmt.Errorf("%w: missing subject", ErrInvalidEmail)
	}
	if email.HTML == "" && email.Text == "" {
		return fmt.Errorf("%w: missing body", ErrInvalidEmail)
	}
	return nil
}
