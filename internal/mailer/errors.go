package mailer

import (
	"errors"
	"strings"
)

var (
	// ErrNotConfigured is matched by every *ConfigurationError.
	ErrNotConfigured = errors.New("mailer: not configured")

	// ErrSendFailed is matched by every *DeliveryError.
	ErrSendFailed = errors.New("mailer: failed to send email")

	// ErrInvalidEmail indicates the message itself is incomplete.
	ErrInvalidEmail = errors.New("mailer: invalid email")
)

const (
	msgSMTPNotConfigured   = "Email service is not configured on the server (set EMAIL_HOST, EMAIL_USER, EMAIL_PASS)."
	msgRecipientMissing    = "Email recipient is not configured on the server (set EMAIL_TO or PERSONAL_EMAIL)."
	msgResendNotConfigured = "Email service is not configured on the server (set RESEND_API_KEY and EMAIL_FROM)."
)

// ConfigurationError reports settings that must be present before any delivery
// is attempted.
type ConfigurationError struct {
	// Missing lists the environment variables that were empty.
	Missing []string
	msg     string
}

func (e *ConfigurationError) Error() string { return e.msg }

func (e *ConfigurationError) Is(target error) bool { return target == ErrNotConfigured }

// DeliveryError reports a failure while talking to the mail relay.
type DeliveryError struct {
	// Stage is the step that failed, such as "smtp connect" or "smtp auth".
	Stage string
	Err   error
	msg   string
}

func newDeliveryError(stage string, err error, secrets ...string) *DeliveryError {
	msg := err.Error()
	for _, s := range secrets {
		if s != "" {
			msg = strings.ReplaceAll(msg, s, "***")
		}
	}
	return &DeliveryError{Stage: stage, Err: err, msg: msg}
}

func (e *DeliveryError) Error() string {
	return e.Stage + ": " + e.msg
}

func (e *DeliveryError) Unwrap() []error { return []error{ErrSendFailed, e.Err} }
