package mailer

import (
	"context"

	"github.com/resend/resend-go/v2"
)

// ResendSender implements Sender using the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
	to     string
}

// NewResendSender creates a Resend sender. from and to are the defaults
// applied when an Email leaves them empty.
func NewResendSender(client *resend.Client, from, to string) *ResendSender {
	return &ResendSender{client: client, from: from, to: to}
}

// Send implements Sender.
func (s *ResendSender) Send(ctx context.Context, email *Email) error {
	if s.client == nil || s.client.ApiKey == "" {
		return &ConfigurationError{Missing: []string{"RESEND_API_KEY"}, msg: msgResendNotConfigured}
	}
	if err := validateEmail(email); err != nil {
		return err
	}
	from, to := resolve(email, s.from, s.to)
	if from == "" {
		return &ConfigurationError{Missing: []string{"EMAIL_FROM"}, msg: msgResendNotConfigured}
	}
	if len(to) == 0 {
		return &ConfigurationError{Missing: []string{"EMAIL_TO"}, msg: msgRecipientMissing}
	}

	req := &resend.SendEmailRequest{
		From:    from,
		To:      to,
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
		ReplyTo: email.ReplyTo,
	}
	if _, err := s.client.Emails.SendWithContext(ctx, req); err != nil {
		return newDeliveryError("resend api", err, s.client.ApiKey)
	}
	return nil
}
