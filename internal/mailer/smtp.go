package mailer

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"net"
	"net/smtp"
	"strconv"
	"time"
)

// SMTPConfig holds relay settings for SMTPSender.
type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string // defaults to User
	To   string // default recipient
}

// SMTPSender implements Sender over an authenticated STARTTLS SMTP session.
// Each Send opens one connection and makes a single attempt.
type SMTPSender struct {
	cfg     SMTPConfig
	rootCAs *x509.CertPool
	dial    func(ctx context.Context, network, addr string) (net.Conn, error)
	now     func() time.Time
}

// SMTPOption configures an SMTPSender.
type SMTPOption func(*SMTPSender)

// WithRootCAs sets the certificate pool used to verify the relay.
// Default: the host's root CA set.
func WithRootCAs(pool *x509.CertPool) SMTPOption {
	return func(s *SMTPSender) {
		s.rootCAs = pool
	}
}

// WithDialer replaces the function used to open the TCP connection.
func WithDialer(dial func(ctx context.Context, network, addr string) (net.Conn, error)) SMTPOption {
	return func(s *SMTPSender) {
		if dial != nil {
			s.dial = dial
		}
	}
}

// NewSMTPSender creates an SMTPSender. Port 0 means 587.
func NewSMTPSender(cfg SMTPConfig, opts ...SMTPOption) *SMTPSender {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.From == "" {
		cfg.From = cfg.User
	}
	s := &SMTPSender{
		cfg:  cfg,
		dial: (&net.Dialer{Timeout: 30 * time.Second}).DialContext,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send implements Sender.
func (s *SMTPSender) Send(ctx context.Context, email *Email) error {
	if missing := s.missing(); len(missing) > 0 {
		return &ConfigurationError{Missing: missing, msg: msgSMTPNotConfigured}
	}
	if err := validateEmail(email); err != nil {
		return err
	}
	from, to := resolve(email, s.cfg.From, s.cfg.To)
	if len(to) == 0 {
		return &ConfigurationError{Missing: []string{"EMAIL_TO"}, msg: msgRecipientMissing}
	}

	msg, err := buildMessage(from, to, email, s.now())
	if err != nil {
		return newDeliveryError("smtp compose", err)
	}

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	conn, err := s.dial(ctx, "tcp", addr)
	if err != nil {
		return newDeliveryError("smtp connect", err, s.cfg.Pass)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	// Unblock pending reads and writes once ctx is done.
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now())
	})
	defer stop()

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return newDeliveryError("smtp connect", err, s.cfg.Pass)
	}
	defer c.Close()

	tlsConfig := &tls.Config{
		ServerName: s.cfg.Host,
		RootCAs:    s.rootCAs,
		MinVersion: tls.VersionTLS12,
	}
	if err := c.StartTLS(tlsConfig); err != nil {
		return newDeliveryError("smtp starttls", err, s.cfg.Pass)
	}
	if err := c.Auth(smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)); err != nil {
		return newDeliveryError("smtp auth", err, s.cfg.Pass)
	}
	if err := c.Mail(envelopeAddress(from)); err != nil {
		return newDeliveryError("smtp send", err, s.cfg.Pass)
	}
	for _, rcpt := range to {
		if err := c.Rcpt(envelopeAddress(rcpt)); err != nil {
			return newDeliveryError("smtp send", err, s.cfg.Pass)
		}
	}
	w, err := c.Data()
	if err != nil {
		return newDeliveryError("smtp send", err, s.cfg.Pass)
	}
	if _, err := w.Write(msg); err != nil {
		return newDeliveryError("smtp send", err, s.cfg.Pass)
	}
	if err := w.Close(); err != nil {
		return newDeliveryError("smtp send", err, s.cfg.Pass)
	}
	// The relay has accepted the message; a failed QUIT does not undo that.
	_ = c.Quit()
	return nil
}

func (s *SMTPSender) missing() []string {
	var missing []string
	if s.cfg.Host == "" {
		missing = append(missing, "EMAIL_HOST")
	}
	if s.cfg.User == "" {
		missing = append(missing, "EMAIL_USER")
	}
	if s.cfg.Pass == "" {
		missing = append(missing, "EMAIL_PASS")
	}
	return missing
}
