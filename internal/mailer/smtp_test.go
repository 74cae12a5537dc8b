package mailer_test

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/portfolio/backend/internal/mailer"
	"github.com/portfolio/backend/internal/testutil"
)

func testEmail() *mailer.Email {
	return &mailer.Email{
		Subject: "New portfolio contact",
		HTML:    "<p>Hi<br/>there</p>",
		Text:    "Hi\nthere",
		ReplyTo: "ada@example.com",
	}
}

func relaySender(relay *testutil.SMTPRelay, pass string) *mailer.SMTPSender {
	return mailer.NewSMTPSender(mailer.SMTPConfig{
		Host: relay.Host,
		Port: relay.Port,
		User: relay.User,
		Pass: pass,
		To:   "owner@example.com",
	}, mailer.WithRootCAs(relay.RootCAs))
}

func TestSMTPSender_Send_DeliversMultipart(t *testing.T) {
	t.Parallel()

	relay := testutil.NewSMTPRelay(t, "bot@example.com", "s3cret")
	sender := relaySender(relay, "s3cret")

	err := sender.Send(context.Background(), testEmail())
	require.NoError(t, err)

	msgs := relay.Messages()
	require.Len(t, msgs, 1)
	require.Equal(t, "bot@example.com", msgs[0].From)
	require.Equal(t, []string{"owner@example.com"}, msgs[0].To)
	require.Equal(t, "New portfolio contact", msgs[0].Header("Subject"))
	require.Equal(t, "bot@example.com", msgs[0].Header("From"))
	require.Equal(t, "ada@example.com", msgs[0].Header("Reply-To"))

	parts, err := msgs[0].Parts()
	require.NoError(t, err)
	// Quoted-printable text parts travel with CRLF line breaks.
	require.Equal(t, "Hi\nthere", strings.ReplaceAll(parts["text/plain"], "\r\n", "\n"))
	require.Contains(t, parts["text/html"], "Hi<br/>there")
}

func TestSMTPSender_Send_ExplicitFromAndTo(t *testing.T) {
	t.Parallel()

	relay := testutil.NewSMTPRelay(t, "bot@example.com", "s3cret")
	sender := mailer.NewSMTPSender(mailer.SMTPConfig{
		Host: relay.Host,
		Port: relay.Port,
		User: relay.User,
		Pass: "s3cret",
		From: "Portfolio <noreply@example.com>",
		To:   "owner@example.com",
	}, mailer.WithRootCAs(relay.RootCAs))

	email := testEmail()
	email.To = []string{"a@example.com", "b@example.com"}
	require.NoError(t, sender.Send(context.Background(), email))

	msgs := relay.Messages()
	require.Len(t, msgs, 1)
	require.Equal(t, "noreply@example.com", msgs[0].From)
	require.Equal(t, []string{"a@example.com", "b@example.com"}, msgs[0].To)
}

func TestSMTPSender_Send_NotConfigured(t *testing.T) {
	t.Parallel()

	tests := map[string]mailer.SMTPConfig{
		"no host": {User: "u", Pass: "p", To: "x@example.com"},
		"no user": {Host: "127.0.0.1", Pass: "p", To: "x@example.com"},
		"no pass": {Host: "127.0.0.1", User: "u", To: "x@example.com"},
		"no to":   {Host: "127.0.0.1", User: "u", Pass: "p"},
	}
	for name, cfg := range tests {
		cfg := cfg
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dialed := false
			sender := mailer.NewSMTPSender(cfg, mailer.WithDialer(func(ctx context.Context, network, addr string) (net.Conn, error) {
				dialed = true
				return nil, errors.New("unexpected dial")
			}))

			err := sender.Send(context.Background(), testEmail())
			require.Error(t, err)
			require.ErrorIs(t, err, mailer.ErrNotConfigured)

			var cerr *mailer.ConfigurationError
			require.ErrorAs(t, err, &cerr)
			require.NotEmpty(t, cerr.Missing)
			require.False(t, dialed, "no connection may be attempted without configuration")
		})
	}
}

func TestSMTPSender_Send_AuthFailureHidesPassword(t *testing.T) {
	t.Parallel()

	relay := testutil.NewSMTPRelay(t, "bot@example.com", "right-pass")
	sender := relaySender(relay, "wrong-pass")

	err := sender.Send(context.Background(), testEmail())
	require.Error(t, err)
	require.ErrorIs(t, err, mailer.ErrSendFailed)

	var derr *mailer.DeliveryError
	require.ErrorAs(t, err, &derr)
	require.Equal(t, "smtp auth", derr.Stage)
	require.NotContains(t, err.Error(), "wrong-pass")
	require.Empty(t, relay.Messages())
}

func TestSMTPSender_Send_UntrustedCertificate(t *testing.T) {
	t.Parallel()

	relay := testutil.NewSMTPRelay(t, "bot@example.com", "s3cret")
	// No WithRootCAs: the relay's self-signed certificate must be rejected.
	sender := mailer.NewSMTPSender(mailer.SMTPConfig{
		Host: relay.Host,
		Port: relay.Port,
		User: relay.User,
		Pass: "s3cret",
		To:   "owner@example.com",
	})

	err := sender.Send(context.Background(), testEmail())
	var derr *mailer.DeliveryError
	require.ErrorAs(t, err, &derr)
	require.Equal(t, "smtp starttls", derr.Stage)
	require.Empty(t, relay.Messages())
}

func TestSMTPSender_Send_ConnectFailure(t *testing.T) {
	t.Parallel()

	sender := mailer.NewSMTPSender(mailer.SMTPConfig{
		Host: "127.0.0.1",
		Port: 25,
		User: "u",
		Pass: "p",
		To:   "x@example.com",
	}, mailer.WithDialer(func(ctx context.Context, network, addr string) (net.Conn, error) {
		require.Equal(t, "127.0.0.1:25", addr)
		return nil, errors.New("connection refused")
	}))

	err := sender.Send(context.Background(), testEmail())
	var derr *mailer.DeliveryError
	require.ErrorAs(t, err, &derr)
	require.Equal(t, "smtp connect", derr.Stage)
	require.True(t, strings.HasPrefix(err.Error(), "smtp connect: "))
}

func TestSMTPSender_Send_HonoursContextDeadline(t *testing.T) {
	t.Parallel()

	// A server that accepts the connection but never greets.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })
	accepted := make(chan net.Conn, 1)
	go func() {
		if conn, err := ln.Accept(); err == nil {
			accepted <- conn
		}
	}()
	t.Cleanup(func() {
		select {
		case conn := <-accepted:
			_ = conn.Close()
		default:
		}
	})

	port := ln.Addr().(*net.TCPAddr).Port
	sender := mailer.NewSMTPSender(mailer.SMTPConfig{
		Host: "127.0.0.1", Port: port, User: "u", Pass: "p", To: "x@example.com",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	err = sender.Send(ctx, testEmail())
	require.ErrorIs(t, err, mailer.ErrSendFailed)
	require.Less(t, time.Since(start), 5*time.Second)
}

func TestSMTPSender_Send_InvalidEmail(t *testing.T) {
	t.Parallel()

	sender := mailer.NewSMTPSender(mailer.SMTPConfig{Host: "h", User: "u", Pass: "p", To: "x@example.com"})
	err := sender.Send(context.Background(), &mailer.Email{HTML: "<p>x</p>"})
	require.ErrorIs(t, err, mailer.ErrInvalidEmail)
}

func TestRecipient(t *testing.T) {
	t.Parallel()

	require.Equal(t, "ada@example.com", mailer.Recipient("", "ada@example.com"))
	require.Equal(t, `"Ada" <ada@example.com>`, mailer.Recipient("Ada", "ada@example.com"))
}
