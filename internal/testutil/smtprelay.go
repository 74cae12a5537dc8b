// Package testutil provides in-process fakes shared by package tests.
package testutil

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"net/textproto"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// RelayMessage is one message accepted by an SMTPRelay.
type RelayMessage struct {
	From string
	To   []string
	Data string
}

// Parts decodes the multipart body and returns each part keyed by its media type.
func (m RelayMessage) Parts() (map[string]string, error) {
	msg, err := mail.ReadMessage(strings.NewReader(m.Data))
	if err != nil {
		return nil, err
	}
	_, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}
	parts := make(map[string]string)
	mr := multipart.NewReader(msg.Body, params["boundary"])
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			return parts, nil
		}
		if err != nil {
			return nil, err
		}
		mediaType, _, _ := mime.ParseMediaType(p.Header.Get("Content-Type"))
		body, err := io.ReadAll(p)
		if err != nil {
			return nil, err
		}
		parts[mediaType] = string(body)
	}
}

// Header returns a top-level header of the message.
func (m RelayMessage) Header(key string) string {
	msg, err := mail.ReadMessage(strings.NewReader(m.Data))
	if err != nil {
		return ""
	}
	return msg.Header.Get(key)
}

// SMTPRelay is a minimal SMTP server that requires STARTTLS and AUTH PLAIN.
// It listens on 127.0.0.1 with a certificate trusted by RootCAs.
type SMTPRelay struct {
	Host    string
	Port    int
	User    string
	Pass    string
	RootCAs *x509.CertPool

	ln        net.Listener
	tlsConfig *tls.Config

	mu          sync.Mutex
	messages    []RelayMessage
	connections int
}

// NewSMTPRelay starts a relay accepting user/pass and stops it on test cleanup.
func NewSMTPRelay(t testing.TB, user, pass string) *SMTPRelay {
	t.Helper()

	// httptest's certificate is valid for 127.0.0.1.
	certSrv := httptest.NewUnstartedServer(http.NotFoundHandler())
	certSrv.StartTLS()
	t.Cleanup(certSrv.Close)

	pool := x509.NewCertPool()
	pool.AddCert(certSrv.Certificate())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("smtp relay listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	addr := ln.Addr().(*net.TCPAddr)
	r := &SMTPRelay{
		Host:      "127.0.0.1",
		Port:      addr.Port,
		User:      user,
		Pass:      pass,
		RootCAs:   pool,
		ln:        ln,
		tlsConfig: &tls.Config{Certificates: certSrv.TLS.Certificates},
	}
	go r.acceptLoop()
	return r
}

// Addr returns host:port of the relay.
func (r *SMTPRelay) Addr() string {
	return net.JoinHostPort(r.Host, strconv.Itoa(r.Port))
}

// Messages returns the messages accepted so far.
func (r *SMTPRelay) Messages() []RelayMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]RelayMessage(nil), r.messages...)
}

// Connections returns how many TCP connections the relay has accepted.
func (r *SMTPRelay) Connections() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.connections
}

func (r *SMTPRelay) acceptLoop() {
	for {
		conn, err := r.ln.Accept()
		if err != nil {
			return
		}
		r.mu.Lock()
		r.connections++
		r.mu.Unlock()
		go r.serve(conn)
	}
}

func (r *SMTPRelay) serve(conn net.Conn) {
	defer conn.Close()

	tp := textproto.NewConn(conn)
	_ = tp.PrintfLine("220 relay.test ESMTP")

	var (
		secure bool
		authed bool
		msg    RelayMessage
	)
	for {
		line, err := tp.ReadLine()
		if err != nil {
			return
		}
		verb, arg, _ := strings.Cut(line, " ")
		switch strings.ToUpper(verb) {
		case "EHLO", "HELO":
			if secure {
				_ = tp.PrintfLine("250-relay.test")
				_ = tp.PrintfLine("250 AUTH PLAIN")
			} else {
				_ = tp.PrintfLine("250-relay.test")
				_ = tp.PrintfLine("250 STARTTLS")
			}
		case "STARTTLS":
			_ = tp.PrintfLine("220 ready to start TLS")
			tlsConn := tls.Server(conn, r.tlsConfig)
			if err := tlsConn.Handshake(); err != nil {
				return
			}
			tp = textproto.NewConn(tlsConn)
			secure = true
		case "AUTH":
			if !secure {
				_ = tp.PrintfLine("530 must issue STARTTLS first")
				continue
			}
			if r.checkPlain(arg) {
				authed = true
				_ = tp.PrintfLine("235 authentication succeeded")
			} else {
				_ = tp.PrintfLine("535 authentication credentials invalid")
			}
		case "MAIL":
			if !authed {
				_ = tp.PrintfLine("530 authentication required")
				continue
			}
			msg = RelayMessage{From: trimAddr(arg)}
			_ = tp.PrintfLine("250 ok")
		case "RCPT":
			msg.To = append(msg.To, trimAddr(arg))
			_ = tp.PrintfLine("250 ok")
		case "DATA":
			_ = tp.PrintfLine("354 end data with <CR><LF>.<CR><LF>")
			lines, err := tp.ReadDotLines()
			if err != nil {
				return
			}
			msg.Data = strings.Join(lines, "\r\n")
			r.mu.Lock()
			r.messages = append(r.messages, msg)
			r.mu.Unlock()
			_ = tp.PrintfLine("250 queued")
		case "QUIT":
			_ = tp.PrintfLine("221 bye")
			return
		default:
			_ = tp.PrintfLine("502 command not implemented")
		}
	}
}

func (r *SMTPRelay) checkPlain(arg string) bool {
	mech, initial, _ := strings.Cut(arg, " ")
	if !strings.EqualFold(mech, "PLAIN") {
		return false
	}
	raw, err := base64.StdEncoding.DecodeString(initial)
	if err != nil {
		return false
	}
	fields := strings.Split(string(raw), "\x00")
	return len(fields) == 3 && fields[1] == r.User && fields[2] == r.Pass
}

// trimAddr turns "FROM:<a@b.c>" or "TO:<a@b.c>" into "a@b.c".
func trimAddr(arg string) string {
	_, addr, _ := strings.Cut(arg, ":")
	addr = strings.TrimSpace(addr)
	if i := strings.Index(addr, ">"); i >= 0 {
		addr = addr[:i]
	}
	return strings.TrimPrefix(addr, "<")
}
