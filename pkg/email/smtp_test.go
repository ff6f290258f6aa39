package email_test

import (
	"bufio"
	"context"
	"net"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/feedbackmail/pkg/email"
)

// fakeSMTP is a minimal SMTP server accepting a single session at a time.
type fakeSMTP struct {
	ln net.Listener

	mu    sync.Mutex
	from  string
	rcpts []string
	data  string
	auth  bool
}

func startFakeSMTP(t *testing.T) *fakeSMTP {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := &fakeSMTP{ln: ln}
	t.Cleanup(func() { _ = ln.Close() })
	go s.serve()
	return s
}

func (s *fakeSMTP) hostPort(t *testing.T) (string, string) {
	t.Helper()
	host, port, err := net.SplitHostPort(s.ln.Addr().String())
	require.NoError(t, err)
	return host, port
}

func (s *fakeSMTP) serve() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.handle(conn)
	}
}

func (s *fakeSMTP) handle(conn net.Conn) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(5 * time.Second))

	tp := textproto.NewConn(conn)
	r := textproto.NewReader(bufio.NewReader(conn))
	_ = tp.PrintfLine("220 localhost ESMTP")

	for {
		line, err := r.ReadLine()
		if err != nil {
			return
		}
		cmd := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(cmd, "EHLO"):
			_ = tp.PrintfLine("250-localhost")
			_ = tp.PrintfLine("250 AUTH PLAIN")
		case strings.HasPrefix(cmd, "AUTH"):
			s.mu.Lock()
			s.auth = true
			s.mu.Unlock()
			_ = tp.PrintfLine("235 2.7.0 Authentication successful")
		case strings.HasPrefix(cmd, "MAIL FROM:"):
			s.mu.Lock()
			s.from = strings.Trim(line[len("MAIL FROM:"):], "<> ")
			s.mu.Unlock()
			_ = tp.PrintfLine("250 OK")
		case strings.HasPrefix(cmd, "RCPT TO:"):
			s.mu.Lock()
			s.rcpts = append(s.rcpts, strings.Trim(line[len("RCPT TO:"):], "<> "))
			s.mu.Unlock()
			_ = tp.PrintfLine("250 OK")
		case cmd == "DATA":
			_ = tp.PrintfLine("354 End data with <CR><LF>.<CR><LF>")
			body, err := r.ReadDotBytes()
			if err != nil {
				return
			}
			s.mu.Lock()
			s.data = string(body)
			s.mu.Unlock()
			_ = tp.PrintfLine("250 OK queued")
		case cmd == "QUIT":
			_ = tp.PrintfLine("221 Bye")
			return
		default:
			_ = tp.PrintfLine("250 OK")
		}
	}
}

func TestSMTPProvider_Send(t *testing.T) {
	t.Parallel()

	srv := startFakeSMTP(t)
	host, port := srv.hostPort(t)

	p, err := email.NewSMTPProvider(email.ProviderConfig{
		"host":      host,
		"port":      port,
		"from":      "noreply@example.com",
		"from_name": "Feedback Bot",
		"username":  "user",
		"password":  "secret",
	}, testRenderer())
	require.NoError(t, err)

	payload := validPayload("ana@example.com")
	payload.CC = []string{"cc@example.com"}
	payload.BCC = []string{"hidden@example.com"}
	payload.ReplyTo = "support@example.com"
	require.NoError(t, p.Send(context.Background(), payload))

	srv.mu.Lock()
	defer srv.mu.Unlock()
	assert.True(t, srv.auth)
	assert.Equal(t, "noreply@example.com", srv.from)
	assert.Equal(t, []string{"ana@example.com", "cc@example.com", "hidden@example.com"}, srv.rcpts)
	assert.Contains(t, srv.data, "From: Feedback Bot <noreply@example.com>")
	assert.Contains(t, srv.data, "Cc: cc@example.com")
	assert.Contains(t, srv.data, "Reply-To: support@example.com")
	assert.Contains(t, srv.data, "<p>Hello ANA</p>")
	assert.NotContains(t, srv.data, "hidden@example.com")
}

func TestSMTPProvider_Verify(t *testing.T) {
	t.Parallel()

	t.Run("reachable server", func(t *testing.T) {
		t.Parallel()
		srv := startFakeSMTP(t)
		host, port := srv.hostPort(t)
		p, err := email.NewSMTPProvider(email.ProviderConfig{"host": host, "port": port, "from": "a@example.com"}, testRenderer())
		require.NoError(t, err)
		assert.NoError(t, p.(email.Verifier).Verify(context.Background()))
	})

	t.Run("unreachable server", func(t *testing.T) {
		t.Parallel()
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		host, port, _ := net.SplitHostPort(ln.Addr().String())
		require.NoError(t, ln.Close())

		p, err := email.NewSMTPProvider(email.ProviderConfig{"host": host, "port": port, "from": "a@example.com"}, testRenderer())
		require.NoError(t, err)

		err = p.(email.Verifier).Verify(context.Background())
		require.ErrorIs(t, err, email.ErrDeliveryFailed)
		var de *email.DeliveryError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "smtp", de.Vendor)
	})
}
