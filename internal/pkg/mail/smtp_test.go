package mail

import (
	"context"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sent struct {
	addr string
	from string
	to   []string
	msg  string
}

func newTestSMTP(t *testing.T, from string) (*SMTP, *sent) {
	t.Helper()

	s, err := NewSMTP(SMTPConfig{Host: "localhost", Port: 1025, From: from})
	require.NoError(t, err)

	got := &sent{}
	s.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		got.addr, got.from, got.to, got.msg = addr, from, to, string(msg)
		return nil
	}
	s.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	return s, got
}

func TestNewSMTP(t *testing.T) {
	_, err := NewSMTP(SMTPConfig{Host: "localhost"})
	assert.ErrorIs(t, err, ErrSMTPHostPortRequired)
}

func TestSMTP_Send(t *testing.T) {
	s, got := newTestSMTP(t, "no-reply@otpgate.local")

	err := s.Send(context.Background(), Message{
		To:       []string{"user@example.com"},
		Bcc:      []string{"audit@example.com"},
		Subject:  "Your OTP Code\r\nBcc: evil@example.com",
		TextBody: "Your login code is 123456",
	})
	require.NoError(t, err)

	assert.Equal(t, "localhost:1025", got.addr)
	assert.Equal(t, "no-reply@otpgate.local", got.from)
	assert.Equal(t, []string{"user@example.com", "audit@example.com"}, got.to)
	assert.Contains(t, got.msg, "Subject: Your OTP CodeBcc: evil@example.com\r\n")
	assert.Contains(t, got.msg, "Content-Type: text/plain; charset=UTF-8")
	assert.Contains(t, got.msg, "Date: Fri, 02 Jan 2026 03:04:05 +0000")
	assert.True(t, strings.HasSuffix(got.msg, "\r\n\r\nYour login code is 123456"))
	assert.NotContains(t, got.msg, "audit@example.com")
}

func TestSMTP_SendErrors(t *testing.T) {
	s, _ := newTestSMTP(t, "")

	assert.ErrorIs(t, s.Send(context.Background(), Message{}), ErrSMTPNoRecipients)
	assert.ErrorIs(t, s.Send(context.Background(), Message{To: []string{"a@b.co"}}), ErrSMTPNoSender)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Send(ctx, Message{To: []string{"a@b.co"}}), context.Canceled)
}

func TestBuildBody_Multipart(t *testing.T) {
	body, ct := buildBody(Message{TextBody: "text", HTMLBody: "<b>html</b>"})

	assert.True(t, strings.HasPrefix(ct, "multipart/alternative; boundary=otpgate-"))
	assert.Contains(t, body, "text/plain")
	assert.Contains(t, body, "<b>html</b>")
}
