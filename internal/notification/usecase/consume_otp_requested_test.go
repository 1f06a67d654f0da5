package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"github.com/shandysiswandi/otpgate/internal/pkg/idempotency"
	"github.com/shandysiswandi/otpgate/internal/pkg/mail"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

const testConfig = `
app:
  name: otpgate
mail:
  support_address: support@otpgate.test
modules:
  notification:
    dedupe_window_minutes: 10
    retry:
      base: 1ms
      cap: 2ms
      max_retries: 2
`

type fakeMail struct {
	mu       sync.Mutex
	failures int
	sent     []mail.Message
	calls    int
}

func (f *fakeMail) Send(_ context.Context, msg mail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.failures != 0 {
		f.failures--
		return errors.New("smtp: 421 service not available")
	}
	f.sent = append(f.sent, msg)
	return nil
}

type smsCall struct {
	phone string
	text  string
}

type fakeSms struct {
	mu   sync.Mutex
	sent []smsCall
}

func (f *fakeSms) Send(_ context.Context, phone, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sent = append(f.sent, smsCall{phone: phone, text: text})
	return nil
}

type fixture struct {
	uc   *Usecase
	mail *fakeMail
	sms  *fakeSms
	mr   *miniredis.Miniredis
}

func newFixture(t *testing.T, idem func(t *testing.T) (idempotency.Idempotency, *miniredis.Miniredis)) *fixture {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfig))
	require.NoError(t, err)
	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	f := &fixture{mail: &fakeMail{}, sms: &fakeSms{}}
	dep := Dependency{
		Config:    cfg,
		Clock:     clock.NewFrozen(testNow),
		Validator: v,
		RepoMail:  f.mail,
		RepoSms:   f.sms,
	}
	if idem != nil {
		dep.Idempotency, f.mr = idem(t)
	}
	f.uc = NewNotification(dep)

	return f
}

func withRedis(t *testing.T) (idempotency.Idempotency, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return idempotency.New(client, "test:"), mr
}

func emailInput(id string) ConsumeOtpRequestedInput {
	return ConsumeOtpRequestedInput{
		MessageID: id,
		Channel:   "email",
		Recipient: "user@example.com",
		Code:      "482913",
		Purpose:   "login",
		ExpiresAt: testNow.Add(5 * time.Minute),
	}
}

func TestConsumeOtpRequested_Email(t *testing.T) {
	f := newFixture(t, nil)

	require.NoError(t, f.uc.ConsumeOtpRequested(context.Background(), emailInput("")))

	require.Len(t, f.mail.sent, 1)
	msg := f.mail.sent[0]
	assert.Equal(t, []string{"user@example.com"}, msg.To)
	assert.Equal(t, "Your OTP Code", msg.Subject)
	assert.Equal(t, "Your Login code is 482913. It expires in 5 minutes.", msg.TextBody)
	assert.Contains(t, msg.HTMLBody, "482913")
	assert.Contains(t, msg.HTMLBody, "Your Login code is")
	assert.Contains(t, msg.HTMLBody, "5 minutes")
	assert.Contains(t, msg.HTMLBody, "support@otpgate.test")
	assert.Contains(t, msg.HTMLBody, "2026 otpgate")
	assert.Empty(t, f.sms.sent)
}

func TestConsumeOtpRequested_Sms(t *testing.T) {
	f := newFixture(t, nil)

	in := emailInput("")
	in.Channel = "sms"
	in.Recipient = "+6281234567890"
	in.Purpose = "signup"
	in.ExpiresAt = testNow.Add(30 * time.Second)

	require.NoError(t, f.uc.ConsumeOtpRequested(context.Background(), in))

	require.Len(t, f.sms.sent, 1)
	assert.Equal(t, "+6281234567890", f.sms.sent[0].phone)
	assert.Equal(t, "Sign Up code: 482913. Valid for 1 minute. Do not share it.", f.sms.sent[0].text)
	assert.Empty(t, f.mail.sent)
}

func TestConsumeOtpRequested_DropsInvalidAndExpired(t *testing.T) {
	tests := []struct {
		name string
		mut  func(in *ConsumeOtpRequestedInput)
	}{
		{name: "unknown channel", mut: func(in *ConsumeOtpRequestedInput) { in.Channel = "push" }},
		{name: "missing recipient", mut: func(in *ConsumeOtpRequestedInput) { in.Recipient = "" }},
		{name: "missing code", mut: func(in *ConsumeOtpRequestedInput) { in.Code = "" }},
		{name: "missing expiry", mut: func(in *ConsumeOtpRequestedInput) { in.ExpiresAt = time.Time{} }},
		{name: "expired", mut: func(in *ConsumeOtpRequestedInput) { in.ExpiresAt = testNow.Add(-time.Second) }},
		{name: "expires now", mut: func(in *ConsumeOtpRequestedInput) { in.ExpiresAt = testNow }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			in := emailInput("")
			tt.mut(&in)

			require.NoError(t, f.uc.ConsumeOtpRequested(context.Background(), in))
			assert.Zero(t, f.mail.calls)
			assert.Empty(t, f.sms.sent)
		})
	}
}

func TestConsumeOtpRequested_Retry(t *testing.T) {
	t.Run("recovers within the retry budget", func(t *testing.T) {
		f := newFixture(t, nil)
		f.mail.failures = 2

		require.NoError(t, f.uc.ConsumeOtpRequested(context.Background(), emailInput("")))
		assert.Equal(t, 3, f.mail.calls)
		assert.Len(t, f.mail.sent, 1)
	})

	t.Run("gives up after the last retry", func(t *testing.T) {
		f := newFixture(t, nil)
		f.mail.failures = -1

		err := f.uc.ConsumeOtpRequested(context.Background(), emailInput(""))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "421")
		assert.Equal(t, 3, f.mail.calls)
		assert.Empty(t, f.mail.sent)
	})
}

func TestConsumeOtpRequested_Idempotency(t *testing.T) {
	t.Run("redelivered message is sent once", func(t *testing.T) {
		f := newFixture(t, withRedis)
		ctx := context.Background()

		require.NoError(t, f.uc.ConsumeOtpRequested(ctx, emailInput("42")))
		require.NoError(t, f.uc.ConsumeOtpRequested(ctx, emailInput("42")))
		assert.Len(t, f.mail.sent, 1)

		state, err := f.mr.Get("test:otp_requested:42")
		require.NoError(t, err)
		assert.Equal(t, idempotency.StateCompleted.String(), state)
		assert.Equal(t, 10*time.Minute, f.mr.TTL("test:otp_requested:42"))
	})

	t.Run("distinct messages are both sent", func(t *testing.T) {
		f := newFixture(t, withRedis)
		ctx := context.Background()

		require.NoError(t, f.uc.ConsumeOtpRequested(ctx, emailInput("1")))
		require.NoError(t, f.uc.ConsumeOtpRequested(ctx, emailInput("2")))
		assert.Len(t, f.mail.sent, 2)
	})

	t.Run("failed delivery is retried on redelivery", func(t *testing.T) {
		f := newFixture(t, withRedis)
		ctx := context.Background()
		f.mail.failures = 3

		require.Error(t, f.uc.ConsumeOtpRequested(ctx, emailInput("7")))
		state, err := f.mr.Get("test:otp_requested:7")
		require.NoError(t, err)
		assert.Equal(t, idempotency.StateFailed.String(), state)

		require.NoError(t, f.uc.ConsumeOtpRequested(ctx, emailInput("7")))
		assert.Len(t, f.mail.sent, 1)
	})

	t.Run("in progress elsewhere is skipped", func(t *testing.T) {
		f := newFixture(t, withRedis)
		require.NoError(t, f.mr.Set("test:otp_requested:9", idempotency.StateInProgress.String()))

		require.NoError(t, f.uc.ConsumeOtpRequested(context.Background(), emailInput("9")))
		assert.Zero(t, f.mail.calls)
	})

	t.Run("unreachable redis still delivers", func(t *testing.T) {
		f := newFixture(t, func(t *testing.T) (idempotency.Idempotency, *miniredis.Miniredis) {
			client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 50 * time.Millisecond})
			t.Cleanup(func() { _ = client.Close() })
			return idempotency.New(client, "test:"), nil
		})

		require.NoError(t, f.uc.ConsumeOtpRequested(context.Background(), emailInput("11")))
		assert.Len(t, f.mail.sent, 1)
	})
}
