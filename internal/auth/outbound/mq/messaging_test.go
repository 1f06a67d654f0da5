package mq

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shandysiswandi/otpgate/internal/auth/entity"
	"github.com/shandysiswandi/otpgate/internal/auth/usecase"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/messaging"
	"github.com/shandysiswandi/otpgate/internal/shared/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessaging_Send(t *testing.T) {
	expires := time.Date(2026, 3, 1, 9, 5, 0, 0, time.UTC)

	tests := []struct {
		name    string
		send    func(m *Messaging, ctx context.Context, n usecase.OtpNotification) error
		channel entity.Channel
	}{
		{name: "email", send: (*Messaging).SendEmail, channel: entity.ChannelEmail},
		{name: "sms", send: (*Messaging).SendSms, channel: entity.ChannelSMS},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			broker := messaging.NewMemory(messaging.MemoryConfig{})
			t.Cleanup(func() { _ = broker.Close() })

			m := NewMessaging(broker, nil)
			ctx := instrument.SetCorrelationID(context.Background(), "corr-1")

			err := tt.send(m, ctx, usecase.OtpNotification{
				Recipient: "user@example.com",
				Code:      "482913",
				Purpose:   entity.PurposeLogin,
				ExpiresAt: expires,
			})
			require.NoError(t, err)

			got := make(chan *messaging.Message, 1)
			cctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			go func() {
				_ = broker.Consume(cctx, event.OtpRequestedDestination, func(_ context.Context, msg *messaging.Message) error {
					got <- msg
					cancel()
					return nil
				}, messaging.WithGroup(event.OtpRequestedConsumerNotification))
			}()

			var msg *messaging.Message
			select {
			case msg = <-got:
			case <-time.After(2 * time.Second):
				t.Fatal("message not delivered")
			}

			assert.Equal(t, "user@example.com", msg.Key)
			assert.Equal(t, "corr-1", msg.Header(messaging.HeaderCorrelationID))

			var body event.OtpRequestedMessage
			require.NoError(t, json.Unmarshal(msg.Body, &body))
			assert.Equal(t, event.OtpRequestedMessage{
				Channel:   tt.channel.String(),
				Recipient: "user@example.com",
				Code:      "482913",
				Purpose:   "login",
				ExpiresAt: expires,
			}, body)
		})
	}
}

func TestMessaging_PublishClosed(t *testing.T) {
	broker := messaging.NewMemory(messaging.MemoryConfig{})
	require.NoError(t, broker.Close())

	err := NewMessaging(broker, nil).SendEmail(context.Background(), usecase.OtpNotification{Recipient: "a@b.co"})
	assert.Error(t, err)
}
