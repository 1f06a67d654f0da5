package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPurposeLabel(t *testing.T) {
	tests := map[string]string{
		"login":    "Login",
		"signup":   "Sign Up",
		"verify":   "Verification",
		"forgot":   "Account Recovery",
		"transfer": "Transfer",
	}

	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, PurposeLabel(in))
		})
	}
}

func TestOtpDelivery_MinutesLeft(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		left time.Duration
		want int
	}{
		{name: "full ttl", left: 5 * time.Minute, want: 5},
		{name: "partial minute rounds up", left: 4*time.Minute + time.Second, want: 5},
		{name: "seconds left", left: 10 * time.Second, want: 1},
		{name: "expired", left: -time.Second, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := OtpDelivery{ExpiresAt: now.Add(tt.left)}
			assert.Equal(t, tt.want, d.MinutesLeft(now))
		})
	}
}

func TestChannelFromString(t *testing.T) {
	assert.Equal(t, ChannelEmail, ChannelFromString(" email"))
	assert.Equal(t, ChannelSMS, ChannelFromString("SMS"))
	assert.Equal(t, ChannelUnknown, ChannelFromString("push"))
	assert.Equal(t, "unknown", ChannelUnknown.String())
	assert.Equal(t, "duplicate", DeliveryStatusDuplicate.String())
}
