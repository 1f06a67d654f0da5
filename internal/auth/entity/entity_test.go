package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeIdentifier(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		ch   Channel
		want string
	}{
		{name: "email trims and lowers", raw: "  New@Example.COM ", ch: ChannelEmail, want: "new@example.com"},
		{name: "email already normal", raw: "a@b.co", ch: ChannelEmail, want: "a@b.co"},
		{name: "sms strips inner spaces", raw: " +62 812 3456 7890 ", ch: ChannelSMS, want: "+6281234567890"},
		{name: "sms strips tabs and newlines", raw: "0812\t3456\n789", ch: ChannelSMS, want: "08123456789"},
		{name: "sms keeps plus", raw: "+15551234567", ch: ChannelSMS, want: "+15551234567"},
		{name: "unknown channel trims only", raw: "  Foo ", ch: "", want: "Foo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeIdentifier(tt.raw, tt.ch)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, NormalizeIdentifier(got, tt.ch), "idempotent")
		})
	}
}

func TestNormalizeIdentifier_EmailCaseInsensitive(t *testing.T) {
	variants := []string{"user@example.com", "USER@EXAMPLE.COM", " User@Example.Com\t"}
	for _, v := range variants {
		assert.Equal(t, "user@example.com", NormalizeIdentifier(v, ChannelEmail))
	}
}

func TestParseChannelPurpose(t *testing.T) {
	assert.Equal(t, ChannelEmail, ParseChannel(" EMAIL "))
	assert.Equal(t, ChannelSMS, ParseChannel("sms"))
	assert.Equal(t, Channel(""), ParseChannel("fax"))

	assert.Equal(t, PurposeLogin, ParsePurpose("login"))
	assert.Equal(t, PurposeSignup, ParsePurpose("Signup"))
	assert.Equal(t, PurposeVerify, ParsePurpose("verify"))
	assert.Equal(t, PurposeForgot, ParsePurpose("forgot"))
	assert.Equal(t, Purpose(""), ParsePurpose("reset"))
}

func TestOtp_Windows(t *testing.T) {
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	o := Otp{CreatedAt: now, ExpiresAt: now.Add(5 * time.Minute)}

	assert.True(t, o.InCooldown(now.Add(59*time.Second), time.Minute))
	assert.False(t, o.InCooldown(now.Add(time.Minute), time.Minute))

	assert.False(t, o.Expired(now.Add(5*time.Minute)))
	assert.True(t, o.Expired(now.Add(5*time.Minute+time.Nanosecond)))
}

func TestNewVisitor(t *testing.T) {
	now := time.Now()

	u := NewVisitor(7, "a@b.co", ChannelEmail, now)
	assert.Equal(t, RoleVisitor, u.Role)
	assert.Equal(t, StatusRegisteredVisitor, u.Status)
	assert.Equal(t, "a@b.co", *u.Email)
	assert.Nil(t, u.Phone)
	assert.True(t, u.Verified(ChannelEmail))
	assert.False(t, u.Verified(ChannelSMS))

	p := NewVisitor(8, "+6281234567", ChannelSMS, now)
	assert.Nil(t, p.Email)
	assert.Equal(t, "+6281234567", *p.Phone)
	assert.True(t, p.IsPhoneVerified)

	u.MarkVerified(ChannelSMS)
	assert.True(t, u.Verified(ChannelSMS))
}
