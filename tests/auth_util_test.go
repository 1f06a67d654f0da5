package tests

import (
	"fmt"
	"net/http"
	"testing"
	"time"
)

type requestOtpData struct {
	Identifier         string `json:"identifier"`
	Channel            string `json:"channel"`
	Purpose            string `json:"purpose"`
	ExpiresAt          string `json:"expires_at"`
	ResendAfterSeconds int    `json:"resend_after_seconds"`
	ExistingUser       bool   `json:"existing_user"`
	DebugOtp           string `json:"debug_otp"`
}

type verifyOtpData struct {
	User struct {
		ID     int64   `json:"id"`
		Email  *string `json:"email"`
		Phone  *string `json:"phone"`
		Role   string  `json:"role"`
		Status string  `json:"status"`
	} `json:"user"`
	Token        string `json:"token"`
	TokenType    string `json:"token_type"`
	ExpiresAt    string `json:"expires_at"`
	MemberStatus string `json:"member_status"`
	IsNewUser    bool   `json:"is_new_user"`
}

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@Example.com", prefix, time.Now().UnixNano())
}

func uniquePhone() string {
	return fmt.Sprintf("+62 8%011d", time.Now().UnixNano()%100000000000)
}

// requestOtp issues a code and skips the test when the per-IP route throttle
// of the server under test is exhausted.
func requestOtp(t *testing.T, identifier, channel, purpose string) requestOtpData {
	t.Helper()

	resp := doJSON(t, http.MethodPost, "/v1/auth/request-otp", map[string]string{
		"identifier": identifier,
		"channel":    channel,
		"purpose":    purpose,
	})
	if resp.status == http.StatusTooManyRequests && resp.header.Get("Retry-After") != "" {
		t.Skip("route throttle engaged on the server under test")
	}
	if resp.status != http.StatusOK {
		t.Fatalf("request otp failed: status=%d body=%s", resp.status, resp.body)
	}

	var data requestOtpData
	decode(t, resp.body, &data)
	if data.DebugOtp == "" {
		t.Fatal("debug_otp missing; run the server outside production")
	}

	return data
}

func verifyOtp(t *testing.T, identifier, channel, purpose, code string) response {
	t.Helper()

	return doJSON(t, http.MethodPost, "/v1/auth/verify-otp", map[string]any{
		"identifier":  identifier,
		"channel":     channel,
		"purpose":     purpose,
		"code":        code,
		"device_info": map[string]any{"platform": "black-box"},
	})
}

func wrongCode(code string) string {
	if code == "000000" {
		return "111111"
	}
	return "000000"
}
