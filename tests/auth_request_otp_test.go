package tests

import (
	"net/http"
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestRequestOtp(t *testing.T) {
	t.Run("IssuesCode", func(t *testing.T) {
		email := uniqueEmail("req")
		data := requestOtp(t, email, "email", "login")

		if data.Identifier != strings.ToLower(email) || data.ExistingUser || data.ResendAfterSeconds != 60 {
			t.Fatalf("unexpected request otp data: %+v", data)
		}

		if !regexp.MustCompile(`^[0-9]{6}$`).MatchString(data.DebugOtp) {
			t.Fatalf("expected 6 digit code, got %q", data.DebugOtp)
		}
		exp, err := time.Parse(time.RFC3339, data.ExpiresAt)
		if err != nil {
			t.Fatalf("parse expires_at: %v", err)
		}
		if left := time.Until(exp); left <= 4*time.Minute || left > 6*time.Minute {
			t.Fatalf("expected expiry about five minutes away, got %s", left)
		}
	})

	t.Run("Cooldown", func(t *testing.T) {
		email := uniqueEmail("cooldown")
		requestOtp(t, email, "email", "login")

		resp := doJSON(t, http.MethodPost, "/v1/auth/request-otp", map[string]string{
			"identifier": email,
			"channel":    "email",
			"purpose":    "login",
		})
		if resp.header.Get("Retry-After") != "" {
			t.Skip("route throttle engaged on the server under test")
		}
		expectError(t, resp, http.StatusTooManyRequests, "E1006_TOO_MANY_OTP_REQUESTS")
	})

	t.Run("Validation", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, "/v1/auth/request-otp", map[string]string{
			"identifier": "not-an-email",
			"channel":    "fax",
			"purpose":    "login",
		})
		if resp.header.Get("Retry-After") != "" {
			t.Skip("route throttle engaged on the server under test")
		}
		expectError(t, resp, http.StatusUnprocessableEntity, "VALIDATION_FAILED")
	})

	t.Run("MalformedBody", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, "/v1/auth/verify-otp", "{")
		expectError(t, resp, http.StatusBadRequest, "INVALID_REQUEST_BODY")
	})
}
