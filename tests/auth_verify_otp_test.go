package tests

import (
	"net/http"
	"strings"
	"testing"
)

func TestVerifyOtp(t *testing.T) {
	t.Run("NewVisitorThenReturning", func(t *testing.T) {
		email := uniqueEmail("verify")
		issued := requestOtp(t, email, "email", "signup")

		resp := verifyOtp(t, email, "email", "signup", issued.DebugOtp)
		if resp.status != http.StatusOK {
			t.Fatalf("verify otp failed: status=%d body=%s", resp.status, resp.body)
		}
		var first verifyOtpData
		decode(t, resp.body, &first)
		if !first.IsNewUser || first.TokenType != "Bearer" || first.Token == "" {
			t.Fatalf("unexpected first verification: %s", resp.body)
		}
		if first.User.Email == nil || *first.User.Email != strings.ToLower(email) {
			t.Fatalf("expected normalized email, got %s", resp.body)
		}

		issued = requestOtp(t, email, "email", "login")
		resp = verifyOtp(t, email, "email", "login", issued.DebugOtp)
		if resp.status != http.StatusOK {
			t.Fatalf("verify otp failed: status=%d body=%s", resp.status, resp.body)
		}
		var second verifyOtpData
		decode(t, resp.body, &second)
		if second.IsNewUser || second.User.ID != first.User.ID || second.Token == first.Token {
			t.Fatalf("unexpected returning verification: %s", resp.body)
		}
	})

	t.Run("CodeIsSingleUse", func(t *testing.T) {
		phone := uniquePhone()
		issued := requestOtp(t, phone, "sms", "login")

		if resp := verifyOtp(t, phone, "sms", "login", issued.DebugOtp); resp.status != http.StatusOK {
			t.Fatalf("verify otp failed: status=%d body=%s", resp.status, resp.body)
		}
		expectError(t, verifyOtp(t, phone, "sms", "login", issued.DebugOtp), http.StatusBadRequest, "E2001_OTP_NOT_FOUND_OR_EXPIRED")
	})

	t.Run("AttemptLimit", func(t *testing.T) {
		email := uniqueEmail("attempts")
		issued := requestOtp(t, email, "email", "verify")
		bad := wrongCode(issued.DebugOtp)

		for range 5 {
			expectError(t, verifyOtp(t, email, "email", "verify", bad), http.StatusBadRequest, "E2003_INVALID_OTP")
		}
		expectError(t, verifyOtp(t, email, "email", "verify", issued.DebugOtp), http.StatusBadRequest, "E2002_OTP_MAX_ATTEMPTS_REACHED")
		expectError(t, verifyOtp(t, email, "email", "verify", issued.DebugOtp), http.StatusBadRequest, "E2001_OTP_NOT_FOUND_OR_EXPIRED")
	})

	t.Run("NeverRequested", func(t *testing.T) {
		expectError(t, verifyOtp(t, uniqueEmail("ghost"), "email", "login", "123456"), http.StatusBadRequest, "E2001_OTP_NOT_FOUND_OR_EXPIRED")
	})
}
