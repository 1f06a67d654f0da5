package inbound

import (
	"context"

	"github.com/shandysiswandi/otpgate/internal/auth/usecase"
	"github.com/shandysiswandi/otpgate/internal/pkg/ratelimit"
	"github.com/shandysiswandi/otpgate/internal/pkg/router"
)

type uc interface {
	RequestOtp(ctx context.Context, in usecase.RequestOtpInput) (*usecase.RequestOtpOutput, error)
	VerifyOtp(ctx context.Context, in usecase.VerifyOtpInput) (*usecase.VerifyOtpOutput, error)
}

// RegisterHTTPEndpoint mounts the OTP routes. limiter may be nil to disable
// the per-IP throttle on request-otp.
func RegisterHTTPEndpoint(r *router.Router, uc uc, limiter ratelimit.Limiter) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/v1/auth/request-otp", end.RequestOtp,
		router.Throttle(limiter, "auth.request_otp", usecase.ErrTooManyOtpRequests))
	r.POST("/v1/auth/verify-otp", end.VerifyOtp)
}
