package inbound

import (
	"time"

	"github.com/shandysiswandi/otpgate/internal/auth/usecase"
	"github.com/shandysiswandi/otpgate/internal/pkg/router"
)

// HTTPEndpoint exposes the OTP login handlers.
type HTTPEndpoint struct {
	uc uc
}

// RequestOtp issues a code for an email address or phone number.
// @Summary Request an OTP
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body RequestOtpRequest true "OTP request payload"
// @Success 200 {object} router.Envelope{data=RequestOtpResponse}
// @Failure 400 {object} router.Envelope "Invalid request body"
// @Failure 422 {object} router.Envelope "Validation error"
// @Failure 429 {object} router.Envelope "E1006_TOO_MANY_OTP_REQUESTS"
// @Failure 500 {object} router.Envelope "Internal server error"
// @Router /v1/auth/request-otp [post]
func (h *HTTPEndpoint) RequestOtp(r *router.Request) (any, error) {
	var req RequestOtpRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.RequestOtp(r.Context(), usecase.RequestOtpInput{
		Identifier: req.Identifier,
		Channel:    req.Channel,
		Purpose:    req.Purpose,
	})
	if err != nil {
		return nil, err
	}

	return RequestOtpResponse{
		Identifier:         resp.Identifier,
		Channel:            resp.Channel.String(),
		Purpose:            resp.Purpose.String(),
		ExpiresAt:          resp.ExpiresAt.Format(time.RFC3339),
		ResendAfterSeconds: resp.ResendAfterSeconds,
		ExistingUser:       resp.ExistingUser,
		DebugOtp:           resp.DebugOtp,
	}, nil
}

// VerifyOtp exchanges a valid code for a bearer session.
// @Summary Verify an OTP
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body VerifyOtpRequest true "OTP verification payload"
// @Success 200 {object} router.Envelope{data=VerifyOtpResponse}
// @Failure 400 {object} router.Envelope "E2001, E2002 or E2003"
// @Failure 422 {object} router.Envelope "Validation error"
// @Failure 500 {object} router.Envelope "Internal server error"
// @Router /v1/auth/verify-otp [post]
func (h *HTTPEndpoint) VerifyOtp(r *router.Request) (any, error) {
	var req VerifyOtpRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.VerifyOtp(r.Context(), usecase.VerifyOtpInput{
		Identifier: req.Identifier,
		Channel:    req.Channel,
		Purpose:    req.Purpose,
		Code:       req.Code,
		DeviceInfo: req.DeviceInfo,
		IPAddress:  r.ClientIP(),
	})
	if err != nil {
		return nil, err
	}

	return VerifyOtpResponse{
		User: UserResponse{
			ID:     resp.User.ID,
			Email:  resp.User.Email,
			Phone:  resp.User.Phone,
			Role:   string(resp.User.Role),
			Status: string(resp.User.Status),
		},
		Token:        resp.Token,
		TokenType:    resp.TokenType,
		ExpiresAt:    resp.ExpiresAt.Format(time.RFC3339),
		MemberStatus: string(resp.MemberStatus),
		IsNewUser:    resp.IsNewUser,
	}, nil
}
