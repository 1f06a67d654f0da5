package inbound

type RequestOtpRequest struct {
	Identifier string `json:"identifier"`
	Channel    string `json:"channel"`
	Purpose    string `json:"purpose"`
}

type RequestOtpResponse struct {
	Identifier         string `json:"identifier"`
	Channel            string `json:"channel"`
	Purpose            string `json:"purpose"`
	ExpiresAt          string `json:"expires_at"`
	ResendAfterSeconds int    `json:"resend_after_seconds"`
	ExistingUser       bool   `json:"existing_user"`
	DebugOtp           string `json:"debug_otp,omitempty"`
}

type VerifyOtpRequest struct {
	Identifier string         `json:"identifier"`
	Channel    string         `json:"channel"`
	Purpose    string         `json:"purpose"`
	Code       string         `json:"code"`
	DeviceInfo map[string]any `json:"device_info"`
}

type UserResponse struct {
	ID     int64   `json:"id"`
	Email  *string `json:"email"`
	Phone  *string `json:"phone"`
	Role   string  `json:"role"`
	Status string  `json:"status"`
}

type VerifyOtpResponse struct {
	User         UserResponse `json:"user"`
	Token        string       `json:"token"`
	TokenType    string       `json:"token_type"`
	ExpiresAt    string       `json:"expires_at"`
	MemberStatus string       `json:"member_status"`
	IsNewUser    bool         `json:"is_new_user"`
}
