package event

import "time"

const OtpRequestedDestination string = "otp_requested"
const OtpRequestedConsumerNotification string = "otp_requested_notification"

// OtpRequestedMessage asks the notification module to deliver a code.
// Code is plaintext; the topic must not be mirrored to durable logs.
type OtpRequestedMessage struct {
	Channel   string    `json:"channel"`
	Recipient string    `json:"recipient"`
	Code      string    `json:"code"`
	Purpose   string    `json:"purpose"`
	ExpiresAt time.Time `json:"expires_at"`
}
