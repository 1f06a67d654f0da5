package entity

import (
	"math"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// OtpDelivery is one code waiting to reach its recipient.
type OtpDelivery struct {
	MessageID string
	Channel   Channel
	Recipient string
	Code      string
	Purpose   string
	ExpiresAt time.Time
}

var purposePhrases = map[string]string{
	"login":  "login",
	"signup": "sign up",
	"verify": "verification",
	"forgot": "account recovery",
}

// PurposeLabel renders purpose as a title, e.g. "login" becomes "Login" and
// "forgot" becomes "Account Recovery".
func PurposeLabel(purpose string) string {
	phrase, ok := purposePhrases[purpose]
	if !ok {
		phrase = purpose
	}
	return cases.Title(language.English).String(phrase)
}

// MinutesLeft rounds the remaining lifetime up to whole minutes, never below one.
func (d OtpDelivery) MinutesLeft(now time.Time) int {
	left := d.ExpiresAt.Sub(now)
	if left <= 0 {
		return 0
	}
	return max(1, int(math.Ceil(left.Minutes())))
}
