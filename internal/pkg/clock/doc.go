// Package clock abstracts the current time.
//
// OTP expiry, the request cooldown and session lifetimes are all computed from
// Clocker.Now, so tests freeze time instead of sleeping.
package clock
