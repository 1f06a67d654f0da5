// Package otp generates the numeric one-time codes delivered by email or SMS.
//
// Codes are fixed-width decimal strings drawn uniformly from crypto/rand with
// no leading zero (100000-999999 for the default six digits).
package otp
