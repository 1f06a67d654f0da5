// Package mail defines the contract for sending email and an SMTP
// implementation of it.
package mail
