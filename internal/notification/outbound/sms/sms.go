// Package sms is the log-only SMS sender. No provider is wired; each message
// is recorded as a structured log line with the text withheld.
package sms

import (
	"context"
	"log/slog"
	"unicode/utf8"

	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
)

type Log struct {
	ins instrument.Instrumentation
}

func New(ins instrument.Instrumentation) *Log {
	return &Log{ins: ins}
}

func (l *Log) Send(ctx context.Context, phone, text string) error {
	ctx, span := l.ins.Tracer("notification.outbound.sms").Start(ctx, "Send")
	defer span.End()

	slog.InfoContext(ctx, "sms sent", "phone", mask(phone), "length", utf8.RuneCountInString(text))

	return nil
}

// mask keeps the last four digits.
func mask(phone string) string {
	if len(phone) <= 4 {
		return "****"
	}
	return "****" + phone[len(phone)-4:]
}
