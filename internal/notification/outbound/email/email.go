package email

import (
	"context"
	"errors"
	"strings"

	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/mail"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var errNoRecipient = errors.New("email: message has no recipient")

// Mail sends rendered OTP emails through the configured mail client.
type Mail struct {
	client mail.Mail
	ins    instrument.Instrumentation
}

func New(client mail.Mail, ins instrument.Instrumentation) *Mail {
	if ins == nil {
		ins = instrument.NewNoop()
	}
	return &Mail{client: client, ins: ins}
}

func (m *Mail) Send(ctx context.Context, msg mail.Message) (err error) {
	ctx, span := m.ins.Tracer("notification.outbound.email").Start(ctx, "Send")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if len(msg.To) == 0 {
		return errNoRecipient
	}

	// Addresses stay out of traces; only the domain is recorded.
	span.SetAttributes(
		attribute.String("mail.recipient_domain", recipientDomain(msg.To[0])),
		attribute.String("mail.subject", msg.Subject),
	)

	return m.client.Send(ctx, msg)
}

func recipientDomain(addr string) string {
	if _, domain, ok := strings.Cut(addr, "@"); ok {
		return strings.ToLower(domain)
	}
	return ""
}
