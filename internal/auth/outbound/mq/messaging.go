package mq

import (
	"context"
	"encoding/json"

	"github.com/shandysiswandi/otpgate/internal/auth/entity"
	"github.com/shandysiswandi/otpgate/internal/auth/usecase"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/messaging"
	"github.com/shandysiswandi/otpgate/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

// Messaging delivers codes by publishing them for the notification module.
type Messaging struct {
	client messaging.Messaging
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Messaging, ins instrument.Instrumentation) *Messaging {
	if ins == nil {
		ins = instrument.NewNoop()
	}
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) SendEmail(ctx context.Context, n usecase.OtpNotification) error {
	return m.publish(ctx, "SendEmail", entity.ChannelEmail, n)
}

func (m *Messaging) SendSms(ctx context.Context, n usecase.OtpNotification) error {
	return m.publish(ctx, "SendSms", entity.ChannelSMS, n)
}

func (m *Messaging) publish(ctx context.Context, name string, ch entity.Channel, n usecase.OtpNotification) error {
	ctx, span := m.ins.Tracer("auth.outbound.mq").Start(ctx, name)
	defer span.End()

	body, err := json.Marshal(event.OtpRequestedMessage{
		Channel:   ch.String(),
		Recipient: n.Recipient,
		Code:      n.Code,
		Purpose:   n.Purpose.String(),
		ExpiresAt: n.ExpiresAt,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := m.client.Publish(ctx, event.OtpRequestedDestination, messaging.Outgoing{
		Key:     n.Recipient,
		Body:    body,
		Headers: map[string]string{messaging.HeaderCorrelationID: instrument.GetCorrelationID(ctx)},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
