package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/shandysiswandi/otpgate/internal/notification/usecase"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/messaging"
	"github.com/shandysiswandi/otpgate/internal/pkg/uid"
	"github.com/shandysiswandi/otpgate/internal/shared/event"
	"go.opentelemetry.io/otel/attribute"
)

type otpConsumer interface {
	ConsumeOtpRequested(ctx context.Context, in usecase.ConsumeOtpRequestedInput) error
}

// MQHandler adapts broker messages to notification usecase calls.
type MQHandler struct {
	consumer otpConsumer
	uuid     uid.StringID
	ins      instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, msg *messaging.Message) context.Context {
	if cID := msg.Header(messaging.HeaderCorrelationID); cID != "" {
		return instrument.SetCorrelationID(ctx, cID)
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

func (h *MQHandler) OtpRequestedNotification(ctx context.Context, msg *messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg)

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "OtpRequestedNotification")
	defer span.End()

	span.SetAttributes(
		attribute.String("messaging.message.id", msg.ID),
		attribute.Int("messaging.message.attempt", msg.Attempt),
	)
	slog.InfoContext(ctx, "consume: otp requested notification", "msg_id", msg.ID, "attempt", msg.Attempt)

	var payload event.OtpRequestedMessage
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of otp requested notification", "msg_id", msg.ID, "error", err)
		return nil
	}

	if err := h.consumer.ConsumeOtpRequested(ctx, usecase.ConsumeOtpRequestedInput{
		MessageID: msg.ID,
		Channel:   payload.Channel,
		Recipient: payload.Recipient,
		Code:      payload.Code,
		Purpose:   payload.Purpose,
		ExpiresAt: payload.ExpiresAt,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume otp requested", "msg_id", msg.ID, "error", err)
		return err
	}

	return nil
}
