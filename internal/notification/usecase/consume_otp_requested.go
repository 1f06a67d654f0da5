package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/otpgate/internal/notification/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/idempotency"
	"go.opentelemetry.io/otel/attribute"
)

type ConsumeOtpRequestedInput struct {
	MessageID string
	Channel   string    `validate:"required,oneof=email sms"`
	Recipient string    `validate:"required,max=255"`
	Code      string    `validate:"required,min=4,max=10"`
	Purpose   string    `validate:"required"`
	ExpiresAt time.Time `validate:"required"`
}

// ConsumeOtpRequested delivers one issued code. Invalid or expired messages
// are dropped. A redelivered message whose earlier delivery completed is
// skipped. The returned error asks the broker to redeliver.
func (s *Usecase) ConsumeOtpRequested(ctx context.Context, in ConsumeOtpRequestedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeOtpRequested")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	d := entity.OtpDelivery{
		MessageID: in.MessageID,
		Channel:   entity.ChannelFromString(in.Channel),
		Recipient: in.Recipient,
		Code:      in.Code,
		Purpose:   in.Purpose,
		ExpiresAt: in.ExpiresAt,
	}
	attrs := []attribute.KeyValue{attribute.String("channel", d.Channel.String())}

	if !s.clock.Now().Before(d.ExpiresAt) {
		slog.WarnContext(ctx, "otp expired before delivery", "channel", d.Channel.String(), "recipient", d.Recipient)
		s.count(ctx, append(attrs, attribute.String("status", entity.DeliveryStatusExpired.String()))...)
		return nil
	}

	err := s.deliverOnce(ctx, d)
	switch {
	case errors.Is(err, idempotency.ErrAlreadyCompleted), errors.Is(err, idempotency.ErrAlreadyInProgress):
		slog.InfoContext(ctx, "otp delivery already handled", "message_id", d.MessageID, "error", err)
		s.count(ctx, append(attrs, attribute.String("status", entity.DeliveryStatusDuplicate.String()))...)
		return nil
	case err != nil:
		slog.ErrorContext(ctx, "failed to deliver otp", "channel", d.Channel.String(), "recipient", d.Recipient, "error", err)
		s.count(ctx, append(attrs, attribute.String("status", entity.DeliveryStatusFailed.String()))...)
		return err
	}

	s.count(ctx, append(attrs, attribute.String("status", entity.DeliveryStatusSent.String()))...)
	return nil
}

// deliverOnce guards delivery with the idempotency tracker keyed by the
// broker message id. When the tracker cannot be reached the code is delivered
// without it.
func (s *Usecase) deliverOnce(ctx context.Context, d entity.OtpDelivery) error {
	if s.idempotency == nil || d.MessageID == "" {
		return s.deliverWithRetry(ctx, d)
	}

	var (
		ran     bool
		sendErr error
	)
	err := s.idempotency.Exec(ctx, "otp_requested:"+d.MessageID, func(ctx context.Context) error {
		ran = true
		sendErr = s.deliverWithRetry(ctx, d)
		return sendErr
	},
		idempotency.WithLockDuration(time.Minute),
		idempotency.WithStateTTL(s.dedupeWindow()),
		idempotency.WithRetryFailed(),
	)

	switch {
	case ran && sendErr == nil:
		if err != nil {
			slog.WarnContext(ctx, "failed to record otp delivery state", "message_id", d.MessageID, "error", err)
		}
		return nil
	case ran:
		return sendErr
	case errors.Is(err, idempotency.ErrAlreadyCompleted),
		errors.Is(err, idempotency.ErrAlreadyInProgress),
		errors.Is(err, idempotency.ErrAlreadyFailed):
		return err
	case err != nil:
		slog.WarnContext(ctx, "idempotency unavailable, delivering without dedupe", "message_id", d.MessageID, "error", err)
		return s.deliverWithRetry(ctx, d)
	}

	return nil
}

func (s *Usecase) deliverWithRetry(ctx context.Context, d entity.OtpDelivery) error {
	attempt := 0
	return retry.Do(ctx, s.backoff(), func(ctx context.Context) error {
		attempt++
		if err := s.deliver(ctx, d); err != nil {
			slog.WarnContext(ctx, "otp delivery attempt failed", "channel", d.Channel.String(), "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
}

func (s *Usecase) deliver(ctx context.Context, d entity.OtpDelivery) error {
	switch d.Channel {
	case entity.ChannelEmail:
		msg, err := s.otpEmail(d)
		if err != nil {
			return err
		}
		return s.repoMail.Send(ctx, msg)
	case entity.ChannelSMS:
		return s.repoSms.Send(ctx, d.Recipient, s.otpSms(d))
	default:
		return nil
	}
}
