package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/otpgate/internal/auth/entity"
)

// dispatch hands n to the dispatcher on the goroutine manager, detached from
// the request and bounded by the dispatch timeout. When the manager refuses
// the task it runs inline under the same timeout.
func (s *Usecase) dispatch(ctx context.Context, ch entity.Channel, n OtpNotification) {
	ctx = context.WithoutCancel(ctx)

	send := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, s.cfg.DispatchTimeout)
		defer cancel()

		var err error
		switch ch {
		case entity.ChannelEmail:
			err = s.dispatcher.SendEmail(ctx, n)
		case entity.ChannelSMS:
			err = s.dispatcher.SendSms(ctx, n)
		}
		if err != nil {
			slog.ErrorContext(ctx, "failed to dispatch otp", "channel", ch, "identifier", n.Recipient, "error", err)
		}
		return nil
	}

	if !s.goroutine.Go(ctx, send) {
		_ = send(ctx)
	}
}
