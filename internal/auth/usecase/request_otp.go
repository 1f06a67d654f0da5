package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/otpgate/internal/auth/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"go.opentelemetry.io/otel/attribute"
)

type RequestOtpInput struct {
	Identifier string `validate:"required,max=255"`
	Channel    string `validate:"required,oneof=email sms"`
	Purpose    string `validate:"required,oneof=login signup verify forgot"`
}

type RequestOtpOutput struct {
	Identifier         string
	Channel            entity.Channel
	Purpose            entity.Purpose
	ExpiresAt          time.Time
	ResendAfterSeconds int
	ExistingUser       bool
	// DebugOtp is empty unless the deployment exposes codes for testing.
	DebugOtp string
}

func (s *Usecase) RequestOtp(ctx context.Context, in RequestOtpInput) (*RequestOtpOutput, error) {
	ctx, span := s.startSpan(ctx, "RequestOtp")
	defer span.End()

	ch := entity.ParseChannel(in.Channel)
	purpose := entity.ParsePurpose(in.Purpose)
	identifier := entity.NormalizeIdentifier(in.Identifier, ch)

	if err := s.validate(in, identifier, ch); err != nil {
		return nil, err
	}

	code, err := s.codeGen.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp code", "error", err)
		return nil, goerror.NewServer(err)
	}

	codeHash, err := s.codeHash.Hash(code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp code", "error", err)
		return nil, goerror.NewServer(err)
	}

	var (
		record       entity.Otp
		existingUser bool
		inCooldown   bool
	)

	err = s.repoDB.Atomic(ctx, func(ctx context.Context, tx Store) error {
		user, err := tx.GetUserByIdentifier(ctx, ch, identifier)
		if err != nil && !errors.Is(err, goerror.ErrNotFound) {
			slog.ErrorContext(ctx, "failed to repo get user by identifier", "identifier", identifier, "channel", ch, "error", err)
			return err
		}

		if err := tx.LockOtpIssuance(ctx, identifier, purpose); err != nil {
			slog.ErrorContext(ctx, "failed to repo lock otp issuance", "identifier", identifier, "purpose", purpose, "error", err)
			return err
		}

		now := s.clock.Now()

		last, err := tx.GetLatestOtp(ctx, identifier, purpose)
		if err != nil && !errors.Is(err, goerror.ErrNotFound) {
			slog.ErrorContext(ctx, "failed to repo get latest otp", "identifier", identifier, "purpose", purpose, "error", err)
			return err
		}
		if last != nil && last.InCooldown(now, s.cfg.CooldownWindow) {
			inCooldown = true
			return nil
		}

		record = entity.Otp{
			ID:         s.uuid.Generate(),
			Identifier: identifier,
			CodeHash:   string(codeHash),
			Channel:    ch,
			Purpose:    purpose,
			ExpiresAt:  now.Add(s.cfg.CodeTTL),
			CreatedAt:  now,
		}
		if user != nil {
			existingUser = true
			record.UserID = &user.ID
		}

		if err := tx.CreateOtp(ctx, record); err != nil {
			slog.ErrorContext(ctx, "failed to repo create otp", "identifier", identifier, "error", err)
			return err
		}

		return nil
	})
	if err != nil {
		return nil, goerror.NewServer(err)
	}

	if inCooldown {
		slog.WarnContext(ctx, "otp requested within cooldown", "identifier", identifier, "purpose", purpose)
		s.count(ctx, s.rejected, attribute.String("reason", "cooldown"))
		return nil, ErrTooManyOtpRequests
	}

	s.count(ctx, s.requested, attribute.String("channel", ch.String()), attribute.String("purpose", purpose.String()))

	s.dispatch(ctx, ch, OtpNotification{
		Recipient: identifier,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: record.ExpiresAt,
	})

	out := &RequestOtpOutput{
		Identifier:         identifier,
		Channel:            ch,
		Purpose:            purpose,
		ExpiresAt:          record.ExpiresAt,
		ResendAfterSeconds: int(s.cfg.CooldownWindow / time.Second),
		ExistingUser:       existingUser,
	}
	if s.cfg.ExposeDebugCode {
		out.DebugOtp = code
	}

	return out, nil
}
