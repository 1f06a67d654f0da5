package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/otpgate/internal/auth/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/valueobject"
	"go.opentelemetry.io/otel/attribute"
)

type VerifyOtpInput struct {
	Identifier string `validate:"required,max=255"`
	Channel    string `validate:"required,oneof=email sms"`
	Purpose    string `validate:"required,oneof=login signup verify forgot"`
	Code       string `validate:"required,min=4,max=10"`
	DeviceInfo map[string]any
	IPAddress  string
}

type VerifyOtpOutput struct {
	User         entity.User
	Token        string
	TokenType    string
	ExpiresAt    time.Time
	MemberStatus entity.UserStatus
	IsNewUser    bool
}

func (s *Usecase) VerifyOtp(ctx context.Context, in VerifyOtpInput) (*VerifyOtpOutput, error) {
	ctx, span := s.startSpan(ctx, "VerifyOtp")
	defer span.End()

	ch := entity.ParseChannel(in.Channel)
	purpose := entity.ParsePurpose(in.Purpose)
	identifier := entity.NormalizeIdentifier(in.Identifier, ch)

	if err := s.validate(in, identifier, ch); err != nil {
		return nil, err
	}

	var (
		out    *VerifyOtpOutput
		reject error
	)

	// Rejections commit: a wrong code must leave its attempt recorded.
	err := s.repoDB.Atomic(ctx, func(ctx context.Context, tx Store) error {
		now := s.clock.Now()

		rec, err := tx.GetActiveOtpForUpdate(ctx, identifier, ch, purpose, now)
		if errors.Is(err, goerror.ErrNotFound) {
			reject = ErrOtpNotFoundOrExpired
			return nil
		}
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo get active otp", "identifier", identifier, "purpose", purpose, "error", err)
			return err
		}

		if rec.Attempts >= s.cfg.MaxAttempts {
			if err := tx.MarkOtpUsed(ctx, rec.ID); err != nil {
				slog.ErrorContext(ctx, "failed to repo burn otp", "otp_id", rec.ID, "error", err)
				return err
			}
			reject = ErrOtpMaxAttemptsReached
			return nil
		}

		if !s.codeHash.Verify(rec.CodeHash, in.Code) {
			if err := tx.IncrementOtpAttempts(ctx, rec.ID); err != nil {
				slog.ErrorContext(ctx, "failed to repo increment otp attempts", "otp_id", rec.ID, "error", err)
				return err
			}
			reject = ErrInvalidOtpCode
			return nil
		}

		if rec.Expired(s.clock.Now()) {
			reject = ErrOtpNotFoundOrExpired
			return nil
		}

		if err := tx.MarkOtpUsed(ctx, rec.ID); err != nil {
			slog.ErrorContext(ctx, "failed to repo mark otp used", "otp_id", rec.ID, "error", err)
			return err
		}

		user, isNew, err := s.resolveUser(ctx, tx, rec, now)
		if err != nil {
			return err
		}

		token := s.token.Generate()
		digest, err := s.tokenHash.Hash(token)
		if err != nil {
			slog.ErrorContext(ctx, "failed to hash session token", "error", err)
			return err
		}

		sess := entity.Session{
			ID:         s.uuid.Generate(),
			UserID:     user.ID,
			TokenHash:  string(digest),
			DeviceInfo: valueobject.JSONMap(in.DeviceInfo),
			IP:         in.IPAddress,
			ExpiresAt:  now.Add(s.cfg.SessionTTL),
			CreatedAt:  now,
		}
		if err := tx.CreateSession(ctx, sess); err != nil {
			slog.ErrorContext(ctx, "failed to repo create session", "user_id", user.ID, "error", err)
			return err
		}

		out = &VerifyOtpOutput{
			User:         *user,
			Token:        token,
			TokenType:    entity.TokenTypeBearer,
			ExpiresAt:    sess.ExpiresAt,
			MemberStatus: user.Status,
			IsNewUser:    isNew,
		}
		return nil
	})
	if err != nil {
		return nil, goerror.NewServer(err)
	}

	if reject != nil {
		slog.WarnContext(ctx, "otp verification rejected", "identifier", identifier, "purpose", purpose, "error", reject)
		s.count(ctx, s.rejected, attribute.String("reason", reasonOf(reject)))
		return nil, reject
	}

	s.count(ctx, s.verified, attribute.String("channel", ch.String()), attribute.Bool("new_user", out.IsNewUser))

	return out, nil
}

// resolveUser finds the owner of rec, by the user recorded at issuance and
// then by identifier, creating a visitor when nobody owns it. The verified
// flag of the channel is set either way.
func (s *Usecase) resolveUser(ctx context.Context, tx Store, rec *entity.Otp, now time.Time) (*entity.User, bool, error) {
	if rec.UserID != nil {
		user, err := tx.GetUserByID(ctx, *rec.UserID)
		if err == nil {
			return s.markVerified(ctx, tx, user, rec.Channel, now)
		}
		if !errors.Is(err, goerror.ErrNotFound) {
			slog.ErrorContext(ctx, "failed to repo get user by id", "user_id", *rec.UserID, "error", err)
			return nil, false, err
		}
	}

	user, err := tx.GetUserByIdentifier(ctx, rec.Channel, rec.Identifier)
	if err == nil {
		return s.markVerified(ctx, tx, user, rec.Channel, now)
	}
	if !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get user by identifier", "identifier", rec.Identifier, "error", err)
		return nil, false, err
	}

	nu := entity.NewVisitor(s.uid.Generate(), rec.Identifier, rec.Channel, now)
	err = tx.CreateUser(ctx, nu)
	if err == nil {
		return &nu, true, nil
	}
	if !errors.Is(err, goerror.ErrConflict) {
		slog.ErrorContext(ctx, "failed to repo create user", "identifier", rec.Identifier, "error", err)
		return nil, false, err
	}

	// Created concurrently by another verification of the same identifier.
	user, err = tx.GetUserByIdentifier(ctx, rec.Channel, rec.Identifier)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user after conflict", "identifier", rec.Identifier, "error", err)
		return nil, false, err
	}
	return s.markVerified(ctx, tx, user, rec.Channel, now)
}

func (s *Usecase) markVerified(ctx context.Context, tx Store, user *entity.User, ch entity.Channel, now time.Time) (*entity.User, bool, error) {
	if user.Verified(ch) {
		return user, false, nil
	}

	if err := tx.MarkUserVerified(ctx, user.ID, ch, now); err != nil {
		slog.ErrorContext(ctx, "failed to repo mark user verified", "user_id", user.ID, "channel", ch, "error", err)
		return nil, false, err
	}
	user.MarkVerified(ch)
	user.UpdatedAt = now

	return user, false, nil
}

func reasonOf(err error) string {
	switch {
	case errors.Is(err, ErrOtpNotFoundOrExpired):
		return "not_found"
	case errors.Is(err, ErrOtpMaxAttemptsReached):
		return "max_attempts"
	case errors.Is(err, ErrInvalidOtpCode):
		return "invalid_code"
	default:
		return "other"
	}
}
