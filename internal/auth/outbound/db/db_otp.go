package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shandysiswandi/otpgate/internal/auth/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
)

const otpColumns = `id, user_id, identifier, code_hash, channel, purpose, expires_at, attempts, used, created_at`

func scanOtp(row pgx.Row) (*entity.Otp, error) {
	var (
		o       entity.Otp
		userID  pgtype.Int8
		channel string
		purpose string
	)

	if err := row.Scan(
		&o.ID,
		&userID,
		&o.Identifier,
		&o.CodeHash,
		&channel,
		&purpose,
		&o.ExpiresAt,
		&o.Attempts,
		&o.Used,
		&o.CreatedAt,
	); err != nil {
		return nil, err
	}

	if userID.Valid {
		o.UserID = &userID.Int64
	}
	o.Channel = entity.Channel(channel)
	o.Purpose = entity.Purpose(purpose)

	return &o, nil
}

func (s *DB) LockOtpIssuance(ctx context.Context, identifier string, purpose entity.Purpose) (err error) {
	ctx, span := s.startSpan(ctx, "LockOtpIssuance")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1::text || '|' || $2::text))`,
		identifier, purpose.String(),
	)
	return s.mapError(err)
}

func (s *DB) GetLatestOtp(ctx context.Context, identifier string, purpose entity.Purpose) (_ *entity.Otp, err error) {
	ctx, span := s.startSpan(ctx, "GetLatestOtp")
	defer func() { s.endSpan(span, err) }()

	o, err := scanOtp(s.conn.QueryRow(ctx,
		`SELECT `+otpColumns+` FROM otp_codes
		WHERE identifier = $1 AND purpose = $2
		ORDER BY created_at DESC
		LIMIT 1`,
		identifier, purpose.String(),
	))
	if err != nil {
		return nil, s.mapError(err)
	}

	return o, nil
}

func (s *DB) CreateOtp(ctx context.Context, o entity.Otp) (err error) {
	ctx, span := s.startSpan(ctx, "CreateOtp")
	defer func() { s.endSpan(span, err) }()

	userID := pgtype.Int8{}
	if o.UserID != nil {
		userID = pgtype.Int8{Valid: true, Int64: *o.UserID}
	}

	_, err = s.conn.Exec(ctx,
		`INSERT INTO otp_codes (id, user_id, identifier, code_hash, channel, purpose, expires_at, attempts, used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		o.ID,
		userID,
		o.Identifier,
		o.CodeHash,
		o.Channel.String(),
		o.Purpose.String(),
		pgtype.Timestamptz{Valid: true, Time: o.ExpiresAt},
		o.Attempts,
		o.Used,
		pgtype.Timestamptz{Valid: true, Time: o.CreatedAt},
	)
	return s.mapError(err)
}

func (s *DB) GetActiveOtpForUpdate(ctx context.Context, identifier string, ch entity.Channel, purpose entity.Purpose, now time.Time) (_ *entity.Otp, err error) {
	ctx, span := s.startSpan(ctx, "GetActiveOtpForUpdate")
	defer func() { s.endSpan(span, err) }()

	o, err := scanOtp(s.conn.QueryRow(ctx,
		`SELECT `+otpColumns+` FROM otp_codes
		WHERE identifier = $1 AND channel = $2 AND purpose = $3
			AND used = FALSE AND expires_at >= $4
		ORDER BY created_at DESC
		LIMIT 1
		FOR UPDATE`,
		identifier, ch.String(), purpose.String(), pgtype.Timestamptz{Valid: true, Time: now},
	))
	if err != nil {
		return nil, s.mapError(err)
	}

	return o, nil
}

func (s *DB) IncrementOtpAttempts(ctx context.Context, id string) (err error) {
	ctx, span := s.startSpan(ctx, "IncrementOtpAttempts")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `UPDATE otp_codes SET attempts = attempts + 1 WHERE id = $1`, id)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	return nil
}

func (s *DB) MarkOtpUsed(ctx context.Context, id string) (err error) {
	ctx, span := s.startSpan(ctx, "MarkOtpUsed")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `UPDATE otp_codes SET used = TRUE WHERE id = $1`, id)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	return nil
}
