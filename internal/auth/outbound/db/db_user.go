package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shandysiswandi/otpgate/internal/auth/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
)

const userColumns = `id, email, phone, is_email_verified, is_phone_verified, role, status, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	var (
		u      entity.User
		email  pgtype.Text
		phone  pgtype.Text
		role   string
		status string
	)

	if err := row.Scan(
		&u.ID,
		&email,
		&phone,
		&u.IsEmailVerified,
		&u.IsPhoneVerified,
		&role,
		&status,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if email.Valid {
		u.Email = &email.String
	}
	if phone.Valid {
		u.Phone = &phone.String
	}
	u.Role = entity.UserRole(role)
	u.Status = entity.UserStatus(status)

	return &u, nil
}

func textOf(v *string) pgtype.Text {
	if v == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{Valid: true, String: *v}
}

func (s *DB) GetUserByID(ctx context.Context, id int64) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByID")
	defer func() { s.endSpan(span, err) }()

	u, err := scanUser(s.conn.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1 AND deleted_at IS NULL`, id))
	if err != nil {
		return nil, s.mapError(err)
	}

	return u, nil
}

func (s *DB) GetUserByIdentifier(ctx context.Context, ch entity.Channel, identifier string) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByIdentifier")
	defer func() { s.endSpan(span, err) }()

	var query string
	switch ch {
	case entity.ChannelEmail:
		query = `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND deleted_at IS NULL`
	case entity.ChannelSMS:
		query = `SELECT ` + userColumns + ` FROM users WHERE phone = $1 AND deleted_at IS NULL`
	default:
		return nil, goerror.ErrNotFound
	}

	u, err := scanUser(s.conn.QueryRow(ctx, query, identifier))
	if err != nil {
		return nil, s.mapError(err)
	}

	return u, nil
}

// CreateUser returns goerror.ErrConflict when the email or phone is taken.
// The insert does not raise, so an enclosing transaction stays usable.
func (s *DB) CreateUser(ctx context.Context, u entity.User) (err error) {
	ctx, span := s.startSpan(ctx, "CreateUser")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx,
		`INSERT INTO users (id, email, phone, is_email_verified, is_phone_verified, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT DO NOTHING`,
		u.ID,
		textOf(u.Email),
		textOf(u.Phone),
		u.IsEmailVerified,
		u.IsPhoneVerified,
		string(u.Role),
		string(u.Status),
		pgtype.Timestamptz{Valid: true, Time: u.CreatedAt},
		pgtype.Timestamptz{Valid: true, Time: u.UpdatedAt},
	)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrConflict
	}

	return nil
}

func (s *DB) MarkUserVerified(ctx context.Context, id int64, ch entity.Channel, now time.Time) (err error) {
	ctx, span := s.startSpan(ctx, "MarkUserVerified")
	defer func() { s.endSpan(span, err) }()

	var query string
	switch ch {
	case entity.ChannelEmail:
		query = `UPDATE users SET is_email_verified = TRUE, updated_at = $2 WHERE id = $1`
	case entity.ChannelSMS:
		query = `UPDATE users SET is_phone_verified = TRUE, updated_at = $2 WHERE id = $1`
	default:
		return goerror.ErrNotFound
	}

	tag, err := s.conn.Exec(ctx, query, id, pgtype.Timestamptz{Valid: true, Time: now})
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	return nil
}
