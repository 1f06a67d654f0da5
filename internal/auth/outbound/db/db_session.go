package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shandysiswandi/otpgate/internal/auth/entity"
)

func (s *DB) CreateSession(ctx context.Context, sess entity.Session) (err error) {
	ctx, span := s.startSpan(ctx, "CreateSession")
	defer func() { s.endSpan(span, err) }()

	ip := pgtype.Text{}
	if sess.IP != "" {
		ip = pgtype.Text{Valid: true, String: sess.IP}
	}

	_, err = s.conn.Exec(ctx,
		`INSERT INTO sessions (id, user_id, token_hash, device_info, ip_address, expires_at, revoked, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		sess.ID,
		sess.UserID,
		sess.TokenHash,
		sess.DeviceInfo,
		ip,
		pgtype.Timestamptz{Valid: true, Time: sess.ExpiresAt},
		sess.Revoked,
		pgtype.Timestamptz{Valid: true, Time: sess.CreatedAt},
	)
	return s.mapError(err)
}
