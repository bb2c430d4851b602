package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"projecthub/internal/session/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a session repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, s *domain.Session) error {
	const q = `
		INSERT INTO sessions (id, principal_id, refresh_jti, refresh_token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, q,
		s.ID, s.PrincipalID, s.RefreshJTI, s.RefreshTokenHash, s.ExpiresAt, s.CreatedAt,
	)
	return err
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	const q = `
		SELECT id, principal_id, refresh_jti, refresh_token_hash, expires_at, created_at, last_seen_at, revoked_at
		FROM sessions
		WHERE id = $1`
	var s domain.Session
	var lastSeen, revoked sql.NullTime
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.PrincipalID, &s.RefreshJTI, &s.RefreshTokenHash, &s.ExpiresAt, &s.CreatedAt,
		&lastSeen, &revoked,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if lastSeen.Valid {
		s.LastSeenAt = &lastSeen.Time
	}
	if revoked.Valid {
		s.RevokedAt = &revoked.Time
	}
	return &s, nil
}

func (r *PostgresRepository) Rotate(ctx context.Context, id, refreshJTI, refreshTokenHash string, expiresAt, seenAt time.Time) error {
	const q = `
		UPDATE sessions
		SET refresh_jti = $2, refresh_token_hash = $3, expires_at = $4, last_seen_at = $5
		WHERE id = $1 AND revoked_at IS NULL`
	res, err := r.db.ExecContext(ctx, q, id, refreshJTI, refreshTokenHash, expiresAt, seenAt)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.New("session not rotatable")
	}
	return nil
}

func (r *PostgresRepository) Revoke(ctx context.Context, id string, at time.Time) error {
	const q = `UPDATE sessions SET revoked_at = $2 WHERE id = $1 AND revoked_at IS NULL`
	_, err := r.db.ExecContext(ctx, q, id, at)
	return err
}
