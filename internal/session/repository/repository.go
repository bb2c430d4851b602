package repository

import (
	"context"
	"time"

	"projecthub/internal/session/domain"
)

// Repository persists sessions. GetByID returns (nil, nil) when no row matches.
type Repository interface {
	Create(ctx context.Context, s *domain.Session) error
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	// Rotate replaces the refresh lineage after a successful refresh.
	Rotate(ctx context.Context, id, refreshJTI, refreshTokenHash string, expiresAt, seenAt time.Time) error
	Revoke(ctx context.Context, id string, at time.Time) error
}
