package repository

import (
	"context"

	"projecthub/internal/identity/domain"
)

// Repository persists principals. Lookups return (nil, nil) when no row
// matches so callers can distinguish absence from infrastructure failure.
type Repository interface {
	Create(ctx context.Context, p *domain.Principal) error
	GetByID(ctx context.Context, id string) (*domain.Principal, error)
	GetByEmail(ctx context.Context, email string) (*domain.Principal, error)
	Update(ctx context.Context, p *domain.Principal) error
}
