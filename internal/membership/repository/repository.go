package repository

import (
	"context"

	"projecthub/internal/membership/domain"
)

// Repository persists project memberships. Point lookups return (nil, nil)
// when no row matches.
type Repository interface {
	Create(ctx context.Context, m *domain.Membership) error
	GetByProjectAndPrincipal(ctx context.Context, projectID, principalID string) (*domain.Membership, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Membership, error)
	ListByPrincipal(ctx context.Context, principalID string) ([]*domain.Membership, error)
	Delete(ctx context.Context, projectID, principalID string) error
}
