package repository

import (
	"context"

	"projecthub/internal/access"
	"projecthub/internal/grant/domain"
)

// Repository persists module grants. Point lookups return (nil, nil) when no
// row matches. Upsert implements last-write-wins on the (project, principal,
// module) triple.
type Repository interface {
	Upsert(ctx context.Context, g *domain.ModuleGrant) error
	GetByProjectPrincipalModule(ctx context.Context, projectID, principalID string, module access.Module) (*domain.ModuleGrant, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.ModuleGrant, error)
	Delete(ctx context.Context, projectID, principalID string, module access.Module) error
}
