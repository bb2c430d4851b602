package repository

import (
	"context"

	"projecthub/internal/project/domain"
)

// Repository persists projects. GetByID returns (nil, nil) when no row matches.
type Repository interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	// List returns every project, oldest first. Department visibility is a
	// caller concern; the repository never filters.
	List(ctx context.Context) ([]*domain.Project, error)
	Delete(ctx context.Context, id string) error
}
