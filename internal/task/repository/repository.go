package repository

import (
	"context"

	"projecthub/internal/task/domain"
)

// Repository persists tasks. GetByID returns (nil, nil) when no row matches.
type Repository interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
}
