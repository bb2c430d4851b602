package repository

import (
	"context"
	"time"

	"projecthub/internal/audit/domain"
)

// Cursor is a keyset pagination position: records strictly older than
// (CreatedAt, ID) are returned.
type Cursor struct {
	CreatedAt time.Time
	ID        string
}

// Repository defines persistence for audit records. Append-only: there is
// deliberately no update or delete.
type Repository interface {
	Append(ctx context.Context, r *domain.Record) error
	// ListByProject returns up to limit records for the project, newest
	// first. A nil cursor starts from the newest record.
	ListByProject(ctx context.Context, projectID string, limit int, before *Cursor) ([]*domain.Record, error)
}
