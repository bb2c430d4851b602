package repository

import (
	"context"
	"database/sql"
	"errors"

	"projecthub/internal/task/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a task repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, t *domain.Task) error {
	const q = `
		INSERT INTO tasks (id, project_id, title, status, assignee_id, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, q,
		t.ID, t.ProjectID, t.Title, string(t.Status), t.AssigneeID, t.CreatedBy, t.CreatedAt, t.UpdatedAt,
	)
	return err
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	const q = `
		SELECT id, project_id, title, status, assignee_id, created_by, created_at, updated_at
		FROM tasks
		WHERE id = $1`
	var t domain.Task
	var status string
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&t.ID, &t.ProjectID, &t.Title, &status, &t.AssigneeID, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t.Status = domain.Status(status)
	return &t, nil
}

func (r *PostgresRepository) ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	const q = `
		SELECT id, project_id, title, status, assignee_id, created_by, created_at, updated_at
		FROM tasks
		WHERE project_id = $1
		ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, q, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Task
	for rows.Next() {
		var t domain.Task
		var status string
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.Title, &status, &t.AssigneeID, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		t.Status = domain.Status(status)
		out = append(out, &t)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Update(ctx context.Context, t *domain.Task) error {
	const q = `
		UPDATE tasks
		SET title = $2, status = $3, assignee_id = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, t.ID, t.Title, string(t.Status), t.AssigneeID, t.UpdatedAt)
	return err
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	return err
}
