package repository

import (
	"context"
	"database/sql"
	"errors"

	"projecthub/internal/membership/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a membership repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, m *domain.Membership) error {
	const q = `
		INSERT INTO memberships (id, project_id, principal_id, role, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, q, m.ID, m.ProjectID, m.PrincipalID, string(m.Role), m.CreatedAt)
	return err
}

func (r *PostgresRepository) GetByProjectAndPrincipal(ctx context.Context, projectID, principalID string) (*domain.Membership, error) {
	const q = `
		SELECT id, project_id, principal_id, role, created_at
		FROM memberships
		WHERE project_id = $1 AND principal_id = $2`
	var m domain.Membership
	var role string
	err := r.db.QueryRowContext(ctx, q, projectID, principalID).Scan(
		&m.ID, &m.ProjectID, &m.PrincipalID, &role, &m.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	m.Role = domain.Role(role)
	return &m, nil
}

func (r *PostgresRepository) ListByProject(ctx context.Context, projectID string) ([]*domain.Membership, error) {
	const q = `
		SELECT id, project_id, principal_id, role, created_at
		FROM memberships
		WHERE project_id = $1
		ORDER BY created_at, id`
	return r.list(ctx, q, projectID)
}

func (r *PostgresRepository) ListByPrincipal(ctx context.Context, principalID string) ([]*domain.Membership, error) {
	const q = `
		SELECT id, project_id, principal_id, role, created_at
		FROM memberships
		WHERE principal_id = $1
		ORDER BY created_at, id`
	return r.list(ctx, q, principalID)
}

func (r *PostgresRepository) list(ctx context.Context, q string, arg any) ([]*domain.Membership, error) {
	rows, err := r.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Membership
	for rows.Next() {
		var m domain.Membership
		var role string
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.PrincipalID, &role, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Role = domain.Role(role)
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Delete(ctx context.Context, projectID, principalID string) error {
	const q = `DELETE FROM memberships WHERE project_id = $1 AND principal_id = $2`
	_, err := r.db.ExecContext(ctx, q, projectID, principalID)
	return err
}
