package repository

import (
	"context"
	"database/sql"
	"errors"

	"projecthub/internal/access"
	"projecthub/internal/grant/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a module grant repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert inserts the grant or, when the triple already exists, replaces its
// level and attribution in place.
func (r *PostgresRepository) Upsert(ctx context.Context, g *domain.ModuleGrant) error {
	const q = `
		INSERT INTO module_grants (id, project_id, principal_id, module, level, granted_by, granted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (project_id, principal_id, module)
		DO UPDATE SET level = EXCLUDED.level, granted_by = EXCLUDED.granted_by, granted_at = EXCLUDED.granted_at`
	_, err := r.db.ExecContext(ctx, q,
		g.ID, g.ProjectID, g.PrincipalID, string(g.Module), string(g.Level), g.GrantedBy, g.GrantedAt,
	)
	return err
}

func (r *PostgresRepository) GetByProjectPrincipalModule(ctx context.Context, projectID, principalID string, module access.Module) (*domain.ModuleGrant, error) {
	const q = `
		SELECT id, project_id, principal_id, module, level, granted_by, granted_at
		FROM module_grants
		WHERE project_id = $1 AND principal_id = $2 AND module = $3`
	var g domain.ModuleGrant
	var mod, level string
	err := r.db.QueryRowContext(ctx, q, projectID, principalID, string(module)).Scan(
		&g.ID, &g.ProjectID, &g.PrincipalID, &mod, &level, &g.GrantedBy, &g.GrantedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	g.Module = access.Module(mod)
	g.Level = access.Level(level)
	return &g, nil
}

// GrantLevel reports the explicit grant level for the triple; ok is false
// when no grant exists. This is the pure lookup the access evaluator runs.
func (r *PostgresRepository) GrantLevel(ctx context.Context, projectID, principalID string, module access.Module) (access.Level, bool, error) {
	g, err := r.GetByProjectPrincipalModule(ctx, projectID, principalID, module)
	if err != nil || g == nil {
		return "", false, err
	}
	return g.Level, true, nil
}

func (r *PostgresRepository) ListByProject(ctx context.Context, projectID string) ([]*domain.ModuleGrant, error) {
	const q = `
		SELECT id, project_id, principal_id, module, level, granted_by, granted_at
		FROM module_grants
		WHERE project_id = $1
		ORDER BY granted_at, id`
	rows, err := r.db.QueryContext(ctx, q, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.ModuleGrant
	for rows.Next() {
		var g domain.ModuleGrant
		var mod, level string
		if err := rows.Scan(&g.ID, &g.ProjectID, &g.PrincipalID, &mod, &level, &g.GrantedBy, &g.GrantedAt); err != nil {
			return nil, err
		}
		g.Module = access.Module(mod)
		g.Level = access.Level(level)
		out = append(out, &g)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Delete(ctx context.Context, projectID, principalID string, module access.Module) error {
	const q = `DELETE FROM module_grants WHERE project_id = $1 AND principal_id = $2 AND module = $3`
	_, err := r.db.ExecContext(ctx, q, projectID, principalID, string(module))
	return err
}
