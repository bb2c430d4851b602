package repository

import (
	"context"
	"database/sql"

	"projecthub/internal/access"
	"projecthub/internal/audit/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an audit record repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Append persists the record. The record must have ID set.
func (r *PostgresRepository) Append(ctx context.Context, rec *domain.Record) error {
	const q = `
		INSERT INTO audit_records
			(id, project_id, principal_id, module, action, entity_kind, entity_id, before_state, after_state, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	before := nullJSON(rec.Before)
	after := nullJSON(rec.After)
	_, err := r.db.ExecContext(ctx, q,
		rec.ID, rec.ProjectID, rec.PrincipalID, string(rec.Module), string(rec.Action),
		rec.EntityKind, rec.EntityID, before, after, rec.Description, rec.CreatedAt,
	)
	return err
}

// ListByProject returns up to limit records for the project, newest first,
// strictly older than the cursor when one is given.
func (r *PostgresRepository) ListByProject(ctx context.Context, projectID string, limit int, before *Cursor) ([]*domain.Record, error) {
	const base = `
		SELECT id, project_id, principal_id, module, action, entity_kind, entity_id,
		       before_state, after_state, description, created_at
		FROM audit_records
		WHERE project_id = $1`
	const order = ` ORDER BY created_at DESC, id DESC LIMIT `

	var rows *sql.Rows
	var err error
	if before != nil {
		rows, err = r.db.QueryContext(ctx,
			base+` AND (created_at, id) < ($2, $3)`+order+`$4`,
			projectID, before.CreatedAt, before.ID, limit,
		)
	} else {
		rows, err = r.db.QueryContext(ctx, base+order+`$2`, projectID, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Record
	for rows.Next() {
		var rec domain.Record
		var module, action string
		var beforeState, afterState []byte
		if err := rows.Scan(
			&rec.ID, &rec.ProjectID, &rec.PrincipalID, &module, &action,
			&rec.EntityKind, &rec.EntityID, &beforeState, &afterState,
			&rec.Description, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		rec.Module = access.Module(module)
		rec.Action = domain.Action(action)
		rec.Before = beforeState
		rec.After = afterState
		out = append(out, &rec)
	}
	return out, rows.Err()
}

func nullJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return raw
}
