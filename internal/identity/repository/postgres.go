package repository

import (
	"context"
	"database/sql"
	"errors"

	"projecthub/internal/identity/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a principal repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, p *domain.Principal) error {
	const q = `
		INSERT INTO principals (id, email, name, password_hash, role, department, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, q,
		p.ID, p.Email, p.Name, p.PasswordHash, string(p.Role), p.Department, string(p.Status),
		p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Principal, error) {
	return r.getBy(ctx, `id = $1`, id)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.Principal, error) {
	return r.getBy(ctx, `email = $1`, email)
}

func (r *PostgresRepository) getBy(ctx context.Context, where string, arg any) (*domain.Principal, error) {
	q := `
		SELECT id, email, name, password_hash, role, department, status, created_at, updated_at
		FROM principals
		WHERE ` + where
	var p domain.Principal
	var role, status string
	err := r.db.QueryRowContext(ctx, q, arg).Scan(
		&p.ID, &p.Email, &p.Name, &p.PasswordHash, &role, &p.Department, &status,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.Role = domain.GlobalRole(role)
	p.Status = domain.Status(status)
	return &p, nil
}

func (r *PostgresRepository) Update(ctx context.Context, p *domain.Principal) error {
	const q = `
		UPDATE principals
		SET email = $2, name = $3, password_hash = $4, role = $5, department = $6, status = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q,
		p.ID, p.Email, p.Name, p.PasswordHash, string(p.Role), p.Department, string(p.Status), p.UpdatedAt,
	)
	return err
}
