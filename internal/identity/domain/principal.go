package domain

import (
	"errors"
	"time"
)

// Principal is an authenticated actor. Global role and department are
// re-read from storage on every request; they are never baked into tokens.
type Principal struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         GlobalRole
	// Department is the organizational unit tag; empty means none.
	Department string
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type GlobalRole string

const (
	RoleStandard      GlobalRole = "standard"
	RoleAdministrator GlobalRole = "administrator"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusDisabled Status = "disabled"
)

// IsAdministrator reports whether the principal bypasses per-module and
// per-department checks.
func (p *Principal) IsAdministrator() bool {
	return p != nil && p.Role == RoleAdministrator
}

// Validate validates the principal for persistence. Returns an error describing the first validation failure.
func (p *Principal) Validate() error {
	if p.Email == "" {
		return errors.New("email is required")
	}
	if p.Role == "" {
		p.Role = RoleStandard
	}
	if p.Role != RoleStandard && p.Role != RoleAdministrator {
		return errors.New("role must be standard or administrator")
	}
	if p.Status == "" {
		p.Status = StatusActive
	}
	return nil
}
