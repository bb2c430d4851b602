package service

import (
	"context"
	"fmt"
	"time"

	"projecthub/internal/access"
	"projecthub/internal/identity/domain"
	identityrepo "projecthub/internal/identity/repository"
)

// Decider gates administrative identity operations. Role, department, and
// status edits live behind the roles module, which only rule 1 can reach, so
// the gate reduces to "is the actor an active administrator" while staying on
// the same evaluation path as every other permission check.
type Decider interface {
	Decide(ctx context.Context, principalID, projectID string, module access.Module, level access.Level) (access.Decision, error)
}

// AdminService performs global identity administration: role assignment,
// department moves, and account disable/enable.
type AdminService struct {
	principals identityrepo.Repository
	decider    Decider
}

func NewAdminService(principals identityrepo.Repository, decider Decider) *AdminService {
	return &AdminService{principals: principals, decider: decider}
}

// SetGlobalRole promotes or demotes the target principal. Takes effect on the
// target's next request; no re-login is needed because tokens never carry the role.
func (s *AdminService) SetGlobalRole(ctx context.Context, actorID, targetID string, role domain.GlobalRole) (*domain.Principal, error) {
	return s.update(ctx, actorID, targetID, func(p *domain.Principal) error {
		if role != domain.RoleStandard && role != domain.RoleAdministrator {
			return fmt.Errorf("%w: unknown role %q", access.ErrInvalidArgument, role)
		}
		p.Role = role
		return nil
	})
}

// SetDepartment moves the target to another department. Existing projects
// keep the department they were created under.
func (s *AdminService) SetDepartment(ctx context.Context, actorID, targetID, department string) (*domain.Principal, error) {
	return s.update(ctx, actorID, targetID, func(p *domain.Principal) error {
		p.Department = department
		return nil
	})
}

// SetStatus disables or re-enables the target account. A disabled principal
// fails authentication resolution on its next request.
func (s *AdminService) SetStatus(ctx context.Context, actorID, targetID string, status domain.Status) (*domain.Principal, error) {
	return s.update(ctx, actorID, targetID, func(p *domain.Principal) error {
		if status != domain.StatusActive && status != domain.StatusDisabled {
			return fmt.Errorf("%w: unknown status %q", access.ErrInvalidArgument, status)
		}
		p.Status = status
		return nil
	})
}

// update gates first so an unauthorized caller sees Forbidden, never the
// validation error the mutate closure might raise.
func (s *AdminService) update(ctx context.Context, actorID, targetID string, mutate func(*domain.Principal) error) (*domain.Principal, error) {
	d, err := s.decider.Decide(ctx, actorID, "", access.ModuleRoles, access.LevelWrite)
	if err != nil {
		return nil, err
	}
	if !d.Allowed {
		return nil, access.ErrForbidden
	}

	p, err := s.principals.GetByID(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("lookup principal: %w", err)
	}
	if p == nil {
		return nil, access.ErrNotFound
	}
	if err := mutate(p); err != nil {
		return nil, err
	}
	p.UpdatedAt = time.Now().UTC()
	if err := s.principals.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update principal: %w", err)
	}
	return p, nil
}
