package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"projecthub/internal/access"
	"projecthub/internal/audit"
	"projecthub/internal/grant/domain"
	grantrepo "projecthub/internal/grant/repository"
	identitydomain "projecthub/internal/identity/domain"
)

// Decider gates grant administration on the shared evaluation path.
type Decider interface {
	Decide(ctx context.Context, principalID, projectID string, module access.Module, level access.Level) (access.Decision, error)
}

// PrincipalResolver verifies the grant target exists; nil when unknown.
type PrincipalResolver interface {
	GetByID(ctx context.Context, id string) (*identitydomain.Principal, error)
}

// Service administers module grants. Issuing or revoking a grant is reserved
// to the project creator and administrators; holding a write grant on a module
// does not confer the authority to grant it onward. Every change is audited
// with the module taken from the grant row itself.
type Service struct {
	grants     grantrepo.Repository
	principals PrincipalResolver
	decider    Decider
	auditor    *audit.Logger
}

func NewService(grants grantrepo.Repository, principals PrincipalResolver, decider Decider, auditor *audit.Logger) *Service {
	return &Service{
		grants:     grants,
		principals: principals,
		decider:    decider,
		auditor:    auditor,
	}
}

// Grant issues or replaces the (project, principal, module) grant at the
// given level. Last write wins: regranting at a lower level is a downgrade,
// recorded as access_level_changed. Grants take effect on the next decision.
func (s *Service) Grant(ctx context.Context, actorID, projectID, principalID string, module access.Module, level access.Level) (*domain.ModuleGrant, error) {
	// Authorization first: an unauthorized caller must see Forbidden, never a
	// validation error it could use to probe resource shape.
	if err := s.gate(ctx, actorID, projectID); err != nil {
		return nil, err
	}
	if !access.ValidModule(module) {
		return nil, fmt.Errorf("%w: unknown module %q", access.ErrInvalidArgument, module)
	}
	if !access.ValidLevel(level) {
		return nil, fmt.Errorf("%w: unknown level %q", access.ErrInvalidArgument, level)
	}

	target, err := s.principals.GetByID(ctx, principalID)
	if err != nil {
		return nil, fmt.Errorf("lookup principal: %w", err)
	}
	if target == nil {
		return nil, access.ErrNotFound
	}

	prev, err := s.grants.GetByProjectPrincipalModule(ctx, projectID, principalID, module)
	if err != nil {
		return nil, fmt.Errorf("lookup grant: %w", err)
	}

	g := &domain.ModuleGrant{
		ID:          uuid.New().String(),
		ProjectID:   projectID,
		PrincipalID: principalID,
		Module:      module,
		Level:       level,
		GrantedBy:   actorID,
		GrantedAt:   time.Now().UTC(),
	}
	if prev != nil {
		g.ID = prev.ID
	}
	if err := s.grants.Upsert(ctx, g); err != nil {
		return nil, fmt.Errorf("upsert grant: %w", err)
	}

	if prev == nil {
		s.auditor.Record(ctx, "module_grant", audit.OpInsert, actorID, nil, g)
	} else {
		s.auditor.Record(ctx, "module_grant", audit.OpUpdate, actorID, prev, g)
	}
	return g, nil
}

// Revoke removes the grant. Takes effect on the very next decision; the
// principal keeps read access through membership if enrolled.
func (s *Service) Revoke(ctx context.Context, actorID, projectID, principalID string, module access.Module) error {
	if err := s.gate(ctx, actorID, projectID); err != nil {
		return err
	}
	if !access.ValidModule(module) {
		return fmt.Errorf("%w: unknown module %q", access.ErrInvalidArgument, module)
	}

	g, err := s.grants.GetByProjectPrincipalModule(ctx, projectID, principalID, module)
	if err != nil {
		return fmt.Errorf("lookup grant: %w", err)
	}
	if g == nil {
		return access.ErrNotFound
	}
	if err := s.grants.Delete(ctx, projectID, principalID, module); err != nil {
		return fmt.Errorf("delete grant: %w", err)
	}
	s.auditor.Record(ctx, "module_grant", audit.OpDelete, actorID, g, nil)
	return nil
}

// gate admits only the project creator and administrators to grant
// administration. A module write grant held by the actor is not enough: grant
// holders could otherwise mint further grants on the modules they hold.
func (s *Service) gate(ctx context.Context, actorID, projectID string) error {
	d, err := s.decider.Decide(ctx, actorID, projectID, access.ModuleOverview, access.LevelWrite)
	if err != nil {
		return err
	}
	if !d.Allowed {
		return access.DenyError(d)
	}
	if d.Reason != access.ReasonAdministrator && d.Reason != access.ReasonOwner {
		return access.ErrForbidden
	}
	return nil
}

// List returns the project's grants, gated on overview read so any member
// can see who holds what.
func (s *Service) List(ctx context.Context, actorID, projectID string) ([]*domain.ModuleGrant, error) {
	d, err := s.decider.Decide(ctx, actorID, projectID, access.ModuleOverview, access.LevelRead)
	if err != nil {
		return nil, err
	}
	if !d.Allowed {
		return nil, access.DenyError(d)
	}
	gs, err := s.grants.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list grants: %w", err)
	}
	return gs, nil
}
