package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"projecthub/internal/access"
	"projecthub/internal/audit"
	identitydomain "projecthub/internal/identity/domain"
	"projecthub/internal/membership/domain"
	membershiprepo "projecthub/internal/membership/repository"
)

// Decider gates membership operations on the shared evaluation path.
type Decider interface {
	Decide(ctx context.Context, principalID, projectID string, module access.Module, level access.Level) (access.Decision, error)
}

// PrincipalResolver verifies the enrollment target exists; nil when unknown.
type PrincipalResolver interface {
	GetByID(ctx context.Context, id string) (*identitydomain.Principal, error)
}

// Service manages project enrollment. Membership changes are overview-module
// writes: only the creator, administrators, and principals holding an
// overview write grant may add or remove members.
type Service struct {
	memberships membershiprepo.Repository
	principals  PrincipalResolver
	decider     Decider
	auditor     *audit.Logger
}

func NewService(memberships membershiprepo.Repository, principals PrincipalResolver, decider Decider, auditor *audit.Logger) *Service {
	return &Service{
		memberships: memberships,
		principals:  principals,
		decider:     decider,
		auditor:     auditor,
	}
}

// Add enrolls a principal in the project. Enrolling an already-enrolled
// principal is rejected rather than silently replacing the role.
func (s *Service) Add(ctx context.Context, actorID, projectID, principalID string, role domain.Role) (*domain.Membership, error) {
	// Authorization first: an unauthorized caller must see Forbidden, never a
	// validation error.
	d, err := s.decider.Decide(ctx, actorID, projectID, access.ModuleOverview, access.LevelWrite)
	if err != nil {
		return nil, err
	}
	if !d.Allowed {
		return nil, access.DenyError(d)
	}

	if role == "" {
		role = domain.RoleMember
	}
	if role != domain.RoleLead && role != domain.RoleMember {
		return nil, fmt.Errorf("%w: unknown role %q", access.ErrInvalidArgument, role)
	}

	target, err := s.principals.GetByID(ctx, principalID)
	if err != nil {
		return nil, fmt.Errorf("lookup principal: %w", err)
	}
	if target == nil {
		return nil, access.ErrNotFound
	}
	existing, err := s.memberships.GetByProjectAndPrincipal(ctx, projectID, principalID)
	if err != nil {
		return nil, fmt.Errorf("lookup membership: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: already a member", access.ErrInvalidArgument)
	}

	m := &domain.Membership{
		ID:          uuid.New().String(),
		ProjectID:   projectID,
		PrincipalID: principalID,
		Role:        role,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.memberships.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("create membership: %w", err)
	}
	s.auditor.Record(ctx, "membership", audit.OpInsert, actorID, nil, m)
	return m, nil
}

// Remove drops the principal from the project. Removal takes effect on the
// next decision; explicit module grants for the principal survive and keep
// working on their own.
func (s *Service) Remove(ctx context.Context, actorID, projectID, principalID string) error {
	d, err := s.decider.Decide(ctx, actorID, projectID, access.ModuleOverview, access.LevelWrite)
	if err != nil {
		return err
	}
	if !d.Allowed {
		return access.DenyError(d)
	}

	m, err := s.memberships.GetByProjectAndPrincipal(ctx, projectID, principalID)
	if err != nil {
		return fmt.Errorf("lookup membership: %w", err)
	}
	if m == nil {
		return access.ErrNotFound
	}
	if err := s.memberships.Delete(ctx, projectID, principalID); err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}
	s.auditor.Record(ctx, "membership", audit.OpDelete, actorID, m, nil)
	return nil
}

// List returns the project's members, gated on overview read.
func (s *Service) List(ctx context.Context, actorID, projectID string) ([]*domain.Membership, error) {
	d, err := s.decider.Decide(ctx, actorID, projectID, access.ModuleOverview, access.LevelRead)
	if err != nil {
		return nil, err
	}
	if !d.Allowed {
		return nil, access.DenyError(d)
	}
	ms, err := s.memberships.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	return ms, nil
}
