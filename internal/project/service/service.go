package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"projecthub/internal/access"
	"projecthub/internal/audit"
	identitydomain "projecthub/internal/identity/domain"
	membershiprepo "projecthub/internal/membership/repository"
	"projecthub/internal/project/domain"
	projectrepo "projecthub/internal/project/repository"
)

// Decider gates project operations on the shared evaluation path.
type Decider interface {
	Decide(ctx context.Context, principalID, projectID string, module access.Module, level access.Level) (access.Decision, error)
}

// PrincipalResolver re-reads the acting principal; nil when unknown.
type PrincipalResolver interface {
	GetByID(ctx context.Context, id string) (*identitydomain.Principal, error)
}

// Service manages project lifecycle and visibility-filtered listing.
type Service struct {
	projects    projectrepo.Repository
	memberships membershiprepo.Repository
	principals  PrincipalResolver
	decider     Decider
	auditor     *audit.Logger
}

func NewService(projects projectrepo.Repository, memberships membershiprepo.Repository, principals PrincipalResolver, decider Decider, auditor *audit.Logger) *Service {
	return &Service{
		projects:    projects,
		memberships: memberships,
		principals:  principals,
		decider:     decider,
		auditor:     auditor,
	}
}

// Create opens a new project owned by the creator. The project inherits the
// creator's department at this moment and keeps it even if the creator moves.
func (s *Service) Create(ctx context.Context, creatorID, name string) (*domain.Project, error) {
	creator, err := s.principals.GetByID(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("lookup creator: %w", err)
	}
	if creator == nil || creator.Status != identitydomain.StatusActive {
		return nil, access.ErrUnauthenticated
	}

	p := &domain.Project{
		ID:         uuid.New().String(),
		Name:       name,
		CreatorID:  creator.ID,
		Department: creator.Department,
		CreatedAt:  time.Now().UTC(),
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", access.ErrInvalidArgument, err)
	}
	if err := s.projects.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	s.auditor.Record(ctx, "project", audit.OpInsert, creator.ID, nil, p)
	return p, nil
}

// Get returns the project when the principal can read its overview module.
func (s *Service) Get(ctx context.Context, principalID, projectID string) (*domain.Project, error) {
	d, err := s.decider.Decide(ctx, principalID, projectID, access.ModuleOverview, access.LevelRead)
	if err != nil {
		return nil, err
	}
	if !d.Allowed {
		return nil, access.DenyError(d)
	}
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("lookup project: %w", err)
	}
	if p == nil {
		return nil, access.ErrNotFound
	}
	return p, nil
}

// List returns the projects visible to the principal: everything for
// administrators; otherwise own projects, enrolled projects, and projects in
// the principal's department. Department scope widens listings only, it never
// feeds per-module decisions.
func (s *Service) List(ctx context.Context, principalID string) ([]*domain.Project, error) {
	p, err := s.principals.GetByID(ctx, principalID)
	if err != nil {
		return nil, fmt.Errorf("lookup principal: %w", err)
	}
	if p == nil || p.Status != identitydomain.StatusActive {
		return nil, access.ErrUnauthenticated
	}

	all, err := s.projects.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	if p.IsAdministrator() {
		return all, nil
	}

	enrolled := map[string]bool{}
	ms, err := s.memberships.ListByPrincipal(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	for _, m := range ms {
		enrolled[m.ProjectID] = true
	}

	var out []*domain.Project
	for _, proj := range all {
		if proj.CreatorID == p.ID || enrolled[proj.ID] || access.InScope(p, proj.Department) {
			out = append(out, proj)
		}
	}
	return out, nil
}

// Delete removes the project. Reserved to the creator and administrators;
// module grants and membership never reach deletion. Audit records for the
// project are retained.
func (s *Service) Delete(ctx context.Context, actorID, projectID string) error {
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

	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return fmt.Errorf("lookup project: %w", err)
	}
	if p == nil {
		return access.ErrNotFound
	}
	if err := s.projects.Delete(ctx, projectID); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	s.auditor.Record(ctx, "project", audit.OpDelete, actorID, p, nil)
	return nil
}
