package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"projecthub/internal/access"
	"projecthub/internal/audit"
	"projecthub/internal/task/domain"
	taskrepo "projecthub/internal/task/repository"
)

// Decider gates task operations on the shared evaluation path.
type Decider interface {
	Decide(ctx context.Context, principalID, projectID string, module access.Module, level access.Level) (access.Decision, error)
}

// Service manages tasks. It is the template every module resource follows:
// decide against the tasks module, mutate, then record the accepted mutation.
type Service struct {
	tasks   taskrepo.Repository
	decider Decider
	auditor *audit.Logger
}

func NewService(tasks taskrepo.Repository, decider Decider, auditor *audit.Logger) *Service {
	return &Service{tasks: tasks, decider: decider, auditor: auditor}
}

func (s *Service) Create(ctx context.Context, actorID, projectID, title, assigneeID string) (*domain.Task, error) {
	if err := s.gate(ctx, actorID, projectID, access.LevelWrite); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	t := &domain.Task{
		ID:         uuid.New().String(),
		ProjectID:  projectID,
		Title:      title,
		Status:     domain.StatusOpen,
		AssigneeID: assigneeID,
		CreatedBy:  actorID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", access.ErrInvalidArgument, err)
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	s.auditor.Record(ctx, "task", audit.OpInsert, actorID, nil, t)
	return t, nil
}

func (s *Service) Get(ctx context.Context, actorID, taskID string) (*domain.Task, error) {
	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("lookup task: %w", err)
	}
	if t == nil {
		return nil, access.ErrNotFound
	}
	if err := s.gate(ctx, actorID, t.ProjectID, access.LevelRead); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) ListByProject(ctx context.Context, actorID, projectID string) ([]*domain.Task, error) {
	if err := s.gate(ctx, actorID, projectID, access.LevelRead); err != nil {
		return nil, err
	}
	ts, err := s.tasks.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return ts, nil
}

// Update applies title, status, and assignee changes. The audit record
// carries both snapshots so the trail answers what changed, not just that
// something did.
func (s *Service) Update(ctx context.Context, actorID, taskID string, title string, status domain.Status, assigneeID string) (*domain.Task, error) {
	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("lookup task: %w", err)
	}
	if t == nil {
		return nil, access.ErrNotFound
	}
	if err := s.gate(ctx, actorID, t.ProjectID, access.LevelWrite); err != nil {
		return nil, err
	}

	before := *t
	if title != "" {
		t.Title = title
	}
	if status != "" {
		t.Status = status
	}
	if assigneeID != "" {
		t.AssigneeID = assigneeID
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", access.ErrInvalidArgument, err)
	}
	t.UpdatedAt = time.Now().UTC()
	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	s.auditor.Record(ctx, "task", audit.OpUpdate, actorID, &before, t)
	return t, nil
}

func (s *Service) Delete(ctx context.Context, actorID, taskID string) error {
	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return fmt.Errorf("lookup task: %w", err)
	}
	if t == nil {
		return access.ErrNotFound
	}
	if err := s.gate(ctx, actorID, t.ProjectID, access.LevelWrite); err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	s.auditor.Record(ctx, "task", audit.OpDelete, actorID, t, nil)
	return nil
}

func (s *Service) gate(ctx context.Context, actorID, projectID string, level access.Level) error {
	d, err := s.decider.Decide(ctx, actorID, projectID, access.ModuleTasksMilestones, level)
	if err != nil {
		return err
	}
	return access.DenyError(d)
}
