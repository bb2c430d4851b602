package domain

import (
	"errors"
	"time"
)

// Task is a work item inside a project's tasks and milestones module.
type Task struct {
	ID         string    `json:"id"`
	ProjectID  string    `json:"project_id"`
	Title      string    `json:"title"`
	Status     Status    `json:"status"`
	AssigneeID string    `json:"assignee_id,omitempty"`
	CreatedBy  string    `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Status string

const (
	StatusOpen   Status = "open"
	StatusActive Status = "active"
	StatusDone   Status = "done"
)

// Validate validates the task for persistence.
func (t *Task) Validate() error {
	if t.ProjectID == "" {
		return errors.New("project is required")
	}
	if t.Title == "" {
		return errors.New("title is required")
	}
	switch t.Status {
	case "", StatusOpen, StatusActive, StatusDone:
	default:
		return errors.New("status must be open, active, or done")
	}
	if t.Status == "" {
		t.Status = StatusOpen
	}
	return nil
}
