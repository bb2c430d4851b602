package domain

import (
	"encoding/json"
	"time"

	"projecthub/internal/access"
)

// Record is one immutable audit log entry describing an accepted mutation or
// permission change. Records are append-only: nothing in normal operation
// updates or deletes them.
type Record struct {
	ID          string
	ProjectID   string
	PrincipalID string
	Module      access.Module
	Action      Action
	EntityKind  string
	EntityID    string
	// Before is the structured snapshot prior to the mutation; nil for created.
	Before json.RawMessage
	// After is the structured snapshot after the mutation; nil for deleted.
	After       json.RawMessage
	Description string
	CreatedAt   time.Time
}

// Action classifies what the record describes.
type Action string

const (
	ActionCreated            Action = "created"
	ActionUpdated            Action = "updated"
	ActionDeleted            Action = "deleted"
	ActionGranted            Action = "granted"
	ActionRevoked            Action = "revoked"
	ActionAccessLevelChanged Action = "access_level_changed"
)
