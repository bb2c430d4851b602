package domain

import (
	"time"

	"projecthub/internal/access"
)

// ModuleGrant is an explicit (project, principal, module) → level record
// issued by a project owner or an administrator. A later grant for the same
// triple replaces the earlier one; the replacement itself is audited.
type ModuleGrant struct {
	ID          string        `json:"id"`
	ProjectID   string        `json:"project_id"`
	PrincipalID string        `json:"principal_id"`
	Module      access.Module `json:"module"`
	Level       access.Level  `json:"level"`
	GrantedBy   string        `json:"granted_by"`
	GrantedAt   time.Time     `json:"granted_at"`
}
