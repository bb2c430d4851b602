package domain

import (
	"time"
)

// Membership enrolls a principal in a project with a role. Enrollment grants
// default read visibility on all modules; writes always require an explicit
// module grant.
type Membership struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	PrincipalID string    `json:"principal_id"`
	Role        Role      `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

type Role string

const (
	RoleLead   Role = "lead"
	RoleMember Role = "member"
)
