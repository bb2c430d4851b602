package access

import (
	"context"

	identitydomain "projecthub/internal/identity/domain"
	membershipdomain "projecthub/internal/membership/domain"
	projectdomain "projecthub/internal/project/domain"
)

// Reason explains which precedence rule produced the decision. Reasons are
// internal (metrics, tests); the error surfaced to callers collapses them.
type Reason string

const (
	ReasonAdministrator    Reason = "administrator"
	ReasonOwner            Reason = "owner"
	ReasonGrant            Reason = "grant"
	ReasonMembership       Reason = "membership"
	ReasonNoAccess         Reason = "no_access"
	ReasonProjectNotFound  Reason = "project_not_found"
	ReasonUnknownPrincipal Reason = "unknown_principal"
	ReasonInvalidRequest   Reason = "invalid_request"
)

// Decision is the outcome of one evaluation. Exactly one precedence rule
// fires per call; the same inputs with no state change always produce the
// same decision.
type Decision struct {
	Allowed bool
	Reason  Reason
}

func allow(r Reason) Decision { return Decision{Allowed: true, Reason: r} }
func deny(r Reason) Decision  { return Decision{Allowed: false, Reason: r} }

// PrincipalGetter resolves a principal by id; nil when not found.
type PrincipalGetter interface {
	GetByID(ctx context.Context, id string) (*identitydomain.Principal, error)
}

// ProjectGetter resolves a project by id; nil when not found.
type ProjectGetter interface {
	GetByID(ctx context.Context, id string) (*projectdomain.Project, error)
}

// MembershipGetter is the membership registry lookup: nil when the principal
// is not enrolled. Must be side-effect-free.
type MembershipGetter interface {
	GetByProjectAndPrincipal(ctx context.Context, projectID, principalID string) (*membershipdomain.Membership, error)
}

// GrantGetter is the module grant store lookup. ok is false when no explicit
// grant exists for the triple. Must be side-effect-free.
type GrantGetter interface {
	GrantLevel(ctx context.Context, projectID, principalID string, module Module) (level Level, ok bool, err error)
}

// MetricsRecorder receives decision outcomes for operational telemetry.
type MetricsRecorder interface {
	RecordDecision(ctx context.Context, module string, level string, allowed bool)
}

// Evaluator composes the four authority sources into a single Allow/Deny
// decision. It is stateless and safe for unbounded concurrent use: every
// rule performs at most one pure lookup, and nothing is cached across calls,
// so a revoked grant takes effect on the very next decision.
type Evaluator struct {
	principals  PrincipalGetter
	projects    ProjectGetter
	memberships MembershipGetter
	grants      GrantGetter
	metrics     MetricsRecorder
}

// NewEvaluator returns an Evaluator over the given lookups. metrics may be nil.
func NewEvaluator(principals PrincipalGetter, projects ProjectGetter, memberships MembershipGetter, grants GrantGetter, metrics MetricsRecorder) *Evaluator {
	return &Evaluator{
		principals:  principals,
		projects:    projects,
		memberships: memberships,
		grants:      grants,
		metrics:     metrics,
	}
}

// Decide evaluates (principal, project, module, level) against the fixed
// precedence order, first match wins:
//
//  1. administrator → Allow
//  2. project creator → Allow
//  3. explicit module grant covering the requested level → Allow
//  4. membership, read requested → Allow
//  5. → Deny
//
// Administrator and ownership are direct attribute comparisons so a missing
// or stale grant row can never lock out an owner. Decide is safe to call
// with a non-existent project id: it returns Deny with ReasonProjectNotFound
// so callers can choose 404 over 403. The returned error is for
// infrastructure failures only, never for a policy outcome.
func (e *Evaluator) Decide(ctx context.Context, principalID, projectID string, module Module, level Level) (Decision, error) {
	d, err := e.decide(ctx, principalID, projectID, module, level, true)
	if err == nil && e.metrics != nil {
		e.metrics.RecordDecision(ctx, string(module), string(level), d.Allowed)
	}
	return d, err
}

// DecideProject evaluates project-level read visibility: administrator,
// ownership, and membership only (an audit viewer needs project-level read,
// not per-module grants, since the audit trail spans all modules).
func (e *Evaluator) DecideProject(ctx context.Context, principalID, projectID string) (Decision, error) {
	d, err := e.decide(ctx, principalID, projectID, "", LevelRead, false)
	if err == nil && e.metrics != nil {
		e.metrics.RecordDecision(ctx, "project", string(LevelRead), d.Allowed)
	}
	return d, err
}

func (e *Evaluator) decide(ctx context.Context, principalID, projectID string, module Module, level Level, useGrants bool) (Decision, error) {
	if principalID == "" {
		return deny(ReasonUnknownPrincipal), nil
	}
	if !ValidLevel(level) {
		return deny(ReasonInvalidRequest), nil
	}
	if useGrants && !ValidModule(module) && module != ModuleRoles {
		return deny(ReasonInvalidRequest), nil
	}

	principal, err := e.principals.GetByID(ctx, principalID)
	if err != nil {
		return deny(ReasonNoAccess), err
	}
	if principal == nil || principal.Status != identitydomain.StatusActive {
		return deny(ReasonUnknownPrincipal), nil
	}

	// Rule 1: administrators bypass everything, including project existence.
	if principal.IsAdministrator() {
		return allow(ReasonAdministrator), nil
	}

	// The roles module is reachable only through rule 1.
	if module == ModuleRoles {
		return deny(ReasonNoAccess), nil
	}

	project, err := e.projects.GetByID(ctx, projectID)
	if err != nil {
		return deny(ReasonNoAccess), err
	}
	if project == nil {
		return deny(ReasonProjectNotFound), nil
	}

	// Rule 2: the creator has implicit full access, no rows required.
	if project.CreatorID == principalID {
		return allow(ReasonOwner), nil
	}

	// Rule 3: explicit module grant; write implies read.
	if useGrants {
		granted, ok, err := e.grants.GrantLevel(ctx, projectID, principalID, module)
		if err != nil {
			return deny(ReasonNoAccess), err
		}
		if ok && granted.Satisfies(level) {
			return allow(ReasonGrant), nil
		}
	}

	// Rule 4: plain membership grants read only.
	if level == LevelRead {
		m, err := e.memberships.GetByProjectAndPrincipal(ctx, projectID, principalID)
		if err != nil {
			return deny(ReasonNoAccess), err
		}
		if m != nil {
			return allow(ReasonMembership), nil
		}
	}

	return deny(ReasonNoAccess), nil
}
