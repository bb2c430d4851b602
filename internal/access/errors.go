package access

import "errors"

// Sentinel errors for the engine's error taxonomy; the transport edge maps
// them to 400/401/403/404. Deny deliberately collapses which rule was closest to
// succeeding so callers cannot probe grants, membership, or departments.
var (
	// ErrUnauthenticated means no resolvable principal; surfaced before any
	// decision is attempted.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden means the decision was Deny for an existing project.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound means the referenced project or entity does not exist and
	// its absence is not sensitive.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument means the request itself is malformed.
	ErrInvalidArgument = errors.New("invalid argument")
)

// DenyError maps a Deny decision to the sentinel error callers surface.
// A missing project becomes ErrNotFound (project existence is non-sensitive);
// everything else collapses to ErrForbidden. Returns nil for Allow.
func DenyError(d Decision) error {
	if d.Allowed {
		return nil
	}
	if d.Reason == ReasonProjectNotFound {
		return ErrNotFound
	}
	return ErrForbidden
}
