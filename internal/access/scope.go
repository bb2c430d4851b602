package access

import (
	identitydomain "projecthub/internal/identity/domain"
)

// InScope reports whether a resource with the given department tag is
// visible to the principal in listings. Untagged resources are
// organization-wide; administrators see everything.
//
// Department scoping is a listing filter only. It is never consulted by
// Decide: an explicit grant on a resource in another department still wins,
// matching the precedence where explicit grants override department scope.
func InScope(p *identitydomain.Principal, resourceDepartment string) bool {
	if resourceDepartment == "" {
		return true
	}
	if p == nil {
		return false
	}
	if p.IsAdministrator() {
		return true
	}
	return p.Department == resourceDepartment
}
