package access

import (
	"testing"

	identitydomain "projecthub/internal/identity/domain"
)

func TestInScope(t *testing.T) {
	admin := &identitydomain.Principal{ID: "a", Role: identitydomain.RoleAdministrator, Department: "eng"}
	eng := &identitydomain.Principal{ID: "e", Role: identitydomain.RoleStandard, Department: "eng"}
	sales := &identitydomain.Principal{ID: "s", Role: identitydomain.RoleStandard, Department: "sales"}

	cases := []struct {
		name       string
		p          *identitydomain.Principal
		department string
		want       bool
	}{
		{"untagged visible to anyone", sales, "", true},
		{"untagged visible to nil principal", nil, "", true},
		{"matching department", eng, "eng", true},
		{"mismatched department", sales, "eng", false},
		{"admin sees other department", admin, "sales", true},
		{"nil principal tagged resource", nil, "eng", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := InScope(tc.p, tc.department); got != tc.want {
				t.Errorf("InScope = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestValidModule(t *testing.T) {
	for _, m := range AllModules() {
		if !ValidModule(m) {
			t.Errorf("ValidModule(%s) = false", m)
		}
	}
	if ValidModule("bogus") {
		t.Error("ValidModule(bogus) = true")
	}
	// The roles module is implicit, not grantable.
	if ValidModule(ModuleRoles) {
		t.Error("ValidModule(roles) = true, want false")
	}
}

func TestLevelSatisfies(t *testing.T) {
	if !LevelWrite.Satisfies(LevelRead) {
		t.Error("write should satisfy read")
	}
	if !LevelWrite.Satisfies(LevelWrite) {
		t.Error("write should satisfy write")
	}
	if !LevelRead.Satisfies(LevelRead) {
		t.Error("read should satisfy read")
	}
	if LevelRead.Satisfies(LevelWrite) {
		t.Error("read must not satisfy write")
	}
}
