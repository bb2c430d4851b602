package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"projecthub/internal/access"
	"projecthub/internal/audit"
	auditdomain "projecthub/internal/audit/domain"
	auditrepo "projecthub/internal/audit/repository"
	"projecthub/internal/grant/domain"
	identitydomain "projecthub/internal/identity/domain"
)

type fakeGrantRepo struct {
	grants map[string]*domain.ModuleGrant
}

func key(projectID, principalID string, module access.Module) string {
	return projectID + "/" + principalID + "/" + string(module)
}

func newFakeGrantRepo() *fakeGrantRepo {
	return &fakeGrantRepo{grants: map[string]*domain.ModuleGrant{}}
}

func (f *fakeGrantRepo) Upsert(_ context.Context, g *domain.ModuleGrant) error {
	f.grants[key(g.ProjectID, g.PrincipalID, g.Module)] = g
	return nil
}

func (f *fakeGrantRepo) GetByProjectPrincipalModule(_ context.Context, projectID, principalID string, module access.Module) (*domain.ModuleGrant, error) {
	return f.grants[key(projectID, principalID, module)], nil
}

func (f *fakeGrantRepo) ListByProject(_ context.Context, projectID string) ([]*domain.ModuleGrant, error) {
	var out []*domain.ModuleGrant
	for _, g := range f.grants {
		if g.ProjectID == projectID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGrantRepo) Delete(_ context.Context, projectID, principalID string, module access.Module) error {
	delete(f.grants, key(projectID, principalID, module))
	return nil
}

type fakeDecider struct {
	decision access.Decision
}

func (f fakeDecider) Decide(context.Context, string, string, access.Module, access.Level) (access.Decision, error) {
	return f.decision, nil
}

type fakePrincipals struct {
	byID map[string]*identitydomain.Principal
}

func (f fakePrincipals) GetByID(_ context.Context, id string) (*identitydomain.Principal, error) {
	return f.byID[id], nil
}

type recordingAuditRepo struct {
	records []*auditdomain.Record
}

func (r *recordingAuditRepo) Append(_ context.Context, rec *auditdomain.Record) error {
	r.records = append(r.records, rec)
	return nil
}

func (r *recordingAuditRepo) ListByProject(context.Context, string, int, *auditrepo.Cursor) ([]*auditdomain.Record, error) {
	return nil, nil
}

func allowAs(reason access.Reason) fakeDecider {
	return fakeDecider{decision: access.Decision{Allowed: true, Reason: reason}}
}

func newService(repo *fakeGrantRepo, decider Decider, auditSink *recordingAuditRepo) *Service {
	principals := fakePrincipals{byID: map[string]*identitydomain.Principal{
		"u2": {ID: "u2", Status: identitydomain.StatusActive},
	}}
	return NewService(repo, principals, decider, audit.NewLogger(auditSink, nil))
}

func TestGrantCreatesAndAudits(t *testing.T) {
	repo := newFakeGrantRepo()
	sink := &recordingAuditRepo{}
	svc := newService(repo, allowAs(access.ReasonOwner), sink)

	g, err := svc.Grant(context.Background(), "owner", "p1", "u2", access.ModuleBudget, access.LevelWrite)
	if err != nil {
		t.Fatal(err)
	}
	if g.Level != access.LevelWrite || g.GrantedBy != "owner" {
		t.Errorf("grant = %+v", g)
	}
	if len(sink.records) != 1 {
		t.Fatalf("audit records = %d, want 1", len(sink.records))
	}
	if sink.records[0].Action != auditdomain.ActionGranted {
		t.Errorf("action = %q, want granted", sink.records[0].Action)
	}
	if sink.records[0].Module != access.ModuleBudget {
		t.Errorf("module = %q, want budget", sink.records[0].Module)
	}
}

func TestRegrantIsLevelChange(t *testing.T) {
	repo := newFakeGrantRepo()
	sink := &recordingAuditRepo{}
	svc := newService(repo, allowAs(access.ReasonAdministrator), sink)
	ctx := context.Background()

	first, err := svc.Grant(ctx, "admin", "p1", "u2", access.ModuleBudget, access.LevelWrite)
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Grant(ctx, "admin", "p1", "u2", access.ModuleBudget, access.LevelRead)
	if err != nil {
		t.Fatal(err)
	}
	if second.ID != first.ID {
		t.Error("regrant must keep the triple's row identity")
	}
	if second.Level != access.LevelRead {
		t.Errorf("level = %q, want downgrade to read", second.Level)
	}
	if len(sink.records) != 2 || sink.records[1].Action != auditdomain.ActionAccessLevelChanged {
		t.Fatalf("second audit action = %v, want access_level_changed", sink.records)
	}
	if sink.records[1].Before == nil || sink.records[1].After == nil {
		t.Error("level change must carry both snapshots")
	}
}

func TestRevokeAudits(t *testing.T) {
	repo := newFakeGrantRepo()
	sink := &recordingAuditRepo{}
	svc := newService(repo, allowAs(access.ReasonOwner), sink)
	ctx := context.Background()

	if _, err := svc.Grant(ctx, "owner", "p1", "u2", access.ModuleRiskRegister, access.LevelRead); err != nil {
		t.Fatal(err)
	}
	if err := svc.Revoke(ctx, "owner", "p1", "u2", access.ModuleRiskRegister); err != nil {
		t.Fatal(err)
	}
	if g := repo.grants[key("p1", "u2", access.ModuleRiskRegister)]; g != nil {
		t.Error("grant still present after revoke")
	}
	last := sink.records[len(sink.records)-1]
	if last.Action != auditdomain.ActionRevoked {
		t.Errorf("action = %q, want revoked", last.Action)
	}
	if last.After != nil {
		t.Error("revoked record must not carry an after snapshot")
	}
}

func TestGrantDeniedForOutsider(t *testing.T) {
	repo := newFakeGrantRepo()
	svc := newService(repo, fakeDecider{decision: access.Decision{Allowed: false, Reason: access.ReasonNoAccess}}, &recordingAuditRepo{})

	_, err := svc.Grant(context.Background(), "member", "p1", "u2", access.ModuleBudget, access.LevelRead)
	if !errors.Is(err, access.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	if len(repo.grants) != 0 {
		t.Error("denied grant must not persist")
	}
}

func TestGrantDeniedForWriteGrantHolder(t *testing.T) {
	// Holding write on a module authorizes writes to its resources, not
	// minting further grants: only the creator and administrators may grant.
	repo := newFakeGrantRepo()
	svc := newService(repo, allowAs(access.ReasonGrant), &recordingAuditRepo{})

	_, err := svc.Grant(context.Background(), "holder", "p1", "u2", access.ModuleTasksMilestones, access.LevelWrite)
	if !errors.Is(err, access.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden for grant-holder actor", err)
	}
	if len(repo.grants) != 0 {
		t.Error("grant-holder issuance must not persist")
	}
}

func TestRevokeDeniedForWriteGrantHolder(t *testing.T) {
	repo := newFakeGrantRepo()
	repo.grants[key("p1", "u2", access.ModuleTasksMilestones)] = &domain.ModuleGrant{
		ID: "g1", ProjectID: "p1", PrincipalID: "u2",
		Module: access.ModuleTasksMilestones, Level: access.LevelWrite,
	}
	svc := newService(repo, allowAs(access.ReasonGrant), &recordingAuditRepo{})

	err := svc.Revoke(context.Background(), "holder", "p1", "u2", access.ModuleTasksMilestones)
	if !errors.Is(err, access.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden for grant-holder actor", err)
	}
	if repo.grants[key("p1", "u2", access.ModuleTasksMilestones)] == nil {
		t.Error("grant must survive a denied revoke")
	}
}

func TestGrantOutsiderWithBadModuleIsForbidden(t *testing.T) {
	// Authorization outranks validation: an outsider's malformed request must
	// not learn which modules exist.
	svc := newService(newFakeGrantRepo(), fakeDecider{decision: access.Decision{Allowed: false, Reason: access.ReasonNoAccess}}, &recordingAuditRepo{})

	_, err := svc.Grant(context.Background(), "outsider", "p1", "u2", access.Module("payroll"), access.LevelWrite)
	if !errors.Is(err, access.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden, not a validation error", err)
	}
}

func TestGrantRejectsUnknownModule(t *testing.T) {
	svc := newService(newFakeGrantRepo(), allowAs(access.ReasonOwner), &recordingAuditRepo{})
	_, err := svc.Grant(context.Background(), "owner", "p1", "u2", access.Module("payroll"), access.LevelRead)
	if !errors.Is(err, access.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestGrantRejectsRolesModule(t *testing.T) {
	svc := newService(newFakeGrantRepo(), allowAs(access.ReasonAdministrator), &recordingAuditRepo{})
	_, err := svc.Grant(context.Background(), "admin", "p1", "u2", access.ModuleRoles, access.LevelWrite)
	if !errors.Is(err, access.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument: roles is not grantable", err)
	}
}

func TestGrantUnknownTargetIsNotFound(t *testing.T) {
	svc := newService(newFakeGrantRepo(), allowAs(access.ReasonOwner), &recordingAuditRepo{})
	_, err := svc.Grant(context.Background(), "owner", "p1", "ghost", access.ModuleBudget, access.LevelRead)
	if !errors.Is(err, access.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRevokeMissingGrantIsNotFound(t *testing.T) {
	svc := newService(newFakeGrantRepo(), allowAs(access.ReasonOwner), &recordingAuditRepo{})
	err := svc.Revoke(context.Background(), "owner", "p1", "u2", access.ModuleBudget)
	if !errors.Is(err, access.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGrantTimestampsAttribution(t *testing.T) {
	repo := newFakeGrantRepo()
	svc := newService(repo, allowAs(access.ReasonOwner), &recordingAuditRepo{})

	before := time.Now().UTC()
	g, err := svc.Grant(context.Background(), "owner", "p1", "u2", access.ModuleDiscussions, access.LevelRead)
	if err != nil {
		t.Fatal(err)
	}
	if g.GrantedAt.Before(before) {
		t.Errorf("granted_at = %v, want >= %v", g.GrantedAt, before)
	}
}
