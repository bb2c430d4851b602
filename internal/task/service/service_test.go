package service

import (
	"context"
	"errors"
	"testing"

	"projecthub/internal/access"
	"projecthub/internal/audit"
	auditdomain "projecthub/internal/audit/domain"
	auditrepo "projecthub/internal/audit/repository"
	"projecthub/internal/task/domain"
)

type fakeTaskRepo struct {
	rows map[string]*domain.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{rows: map[string]*domain.Task{}}
}

func (f *fakeTaskRepo) Create(_ context.Context, t *domain.Task) error {
	cp := *t
	f.rows[t.ID] = &cp
	return nil
}

func (f *fakeTaskRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	t, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTaskRepo) ListByProject(_ context.Context, projectID string) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, t := range f.rows {
		if t.ProjectID == projectID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) Update(_ context.Context, t *domain.Task) error {
	cp := *t
	f.rows[t.ID] = &cp
	return nil
}

func (f *fakeTaskRepo) Delete(_ context.Context, id string) error {
	delete(f.rows, id)
	return nil
}

// levelDecider allows up to a ceiling level, mimicking a read-only grant.
type levelDecider struct {
	ceiling access.Level
}

func (d levelDecider) Decide(_ context.Context, _, _ string, _ access.Module, level access.Level) (access.Decision, error) {
	if d.ceiling.Satisfies(level) {
		return access.Decision{Allowed: true, Reason: access.ReasonGrant}, nil
	}
	return access.Decision{Allowed: false, Reason: access.ReasonNoAccess}, nil
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

func TestCreateUpdateDeleteLeaveFullTrail(t *testing.T) {
	repo := newFakeTaskRepo()
	sink := &recordingAuditRepo{}
	svc := NewService(repo, levelDecider{ceiling: access.LevelWrite}, audit.NewLogger(sink, nil))
	ctx := context.Background()

	created, err := svc.Create(ctx, "u1", "p1", "draft rollout plan", "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Update(ctx, "u1", created.ID, "", domain.StatusActive, "u2"); err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(ctx, "u1", created.ID); err != nil {
		t.Fatal(err)
	}

	if len(sink.records) != 3 {
		t.Fatalf("audit records = %d, want 3", len(sink.records))
	}
	wantActions := []auditdomain.Action{
		auditdomain.ActionCreated, auditdomain.ActionUpdated, auditdomain.ActionDeleted,
	}
	for i, want := range wantActions {
		rec := sink.records[i]
		if rec.Action != want {
			t.Errorf("record %d action = %q, want %q", i, rec.Action, want)
		}
		if rec.ProjectID != "p1" || rec.Module != access.ModuleTasksMilestones {
			t.Errorf("record %d attribution = (%q, %q)", i, rec.ProjectID, rec.Module)
		}
		if rec.EntityID != created.ID {
			t.Errorf("record %d entity = %q, want %q", i, rec.EntityID, created.ID)
		}
	}
}

func TestReadOnlyGrantCannotWrite(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewService(repo, levelDecider{ceiling: access.LevelRead}, audit.NewLogger(&recordingAuditRepo{}, nil))
	ctx := context.Background()

	_, err := svc.Create(ctx, "u1", "p1", "nope", "")
	if !errors.Is(err, access.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	if len(repo.rows) != 0 {
		t.Error("denied create must not persist")
	}

	if _, err := svc.ListByProject(ctx, "u1", "p1"); err != nil {
		t.Errorf("read with read-only grant failed: %v", err)
	}
}

func TestGetMissingTaskIsNotFound(t *testing.T) {
	svc := NewService(newFakeTaskRepo(), levelDecider{ceiling: access.LevelWrite}, audit.NewLogger(&recordingAuditRepo{}, nil))
	_, err := svc.Get(context.Background(), "u1", "ghost")
	if !errors.Is(err, access.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateValidatesStatus(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewService(repo, levelDecider{ceiling: access.LevelWrite}, audit.NewLogger(&recordingAuditRepo{}, nil))
	ctx := context.Background()

	created, err := svc.Create(ctx, "u1", "p1", "task", "")
	if err != nil {
		t.Fatal(err)
	}
	_, err = svc.Update(ctx, "u1", created.ID, "", domain.Status("paused"), "")
	if !errors.Is(err, access.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestAuditFailureDoesNotFailMutation(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewService(repo, levelDecider{ceiling: access.LevelWrite}, audit.NewLogger(failingAuditRepo{}, nil))

	created, err := svc.Create(context.Background(), "u1", "p1", "survives audit outage", "")
	if err != nil {
		t.Fatalf("mutation failed on audit outage: %v", err)
	}
	if repo.rows[created.ID] == nil {
		t.Error("task not persisted")
	}
}

type failingAuditRepo struct{}

func (failingAuditRepo) Append(context.Context, *auditdomain.Record) error {
	return errors.New("audit store down")
}

func (failingAuditRepo) ListByProject(context.Context, string, int, *auditrepo.Cursor) ([]*auditdomain.Record, error) {
	return nil, nil
}
