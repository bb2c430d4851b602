package audit

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"projecthub/internal/access"
	"projecthub/internal/audit/domain"
)

type stubDecider struct {
	decision access.Decision
	err      error
}

func (s stubDecider) DecideProject(context.Context, string, string) (access.Decision, error) {
	return s.decision, s.err
}

func seededRepo(projectID string, n int) *memRepo {
	repo := &memRepo{}
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		repo.records = append(repo.records, &domain.Record{
			ID:          fmt.Sprintf("r%03d", i),
			ProjectID:   projectID,
			PrincipalID: "actor",
			Module:      access.ModuleTasksMilestones,
			Action:      domain.ActionUpdated,
			EntityKind:  "task",
			EntityID:    "t1",
			CreatedAt:   base.Add(time.Duration(i) * time.Second),
		})
	}
	return repo
}

func TestListDeniedWithoutProjectVisibility(t *testing.T) {
	svc := NewService(
		stubDecider{decision: access.Decision{Allowed: false, Reason: access.ReasonNoAccess}},
		seededRepo("p1", 3),
	)
	_, _, err := svc.List(context.Background(), "outsider", "p1", 10, "")
	if !errors.Is(err, access.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestListMissingProjectIsNotFound(t *testing.T) {
	svc := NewService(
		stubDecider{decision: access.Decision{Allowed: false, Reason: access.ReasonProjectNotFound}},
		&memRepo{},
	)
	_, _, err := svc.List(context.Background(), "u1", "ghost", 10, "")
	if !errors.Is(err, access.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListNewestFirstAndPaginated(t *testing.T) {
	repo := seededRepo("p1", 7)
	svc := NewService(
		stubDecider{decision: access.Decision{Allowed: true, Reason: access.ReasonMembership}},
		repo,
	)
	ctx := context.Background()

	page1, cursor, err := svc.List(ctx, "member", "p1", 3, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(page1) != 3 || cursor == "" {
		t.Fatalf("page1 = %d records, cursor %q; want 3 and non-empty", len(page1), cursor)
	}
	if page1[0].ID != "r006" || page1[2].ID != "r004" {
		t.Errorf("page1 ids = %s..%s, want r006..r004", page1[0].ID, page1[2].ID)
	}

	page2, cursor, err := svc.List(ctx, "member", "p1", 3, cursor)
	if err != nil {
		t.Fatal(err)
	}
	if page2[0].ID != "r003" || page2[2].ID != "r001" {
		t.Errorf("page2 ids = %s..%s, want r003..r001", page2[0].ID, page2[2].ID)
	}

	page3, cursor, err := svc.List(ctx, "member", "p1", 3, cursor)
	if err != nil {
		t.Fatal(err)
	}
	if len(page3) != 1 || page3[0].ID != "r000" {
		t.Fatalf("page3 = %d records, want just r000", len(page3))
	}
	if cursor != "" {
		t.Errorf("exhausted trail returned cursor %q, want empty", cursor)
	}
}

func TestListClampsLimit(t *testing.T) {
	repo := seededRepo("p1", 120)
	svc := NewService(
		stubDecider{decision: access.Decision{Allowed: true, Reason: access.ReasonAdministrator}},
		repo,
	)
	page, _, err := svc.List(context.Background(), "admin", "p1", 500, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != maxPageSize {
		t.Errorf("got %d records, want clamp at %d", len(page), maxPageSize)
	}

	page, _, err = svc.List(context.Background(), "admin", "p1", 0, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != defaultPageSize {
		t.Errorf("got %d records, want default %d", len(page), defaultPageSize)
	}
}

func TestListRejectsMalformedCursor(t *testing.T) {
	svc := NewService(
		stubDecider{decision: access.Decision{Allowed: true, Reason: access.ReasonOwner}},
		seededRepo("p1", 2),
	)
	_, _, err := svc.List(context.Background(), "owner", "p1", 10, "not-base64!!!")
	if !errors.Is(err, access.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC)
	c, err := decodeCursor(encodeCursor(at, "r042"))
	if err != nil {
		t.Fatal(err)
	}
	if !c.CreatedAt.Equal(at) || c.ID != "r042" {
		t.Errorf("cursor = (%v, %q), want (%v, r042)", c.CreatedAt, c.ID, at)
	}
}
