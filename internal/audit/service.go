package audit

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"projecthub/internal/access"
	"projecthub/internal/audit/domain"
	auditrepo "projecthub/internal/audit/repository"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

// ProjectDecider answers whether a principal may view a project at all.
// Module grants deliberately do not count here: a grant scopes access to one
// module's data, while the audit trail spans every module.
type ProjectDecider interface {
	DecideProject(ctx context.Context, principalID, projectID string) (access.Decision, error)
}

// Service serves the per-project audit trail to principals with project-wide
// visibility (administrators, the creator, and members).
type Service struct {
	decider ProjectDecider
	repo    auditrepo.Repository
}

func NewService(decider ProjectDecider, repo auditrepo.Repository) *Service {
	return &Service{decider: decider, repo: repo}
}

// List returns a page of the project's audit trail, newest first, and an
// opaque cursor for the next page ("" when the trail is exhausted). limit is
// clamped to [1, 100]; zero or negative means the default of 50.
func (s *Service) List(ctx context.Context, principalID, projectID string, limit int, cursor string) ([]*domain.Record, string, error) {
	d, err := s.decider.DecideProject(ctx, principalID, projectID)
	if err != nil {
		return nil, "", err
	}
	if !d.Allowed {
		return nil, "", access.DenyError(d)
	}

	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	var before *auditrepo.Cursor
	if cursor != "" {
		c, err := decodeCursor(cursor)
		if err != nil {
			return nil, "", fmt.Errorf("%w: bad cursor", access.ErrInvalidArgument)
		}
		before = c
	}

	records, err := s.repo.ListByProject(ctx, projectID, limit, before)
	if err != nil {
		return nil, "", fmt.Errorf("list audit records: %w", err)
	}

	next := ""
	if len(records) == limit {
		last := records[len(records)-1]
		next = encodeCursor(last.CreatedAt, last.ID)
	}
	return records, next, nil
}

func encodeCursor(createdAt time.Time, id string) string {
	raw := createdAt.UTC().Format(time.RFC3339Nano) + "," + id
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func decodeCursor(s string) (*auditrepo.Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	parts := strings.SplitN(string(raw), ",", 2)
	if len(parts) != 2 || parts[1] == "" {
		return nil, fmt.Errorf("malformed cursor")
	}
	t, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return nil, err
	}
	return &auditrepo.Cursor{CreatedAt: t, ID: parts[1]}, nil
}
