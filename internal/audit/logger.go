package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"projecthub/internal/access"
	"projecthub/internal/audit/domain"
	auditrepo "projecthub/internal/audit/repository"
)

// FailureRecorder counts audit append failures for operational telemetry.
type FailureRecorder interface {
	RecordAuditFailure(ctx context.Context)
}

// Logger is the generic audit dispatcher. Resource code hands it the entity
// kind, the storage operation, the acting principal, and before/after
// snapshots; the kind registry in mapping.go resolves the owning project and
// module. Logging is best-effort: a failure is logged and counted but never
// fails or rolls back the mutation it describes.
type Logger struct {
	repo    auditrepo.Repository
	metrics FailureRecorder
}

// NewLogger returns a Logger that persists to repo. metrics may be nil.
func NewLogger(repo auditrepo.Repository, metrics FailureRecorder) *Logger {
	return &Logger{repo: repo, metrics: metrics}
}

// Record writes one audit record for an accepted mutation and returns it.
// Returns nil (NoOp) when the acting principal is unknown, the kind is not
// registered, a snapshot cannot be serialized, or the append fails — a
// maintenance or backfill mutation with no live principal must not crash the
// pipeline. Call sites that want attribution for such mutations pass a
// fallback actor (e.g. the entity's creator) as actorID.
//
// before is ignored for inserts and after for deletes; updates carry both.
func (l *Logger) Record(ctx context.Context, kind string, op Operation, actorID string, before, after any) *domain.Record {
	if l == nil || l.repo == nil {
		return nil
	}
	if actorID == "" {
		return nil
	}
	b, ok := bindings[kind]
	if !ok {
		log.Printf("audit: unregistered entity kind %q, skipping", kind)
		return nil
	}
	action, ok := b.actionFor(op)
	if !ok {
		log.Printf("audit: unknown operation %q for kind %q, skipping", op, kind)
		return nil
	}

	beforeJSON, err := marshalSnapshot(before)
	if err != nil {
		log.Printf("audit: marshal before snapshot for %s: %v", kind, err)
		return nil
	}
	afterJSON, err := marshalSnapshot(after)
	if err != nil {
		log.Printf("audit: marshal after snapshot for %s: %v", kind, err)
		return nil
	}
	switch op {
	case OpInsert:
		beforeJSON = nil
	case OpDelete:
		afterJSON = nil
	}

	primary := afterJSON
	if primary == nil {
		primary = beforeJSON
	}
	projectID := stringField(primary, b.projectIDField)
	if projectID == "" {
		log.Printf("audit: cannot resolve project for %s %s, skipping", kind, op)
		return nil
	}
	module := b.module
	if b.moduleField != "" {
		module = access.Module(stringField(primary, b.moduleField))
		if !access.ValidModule(module) {
			log.Printf("audit: cannot resolve module for %s %s, skipping", kind, op)
			return nil
		}
	}

	entry := &domain.Record{
		ID:          uuid.New().String(),
		ProjectID:   projectID,
		PrincipalID: actorID,
		Module:      module,
		Action:      action,
		EntityKind:  kind,
		EntityID:    stringField(primary, "id"),
		Before:      beforeJSON,
		After:       afterJSON,
		Description: describe(kind, action, primary),
		CreatedAt:   time.Now().UTC(),
	}
	if err := l.repo.Append(ctx, entry); err != nil {
		log.Printf("audit: failed to append %s record for %s: %v", action, kind, err)
		if l.metrics != nil {
			l.metrics.RecordAuditFailure(ctx)
		}
		return nil
	}
	return entry
}

func marshalSnapshot(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	if raw, ok := v.(json.RawMessage); ok {
		return raw, nil
	}
	return json.Marshal(v)
}

func describe(kind string, action domain.Action, snapshot json.RawMessage) string {
	for _, f := range []string{"title", "name", "email"} {
		if v := stringField(snapshot, f); v != "" {
			return fmt.Sprintf("%s %q %s", kind, v, action)
		}
	}
	return fmt.Sprintf("%s %s", kind, action)
}
