package audit

import (
	"encoding/json"

	"projecthub/internal/access"
	"projecthub/internal/audit/domain"
)

// Operation is the storage-level mutation kind reported by resource code.
type Operation string

const (
	OpInsert Operation = "insert"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// binding maps an entity kind to its owning module and to the snapshot
// fields the logger reads. This registry is the single place new entity
// kinds are registered; the logger itself is fully generic.
type binding struct {
	// module is the owning module, unless moduleField is set.
	module access.Module
	// moduleField, when non-empty, names the snapshot field holding the
	// module (used for grant rows, whose module varies per row).
	moduleField string
	// projectIDField names the snapshot field holding the owning project id.
	projectIDField string
	// actions overrides the default insert→created/update→updated/
	// delete→deleted derivation for kinds with domain-specific verbs.
	actions map[Operation]domain.Action
}

var bindings = map[string]binding{
	"project":        {module: access.ModuleOverview, projectIDField: "id"},
	"membership":     {module: access.ModuleOverview, projectIDField: "project_id"},
	"task":           {module: access.ModuleTasksMilestones, projectIDField: "project_id"},
	"milestone":      {module: access.ModuleTasksMilestones, projectIDField: "project_id"},
	"roadmap_item":   {module: access.ModuleRoadmap, projectIDField: "project_id"},
	"kanban_card":    {module: access.ModuleKanban, projectIDField: "project_id"},
	"stakeholder":    {module: access.ModuleStakeholders, projectIDField: "project_id"},
	"risk":           {module: access.ModuleRiskRegister, projectIDField: "project_id"},
	"discussion":     {module: access.ModuleDiscussions, projectIDField: "project_id"},
	"backlog_item":   {module: access.ModuleTaskBacklog, projectIDField: "project_id"},
	"capacity_entry": {module: access.ModuleTeamCapacity, projectIDField: "project_id"},
	"retrospective":  {module: access.ModuleRetrospectives, projectIDField: "project_id"},
	"budget_line":    {module: access.ModuleBudget, projectIDField: "project_id"},
	"module_grant": {
		moduleField:    "module",
		projectIDField: "project_id",
		actions: map[Operation]domain.Action{
			OpInsert: domain.ActionGranted,
			OpUpdate: domain.ActionAccessLevelChanged,
			OpDelete: domain.ActionRevoked,
		},
	},
}

// RegisteredKinds returns the entity kinds the logger knows how to attribute.
func RegisteredKinds() []string {
	out := make([]string, 0, len(bindings))
	for k := range bindings {
		out = append(out, k)
	}
	return out
}

// actionFor derives the audit action for a kind and operation.
func (b binding) actionFor(op Operation) (domain.Action, bool) {
	if b.actions != nil {
		a, ok := b.actions[op]
		return a, ok
	}
	switch op {
	case OpInsert:
		return domain.ActionCreated, true
	case OpUpdate:
		return domain.ActionUpdated, true
	case OpDelete:
		return domain.ActionDeleted, true
	default:
		return "", false
	}
}

// stringField pulls a top-level string field from a JSON snapshot.
func stringField(snapshot json.RawMessage, field string) string {
	if len(snapshot) == 0 || field == "" {
		return ""
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(snapshot, &m); err != nil {
		return ""
	}
	raw, ok := m[field]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
