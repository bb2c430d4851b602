// Package access is the policy engine: it decides, for every read or write
// against any project sub-resource, whether a principal may proceed. Four
// authority sources feed one decision: global role, project ownership,
// project membership, and per-module grants. Ownership and administrator
// status are evaluated by direct attribute comparison, never via a lookup
// that itself evaluates policy, so decisions cannot recurse.
package access

// Module is one of the fixed resource categories a project is divided into.
// Adding a module is a code change, not data.
type Module string

const (
	ModuleOverview        Module = "overview"
	ModuleTasksMilestones Module = "tasks_milestones"
	ModuleRoadmap         Module = "roadmap"
	ModuleKanban          Module = "kanban"
	ModuleStakeholders    Module = "stakeholders"
	ModuleRiskRegister    Module = "risk_register"
	ModuleDiscussions     Module = "discussions"
	ModuleTaskBacklog     Module = "task_backlog"
	ModuleTeamCapacity    Module = "team_capacity"
	ModuleRetrospectives  Module = "retrospectives"
	ModuleBudget          Module = "budget"

	// ModuleRoles is the implicit module gating global role changes.
	// Writing it requires administrator level; no grant or membership
	// can reach it.
	ModuleRoles Module = "roles"
)

var allModules = []Module{
	ModuleOverview,
	ModuleTasksMilestones,
	ModuleRoadmap,
	ModuleKanban,
	ModuleStakeholders,
	ModuleRiskRegister,
	ModuleDiscussions,
	ModuleTaskBacklog,
	ModuleTeamCapacity,
	ModuleRetrospectives,
	ModuleBudget,
}

// AllModules returns the grantable modules (excludes the implicit roles module).
func AllModules() []Module {
	out := make([]Module, len(allModules))
	copy(out, allModules)
	return out
}

// ValidModule reports whether m is a grantable module.
func ValidModule(m Module) bool {
	for _, known := range allModules {
		if m == known {
			return true
		}
	}
	return false
}

// Level is the requested or granted access level. Write implies read.
type Level string

const (
	LevelRead  Level = "read"
	LevelWrite Level = "write"
)

// ValidLevel reports whether l is read or write.
func ValidLevel(l Level) bool {
	return l == LevelRead || l == LevelWrite
}

// Satisfies reports whether a granted level covers the requested level.
func (l Level) Satisfies(requested Level) bool {
	if l == LevelWrite {
		return true
	}
	return l == LevelRead && requested == LevelRead
}
