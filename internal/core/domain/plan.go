package domain

// ActionKind classifies a single planned change.
type ActionKind string

const (
	// ActionInstall adds a package that is absent from the environment.
	ActionInstall ActionKind = "install"
	// ActionUpgrade moves an installed package to a newer version.
	ActionUpgrade ActionKind = "upgrade"
	// ActionDowngrade moves an installed package to an older version.
	ActionDowngrade ActionKind = "downgrade"
	// ActionSkip records that the requirement is already satisfied. Skips
	// are retained in the plan so callers can observe full coverage.
	ActionSkip ActionKind = "skip"
	// ActionConflict records that the requirement contradicts a pinned
	// version and needs an operator decision. Never auto-resolved.
	ActionConflict ActionKind = "conflict"
)

// Action is one planned change for one package name.
type Action struct {
	Name          string
	Kind          ActionKind
	TargetVersion string
	// Reason is a short human-readable justification, e.g. the installed
	// version that fails the constraint or the pin that conflicts.
	Reason string
}

// Plan is the ordered action sequence for one reconciliation cycle. Actions
// are sorted by package name so identical inputs always yield an identical,
// diff-able plan. A plan is consumed exactly once by the installer.
type Plan struct {
	Actions []Action
}

// Pending returns the actions that mutate the environment, preserving order.
func (p Plan) Pending() []Action {
	var pending []Action
	for _, a := range p.Actions {
		switch a.Kind {
		case ActionInstall, ActionUpgrade, ActionDowngrade:
			pending = append(pending, a)
		}
	}
	return pending
}

// Conflicts returns the conflict actions, preserving order.
func (p Plan) Conflicts() []Action {
	var conflicts []Action
	for _, a := range p.Actions {
		if a.Kind == ActionConflict {
			conflicts = append(conflicts, a)
		}
	}
	return conflicts
}

// Converged reports whether the plan demands no environment change. Conflict
// actions do not count as converged: they are unresolved, not satisfied.
func (p Plan) Converged() bool {
	for _, a := range p.Actions {
		if a.Kind != ActionSkip {
			return false
		}
	}
	return true
}
