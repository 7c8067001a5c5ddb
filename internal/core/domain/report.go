package domain

import "time"

// ActionOutcome is the reported result of one planned action.
type ActionOutcome struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Target   string `json:"target,omitempty"`
	Outcome  string `json:"outcome"`
	Attempts int    `json:"attempts,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Report is the structured record emitted on every terminal state. It is the
// sole channel by which downstream tooling observes what happened.
type Report struct {
	State       string          `json:"state"`
	Interpreter string          `json:"interpreter,omitempty"`
	Fingerprint string          `json:"fingerprint,omitempty"`
	Actions     []ActionOutcome `json:"actions"`
	GeneratedAt time.Time       `json:"generated_at"`
}

const (
	outcomePlanned   = "planned"
	outcomeSkipped   = "skipped"
	outcomeConflict  = "conflict"
	outcomeApplied   = "applied"
	outcomeFailed    = "failed"
	outcomeUnapplied = "unapplied"
)

// NewPlanReport builds a report for a cycle that ended before any action was
// applied, e.g. auto-install disabled or a conflict halt.
func NewPlanReport(state string, snapshot EnvironmentSnapshot, plan Plan, at time.Time) Report {
	actions := make([]ActionOutcome, 0, len(plan.Actions))
	for _, a := range plan.Actions {
		actions = append(actions, ActionOutcome{
			Name:    a.Name,
			Kind:    string(a.Kind),
			Target:  a.TargetVersion,
			Outcome: planOutcome(a.Kind),
			Error:   a.Reason,
		})
	}
	return Report{
		State:       state,
		Interpreter: snapshot.InterpreterID,
		Fingerprint: snapshot.Fingerprint(),
		Actions:     actions,
		GeneratedAt: at,
	}
}

func planOutcome(kind ActionKind) string {
	switch kind {
	case ActionSkip:
		return outcomeSkipped
	case ActionConflict:
		return outcomeConflict
	default:
		return outcomePlanned
	}
}

// NewResultReport builds a report from a completed reconciliation cycle. The
// original plan supplies skip coverage; applied and failed entries override
// the planned outcome per name.
func NewResultReport(state string, plan Plan, result ReconciliationResult, at time.Time) Report {
	report := NewPlanReport(state, result.Final, plan, at)

	byName := make(map[string]int, len(report.Actions))
	for i, a := range report.Actions {
		byName[a.Name] = i
	}
	for _, applied := range result.Applied {
		if i, ok := byName[applied.Action.Name]; ok {
			report.Actions[i].Outcome = outcomeApplied
			report.Actions[i].Attempts = applied.Attempts
		}
	}
	for _, failed := range result.Failed {
		if i, ok := byName[failed.Action.Name]; ok {
			report.Actions[i].Outcome = outcomeFailed
			report.Actions[i].Attempts = failed.Attempts
			report.Actions[i].Error = failed.Cause
		}
	}
	// Pending actions that were never attempted (cancelled cycle) stay
	// visible instead of silently disappearing.
	for i, a := range report.Actions {
		if a.Outcome == outcomePlanned {
			report.Actions[i].Outcome = outcomeUnapplied
		}
	}
	return report
}
