// Package checker computes the action plan that converges an environment
// snapshot to a declared requirement set.
package checker

import (
	"fmt"
	"slices"

	"github.com/Masterminds/semver/v3"
	"go.trai.ch/preflight/internal/core/domain"
)

// Planner diffs requirements against snapshots. It is a pure computation:
// the same requirements, snapshot and pins always yield the same plan.
type Planner struct {
	pins map[string]*semver.Version
}

// NewPlanner creates a Planner with the orchestrator's own pinned versions
// for shared packages. A nil map means no pins.
func NewPlanner(pins map[string]*semver.Version) *Planner {
	return &Planner{pins: pins}
}

// Plan computes the ordered action plan for one reconciliation cycle.
//
// Actions are emitted in stable name order so plans are reproducible and
// diff-able across runs. Skip actions are retained rather than elided so
// callers can observe full coverage of the requirement set.
func (p *Planner) Plan(requirements []domain.Requirement, snapshot domain.EnvironmentSnapshot) domain.Plan {
	reqs := make([]domain.Requirement, len(requirements))
	copy(reqs, requirements)
	slices.SortFunc(reqs, func(a, b domain.Requirement) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		default:
			return 0
		}
	})

	actions := make([]domain.Action, 0, len(reqs))
	for _, req := range reqs {
		actions = append(actions, p.planOne(req, snapshot))
	}
	return domain.Plan{Actions: actions}
}

// planOne decides the action for a single requirement. A pin conflict halts
// planning for that name; it is surfaced, never silently resolved.
func (p *Planner) planOne(req domain.Requirement, snapshot domain.EnvironmentSnapshot) domain.Action {
	if pinned, ok := p.pins[req.Name]; ok && !req.Constraint.Satisfies(pinned) {
		return domain.Action{
			Name:          req.Name,
			Kind:          domain.ActionConflict,
			TargetVersion: req.Constraint.Target(),
			Reason:        fmt.Sprintf("requirement %s contradicts pinned version %s", req, pinned),
		}
	}

	installed, ok := snapshot.Lookup(req.Name)
	if !ok {
		return domain.Action{
			Name:          req.Name,
			Kind:          domain.ActionInstall,
			TargetVersion: req.Constraint.Target(),
			Reason:        "not installed",
		}
	}

	if req.Constraint.Satisfies(installed.Version) {
		return domain.Action{
			Name:   req.Name,
			Kind:   domain.ActionSkip,
			Reason: fmt.Sprintf("installed %s satisfies %s", installed.Version, req.Constraint),
		}
	}

	kind := domain.ActionUpgrade
	if installed.Version.GreaterThan(req.Constraint.Min) {
		// Above the satisfying window; only possible for exact pins and
		// bounded ranges.
		kind = domain.ActionDowngrade
	}
	return domain.Action{
		Name:          req.Name,
		Kind:          kind,
		TargetVersion: req.Constraint.Target(),
		Reason:        fmt.Sprintf("installed %s does not satisfy %s", installed.Version, req.Constraint),
	}
}
