// Package reconciler composes analysis, planning, installation and
// verification into one convergence cycle.
package reconciler

import (
	"context"

	"go.trai.ch/preflight/internal/core/domain"
	"go.trai.ch/preflight/internal/core/ports"
	"go.trai.ch/preflight/internal/engine/checker"
	"go.trai.ch/preflight/internal/engine/installer"
	"go.trai.ch/zerr"
)

// Reconciler owns the Analyze -> Plan -> Apply -> Verify loop. The
// installer's side effects are never trusted blindly: every apply is
// followed by a fresh analysis and a second planning pass that must come
// back all-skip.
type Reconciler struct {
	analyzer  ports.EnvironmentAnalyzer
	planner   *checker.Planner
	installer *installer.Installer
	logger    ports.Logger
}

// New creates a Reconciler from its stage components.
func New(
	analyzer ports.EnvironmentAnalyzer,
	planner *checker.Planner,
	inst *installer.Installer,
	logger ports.Logger,
) *Reconciler {
	return &Reconciler{
		analyzer:  analyzer,
		planner:   planner,
		installer: inst,
		logger:    logger,
	}
}

// Analyze produces a fresh snapshot for the given isolation mode.
func (r *Reconciler) Analyze(ctx context.Context, mode domain.IsolationMode) (domain.EnvironmentSnapshot, error) {
	return r.analyzer.Analyze(ctx, mode)
}

// Plan computes the action plan for the requirements against the snapshot.
func (r *Reconciler) Plan(requirements []domain.Requirement, snapshot domain.EnvironmentSnapshot) domain.Plan {
	return r.planner.Plan(requirements, snapshot)
}

// Provision creates the isolated environment at path if needed and returns
// its snapshot.
func (r *Reconciler) Provision(ctx context.Context, path string) (domain.EnvironmentSnapshot, error) {
	return r.analyzer.Provision(ctx, path)
}

// ApplyAndVerify executes the plan's pending actions, re-analyzes the
// environment and re-plans against the fresh snapshot. The result always
// carries the post-install snapshot and the verify plan, even on error.
//
// It fails with domain.ErrConvergenceFailed when the verify plan still
// contains non-skip, non-conflict actions: installation did not produce the
// expected state (for example a conflicting global install overrode the
// intended version).
func (r *Reconciler) ApplyAndVerify(
	ctx context.Context,
	requirements []domain.Requirement,
	plan domain.Plan,
	mode domain.IsolationMode,
) (domain.ReconciliationResult, error) {
	result := r.installer.Apply(ctx, plan)

	final, err := r.analyzer.Analyze(ctx, mode)
	if err != nil {
		return result, zerr.Wrap(err, "post-install analysis failed")
	}
	result.Final = final
	result.VerifyPlan = r.planner.Plan(requirements, final)

	if !result.Clean() {
		return result, zerr.With(domain.ErrReconciliationFailed, "failed_actions", len(result.Failed))
	}
	if residual := result.VerifyPlan.Pending(); len(residual) > 0 {
		err := zerr.With(domain.ErrConvergenceFailed, "residual_actions", len(residual))
		for _, a := range residual {
			r.logger.Warn("residual action after install: " + string(a.Kind) + " " + a.Name)
		}
		return result, err
	}

	r.logger.Info("environment converged, fingerprint " + final.Fingerprint())
	return result, nil
}

// ReconcileAndVerify runs the full cycle against a fresh snapshot. This is
// the single-call form of the loop; the orchestrator drives the same stages
// stepwise to interleave its state machine.
func (r *Reconciler) ReconcileAndVerify(
	ctx context.Context,
	requirements []domain.Requirement,
	mode domain.IsolationMode,
) (domain.ReconciliationResult, error) {
	snapshot, err := r.Analyze(ctx, mode)
	if err != nil {
		return domain.ReconciliationResult{}, err
	}
	plan := r.Plan(requirements, snapshot)
	if conflicts := plan.Conflicts(); len(conflicts) > 0 {
		return domain.ReconciliationResult{Final: snapshot, VerifyPlan: plan},
			zerr.With(domain.ErrRequirementConflict, "conflicts", len(conflicts))
	}
	return r.ApplyAndVerify(ctx, requirements, plan, mode)
}
