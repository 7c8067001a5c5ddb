// Package app implements the application layer for preflight.
package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.trai.ch/preflight/internal/core/domain"
	"go.trai.ch/preflight/internal/core/ports"
	"go.trai.ch/preflight/internal/engine/reconciler"
	"go.trai.ch/preflight/internal/engine/updater"
	"go.trai.ch/zerr"
)

// State is one station of the reconciliation cycle.
type State string

const (
	// StateIdle is the state before a cycle starts.
	StateIdle State = "idle"
	// StateAnalyzing means the environment inventory is being gathered.
	StateAnalyzing State = "analyzing"
	// StatePlanning means the requirement diff is being computed.
	StatePlanning State = "planning"
	// StateInstalling means pending actions are being applied.
	StateInstalling State = "installing"
	// StateVerifying means the post-install snapshot is being re-checked.
	StateVerifying State = "verifying"
	// StateReady is the terminal success state; launch handoff happens here.
	StateReady State = "ready"
	// StateFailed is the terminal state for any unrecoverable error.
	StateFailed State = "failed"
	// StateConflictHalted is the terminal state when the plan contains a
	// conflict needing an operator decision.
	StateConflictHalted State = "conflict-halted"
)

// App drives one reconciliation cycle from requirements to launch handoff.
// It owns the state machine; the stages themselves live in the engine and
// adapters.
type App struct {
	settings     domain.Settings
	requirements ports.RequirementSource
	reconciler   *reconciler.Reconciler
	reporter     ports.Reporter
	launcher     ports.Launcher
	watcher      *updater.Watcher
	logger       ports.Logger
	tracer       ports.Tracer

	// now is swapped in tests for deterministic report timestamps.
	now func() time.Time

	mu    sync.RWMutex
	state State
}

// New creates a new App instance.
func New(
	settings domain.Settings,
	requirements ports.RequirementSource,
	rec *reconciler.Reconciler,
	reporter ports.Reporter,
	launcher ports.Launcher,
	watcher *updater.Watcher,
	logger ports.Logger,
	tracer ports.Tracer,
) *App {
	return &App{
		settings:     settings,
		requirements: requirements,
		reconciler:   rec,
		reporter:     reporter,
		launcher:     launcher,
		watcher:      watcher,
		logger:       logger,
		tracer:       tracer,
		now:          time.Now,
		state:        StateIdle,
	}
}

// State returns the current cycle state.
func (a *App) State() State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

func (a *App) transition(next State) {
	a.mu.Lock()
	a.state = next
	a.mu.Unlock()
	a.logger.Info("state: " + string(next))
}

// Run executes one full cycle: parse requirements, analyze, plan, apply,
// verify, report, launch. Requirements are parsed before anything else so a
// malformed source fails the cycle before the environment is even probed.
func (a *App) Run(ctx context.Context) error {
	reqs, err := a.loadRequirements()
	if err != nil {
		a.transition(StateFailed)
		a.report(domain.Report{State: string(StateFailed), GeneratedAt: a.now()})
		return err
	}

	if a.watcher != nil {
		a.watcher.Start(ctx)
	}

	snapshot, err := a.analyze(ctx)
	if err != nil {
		a.transition(StateFailed)
		a.report(domain.Report{State: string(StateFailed), GeneratedAt: a.now()})
		return err
	}

	a.transition(StatePlanning)
	plan := a.reconciler.Plan(reqs, snapshot)

	if conflicts := plan.Conflicts(); len(conflicts) > 0 {
		a.transition(StateConflictHalted)
		a.report(domain.NewPlanReport(string(StateConflictHalted), snapshot, plan, a.now()))
		return zerr.With(domain.ErrRequirementConflict, "conflicts", len(conflicts))
	}

	if pending := plan.Pending(); len(pending) > 0 && !a.settings.AutoInstall {
		// Never hand off an unreconciled environment: with auto-install off
		// the plan is reported and the cycle fails explicitly.
		a.transition(StateFailed)
		a.report(domain.NewPlanReport(string(StateFailed), snapshot, plan, a.now()))
		return zerr.With(domain.ErrReconciliationFailed, "reason", "auto-install disabled with pending actions")
	}

	a.transition(StateInstalling)
	ctx, span := a.tracer.Start(ctx, "reconcile")
	result, err := a.reconciler.ApplyAndVerify(ctx, reqs, plan, a.settings.Isolation())
	a.transition(StateVerifying)
	if err != nil {
		span.RecordError(err)
		span.End()
		a.transition(StateFailed)
		a.report(domain.NewResultReport(string(StateFailed), plan, result, a.now()))
		return err
	}
	span.End()

	a.transition(StateReady)
	a.report(domain.NewResultReport(string(StateReady), plan, result, a.now()))

	if a.settings.MainEntry == "" {
		a.logger.Info("no entry point configured, stopping after verification")
		return nil
	}
	if err := a.launcher.Launch(ctx, result.Final, a.settings.MainEntry); err != nil {
		return zerr.Wrap(err, "launch handoff failed")
	}
	return nil
}

// Plan runs the read-only half of the cycle and returns the report that a
// full run would act on. The environment is never mutated.
func (a *App) Plan(ctx context.Context) (domain.Report, error) {
	reqs, err := a.loadRequirements()
	if err != nil {
		return domain.Report{}, err
	}
	snapshot, err := a.reconciler.Analyze(ctx, a.settings.Isolation())
	if err != nil {
		return domain.Report{}, err
	}
	plan := a.reconciler.Plan(reqs, snapshot)

	state := StateReady
	switch {
	case len(plan.Conflicts()) > 0:
		state = StateConflictHalted
	case len(plan.Pending()) > 0:
		state = StatePlanning
	}
	return domain.NewPlanReport(string(state), snapshot, plan, a.now()), nil
}

// Provision ensures the isolated environment exists and returns its
// snapshot. It fails when the settings select the global environment.
func (a *App) Provision(ctx context.Context) (domain.EnvironmentSnapshot, error) {
	if a.settings.Isolation() != domain.IsolationIsolated {
		return domain.EnvironmentSnapshot{}, zerr.With(domain.ErrProvisionFailed,
			"reason", "settings select the global environment")
	}
	return a.reconciler.Provision(ctx, a.settings.Environment.IsolatedPath)
}

func (a *App) loadRequirements() ([]domain.Requirement, error) {
	defaultPath, overridePath := a.settings.EffectiveRequirementsPaths()
	reqs, err := a.requirements.Load(defaultPath, overridePath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load requirements")
	}
	return reqs, nil
}

// analyze probes the configured environment, provisioning the isolated one
// first when it is missing and the settings allow it.
func (a *App) analyze(ctx context.Context) (domain.EnvironmentSnapshot, error) {
	a.transition(StateAnalyzing)

	mode := a.settings.Isolation()
	snapshot, err := a.reconciler.Analyze(ctx, mode)
	if err == nil {
		return snapshot, nil
	}
	if mode == domain.IsolationIsolated &&
		a.settings.Environment.ProvisionMissing &&
		errors.Is(err, domain.ErrEnvironmentUnavailable) {
		a.logger.Info("isolated environment missing, provisioning " + a.settings.Environment.IsolatedPath)
		return a.reconciler.Provision(ctx, a.settings.Environment.IsolatedPath)
	}
	return domain.EnvironmentSnapshot{}, err
}

// report emits the cycle report. Reporting failures are logged, never
// propagated: the cycle outcome is already decided by the time we report it.
func (a *App) report(r domain.Report) {
	if err := a.reporter.Report(r); err != nil {
		a.logger.Error(zerr.Wrap(err, "failed to emit report"))
	}
}
