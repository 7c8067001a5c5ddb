// Package installer applies action plans against the package source with
// bounded concurrency and per-action retry.
package installer

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"go.trai.ch/preflight/internal/core/domain"
	"go.trai.ch/preflight/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

const backoffBase = 500 * time.Millisecond

// Installer is the only component with external side effects: it mutates the
// target environment's package inventory through the backend. Everything
// else operates on analyzer-produced snapshots.
type Installer struct {
	backend ports.PackageInstaller
	index   ports.ReleaseIndex
	tracer  ports.Tracer
	logger  ports.Logger

	workers int
	retries int
	timeout time.Duration

	// sleep is swapped in tests to observe backoff without waiting.
	sleep func(time.Duration)
}

// New creates an Installer with the given retry/concurrency parameters.
func New(
	backend ports.PackageInstaller,
	index ports.ReleaseIndex,
	tracer ports.Tracer,
	logger ports.Logger,
	settings domain.InstallerSettings,
) *Installer {
	return &Installer{
		backend: backend,
		index:   index,
		tracer:  tracer,
		logger:  logger,
		workers: settings.Workers,
		retries: settings.Retries,
		timeout: settings.Timeout,
		sleep:   time.Sleep,
	}
}

// Apply executes the plan's pending actions and returns the partitioned
// outcome. Skip and Conflict actions are never executed. A failed action
// does not abort the remaining plan: every independent action is attempted
// and reported on its own. The returned result carries no final snapshot;
// re-analysis belongs to the verification stage.
func (i *Installer) Apply(ctx context.Context, plan domain.Plan) domain.ReconciliationResult {
	pending := plan.Pending()

	names := make([]string, len(pending))
	for idx, a := range pending {
		names[idx] = a.Name
	}
	i.tracer.EmitPlan(ctx, names)

	var (
		mu      sync.Mutex
		applied []domain.AppliedAction
		failed  []domain.FailedAction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.workers)

	for _, action := range pending {
		g.Go(func() error {
			attempts, err := i.applyAction(gctx, action)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed = append(failed, domain.FailedAction{
					Action:   action,
					Attempts: attempts,
					Kind:     classify(err),
					Cause:    err.Error(),
				})
				return nil // keep independent actions running
			}
			applied = append(applied, domain.AppliedAction{Action: action, Attempts: attempts})
			return nil
		})
	}
	// Workers never return errors; Wait is the applied-before-verify
	// barrier that drains the pool.
	_ = g.Wait()

	sortByName(applied, func(a domain.AppliedAction) string { return a.Action.Name })
	sortByName(failed, func(f domain.FailedAction) string { return f.Action.Name })

	return domain.ReconciliationResult{Applied: applied, Failed: failed}
}

// applyAction runs one action to completion, retrying transient failures
// with exponential backoff. The timeout applies per attempt; a timed-out
// attempt counts as transient. Once an attempt has started it runs to
// completion or timeout rather than being interrupted mid-write.
func (i *Installer) applyAction(ctx context.Context, action domain.Action) (int, error) {
	resolved, err := i.resolveTarget(ctx, action)
	if err != nil {
		return 0, err
	}

	ctx, span := i.tracer.Start(ctx, resolved.Name+"@"+resolved.TargetVersion)
	defer span.End()
	span.SetAttribute("kind", string(resolved.Kind))

	attempts := 0
	for {
		attemptCtx, cancel := context.WithTimeout(ctx, i.timeout)
		err = i.backend.Install(attemptCtx, resolved)
		cancel()
		attempts++

		if err == nil {
			return attempts, nil
		}
		if ctx.Err() != nil {
			// Cycle cancelled; report what we know without retrying.
			span.RecordError(err)
			return attempts, err
		}
		if !isTransient(err) || attempts > i.retries {
			span.RecordError(err)
			return attempts, err
		}

		delay := backoffBase << (attempts - 1)
		i.logger.Warn("retrying " + resolved.Name + " after transient failure: " + err.Error())
		i.sleep(delay)
	}
}

// resolveTarget pins down "latest" targets against the release index so the
// backend always installs a concrete version.
func (i *Installer) resolveTarget(ctx context.Context, action domain.Action) (domain.Action, error) {
	if action.TargetVersion != domain.TargetLatest {
		return action, nil
	}
	latest, err := i.index.Latest(ctx, action.Name)
	if err != nil {
		return action, zerr.With(zerr.Wrap(err, "failed to resolve latest version"), "package", action.Name)
	}
	action.TargetVersion = latest.String()
	return action, nil
}

func isTransient(err error) bool {
	return errors.Is(err, domain.ErrTransientInstall) ||
		errors.Is(err, context.DeadlineExceeded)
}

func classify(err error) domain.ErrorKind {
	switch {
	case errors.Is(err, domain.ErrPackageNotFound):
		return domain.ErrorKindNotFound
	case errors.Is(err, domain.ErrChecksumMismatch):
		return domain.ErrorKindChecksum
	case isTransient(err):
		return domain.ErrorKindTransient
	default:
		return domain.ErrorKindInstall
	}
}

func sortByName[T any](items []T, name func(T) string) {
	slices.SortFunc(items, func(a, b T) int {
		switch {
		case name(a) < name(b):
			return -1
		case name(a) > name(b):
			return 1
		default:
			return 0
		}
	})
}
