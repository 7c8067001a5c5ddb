// Package updater watches for drift between the running cycle and the world:
// requirements files edited after startup and newer orchestrator releases.
package updater

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
	"go.trai.ch/preflight/internal/core/ports"
)

// packageName is the orchestrator's own name on the release index, used for
// the self-update check.
const packageName = "preflight"

// Watcher performs advisory checks in the background. Every finding is
// surfaced through the logger and nothing more: the watcher never mutates
// state, never blocks the reconciliation cycle and never fails it.
type Watcher struct {
	index    ports.ReleaseIndex
	logger   ports.Logger
	paths    []string
	current  *semver.Version
	interval time.Duration

	mu     sync.Mutex
	mtimes map[string]time.Time
}

// New creates a Watcher over the given requirement source paths. version is
// the running build's version string; an unparseable version disables the
// self-update check. interval is the polling period for Start.
func New(index ports.ReleaseIndex, logger ports.Logger, paths []string, version string, interval time.Duration) *Watcher {
	current, err := semver.NewVersion(version)
	if err != nil {
		// Dev builds carry no release version.
		current = nil
	}

	mtimes := make(map[string]time.Time, len(paths))
	for _, path := range paths {
		if path == "" {
			continue
		}
		if info, err := os.Stat(path); err == nil {
			mtimes[path] = info.ModTime()
		}
	}

	return &Watcher{
		index:    index,
		logger:   logger,
		paths:    paths,
		current:  current,
		interval: interval,
		mtimes:   mtimes,
	}
}

// Start runs periodic checks until ctx is cancelled. It returns immediately;
// the checks run on their own goroutine.
func (w *Watcher) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.Check(ctx)
			}
		}
	}()
}

// Check runs a single pass of both drift checks.
func (w *Watcher) Check(ctx context.Context) {
	w.checkRequirementDrift()
	w.checkSelfUpdate(ctx)
}

func (w *Watcher) checkRequirementDrift() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, path := range w.paths {
		if path == "" {
			continue
		}
		info, err := os.Stat(path)
		if err != nil {
			// A source that vanished mid-run is worth a warning too.
			w.logger.Warn("requirements source unreadable: " + path)
			continue
		}
		recorded, ok := w.mtimes[path]
		if !ok {
			w.mtimes[path] = info.ModTime()
			continue
		}
		if info.ModTime().After(recorded) {
			w.logger.Warn("requirements changed on disk since startup, restart to pick them up: " + path)
			w.mtimes[path] = info.ModTime()
		}
	}
}

func (w *Watcher) checkSelfUpdate(ctx context.Context) {
	if w.current == nil {
		return
	}
	latest, err := w.index.Latest(ctx, packageName)
	if err != nil {
		w.logger.Warn("self-update check failed: " + err.Error())
		return
	}
	if latest.GreaterThan(w.current) {
		w.logger.Info("a newer release is available: " + latest.String() + " (running " + w.current.String() + ")")
	}
}
