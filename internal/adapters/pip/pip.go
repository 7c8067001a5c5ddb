// Package pip executes install actions through the environment's own
// package manager.
package pip

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	"go.trai.ch/preflight/internal/adapters/venv"
	"go.trai.ch/preflight/internal/core/domain"
	"go.trai.ch/preflight/internal/core/ports"
	"go.trai.ch/zerr"
)

// Backend implements ports.PackageInstaller by shelling out to pip inside
// the configured environment. One Install call is one attempt; retry policy
// lives in the engine.
type Backend struct {
	logger ports.Logger
	env    domain.EnvironmentSettings
}

// NewBackend creates a pip Backend for the configured environment.
func NewBackend(logger ports.Logger, env domain.EnvironmentSettings) *Backend {
	return &Backend{logger: logger, env: env}
}

// Install runs a single install attempt for the action's target version.
// The interpreter is resolved per call so a freshly provisioned environment
// is picked up without reconstructing the backend.
func (b *Backend) Install(ctx context.Context, action domain.Action) error {
	mode := domain.IsolationGlobal
	if b.env.UseIsolated {
		mode = domain.IsolationIsolated
	}
	interp, err := venv.InterpreterPath(mode, b.env.IsolatedPath)
	if err != nil {
		return err
	}

	args := []string{"-m", "pip", "install", "--no-input"}
	if action.TargetVersion == domain.TargetLatest {
		// Unresolved latest: let pip pick the newest release.
		args = append(args, "--upgrade", action.Name)
	} else {
		args = append(args, action.Name+"=="+action.TargetVersion)
	}

	b.logger.Info("pip install " + action.Name + "==" + action.TargetVersion)
	cmd := exec.CommandContext(ctx, interp, args...) //nolint:gosec // interpreter and args built from validated inputs
	if _, err := cmd.Output(); err != nil {
		return b.wrapFailure(action, err)
	}
	return nil
}

// wrapFailure maps a pip failure onto the domain error taxonomy so the
// engine can decide retry eligibility with errors.Is alone.
func (b *Backend) wrapFailure(action domain.Action, err error) error {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return err
		}
		installErr := zerr.With(domain.ErrInstallFailed, "package", action.Name)
		return zerr.With(installErr, "cause", err.Error())
	}

	stderr := strings.TrimSpace(string(exitErr.Stderr))
	failure := zerr.With(classifyOutput(stderr), "package", action.Name)
	failure = zerr.With(failure, "exit_code", exitErr.ExitCode())
	return zerr.With(failure, "stderr", tail(stderr))
}

// classifyOutput inspects pip's stderr and picks the matching sentinel.
// Unknown failures default to the permanent ErrInstallFailed so they are
// never retried blindly.
func classifyOutput(stderr string) error {
	lower := strings.ToLower(stderr)
	switch {
	case strings.Contains(lower, "no matching distribution found"),
		strings.Contains(lower, "could not find a version"):
		return domain.ErrPackageNotFound
	case strings.Contains(lower, "hash mismatch"),
		strings.Contains(lower, "these packages do not match the hashes"):
		return domain.ErrChecksumMismatch
	case strings.Contains(lower, "connection"),
		strings.Contains(lower, "timed out"),
		strings.Contains(lower, "timeout"),
		strings.Contains(lower, "temporary failure"),
		strings.Contains(lower, "network is unreachable"):
		return domain.ErrTransientInstall
	default:
		return domain.ErrInstallFailed
	}
}

// tail keeps error payloads bounded; pip stderr can run to many pages.
func tail(s string) string {
	const limit = 2048
	if len(s) <= limit {
		return s
	}
	return "..." + s[len(s)-limit:]
}
