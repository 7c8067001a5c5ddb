// Package venv analyzes and provisions Python execution environments.
package venv

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.trai.ch/preflight/internal/core/domain"
	"go.trai.ch/preflight/internal/core/ports"
	"go.trai.ch/zerr"
)

// Analyzer implements ports.EnvironmentAnalyzer by shelling out to the
// interpreter's own package tooling. Analysis never mutates the environment;
// Provision is the only write path and it is idempotent.
type Analyzer struct {
	logger       ports.Logger
	isolatedPath string
}

// NewAnalyzer creates an Analyzer for the configured environment.
func NewAnalyzer(logger ports.Logger, env domain.EnvironmentSettings) *Analyzer {
	return &Analyzer{
		logger:       logger,
		isolatedPath: env.IsolatedPath,
	}
}

// Analyze enumerates the packages visible under the given isolation mode and
// returns a fresh snapshot.
func (a *Analyzer) Analyze(ctx context.Context, mode domain.IsolationMode) (domain.EnvironmentSnapshot, error) {
	interp, err := InterpreterPath(mode, a.isolatedPath)
	if err != nil {
		return domain.EnvironmentSnapshot{}, err
	}

	version, err := interpreterVersion(ctx, interp)
	if err != nil {
		return domain.EnvironmentSnapshot{}, err
	}

	packages, err := a.listPackages(ctx, interp)
	if err != nil {
		return domain.EnvironmentSnapshot{}, err
	}

	return domain.EnvironmentSnapshot{
		InterpreterID: interp + " " + version,
		Isolation:     mode,
		Packages:      packages,
	}, nil
}

// Provision creates the isolated environment at path if it does not already
// exist, then analyzes it. An existing environment is left untouched.
func (a *Analyzer) Provision(ctx context.Context, path string) (domain.EnvironmentSnapshot, error) {
	if _, err := os.Stat(isolatedInterpreter(path)); err == nil {
		return a.Analyze(ctx, domain.IsolationIsolated)
	}

	base, err := InterpreterPath(domain.IsolationGlobal, "")
	if err != nil {
		return domain.EnvironmentSnapshot{}, zerr.With(domain.ErrProvisionFailed, "cause", err.Error())
	}

	a.logger.Info("creating isolated environment at " + path)
	cmd := exec.CommandContext(ctx, base, "-m", "venv", path) //nolint:gosec // interpreter resolved from PATH
	if output, err := cmd.CombinedOutput(); err != nil {
		provErr := zerr.With(domain.ErrProvisionFailed, "path", path)
		provErr = zerr.With(provErr, "cause", err.Error())
		return domain.EnvironmentSnapshot{}, zerr.With(provErr, "output", strings.TrimSpace(string(output)))
	}

	return a.Analyze(ctx, domain.IsolationIsolated)
}

// InterpreterPath resolves the interpreter executable for the given
// isolation mode. Global mode searches PATH; isolated mode expects the
// platform-specific layout under isolatedPath.
func InterpreterPath(mode domain.IsolationMode, isolatedPath string) (string, error) {
	if mode == domain.IsolationIsolated {
		interp := isolatedInterpreter(isolatedPath)
		if _, err := os.Stat(interp); err != nil {
			return "", zerr.With(domain.ErrEnvironmentUnavailable, "interpreter", interp)
		}
		return interp, nil
	}

	for _, name := range []string{"python3", "python"} {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", zerr.With(domain.ErrEnvironmentUnavailable, "reason", "no python interpreter on PATH")
}

// isolatedInterpreter returns the interpreter location inside an isolated
// environment: bin/python on POSIX, Scripts\python.exe on Windows.
func isolatedInterpreter(root string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(root, "Scripts", "python.exe")
	}
	return filepath.Join(root, "bin", "python")
}

func interpreterVersion(ctx context.Context, interp string) (string, error) {
	cmd := exec.CommandContext(ctx, interp, "--version") //nolint:gosec // interpreter path resolved above
	output, err := cmd.Output()
	if err != nil {
		envErr := zerr.With(domain.ErrEnvironmentUnavailable, "interpreter", interp)
		return "", zerr.With(envErr, "cause", err.Error())
	}
	return strings.TrimSpace(string(output)), nil
}

func (a *Analyzer) listPackages(ctx context.Context, interp string) (map[string]domain.InstalledPackage, error) {
	cmd := exec.CommandContext(ctx, interp, "-m", "pip", "list", "--format=json") //nolint:gosec // interpreter path resolved above
	output, err := cmd.Output()
	if err != nil {
		listErr := zerr.With(domain.ErrEnvironmentUnavailable, "interpreter", interp)
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, zerr.With(listErr, "stderr", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, zerr.With(listErr, "cause", err.Error())
	}
	return ParseInventory(output, a.logger)
}

// inventoryEntry is one element of the package listing JSON.
type inventoryEntry struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ParseInventory decodes a pip-style JSON package listing into the snapshot
// inventory. Entries whose version is not parseable are skipped with a
// warning rather than failing the whole analysis: legacy version strings
// exist in the wild and an unparseable package can still be reinstalled.
func ParseInventory(data []byte, logger ports.Logger) (map[string]domain.InstalledPackage, error) {
	var entries []inventoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, zerr.Wrap(err, "failed to parse package inventory")
	}

	packages := make(map[string]domain.InstalledPackage, len(entries))
	for _, entry := range entries {
		version, err := semver.NewVersion(entry.Version)
		if err != nil {
			logger.Warn("skipping package with unparseable version: " + entry.Name + " " + entry.Version)
			continue
		}
		packages[entry.Name] = domain.InstalledPackage{Name: entry.Name, Version: version}
	}
	return packages, nil
}
