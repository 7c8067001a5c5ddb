// Package launcher hands the verified environment off to the target
// application.
package launcher

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"

	"go.trai.ch/preflight/internal/adapters/venv"
	"go.trai.ch/preflight/internal/core/domain"
	"go.trai.ch/preflight/internal/core/ports"
	"go.trai.ch/zerr"
)

// Process implements ports.Launcher using os/exec. The application inherits
// our environment and streams its output through the logger.
type Process struct {
	logger ports.Logger
	env    domain.EnvironmentSettings
}

// NewProcess creates a new process Launcher.
func NewProcess(logger ports.Logger, env domain.EnvironmentSettings) *Process {
	return &Process{logger: logger, env: env}
}

// Launch runs entry with the snapshot's interpreter and blocks until the
// application exits.
func (p *Process) Launch(ctx context.Context, snapshot domain.EnvironmentSnapshot, entry string) error {
	interp, err := venv.InterpreterPath(snapshot.Isolation, p.env.IsolatedPath)
	if err != nil {
		return zerr.With(domain.ErrLaunchFailed, "cause", err.Error())
	}

	p.logger.Info("launching " + entry + " with " + snapshot.InterpreterID)

	cmd := exec.CommandContext(ctx, interp, entry) //nolint:gosec // interpreter and entry come from validated settings
	cmd.Env = os.Environ()
	cmd.Stdout = &logWriter{logger: p.logger, level: "info"}
	cmd.Stderr = &logWriter{logger: p.logger, level: "error"}

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		launchErr := zerr.With(domain.ErrLaunchFailed, "entry", entry)
		return zerr.With(launchErr, "exit_code", exitCode)
	}
	return nil
}

// logWriter splits process output into lines and forwards them to the
// logger at a fixed level.
type logWriter struct {
	logger ports.Logger
	level  string
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	msg := strings.TrimSuffix(string(p), "\n")
	for _, line := range strings.Split(msg, "\n") {
		if w.level == "info" {
			w.logger.Info(line)
		} else {
			w.logger.Error(zerr.New(line))
		}
	}
	return len(p), nil
}
