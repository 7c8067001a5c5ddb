// Package main is the entry point for the preflight launch orchestrator.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/preflight/cmd/preflight/commands"
	"go.trai.ch/preflight/internal/app"
	"go.trai.ch/preflight/internal/core/domain"
	_ "go.trai.ch/preflight/internal/wiring"
)

// Exit codes: 0 means the environment converged (and the app, if launched,
// exited cleanly), 2 means an unresolved requirement conflict needs an
// operator decision, 1 covers every other failure.
const (
	exitOK       = 0
	exitFailure  = 1
	exitConflict = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// Logger is not available yet if initialization failed.
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return exitFailure
	}

	cli := commands.New(components.App)

	if err := cli.Execute(ctx); err != nil {
		components.Logger.Error(err)
		if errors.Is(err, domain.ErrRequirementConflict) {
			return exitConflict
		}
		return exitFailure
	}
	return exitOK
}
