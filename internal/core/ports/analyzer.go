// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/preflight/internal/core/domain"
)

// EnvironmentAnalyzer observes the target execution environment.
//
// Analyze is read-only probing: it never mutates the environment. Creating
// an isolated environment is the distinct Provision operation.
//
//go:generate go run go.uber.org/mock/mockgen -source=analyzer.go -destination=mocks/mock_analyzer.go -package=mocks
type EnvironmentAnalyzer interface {
	// Analyze enumerates the packages visible under the given isolation mode
	// and returns a fresh immutable snapshot. It returns
	// domain.ErrEnvironmentUnavailable when the interpreter or isolated
	// environment cannot be located.
	Analyze(ctx context.Context, mode domain.IsolationMode) (domain.EnvironmentSnapshot, error)

	// Provision creates the isolated environment at the given path if it
	// does not already exist, then analyzes it. Idempotent: an existing
	// valid environment is left untouched.
	Provision(ctx context.Context, path string) (domain.EnvironmentSnapshot, error)
}
