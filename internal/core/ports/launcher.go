package ports

import (
	"context"

	"go.trai.ch/preflight/internal/core/domain"
)

// Launcher starts the target application inside a verified environment.
// The orchestrator only ever calls it from the Ready state.
//
//go:generate go run go.uber.org/mock/mockgen -source=launcher.go -destination=mocks/mock_launcher.go -package=mocks
type Launcher interface {
	// Launch runs entry with the interpreter identified by the snapshot and
	// blocks until the application exits.
	Launch(ctx context.Context, snapshot domain.EnvironmentSnapshot, entry string) error
}
