package ports

import (
	"context"

	"go.trai.ch/preflight/internal/core/domain"
)

// PackageInstaller executes a single action against the package source.
// One call is one attempt; retry and backoff live in the engine, not here.
//
// Implementations classify failures by wrapping the domain sentinels:
// domain.ErrTransientInstall for network/timeout errors,
// domain.ErrPackageNotFound and domain.ErrChecksumMismatch for permanent
// ones, domain.ErrInstallFailed otherwise.
//
//go:generate go run go.uber.org/mock/mockgen -source=installer.go -destination=mocks/mock_installer.go -package=mocks
type PackageInstaller interface {
	Install(ctx context.Context, action domain.Action) error
}
