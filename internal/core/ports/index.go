package ports

import (
	"context"

	"github.com/Masterminds/semver/v3"
)

// ReleaseIndex answers latest-version queries against the package source.
// It serves two callers: the installer resolves "latest" targets through it,
// and the background updater uses it to notice newer orchestrator releases.
//
//go:generate go run go.uber.org/mock/mockgen -source=index.go -destination=mocks/mock_index.go -package=mocks
type ReleaseIndex interface {
	// Latest returns the newest published version of the named package.
	Latest(ctx context.Context, name string) (*semver.Version, error)
}
