package pypi

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/preflight/internal/adapters/config"
	"go.trai.ch/preflight/internal/adapters/logger"
	"go.trai.ch/preflight/internal/core/domain"
	"go.trai.ch/preflight/internal/core/ports"
)

// NodeID is the unique identifier for the release index Graft node.
const NodeID graft.ID = "adapter.release_index"

// cachePath is where latest-version answers are persisted between runs.
const cachePath = ".preflight/index-cache.json"

func init() {
	graft.Register(graft.Node[ports.ReleaseIndex]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID, config.NodeID},
		Run: func(ctx context.Context) (ports.ReleaseIndex, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			settings, err := graft.Dep[domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			return New(settings.Installer.IndexURL, cachePath, log), nil
		},
	})
}
