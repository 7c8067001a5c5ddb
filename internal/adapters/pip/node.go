package pip

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/preflight/internal/adapters/config"
	"go.trai.ch/preflight/internal/adapters/logger"
	"go.trai.ch/preflight/internal/core/domain"
	"go.trai.ch/preflight/internal/core/ports"
)

// NodeID is the unique identifier for the pip backend Graft node.
const NodeID graft.ID = "adapter.pip"

func init() {
	graft.Register(graft.Node[ports.PackageInstaller]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID, config.NodeID},
		Run: func(ctx context.Context) (ports.PackageInstaller, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			settings, err := graft.Dep[domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			return NewBackend(log, settings.Environment), nil
		},
	})
}
