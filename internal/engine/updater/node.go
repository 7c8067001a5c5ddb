package updater

import (
	"context"
	"time"

	"github.com/grindlemire/graft"
	"go.trai.ch/preflight/internal/adapters/config"
	"go.trai.ch/preflight/internal/adapters/logger"
	"go.trai.ch/preflight/internal/adapters/pypi"
	"go.trai.ch/preflight/internal/build"
	"go.trai.ch/preflight/internal/core/domain"
	"go.trai.ch/preflight/internal/core/ports"
)

// NodeID is the unique identifier for the updater Graft node.
const NodeID graft.ID = "engine.updater"

// checkInterval is the polling period for background drift checks.
const checkInterval = 5 * time.Minute

func init() {
	graft.Register(graft.Node[*Watcher]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{pypi.NodeID, config.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Watcher, error) {
			index, err := graft.Dep[ports.ReleaseIndex](ctx)
			if err != nil {
				return nil, err
			}
			settings, err := graft.Dep[domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			defaultPath, overridePath := settings.EffectiveRequirementsPaths()
			paths := []string{defaultPath, overridePath}
			return New(index, log, paths, build.Version, checkInterval), nil
		},
	})
}
