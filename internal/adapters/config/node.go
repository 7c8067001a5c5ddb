package config

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/preflight/internal/adapters/logger"
	"go.trai.ch/preflight/internal/core/domain"
	"go.trai.ch/preflight/internal/core/ports"
)

// NodeID is the unique identifier for the settings Graft node. The node
// loads the settings once; every other node receives the validated value.
const NodeID graft.ID = "adapter.settings"

// pathEnvVar overrides the default settings file location.
const pathEnvVar = "PREFLIGHT_SETTINGS"

// defaultPath is the settings file looked up when the env var is unset.
const defaultPath = "preflight.yaml"

func init() {
	graft.Register(graft.Node[domain.Settings]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (domain.Settings, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return domain.Settings{}, err
			}
			path := os.Getenv(pathEnvVar)
			if path == "" {
				path = defaultPath
			}
			return NewLoader(log).Load(path)
		},
	})
}
