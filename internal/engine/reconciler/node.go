package reconciler

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/preflight/internal/adapters/logger"
	"go.trai.ch/preflight/internal/adapters/venv"
	"go.trai.ch/preflight/internal/core/ports"
	"go.trai.ch/preflight/internal/engine/checker"
	"go.trai.ch/preflight/internal/engine/installer"
)

// NodeID is the unique identifier for the reconciler Graft node.
const NodeID graft.ID = "engine.reconciler"

func init() {
	graft.Register(graft.Node[*Reconciler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			venv.NodeID,
			checker.NodeID,
			installer.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Reconciler, error) {
			analyzer, err := graft.Dep[ports.EnvironmentAnalyzer](ctx)
			if err != nil {
				return nil, err
			}
			planner, err := graft.Dep[*checker.Planner](ctx)
			if err != nil {
				return nil, err
			}
			inst, err := graft.Dep[*installer.Installer](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(analyzer, planner, inst, log), nil
		},
	})
}
