package reqfile

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/preflight/internal/adapters/logger"
	"go.trai.ch/preflight/internal/core/ports"
)

// NodeID is the unique identifier for the requirements source Graft node.
const NodeID graft.ID = "adapter.requirements"

func init() {
	graft.Register(graft.Node[ports.RequirementSource]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.RequirementSource, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewSource(log), nil
		},
	})
}
