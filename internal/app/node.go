package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/preflight/internal/adapters/config"   //nolint:depguard // Wired in app layer
	"go.trai.ch/preflight/internal/adapters/launcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/preflight/internal/adapters/logger"   //nolint:depguard // Wired in app layer
	"go.trai.ch/preflight/internal/adapters/report"   //nolint:depguard // Wired in app layer
	"go.trai.ch/preflight/internal/adapters/reqfile" //nolint:depguard // Wired in app layer
	"go.trai.ch/preflight/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/preflight/internal/core/domain"
	"go.trai.ch/preflight/internal/core/ports"
	"go.trai.ch/preflight/internal/engine/reconciler"
	"go.trai.ch/preflight/internal/engine/updater"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			reqfile.NodeID,
			reconciler.NodeID,
			report.NodeID,
			launcher.NodeID,
			updater.NodeID,
			logger.NodeID,
			progrock.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			config.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	settings, err := graft.Dep[domain.Settings](ctx)
	if err != nil {
		return nil, err
	}
	requirements, err := graft.Dep[ports.RequirementSource](ctx)
	if err != nil {
		return nil, err
	}
	rec, err := graft.Dep[*reconciler.Reconciler](ctx)
	if err != nil {
		return nil, err
	}
	reporter, err := graft.Dep[ports.Reporter](ctx)
	if err != nil {
		return nil, err
	}
	launch, err := graft.Dep[ports.Launcher](ctx)
	if err != nil {
		return nil, err
	}
	watcher, err := graft.Dep[*updater.Watcher](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	return New(settings, requirements, rec, reporter, launch, watcher, log, tracer), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	application, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	settings, err := graft.Dep[domain.Settings](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:      application,
		Logger:   log,
		Settings: settings,
	}, nil
}
