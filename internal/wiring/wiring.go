// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/preflight/internal/adapters/config"
	_ "go.trai.ch/preflight/internal/adapters/launcher"
	_ "go.trai.ch/preflight/internal/adapters/logger"
	_ "go.trai.ch/preflight/internal/adapters/pip"
	_ "go.trai.ch/preflight/internal/adapters/pypi"
	_ "go.trai.ch/preflight/internal/adapters/report"
	_ "go.trai.ch/preflight/internal/adapters/reqfile"
	_ "go.trai.ch/preflight/internal/adapters/telemetry/progrock"
	_ "go.trai.ch/preflight/internal/adapters/venv"
	// Register app and engine nodes.
	_ "go.trai.ch/preflight/internal/app"
	_ "go.trai.ch/preflight/internal/engine/checker"
	_ "go.trai.ch/preflight/internal/engine/installer"
	_ "go.trai.ch/preflight/internal/engine/reconciler"
	_ "go.trai.ch/preflight/internal/engine/updater"
)
