package ports

import "go.trai.ch/preflight/internal/core/domain"

// SettingsLoader loads and validates the orchestrator settings.
//
//go:generate go run go.uber.org/mock/mockgen -source=settings_loader.go -destination=mocks/mock_settings_loader.go -package=mocks
type SettingsLoader interface {
	// Load reads the settings file at path. A missing file yields the
	// defaults; a malformed file or unknown key fails the load.
	Load(path string) (domain.Settings, error)
}
