package domain

import (
	"time"

	"github.com/Masterminds/semver/v3"
)

// EnvironmentSettings selects the target package namespace.
type EnvironmentSettings struct {
	// UseIsolated selects IsolationIsolated when true, IsolationGlobal
	// otherwise.
	UseIsolated bool
	// IsolatedPath is the root of the isolated environment.
	IsolatedPath string
	// ProvisionMissing allows the orchestrator to create the isolated
	// environment when it does not exist yet. When false, a missing
	// environment is ErrEnvironmentUnavailable.
	ProvisionMissing bool
}

// InstallerSettings are the explicit retry/concurrency parameters of the
// installer stage.
type InstallerSettings struct {
	// Workers bounds the number of actions in flight at once.
	Workers int
	// Retries is the number of additional attempts after the first one for
	// transient failures.
	Retries int
	// Timeout applies per action, not per cycle. A timed-out action counts
	// as a transient failure.
	Timeout time.Duration
	// IndexURL is the package source endpoint (a registry or local mirror).
	IndexURL string
}

// Settings is the validated orchestrator configuration. It is constructed
// once at load time and passed to each component; there is no settings
// singleton.
type Settings struct {
	Environment EnvironmentSettings
	Installer   InstallerSettings

	// RequirementsPath is the default requirement source.
	RequirementsPath string
	// CustomRequirementsPath optionally overrides the default source
	// per-name. Empty means no override.
	CustomRequirementsPath string
	// AutoInstall applies the plan when true. When false the orchestrator
	// stops after planning and reports the plan without applying it.
	AutoInstall bool
	// MainEntry is handed to the launch collaborator once the environment
	// is verified.
	MainEntry string
	// ReportPath is where the structured cycle report is written.
	ReportPath string

	// Pins are versions the orchestrator itself requires for shared
	// packages. A requirement that contradicts a pin yields a conflict
	// action instead of a silent resolution.
	Pins map[string]*semver.Version
}

// Isolation returns the isolation mode selected by the settings.
func (s Settings) Isolation() IsolationMode {
	if s.Environment.UseIsolated {
		return IsolationIsolated
	}
	return IsolationGlobal
}

// EffectiveRequirementsPaths returns the default source path and the
// optional override path.
func (s Settings) EffectiveRequirementsPaths() (defaultPath, overridePath string) {
	return s.RequirementsPath, s.CustomRequirementsPath
}
