// Package config loads and validates the orchestrator settings file.
package config

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/Masterminds/semver/v3"
	"go.trai.ch/preflight/internal/core/domain"
	"go.trai.ch/preflight/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Defaults applied when the settings file is absent or a key is omitted.
const (
	defaultRequirementsPath = "requirements.txt"
	defaultReportPath       = ".preflight/report.json"
	defaultIsolatedPath     = ".venv"
	defaultIndexURL         = "https://pypi.org"
	defaultWorkers          = 4
	defaultRetries          = 2
	defaultTimeout          = 90 * time.Second
)

// Loader implements ports.SettingsLoader using a YAML file.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a new settings Loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger}
}

// settingsFile mirrors the on-disk YAML structure. Booleans with a non-zero
// default are pointers so an omitted key is distinguishable from false.
type settingsFile struct {
	Environment struct {
		UseIsolated      bool   `yaml:"use_isolated"`
		Path             string `yaml:"path"`
		ProvisionMissing *bool  `yaml:"provision_missing"`
	} `yaml:"environment"`
	Installer struct {
		Workers  int    `yaml:"workers"`
		Retries  *int   `yaml:"retries"`
		Timeout  string `yaml:"timeout"`
		IndexURL string `yaml:"index_url"`
	} `yaml:"installer"`
	Requirements       string            `yaml:"requirements"`
	CustomRequirements string            `yaml:"custom_requirements"`
	AutoInstall        *bool             `yaml:"auto_install"`
	MainEntry          string            `yaml:"main_entry"`
	Report             string            `yaml:"report"`
	Pins               map[string]string `yaml:"pins"`
}

// Load reads the settings file at path. A missing file yields the defaults;
// a malformed file or an unknown key fails the load.
func (l *Loader) Load(path string) (domain.Settings, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.Info("no settings file at " + path + ", using defaults")
			return defaults(), nil
		}
		readErr := zerr.With(domain.ErrSettingsReadFailed, "path", path)
		return domain.Settings{}, zerr.With(readErr, "cause", err.Error())
	}

	var file settingsFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		parseErr := zerr.With(domain.ErrSettingsParseFailed, "path", path)
		return domain.Settings{}, zerr.With(parseErr, "cause", err.Error())
	}

	settings, err := fromFile(file)
	if err != nil {
		return domain.Settings{}, zerr.With(err, "path", path)
	}
	return settings, nil
}

func defaults() domain.Settings {
	return domain.Settings{
		Environment: domain.EnvironmentSettings{
			UseIsolated:      false,
			IsolatedPath:     defaultIsolatedPath,
			ProvisionMissing: true,
		},
		Installer: domain.InstallerSettings{
			Workers:  defaultWorkers,
			Retries:  defaultRetries,
			Timeout:  defaultTimeout,
			IndexURL: defaultIndexURL,
		},
		RequirementsPath: defaultRequirementsPath,
		AutoInstall:      true,
		ReportPath:       defaultReportPath,
	}
}

// fromFile merges the decoded file over the defaults and validates the
// result.
func fromFile(file settingsFile) (domain.Settings, error) {
	settings := defaults()

	settings.Environment.UseIsolated = file.Environment.UseIsolated
	if file.Environment.Path != "" {
		settings.Environment.IsolatedPath = file.Environment.Path
	}
	if file.Environment.ProvisionMissing != nil {
		settings.Environment.ProvisionMissing = *file.Environment.ProvisionMissing
	}

	if file.Installer.Workers != 0 {
		settings.Installer.Workers = file.Installer.Workers
	}
	if file.Installer.Retries != nil {
		settings.Installer.Retries = *file.Installer.Retries
	}
	if file.Installer.Timeout != "" {
		timeout, err := time.ParseDuration(file.Installer.Timeout)
		if err != nil {
			return domain.Settings{}, zerr.With(domain.ErrSettingsInvalid, "installer.timeout", file.Installer.Timeout)
		}
		settings.Installer.Timeout = timeout
	}
	if file.Installer.IndexURL != "" {
		settings.Installer.IndexURL = file.Installer.IndexURL
	}

	if file.Requirements != "" {
		settings.RequirementsPath = file.Requirements
	}
	settings.CustomRequirementsPath = file.CustomRequirements
	if file.AutoInstall != nil {
		settings.AutoInstall = *file.AutoInstall
	}
	settings.MainEntry = file.MainEntry
	if file.Report != "" {
		settings.ReportPath = file.Report
	}

	if len(file.Pins) > 0 {
		pins := make(map[string]*semver.Version, len(file.Pins))
		for name, raw := range file.Pins {
			version, err := semver.NewVersion(raw)
			if err != nil {
				return domain.Settings{}, zerr.With(zerr.With(domain.ErrSettingsInvalid, "pin", name), "version", raw)
			}
			pins[name] = version
		}
		settings.Pins = pins
	}

	return settings, validate(settings)
}

func validate(s domain.Settings) error {
	if s.Installer.Workers < 1 {
		return zerr.With(domain.ErrSettingsInvalid, "installer.workers", s.Installer.Workers)
	}
	if s.Installer.Retries < 0 {
		return zerr.With(domain.ErrSettingsInvalid, "installer.retries", s.Installer.Retries)
	}
	if s.Installer.Timeout <= 0 {
		return zerr.With(domain.ErrSettingsInvalid, "installer.timeout", s.Installer.Timeout.String())
	}
	if s.Environment.UseIsolated && s.Environment.IsolatedPath == "" {
		return zerr.With(domain.ErrSettingsInvalid, "environment.path", "empty")
	}
	return nil
}
