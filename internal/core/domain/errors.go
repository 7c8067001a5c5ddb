package domain

import "go.trai.ch/zerr"

var (
	// ErrMalformedRequirement is returned when a requirements line cannot be
	// tokenized into a name and constraint.
	ErrMalformedRequirement = zerr.New("malformed requirement")

	// ErrEnvironmentUnavailable is returned when the target interpreter or
	// isolated environment cannot be located.
	ErrEnvironmentUnavailable = zerr.New("environment unavailable")

	// ErrTransientInstall is returned for network and timeout failures that
	// are eligible for retry.
	ErrTransientInstall = zerr.New("transient install failure")

	// ErrPackageNotFound is returned when the package source has no matching
	// package or version.
	ErrPackageNotFound = zerr.New("package not found in source")

	// ErrChecksumMismatch is returned when a fetched artifact fails hash
	// verification.
	ErrChecksumMismatch = zerr.New("artifact checksum mismatch")

	// ErrInstallFailed is returned for non-transient installer failures that
	// match no more specific class.
	ErrInstallFailed = zerr.New("install failed")

	// ErrConvergenceFailed is returned when the post-install snapshot still
	// demands non-skip actions.
	ErrConvergenceFailed = zerr.New("environment did not converge after install")

	// ErrRequirementConflict is returned when a declared requirement
	// contradicts a pinned version and needs an operator decision.
	ErrRequirementConflict = zerr.New("requirement conflicts with pinned version")

	// ErrReconciliationFailed is returned when a cycle ends with failed
	// actions and the environment cannot be handed off.
	ErrReconciliationFailed = zerr.New("reconciliation failed")

	// ErrSettingsReadFailed is returned when the settings file cannot be read.
	ErrSettingsReadFailed = zerr.New("failed to read settings file")

	// ErrSettingsParseFailed is returned when the settings file cannot be
	// parsed or contains unknown keys.
	ErrSettingsParseFailed = zerr.New("failed to parse settings file")

	// ErrSettingsInvalid is returned when a recognized setting has an
	// unusable value.
	ErrSettingsInvalid = zerr.New("invalid settings")

	// ErrRequirementsReadFailed is returned when the requirements source
	// cannot be read.
	ErrRequirementsReadFailed = zerr.New("failed to read requirements file")

	// ErrReportWriteFailed is returned when the report artifact cannot be
	// written.
	ErrReportWriteFailed = zerr.New("failed to write report")

	// ErrIndexRequestFailed is returned when a release index query fails.
	ErrIndexRequestFailed = zerr.New("release index request failed")

	// ErrIndexParseFailed is returned when a release index response cannot
	// be parsed.
	ErrIndexParseFailed = zerr.New("failed to parse release index response")

	// ErrLaunchFailed is returned when the target application exits with an
	// error after handoff.
	ErrLaunchFailed = zerr.New("application launch failed")

	// ErrProvisionFailed is returned when creating the isolated environment
	// fails.
	ErrProvisionFailed = zerr.New("failed to provision isolated environment")
)
