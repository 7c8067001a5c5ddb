package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go.trai.ch/preflight/internal/adapters/telemetry"
	"go.trai.ch/preflight/internal/app"
	"go.trai.ch/preflight/internal/core/domain"
	"go.trai.ch/preflight/internal/core/ports/mocks"
	"go.trai.ch/preflight/internal/engine/checker"
	"go.trai.ch/preflight/internal/engine/installer"
	"go.trai.ch/preflight/internal/engine/reconciler"
)

type fixture struct {
	requirements *mocks.MockRequirementSource
	analyzer     *mocks.MockEnvironmentAnalyzer
	backend      *mocks.MockPackageInstaller
	reporter     *mocks.MockReporter
	launcher     *mocks.MockLauncher
	app          *app.App
}

func newFixture(t *testing.T, settings domain.Settings) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	f := &fixture{
		requirements: mocks.NewMockRequirementSource(ctrl),
		analyzer:     mocks.NewMockEnvironmentAnalyzer(ctrl),
		backend:      mocks.NewMockPackageInstaller(ctrl),
		reporter:     mocks.NewMockReporter(ctrl),
		launcher:     mocks.NewMockLauncher(ctrl),
	}

	inst := installer.New(f.backend, mocks.NewMockReleaseIndex(ctrl), telemetry.NewNoOpTracer(), log, settings.Installer)
	rec := reconciler.New(f.analyzer, checker.NewPlanner(settings.Pins), inst, log)

	f.app = app.New(settings, f.requirements, rec, f.reporter, f.launcher, nil, log, telemetry.NewNoOpTracer())
	return f
}

func testSettings() domain.Settings {
	return domain.Settings{
		Installer: domain.InstallerSettings{
			Workers: 1,
			Retries: 0,
			Timeout: time.Second,
		},
		RequirementsPath: "requirements.txt",
		AutoInstall:      true,
	}
}

func snapshot(packages map[string]string) domain.EnvironmentSnapshot {
	inventory := make(map[string]domain.InstalledPackage, len(packages))
	for name, version := range packages {
		inventory[name] = domain.InstalledPackage{Name: name, Version: semver.MustParse(version)}
	}
	return domain.EnvironmentSnapshot{
		InterpreterID: "/usr/bin/python3 Python 3.12.4",
		Isolation:     domain.IsolationGlobal,
		Packages:      inventory,
	}
}

func TestApp_RunConvergesAndLaunches(t *testing.T) {
	settings := testSettings()
	settings.MainEntry = "main.py"
	f := newFixture(t, settings)

	reqs := []domain.Requirement{
		{Name: "numpy", Constraint: domain.Exactly(semver.MustParse("1.2.3"))},
	}
	before := snapshot(nil)
	after := snapshot(map[string]string{"numpy": "1.2.3"})

	f.requirements.EXPECT().Load("requirements.txt", "").Return(reqs, nil)
	gomock.InOrder(
		f.analyzer.EXPECT().Analyze(gomock.Any(), domain.IsolationGlobal).Return(before, nil),
		f.analyzer.EXPECT().Analyze(gomock.Any(), domain.IsolationGlobal).Return(after, nil),
	)
	f.backend.EXPECT().Install(gomock.Any(), gomock.Any()).Return(nil)

	var reported domain.Report
	f.reporter.EXPECT().Report(gomock.Any()).DoAndReturn(func(r domain.Report) error {
		reported = r
		return nil
	})
	f.launcher.EXPECT().Launch(gomock.Any(), gomock.Any(), "main.py").Return(nil)

	err := f.app.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, app.StateReady, f.app.State())
	assert.Equal(t, string(app.StateReady), reported.State)
	require.Len(t, reported.Actions, 1)
	assert.Equal(t, "applied", reported.Actions[0].Outcome)
}

func TestApp_RunHaltsOnConflict(t *testing.T) {
	settings := testSettings()
	settings.Pins = map[string]*semver.Version{"numpy": semver.MustParse("2.0.0")}
	f := newFixture(t, settings)

	reqs := []domain.Requirement{
		{Name: "numpy", Constraint: domain.Exactly(semver.MustParse("1.0.0"))},
	}

	f.requirements.EXPECT().Load(gomock.Any(), gomock.Any()).Return(reqs, nil)
	f.analyzer.EXPECT().Analyze(gomock.Any(), domain.IsolationGlobal).Return(snapshot(nil), nil)
	// No backend or launcher expectations: a conflict stops the cycle cold.

	var reported domain.Report
	f.reporter.EXPECT().Report(gomock.Any()).DoAndReturn(func(r domain.Report) error {
		reported = r
		return nil
	})

	err := f.app.Run(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRequirementConflict)
	assert.Equal(t, app.StateConflictHalted, f.app.State())
	require.Len(t, reported.Actions, 1)
	assert.Equal(t, "conflict", reported.Actions[0].Outcome)
}

func TestApp_RunFailsClosedWithAutoInstallOff(t *testing.T) {
	settings := testSettings()
	settings.AutoInstall = false
	f := newFixture(t, settings)

	reqs := []domain.Requirement{
		{Name: "numpy", Constraint: domain.Exactly(semver.MustParse("1.2.3"))},
	}

	f.requirements.EXPECT().Load(gomock.Any(), gomock.Any()).Return(reqs, nil)
	f.analyzer.EXPECT().Analyze(gomock.Any(), domain.IsolationGlobal).Return(snapshot(nil), nil)
	// The pending plan is reported but never applied.

	var reported domain.Report
	f.reporter.EXPECT().Report(gomock.Any()).DoAndReturn(func(r domain.Report) error {
		reported = r
		return nil
	})

	err := f.app.Run(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrReconciliationFailed)
	assert.Equal(t, app.StateFailed, f.app.State())
	assert.Equal(t, "planned", reported.Actions[0].Outcome)
}

func TestApp_RunConvergedPlanSkipsNothingAndLaunches(t *testing.T) {
	settings := testSettings()
	settings.AutoInstall = false
	settings.MainEntry = "main.py"
	f := newFixture(t, settings)

	reqs := []domain.Requirement{{Name: "numpy", Constraint: domain.AnyVersion()}}
	current := snapshot(map[string]string{"numpy": "1.2.3"})

	f.requirements.EXPECT().Load(gomock.Any(), gomock.Any()).Return(reqs, nil)
	// An already converged plan needs no install: analyze, verify, launch.
	f.analyzer.EXPECT().Analyze(gomock.Any(), domain.IsolationGlobal).Return(current, nil).Times(2)
	f.reporter.EXPECT().Report(gomock.Any()).Return(nil)
	f.launcher.EXPECT().Launch(gomock.Any(), gomock.Any(), "main.py").Return(nil)

	err := f.app.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, app.StateReady, f.app.State())
}

func TestApp_RunMalformedRequirementsFailBeforeAnalysis(t *testing.T) {
	f := newFixture(t, testSettings())

	f.requirements.EXPECT().Load(gomock.Any(), gomock.Any()).
		Return(nil, domain.ErrMalformedRequirement)
	// No analyzer, backend or launcher expectations: parsing fails closed.
	f.reporter.EXPECT().Report(gomock.Any()).Return(nil)

	err := f.app.Run(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedRequirement)
	assert.Equal(t, app.StateFailed, f.app.State())
}

func TestApp_RunProvisionsMissingIsolatedEnvironment(t *testing.T) {
	settings := testSettings()
	settings.Environment = domain.EnvironmentSettings{
		UseIsolated:      true,
		IsolatedPath:     ".venv",
		ProvisionMissing: true,
	}
	f := newFixture(t, settings)

	reqs := []domain.Requirement{{Name: "numpy", Constraint: domain.AnyVersion()}}
	provisioned := snapshot(map[string]string{"numpy": "1.2.3"})
	provisioned.Isolation = domain.IsolationIsolated

	f.requirements.EXPECT().Load(gomock.Any(), gomock.Any()).Return(reqs, nil)
	gomock.InOrder(
		f.analyzer.EXPECT().Analyze(gomock.Any(), domain.IsolationIsolated).
			Return(domain.EnvironmentSnapshot{}, domain.ErrEnvironmentUnavailable),
		f.analyzer.EXPECT().Provision(gomock.Any(), ".venv").Return(provisioned, nil),
		f.analyzer.EXPECT().Analyze(gomock.Any(), domain.IsolationIsolated).Return(provisioned, nil),
	)
	f.reporter.EXPECT().Report(gomock.Any()).Return(nil)

	err := f.app.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, app.StateReady, f.app.State())
}

func TestApp_RunFailedInstallEndsFailed(t *testing.T) {
	f := newFixture(t, testSettings())

	reqs := []domain.Requirement{
		{Name: "numpy", Constraint: domain.Exactly(semver.MustParse("1.2.3"))},
	}
	before := snapshot(nil)

	f.requirements.EXPECT().Load(gomock.Any(), gomock.Any()).Return(reqs, nil)
	f.analyzer.EXPECT().Analyze(gomock.Any(), domain.IsolationGlobal).Return(before, nil).Times(2)
	f.backend.EXPECT().Install(gomock.Any(), gomock.Any()).Return(domain.ErrInstallFailed)

	var reported domain.Report
	f.reporter.EXPECT().Report(gomock.Any()).DoAndReturn(func(r domain.Report) error {
		reported = r
		return nil
	})

	err := f.app.Run(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrReconciliationFailed)
	assert.Equal(t, app.StateFailed, f.app.State())
	assert.Equal(t, "failed", reported.Actions[0].Outcome)
}

func TestApp_Plan(t *testing.T) {
	f := newFixture(t, testSettings())

	reqs := []domain.Requirement{
		{Name: "numpy", Constraint: domain.Exactly(semver.MustParse("1.2.3"))},
	}

	f.requirements.EXPECT().Load(gomock.Any(), gomock.Any()).Return(reqs, nil)
	f.analyzer.EXPECT().Analyze(gomock.Any(), domain.IsolationGlobal).Return(snapshot(nil), nil)
	// No backend call: planning is read-only.

	report, err := f.app.Plan(context.Background())

	require.NoError(t, err)
	assert.Equal(t, string(app.StatePlanning), report.State)
	require.Len(t, report.Actions, 1)
	assert.Equal(t, "planned", report.Actions[0].Outcome)
}

func TestApp_ProvisionRejectsGlobalMode(t *testing.T) {
	f := newFixture(t, testSettings())

	_, err := f.app.Provision(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProvisionFailed)
}
