package installer_test

import (
	"context"
	"testing"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go.trai.ch/preflight/internal/adapters/telemetry"
	"go.trai.ch/preflight/internal/core/domain"
	"go.trai.ch/preflight/internal/core/ports/mocks"
	"go.trai.ch/preflight/internal/engine/installer"
)

func quietLogger(ctrl *gomock.Controller) *mocks.MockLogger {
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()
	return log
}

func newInstaller(t *testing.T, backend *mocks.MockPackageInstaller, index *mocks.MockReleaseIndex, retries int) (*installer.Installer, *[]time.Duration) {
	t.Helper()
	ctrl := gomock.NewController(t)
	inst := installer.New(backend, index, telemetry.NewNoOpTracer(), quietLogger(ctrl), domain.InstallerSettings{
		Workers: 1,
		Retries: retries,
		Timeout: time.Second,
	})
	var delays []time.Duration
	inst.SetSleep(func(d time.Duration) { delays = append(delays, d) })
	return inst, &delays
}

func TestInstaller_TransientRetrySucceeds(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockPackageInstaller(ctrl)
	index := mocks.NewMockReleaseIndex(ctrl)

	// Two transient failures, then success: three attempts total.
	gomock.InOrder(
		backend.EXPECT().Install(gomock.Any(), gomock.Any()).Return(domain.ErrTransientInstall),
		backend.EXPECT().Install(gomock.Any(), gomock.Any()).Return(domain.ErrTransientInstall),
		backend.EXPECT().Install(gomock.Any(), gomock.Any()).Return(nil),
	)

	inst, delays := newInstaller(t, backend, index, 2)
	plan := domain.Plan{Actions: []domain.Action{
		{Name: "delta", Kind: domain.ActionInstall, TargetVersion: "1.0.0"},
	}}

	result := inst.Apply(context.Background(), plan)

	require.Len(t, result.Applied, 1)
	assert.Empty(t, result.Failed)
	assert.Equal(t, "delta", result.Applied[0].Action.Name)
	assert.Equal(t, 3, result.Applied[0].Attempts)
	// Backoff doubles between attempts.
	require.Len(t, *delays, 2)
	assert.Equal(t, 500*time.Millisecond, (*delays)[0])
	assert.Equal(t, time.Second, (*delays)[1])
}

func TestInstaller_TransientRetriesExhausted(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockPackageInstaller(ctrl)
	index := mocks.NewMockReleaseIndex(ctrl)

	backend.EXPECT().Install(gomock.Any(), gomock.Any()).Return(domain.ErrTransientInstall).Times(3)

	inst, _ := newInstaller(t, backend, index, 2)
	plan := domain.Plan{Actions: []domain.Action{
		{Name: "delta", Kind: domain.ActionInstall, TargetVersion: "1.0.0"},
	}}

	result := inst.Apply(context.Background(), plan)

	require.Len(t, result.Failed, 1)
	assert.Empty(t, result.Applied)
	assert.Equal(t, 3, result.Failed[0].Attempts)
	assert.Equal(t, domain.ErrorKindTransient, result.Failed[0].Kind)
}

func TestInstaller_PermanentFailureNotRetried(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockPackageInstaller(ctrl)
	index := mocks.NewMockReleaseIndex(ctrl)

	backend.EXPECT().Install(gomock.Any(), gomock.Any()).Return(domain.ErrPackageNotFound).Times(1)

	inst, delays := newInstaller(t, backend, index, 2)
	plan := domain.Plan{Actions: []domain.Action{
		{Name: "ghost", Kind: domain.ActionInstall, TargetVersion: "1.0.0"},
	}}

	result := inst.Apply(context.Background(), plan)

	require.Len(t, result.Failed, 1)
	assert.Equal(t, 1, result.Failed[0].Attempts)
	assert.Equal(t, domain.ErrorKindNotFound, result.Failed[0].Kind)
	assert.Empty(t, *delays)
}

func TestInstaller_FailureDoesNotAbortOtherActions(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockPackageInstaller(ctrl)
	index := mocks.NewMockReleaseIndex(ctrl)

	backend.EXPECT().Install(gomock.Any(), gomock.Cond(func(a domain.Action) bool {
		return a.Name == "bad"
	})).Return(domain.ErrInstallFailed)
	backend.EXPECT().Install(gomock.Any(), gomock.Cond(func(a domain.Action) bool {
		return a.Name == "good"
	})).Return(nil)

	inst, _ := newInstaller(t, backend, index, 0)
	plan := domain.Plan{Actions: []domain.Action{
		{Name: "bad", Kind: domain.ActionInstall, TargetVersion: "1.0.0"},
		{Name: "good", Kind: domain.ActionInstall, TargetVersion: "2.0.0"},
	}}

	result := inst.Apply(context.Background(), plan)

	require.Len(t, result.Applied, 1)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "good", result.Applied[0].Action.Name)
	assert.Equal(t, "bad", result.Failed[0].Action.Name)
	assert.Equal(t, domain.ErrorKindInstall, result.Failed[0].Kind)
}

func TestInstaller_ResolvesLatestThroughIndex(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockPackageInstaller(ctrl)
	index := mocks.NewMockReleaseIndex(ctrl)

	index.EXPECT().Latest(gomock.Any(), "gamma").Return(semver.MustParse("5.1.0"), nil)
	backend.EXPECT().Install(gomock.Any(), gomock.Cond(func(a domain.Action) bool {
		return a.Name == "gamma" && a.TargetVersion == "5.1.0"
	})).Return(nil)

	inst, _ := newInstaller(t, backend, index, 0)
	plan := domain.Plan{Actions: []domain.Action{
		{Name: "gamma", Kind: domain.ActionInstall, TargetVersion: domain.TargetLatest},
	}}

	result := inst.Apply(context.Background(), plan)

	require.Len(t, result.Applied, 1)
}

func TestInstaller_SkipAndConflictNeverExecuted(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockPackageInstaller(ctrl)
	index := mocks.NewMockReleaseIndex(ctrl)
	// No Install expectations: any call fails the test.

	inst, _ := newInstaller(t, backend, index, 0)
	plan := domain.Plan{Actions: []domain.Action{
		{Name: "a", Kind: domain.ActionSkip},
		{Name: "b", Kind: domain.ActionConflict},
	}}

	result := inst.Apply(context.Background(), plan)

	assert.Empty(t, result.Applied)
	assert.Empty(t, result.Failed)
}

func TestInstaller_ResultsSortedByName(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockPackageInstaller(ctrl)
	index := mocks.NewMockReleaseIndex(ctrl)

	backend.EXPECT().Install(gomock.Any(), gomock.Any()).Return(nil).Times(3)

	ctrl2 := gomock.NewController(t)
	inst := installer.New(backend, index, telemetry.NewNoOpTracer(), quietLogger(ctrl2), domain.InstallerSettings{
		Workers: 3,
		Retries: 0,
		Timeout: time.Second,
	})
	plan := domain.Plan{Actions: []domain.Action{
		{Name: "zeta", Kind: domain.ActionInstall, TargetVersion: "1.0.0"},
		{Name: "alpha", Kind: domain.ActionInstall, TargetVersion: "1.0.0"},
		{Name: "mu", Kind: domain.ActionInstall, TargetVersion: "1.0.0"},
	}}

	result := inst.Apply(context.Background(), plan)

	require.Len(t, result.Applied, 3)
	assert.Equal(t, "alpha", result.Applied[0].Action.Name)
	assert.Equal(t, "mu", result.Applied[1].Action.Name)
	assert.Equal(t, "zeta", result.Applied[2].Action.Name)
}
