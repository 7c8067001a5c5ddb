package updater_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go.trai.ch/preflight/internal/core/ports/mocks"
	"go.trai.ch/preflight/internal/engine/updater"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestWatcher_DetectsRequirementDrift(t *testing.T) {
	ctrl := gomock.NewController(t)
	index := mocks.NewMockReleaseIndex(ctrl)
	log := mocks.NewMockLogger(ctrl)

	path := writeFile(t, t.TempDir(), "requirements.txt", "numpy==1.0.0\n")

	w := updater.New(index, log, []string{path}, "dev", time.Minute)

	// Touch the file with a strictly newer mtime.
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	log.EXPECT().Warn(gomock.Cond(func(msg string) bool {
		return strings.Contains(msg, path)
	}))
	w.Check(context.Background())

	// Second pass without another edit stays quiet.
	w.Check(context.Background())
}

func TestWatcher_SelfUpdateAnnouncesNewerRelease(t *testing.T) {
	ctrl := gomock.NewController(t)
	index := mocks.NewMockReleaseIndex(ctrl)
	log := mocks.NewMockLogger(ctrl)

	w := updater.New(index, log, nil, "1.0.0", time.Minute)

	index.EXPECT().Latest(gomock.Any(), "preflight").Return(semver.MustParse("1.2.0"), nil)
	log.EXPECT().Info(gomock.Any())
	w.Check(context.Background())
}

func TestWatcher_SelfUpdateQuietWhenCurrent(t *testing.T) {
	ctrl := gomock.NewController(t)
	index := mocks.NewMockReleaseIndex(ctrl)
	log := mocks.NewMockLogger(ctrl)

	w := updater.New(index, log, nil, "1.2.0", time.Minute)

	index.EXPECT().Latest(gomock.Any(), "preflight").Return(semver.MustParse("1.2.0"), nil)
	w.Check(context.Background())
}

func TestWatcher_IndexFailureIsOnlyAWarning(t *testing.T) {
	ctrl := gomock.NewController(t)
	index := mocks.NewMockReleaseIndex(ctrl)
	log := mocks.NewMockLogger(ctrl)

	w := updater.New(index, log, nil, "1.0.0", time.Minute)

	index.EXPECT().Latest(gomock.Any(), "preflight").Return(nil, context.DeadlineExceeded)
	log.EXPECT().Warn(gomock.Any())
	w.Check(context.Background())
}

func TestWatcher_DevBuildSkipsSelfUpdate(t *testing.T) {
	ctrl := gomock.NewController(t)
	index := mocks.NewMockReleaseIndex(ctrl)
	log := mocks.NewMockLogger(ctrl)
	// No Latest expectation: a dev build never queries the index.

	w := updater.New(index, log, nil, "dev", time.Minute)
	w.Check(context.Background())
}
