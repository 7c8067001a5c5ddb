package checker_test

import (
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/preflight/internal/core/domain"
	"go.trai.ch/preflight/internal/engine/checker"
)

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

func TestPlanner_UpgradeAndInstall(t *testing.T) {
	planner := checker.NewPlanner(nil)
	reqs := []domain.Requirement{
		{Name: "beta", Constraint: domain.Exactly(semver.MustParse("2.0.0"))},
		{Name: "alpha", Constraint: domain.AtLeast(semver.MustParse("1.0.0"))},
	}

	plan := planner.Plan(reqs, snapshot(map[string]string{"alpha": "0.9.0"}))

	require.Len(t, plan.Actions, 2)
	assert.Equal(t, "alpha", plan.Actions[0].Name)
	assert.Equal(t, domain.ActionUpgrade, plan.Actions[0].Kind)
	assert.Equal(t, "1.0.0", plan.Actions[0].TargetVersion)
	assert.Equal(t, "beta", plan.Actions[1].Name)
	assert.Equal(t, domain.ActionInstall, plan.Actions[1].Kind)
	assert.Equal(t, "2.0.0", plan.Actions[1].TargetVersion)
}

func TestPlanner_AnyConstraintSatisfiedByAnything(t *testing.T) {
	planner := checker.NewPlanner(nil)
	reqs := []domain.Requirement{{Name: "gamma", Constraint: domain.AnyVersion()}}

	plan := planner.Plan(reqs, snapshot(map[string]string{"gamma": "5.0.0"}))

	require.Len(t, plan.Actions, 1)
	assert.Equal(t, domain.ActionSkip, plan.Actions[0].Kind)
	assert.True(t, plan.Converged())
}

func TestPlanner_AnyConstraintMissingInstallsLatest(t *testing.T) {
	planner := checker.NewPlanner(nil)
	reqs := []domain.Requirement{{Name: "gamma", Constraint: domain.AnyVersion()}}

	plan := planner.Plan(reqs, snapshot(nil))

	require.Len(t, plan.Actions, 1)
	assert.Equal(t, domain.ActionInstall, plan.Actions[0].Kind)
	assert.Equal(t, domain.TargetLatest, plan.Actions[0].TargetVersion)
}

func TestPlanner_Downgrade(t *testing.T) {
	planner := checker.NewPlanner(nil)
	reqs := []domain.Requirement{
		{Name: "alpha", Constraint: domain.Exactly(semver.MustParse("1.0.0"))},
		{Name: "beta", Constraint: domain.Between(semver.MustParse("1.0.0"), semver.MustParse("2.0.0"))},
	}

	plan := planner.Plan(reqs, snapshot(map[string]string{"alpha": "2.0.0", "beta": "2.5.0"}))

	require.Len(t, plan.Actions, 2)
	assert.Equal(t, domain.ActionDowngrade, plan.Actions[0].Kind)
	assert.Equal(t, "1.0.0", plan.Actions[0].TargetVersion)
	assert.Equal(t, domain.ActionDowngrade, plan.Actions[1].Kind)
	assert.Equal(t, "1.0.0", plan.Actions[1].TargetVersion)
}

func TestPlanner_PinConflict(t *testing.T) {
	planner := checker.NewPlanner(map[string]*semver.Version{
		"numpy": semver.MustParse("2.0.0"),
	})
	reqs := []domain.Requirement{{Name: "numpy", Constraint: domain.Exactly(semver.MustParse("1.0.0"))}}

	plan := planner.Plan(reqs, snapshot(nil))

	require.Len(t, plan.Actions, 1)
	assert.Equal(t, domain.ActionConflict, plan.Actions[0].Kind)
	assert.NotEmpty(t, plan.Actions[0].Reason)
	assert.False(t, plan.Converged())
	assert.Empty(t, plan.Pending())
}

func TestPlanner_PinSatisfiedIsNotConflict(t *testing.T) {
	planner := checker.NewPlanner(map[string]*semver.Version{
		"numpy": semver.MustParse("1.5.0"),
	})
	reqs := []domain.Requirement{{Name: "numpy", Constraint: domain.AtLeast(semver.MustParse("1.0.0"))}}

	plan := planner.Plan(reqs, snapshot(map[string]string{"numpy": "1.5.0"}))

	require.Len(t, plan.Actions, 1)
	assert.Equal(t, domain.ActionSkip, plan.Actions[0].Kind)
}

func TestPlanner_Deterministic(t *testing.T) {
	planner := checker.NewPlanner(nil)
	reqs := []domain.Requirement{
		{Name: "zeta", Constraint: domain.AnyVersion()},
		{Name: "alpha", Constraint: domain.AnyVersion()},
		{Name: "mu", Constraint: domain.AnyVersion()},
	}
	snap := snapshot(nil)

	first := planner.Plan(reqs, snap)
	second := planner.Plan(reqs, snap)

	assert.Equal(t, first, second)
	assert.Equal(t, "alpha", first.Actions[0].Name)
	assert.Equal(t, "mu", first.Actions[1].Name)
	assert.Equal(t, "zeta", first.Actions[2].Name)
	// Input order is untouched.
	assert.Equal(t, "zeta", reqs[0].Name)
}
