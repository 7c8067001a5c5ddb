package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/preflight/internal/core/domain"
)

func TestNewPlanReport(t *testing.T) {
	s := snapshot(map[string]string{"numpy": "1.2.3"})
	plan := domain.Plan{Actions: []domain.Action{
		{Name: "numpy", Kind: domain.ActionSkip, Reason: "installed 1.2.3 satisfies ==1.2.3"},
		{Name: "flask", Kind: domain.ActionInstall, TargetVersion: "3.0.0"},
		{Name: "scipy", Kind: domain.ActionConflict, TargetVersion: "2.0.0"},
	}}
	at := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	report := domain.NewPlanReport("conflict-halted", s, plan, at)

	assert.Equal(t, "conflict-halted", report.State)
	assert.Equal(t, s.InterpreterID, report.Interpreter)
	assert.Equal(t, s.Fingerprint(), report.Fingerprint)
	assert.Equal(t, at, report.GeneratedAt)
	require.Len(t, report.Actions, 3)
	assert.Equal(t, "skipped", report.Actions[0].Outcome)
	assert.Equal(t, "planned", report.Actions[1].Outcome)
	assert.Equal(t, "conflict", report.Actions[2].Outcome)
}

func TestNewResultReport(t *testing.T) {
	final := snapshot(map[string]string{"numpy": "1.2.3", "flask": "3.0.0"})
	plan := domain.Plan{Actions: []domain.Action{
		{Name: "flask", Kind: domain.ActionInstall, TargetVersion: "3.0.0"},
		{Name: "numpy", Kind: domain.ActionSkip},
		{Name: "scipy", Kind: domain.ActionInstall, TargetVersion: "1.11.0"},
		{Name: "torch", Kind: domain.ActionInstall, TargetVersion: "2.2.0"},
	}}
	result := domain.ReconciliationResult{
		Applied: []domain.AppliedAction{
			{Action: plan.Actions[0], Attempts: 2},
		},
		Failed: []domain.FailedAction{
			{Action: plan.Actions[2], Attempts: 3, Kind: domain.ErrorKindTransient, Cause: "connection reset"},
		},
		Final: final,
	}

	report := domain.NewResultReport("failed", plan, result, time.Now())

	require.Len(t, report.Actions, 4)
	byName := map[string]domain.ActionOutcome{}
	for _, a := range report.Actions {
		byName[a.Name] = a
	}

	assert.Equal(t, "applied", byName["flask"].Outcome)
	assert.Equal(t, 2, byName["flask"].Attempts)
	assert.Equal(t, "skipped", byName["numpy"].Outcome)
	assert.Equal(t, "failed", byName["scipy"].Outcome)
	assert.Equal(t, "connection reset", byName["scipy"].Error)
	// Never attempted: stays visible rather than disappearing.
	assert.Equal(t, "unapplied", byName["torch"].Outcome)
}
