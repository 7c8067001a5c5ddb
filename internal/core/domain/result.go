package domain

// ErrorKind classifies why an action failed, for reporting and retry policy.
type ErrorKind string

const (
	// ErrorKindTransient covers network and timeout failures; eligible for
	// retry with backoff.
	ErrorKindTransient ErrorKind = "transient"
	// ErrorKindNotFound means the package source has no such package or
	// version. Not retried.
	ErrorKindNotFound ErrorKind = "not-found"
	// ErrorKindChecksum means the fetched artifact failed verification.
	// Not retried.
	ErrorKindChecksum ErrorKind = "checksum-mismatch"
	// ErrorKindInstall covers all other installer failures. Not retried.
	ErrorKindInstall ErrorKind = "install-failed"
)

// AppliedAction records a successfully executed action and how many attempts
// it took.
type AppliedAction struct {
	Action   Action
	Attempts int
}

// FailedAction records an action that exhausted its attempts.
type FailedAction struct {
	Action   Action
	Attempts int
	Kind     ErrorKind
	// Cause is the final error message, kept as a string so results stay
	// plain values.
	Cause string
}

// ReconciliationResult is the terminal artifact of one reconciliation cycle.
type ReconciliationResult struct {
	Applied []AppliedAction
	Failed  []FailedAction
	// Final is the freshly re-analyzed post-install snapshot. It is never a
	// partially updated copy of the pre-install snapshot.
	Final EnvironmentSnapshot
	// VerifyPlan is the second checker pass over Final. Convergence means it
	// contains nothing but skips.
	VerifyPlan Plan
}

// Clean reports whether every attempted action succeeded.
func (r ReconciliationResult) Clean() bool {
	return len(r.Failed) == 0
}
