package domain

import (
	"fmt"
	"slices"

	"github.com/Masterminds/semver/v3"
	"github.com/cespare/xxhash/v2"
)

// IsolationMode selects which package namespace the analyzer inspects.
type IsolationMode string

const (
	// IsolationGlobal inspects the interpreter found on PATH.
	IsolationGlobal IsolationMode = "global"
	// IsolationIsolated inspects a self-contained environment rooted at the
	// configured path.
	IsolationIsolated IsolationMode = "isolated"
)

// InstalledPackage is one entry of an environment inventory.
type InstalledPackage struct {
	Name    string
	Version *semver.Version
}

// EnvironmentSnapshot is a point-in-time inventory of an execution
// environment. Snapshots are immutable: the analyzer produces a fresh one on
// every invocation and no component updates package entries in place.
type EnvironmentSnapshot struct {
	// InterpreterID identifies the interpreter the inventory belongs to,
	// e.g. "/usr/bin/python3 3.12.4".
	InterpreterID string

	Isolation IsolationMode

	// Packages maps package name to its installed state.
	Packages map[string]InstalledPackage
}

// Lookup returns the installed package for name, if present.
func (s EnvironmentSnapshot) Lookup(name string) (InstalledPackage, bool) {
	pkg, ok := s.Packages[name]
	return pkg, ok
}

// Fingerprint returns a deterministic hash of the snapshot contents. Two
// snapshots with the same interpreter and inventory always produce the same
// fingerprint, which makes "nothing changed" checks and log auditing cheap.
func (s EnvironmentSnapshot) Fingerprint() string {
	names := make([]string, 0, len(s.Packages))
	for name := range s.Packages {
		names = append(names, name)
	}
	slices.Sort(names)

	h := xxhash.New()
	_, _ = h.WriteString(s.InterpreterID)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(string(s.Isolation))
	for _, name := range names {
		_, _ = h.WriteString("\x00")
		_, _ = h.WriteString(name)
		_, _ = h.WriteString("@")
		_, _ = h.WriteString(s.Packages[name].Version.String())
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
