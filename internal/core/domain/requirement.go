// Package domain contains the core value types for environment reconciliation.
package domain

import (
	"fmt"
	"slices"

	"github.com/Masterminds/semver/v3"
)

// ConstraintKind enumerates the supported version constraint shapes.
type ConstraintKind string

const (
	// ConstraintAny accepts every version; a bare package name in the
	// requirements file declares this constraint.
	ConstraintAny ConstraintKind = "any"
	// ConstraintExact accepts exactly one version (==v).
	ConstraintExact ConstraintKind = "exact"
	// ConstraintAtLeast accepts the given version or newer (>=v).
	ConstraintAtLeast ConstraintKind = "at-least"
	// ConstraintRange accepts the half-open interval [Min, Max) (>=lo,<hi).
	ConstraintRange ConstraintKind = "range"
)

// TargetLatest is the install target recorded for ConstraintAny requirements.
// The concrete version is resolved against the release index at apply time.
const TargetLatest = "latest"

// VersionConstraint is a declared bound on an installed package version.
// Construct via AnyVersion, Exactly, AtLeast or Between.
type VersionConstraint struct {
	Kind ConstraintKind
	// Min is the exact version for ConstraintExact, and the inclusive lower
	// bound for ConstraintAtLeast and ConstraintRange. Nil for ConstraintAny.
	Min *semver.Version
	// Max is the exclusive upper bound for ConstraintRange. Nil otherwise.
	Max *semver.Version
}

// AnyVersion returns the constraint that accepts every version.
func AnyVersion() VersionConstraint {
	return VersionConstraint{Kind: ConstraintAny}
}

// Exactly returns the constraint accepting only v.
func Exactly(v *semver.Version) VersionConstraint {
	return VersionConstraint{Kind: ConstraintExact, Min: v}
}

// AtLeast returns the constraint accepting v or newer.
func AtLeast(v *semver.Version) VersionConstraint {
	return VersionConstraint{Kind: ConstraintAtLeast, Min: v}
}

// Between returns the half-open range constraint [lo, hi).
func Between(lo, hi *semver.Version) VersionConstraint {
	return VersionConstraint{Kind: ConstraintRange, Min: lo, Max: hi}
}

// Satisfies reports whether the installed version v meets the constraint.
func (c VersionConstraint) Satisfies(v *semver.Version) bool {
	if v == nil {
		return false
	}
	switch c.Kind {
	case ConstraintAny:
		return true
	case ConstraintExact:
		return v.Equal(c.Min)
	case ConstraintAtLeast:
		return !v.LessThan(c.Min)
	case ConstraintRange:
		return !v.LessThan(c.Min) && v.LessThan(c.Max)
	default:
		return false
	}
}

// Target returns the version the installer should converge to: the minimal
// satisfying version for bounded constraints, or TargetLatest for
// ConstraintAny. Using the lower bound keeps plans deterministic across runs
// regardless of what the package source currently advertises.
func (c VersionConstraint) Target() string {
	if c.Kind == ConstraintAny {
		return TargetLatest
	}
	return c.Min.String()
}

// String renders the constraint in requirements-file syntax.
func (c VersionConstraint) String() string {
	switch c.Kind {
	case ConstraintExact:
		return "==" + c.Min.String()
	case ConstraintAtLeast:
		return ">=" + c.Min.String()
	case ConstraintRange:
		return fmt.Sprintf(">=%s,<%s", c.Min, c.Max)
	default:
		return "*"
	}
}

// Requirement declares that a named package must be installed in a version
// satisfying the constraint.
type Requirement struct {
	Name       string
	Constraint VersionConstraint
}

func (r Requirement) String() string {
	if r.Constraint.Kind == ConstraintAny {
		return r.Name
	}
	return r.Name + r.Constraint.String()
}

// MergeRequirements combines the declared requirement set with an override
// set. Overrides win per-name; names absent from the override fall back to
// the declared set. Within a single set the last entry for a name wins,
// matching the behavior of the requirements-file format. The result is
// sorted by name.
func MergeRequirements(declared, override []Requirement) []Requirement {
	byName := make(map[string]Requirement, len(declared)+len(override))
	for _, r := range declared {
		byName[r.Name] = r
	}
	for _, r := range override {
		byName[r.Name] = r
	}

	merged := make([]Requirement, 0, len(byName))
	for _, r := range byName {
		merged = append(merged, r)
	}
	slices.SortFunc(merged, func(a, b Requirement) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		default:
			return 0
		}
	})
	return merged
}
