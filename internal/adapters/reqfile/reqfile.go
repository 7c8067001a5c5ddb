// Package reqfile parses requirements files into the domain requirement set.
//
// The format is line-oriented: a bare package name, name==version,
// name>=version, or name>=low,<high. Blank lines and lines starting with #
// are ignored; a trailing # starts an inline comment.
package reqfile

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.trai.ch/preflight/internal/core/domain"
	"go.trai.ch/preflight/internal/core/ports"
	"go.trai.ch/zerr"
)

// namePattern accepts the usual package naming characters. Anything else on
// the left of an operator is a malformed line, not a creative package name.
var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Source implements ports.RequirementSource over the filesystem.
type Source struct {
	logger ports.Logger
}

// NewSource creates a requirements Source.
func NewSource(logger ports.Logger) *Source {
	return &Source{logger: logger}
}

// Load parses the default source, merges the optional override source and
// returns the requirements sorted by name.
//
// Parsing is fail-closed: every malformed line in either file is collected
// and the whole load fails, so a typo never silently shrinks the requirement
// set.
func (s *Source) Load(defaultPath, overridePath string) ([]domain.Requirement, error) {
	declared, err := s.loadFile(defaultPath)
	if err != nil {
		return nil, err
	}

	var override []domain.Requirement
	if overridePath != "" {
		override, err = s.loadFile(overridePath)
		if err != nil {
			return nil, err
		}
		s.logger.Info(fmt.Sprintf("merged %d override requirement(s) from %s", len(override), overridePath))
	}

	return domain.MergeRequirements(declared, override), nil
}

func (s *Source) loadFile(path string) ([]domain.Requirement, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from validated settings
	if err != nil {
		readErr := zerr.With(domain.ErrRequirementsReadFailed, "path", path)
		return nil, zerr.With(readErr, "cause", err.Error())
	}
	reqs, err := Parse(string(data))
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return reqs, nil
}

// Parse parses the full content of one requirements file. The returned slice
// preserves file order; duplicate names are kept so the merge rule "last
// entry wins" stays observable to the caller.
func Parse(content string) ([]domain.Requirement, error) {
	var (
		reqs []domain.Requirement
		bad  []string
	)
	for i, raw := range strings.Split(content, "\n") {
		line := raw
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		req, err := ParseLine(line)
		if err != nil {
			bad = append(bad, fmt.Sprintf("line %d: %q", i+1, strings.TrimSpace(raw)))
			continue
		}
		reqs = append(reqs, req)
	}
	if len(bad) > 0 {
		return nil, zerr.With(domain.ErrMalformedRequirement, "lines", strings.Join(bad, "; "))
	}
	return reqs, nil
}

// ParseLine parses a single pre-trimmed, non-empty requirement line.
func ParseLine(line string) (domain.Requirement, error) {
	switch {
	case strings.Contains(line, "=="):
		return parseExact(line)
	case strings.Contains(line, ">="):
		return parseLowerBound(line)
	default:
		if !namePattern.MatchString(line) {
			return domain.Requirement{}, domain.ErrMalformedRequirement
		}
		return domain.Requirement{Name: line, Constraint: domain.AnyVersion()}, nil
	}
}

func parseExact(line string) (domain.Requirement, error) {
	name, rest, _ := strings.Cut(line, "==")
	name = strings.TrimSpace(name)
	if !namePattern.MatchString(name) {
		return domain.Requirement{}, domain.ErrMalformedRequirement
	}
	version, err := semver.NewVersion(strings.TrimSpace(rest))
	if err != nil {
		return domain.Requirement{}, domain.ErrMalformedRequirement
	}
	return domain.Requirement{Name: name, Constraint: domain.Exactly(version)}, nil
}

// parseLowerBound handles both name>=v and name>=lo,<hi.
func parseLowerBound(line string) (domain.Requirement, error) {
	name, rest, _ := strings.Cut(line, ">=")
	name = strings.TrimSpace(name)
	if !namePattern.MatchString(name) {
		return domain.Requirement{}, domain.ErrMalformedRequirement
	}

	lowRaw, highRaw, ranged := strings.Cut(rest, ",")
	low, err := semver.NewVersion(strings.TrimSpace(lowRaw))
	if err != nil {
		return domain.Requirement{}, domain.ErrMalformedRequirement
	}
	if !ranged {
		return domain.Requirement{Name: name, Constraint: domain.AtLeast(low)}, nil
	}

	highRaw = strings.TrimSpace(highRaw)
	if !strings.HasPrefix(highRaw, "<") {
		return domain.Requirement{}, domain.ErrMalformedRequirement
	}
	high, err := semver.NewVersion(strings.TrimSpace(strings.TrimPrefix(highRaw, "<")))
	if err != nil {
		return domain.Requirement{}, domain.ErrMalformedRequirement
	}
	if !low.LessThan(high) {
		// An empty interval is a mistake, not a requirement.
		return domain.Requirement{}, domain.ErrMalformedRequirement
	}
	return domain.Requirement{Name: name, Constraint: domain.Between(low, high)}, nil
}
