package ports

import "go.trai.ch/preflight/internal/core/domain"

// RequirementSource produces the declared requirement set.
//
//go:generate go run go.uber.org/mock/mockgen -source=requirements.go -destination=mocks/mock_requirements.go -package=mocks
type RequirementSource interface {
	// Load parses the default source, merges the optional override source,
	// and returns the requirements sorted by name. Any malformed line fails
	// the whole load with domain.ErrMalformedRequirement.
	Load(defaultPath, overridePath string) ([]domain.Requirement, error)
}
