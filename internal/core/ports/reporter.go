package ports

import "go.trai.ch/preflight/internal/core/domain"

// Reporter emits the structured cycle report on every terminal state.
//
//go:generate go run go.uber.org/mock/mockgen -source=reporter.go -destination=mocks/mock_reporter.go -package=mocks
type Reporter interface {
	Report(report domain.Report) error
}
