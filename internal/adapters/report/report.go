// Package report persists the structured cycle report as a JSON artifact.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.trai.ch/preflight/internal/core/domain"
	"go.trai.ch/preflight/internal/core/ports"
	"go.trai.ch/zerr"
)

// Writer implements ports.Reporter backed by a single JSON file. Each cycle
// overwrites the previous report; history belongs to whoever collects the
// artifact.
type Writer struct {
	path   string
	logger ports.Logger
}

// NewWriter creates a report Writer targeting the given path.
func NewWriter(path string, logger ports.Logger) *Writer {
	return &Writer{
		path:   filepath.Clean(path),
		logger: logger,
	}
}

// Report writes the report and logs a one-line summary.
func (w *Writer) Report(r domain.Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return zerr.With(domain.ErrReportWriteFailed, "cause", err.Error())
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0o750); err != nil {
		writeErr := zerr.With(domain.ErrReportWriteFailed, "path", w.path)
		return zerr.With(writeErr, "cause", err.Error())
	}
	//nolint:gosec // Path is cleaned and provided by trusted caller
	if err := os.WriteFile(w.path, data, 0o644); err != nil {
		writeErr := zerr.With(domain.ErrReportWriteFailed, "path", w.path)
		return zerr.With(writeErr, "cause", err.Error())
	}

	w.logger.Info(fmt.Sprintf("report written to %s: %s, %s", w.path, r.State, summarize(r)))
	return nil
}

func summarize(r domain.Report) string {
	counts := make(map[string]int, 4)
	for _, a := range r.Actions {
		counts[a.Outcome]++
	}
	return fmt.Sprintf("%d applied, %d skipped, %d failed of %d action(s)",
		counts["applied"], counts["skipped"], counts["failed"], len(r.Actions))
}
