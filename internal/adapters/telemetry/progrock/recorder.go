// Package progrock provides the Progrock implementation of the tracer.
package progrock

import (
	"context"
	"fmt"
	"strings"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/preflight/internal/core/ports"
)

// Tracer implements ports.Tracer on a progrock recording session. Each span
// is one vertex on the tape.
type Tracer struct {
	w   progrock.Writer
	rec *progrock.Recorder
}

// New creates a Tracer with a default tape.
func New() *Tracer {
	return NewTracer(progrock.NewTape())
}

// NewTracer creates a Tracer recording to the given writer.
func NewTracer(w progrock.Writer) *Tracer {
	return &Tracer{
		w:   w,
		rec: progrock.NewRecorder(w),
	}
}

// Start opens a vertex for the named unit of work.
func (t *Tracer) Start(ctx context.Context, name string) (context.Context, ports.Span) {
	d := digest.FromString(name)
	v := t.rec.Vertex(d, name)
	return ctx, &Span{vertex: v}
}

// EmitPlan records the ordered action list as its own vertex so the plan is
// visible on the tape before any action starts.
func (t *Tracer) EmitPlan(_ context.Context, actionNames []string) {
	if len(actionNames) == 0 {
		return
	}
	d := digest.FromString("plan:" + strings.Join(actionNames, ","))
	v := t.rec.Vertex(d, fmt.Sprintf("plan (%d actions)", len(actionNames)))
	for _, name := range actionNames {
		_, _ = fmt.Fprintln(v.Stdout(), name)
	}
	v.Done(nil)
}

// Close flushes and closes the recording session.
func (t *Tracer) Close() error {
	if c, ok := t.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// Span implements ports.Span wrapping *progrock.VertexRecorder.
type Span struct {
	vertex *progrock.VertexRecorder
	err    error
}

// Write forwards to the vertex's stdout stream.
func (s *Span) Write(p []byte) (n int, err error) {
	return s.vertex.Stdout().Write(p)
}

// RecordError marks the span as failed; the error is reported when the span
// ends.
func (s *Span) RecordError(err error) {
	s.err = err
}

// SetAttribute records a key-value pair on the vertex's output stream.
func (s *Span) SetAttribute(key string, value any) {
	_, _ = fmt.Fprintf(s.vertex.Stdout(), "%s=%v\n", key, value)
}

// End completes the vertex with any recorded error.
func (s *Span) End() {
	s.vertex.Done(s.err)
}
