package progrock_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/preflight/internal/adapters/telemetry/progrock"
)

func TestTracer_SpanLifecycle(t *testing.T) {
	tracer := progrock.New()

	_, span := tracer.Start(context.Background(), "numpy@1.2.3")
	require.NotNil(t, span)

	_, err := span.Write([]byte("installing\n"))
	require.NoError(t, err)

	span.SetAttribute("kind", "install")
	span.End()

	require.NoError(t, tracer.Close())
}

func TestTracer_SpanWithError(t *testing.T) {
	tracer := progrock.New()

	_, span := tracer.Start(context.Background(), "ghost@9.9.9")
	span.RecordError(errors.New("no matching distribution"))
	span.End()

	require.NoError(t, tracer.Close())
}

func TestTracer_EmitPlan(t *testing.T) {
	tracer := progrock.New()

	tracer.EmitPlan(context.Background(), []string{"numpy", "requests"})
	tracer.EmitPlan(context.Background(), nil)

	assert.NoError(t, tracer.Close())
}
