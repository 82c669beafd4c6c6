package tracing

import (
	"testing"

	"github.com/opentracing/opentracing-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZipkinTracerIsSetGlobally(t *testing.T) {
	defer opentracing.SetGlobalTracer(opentracing.NoopTracer{})

	tr, err := NewZipkinTracer("stderr", "latency", "localhost:9090")

	require.NoError(t, err)
	assert.Equal(t, tr, opentracing.GlobalTracer())

	sp := opentracing.StartSpan("test")
	sp.Finish()
}
