package tracing

import (
	"github.com/opentracing/opentracing-go"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/opentracer"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// NewDataDogTracer creates a DataDog tracer which sends to the agent at uri
// and sets it as the global OpenTracing tracer
func NewDataDogTracer(uri, name string) opentracing.Tracer {
	t := opentracer.New(
		tracer.WithAgentAddr(uri),
		tracer.WithServiceName(name),
	)

	opentracing.SetGlobalTracer(t)

	return t
}
