package tracing

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/opentracing/opentracing-go"
	zipkinot "github.com/openzipkin-contrib/zipkin-go-opentracing"
	"github.com/openzipkin/zipkin-go"
	"github.com/openzipkin/zipkin-go/reporter"
	zipkinhttp "github.com/openzipkin/zipkin-go/reporter/http"
	logreporter "github.com/openzipkin/zipkin-go/reporter/log"
)

// NewZipkinTracer creates a Zipkin tracer and sets it as the global
// OpenTracing tracer. When uri is not an http endpoint spans are written to
// stderr.
func NewZipkinTracer(uri, name, serviceURI string) (opentracing.Tracer, error) {
	var r reporter.Reporter

	if strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
		r = zipkinhttp.NewReporter(fmt.Sprintf("%s/api/v2/spans", uri))
	} else {
		r = logreporter.NewReporter(log.New(os.Stderr, "", log.LstdFlags))
	}

	endpoint, err := zipkin.NewEndpoint(name, serviceURI)
	if err != nil {
		return nil, fmt.Errorf("unable to create local endpoint %s: %w", serviceURI, err)
	}

	nativeTracer, err := zipkin.NewTracer(r, zipkin.WithLocalEndpoint(endpoint))
	if err != nil {
		return nil, fmt.Errorf("unable to create tracer: %w", err)
	}

	tracer := zipkinot.Wrap(nativeTracer)
	opentracing.SetGlobalTracer(tracer)

	return tracer, nil
}
