package logging

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/opentracing/opentracing-go/log"
)

// Logger combines structured logging, tracing and metrics for an operation
type Logger struct {
	metrics Metrics
	log     hclog.Logger
}

// NewLogger creates a new Logger
func NewLogger(m Metrics, l hclog.Logger) *Logger {
	return &Logger{
		metrics: m,
		log:     l,
	}
}

// LogProcess is returned from a logging function
type LogProcess struct {
	finished func(err error, meta map[string]string)
	err      error
	metadata map[string]string
	Span     opentracing.Span
}

// SetError for the current operation
func (l *LogProcess) SetError(err error) {
	l.err = err
}

// SetMetadata for the process
func (l *LogProcess) SetMetadata(key, value string) {
	if l.metadata == nil {
		l.metadata = map[string]string{}
	}

	l.metadata[key] = value
}

// Finished operation
func (l *LogProcess) Finished() {
	l.finished(l.err, l.metadata)
}

// Log returns the underlying hclog.Logger
func (l *Logger) Log() hclog.Logger {
	return l.log
}

// HandleHTTPRequest creates the request span and timing metrics for the handler
func (l *Logger) HandleHTTPRequest(r *http.Request) *LogProcess {
	l.log.Info("Handle inbound request", "request", formatRequest(r))
	st := time.Now()

	// attempt to create a span using a parent span defined in http headers
	wireContext, err := opentracing.GlobalTracer().Extract(
		opentracing.HTTPHeaders,
		opentracing.HTTPHeadersCarrier(r.Header),
	)

	if err != nil {
		// if there is no span in the headers an error will be raised, log
		// this error
		l.log.Debug("Error obtaining context, creating new span", "error", err)
	}

	// If wireContext == nil, a root span will be created.
	serverSpan := opentracing.StartSpan(
		"handle_request",
		ext.RPCServerOption(wireContext))
	serverSpan.LogFields(log.String("service.type", "http"))

	return &LogProcess{
		finished: func(err error, meta map[string]string) {
			te := time.Now()

			if err != nil {
				serverSpan.LogFields(log.Error(err))
				l.log.Error("Error handling request", "error", err)
			}

			for k, v := range meta {
				serverSpan.SetTag(k, v)
			}

			serverSpan.Finish()
			l.metrics.Timing("handle.request.http", te.Sub(st), getTags(err, meta))
		},
		Span: serverSpan,
	}
}

// SimulateDelay logs data about the simulated delay, metadata set on the
// process is added to the child span and used as metric tags
func (l *Logger) SimulateDelay(parentSpan opentracing.Span) *LogProcess {
	st := time.Now()

	sp := parentSpan.Tracer().StartSpan(
		"service_delay",
		opentracing.ChildOf(parentSpan.Context()),
	)

	return &LogProcess{
		finished: func(err error, meta map[string]string) {
			te := time.Now()

			if err != nil {
				sp.LogFields(log.Error(err))
				l.log.Error("Unable to simulate latency", "error", err)
			}

			for k, v := range meta {
				sp.SetTag(k, v)
			}

			if err == nil {
				l.log.Info(
					"Simulated latency",
					"percentile", meta["percentile"],
					"band", meta["band"],
					"range_ms", meta["range_ms"],
					"requested_ms", meta["requested_ms"],
					"actual_ms", meta["actual_ms"],
				)
			}

			sp.Finish()

			// only the band is used as a tag, the other values are unbounded
			bm := map[string]string{}
			if b, ok := meta["band"]; ok {
				bm["band"] = b
			}

			tags := getTags(err, bm)
			l.metrics.Timing("simulate.delay", te.Sub(st), tags)
			l.metrics.Increment("simulate.band", tags)
		},
		Span: sp,
	}
}

// CallHealthHTTP logs and times a health check
func (l *Logger) CallHealthHTTP() *LogProcess {
	st := time.Now()
	l.log.Info("Handling health request")

	return &LogProcess{
		finished: func(err error, meta map[string]string) {
			te := time.Now()
			l.metrics.Timing("handle.health.http", te.Sub(st), getTags(err, meta))
		},
	}
}

// CallReadyHTTP logs and times a readiness check
func (l *Logger) CallReadyHTTP() *LogProcess {
	st := time.Now()
	l.log.Info("Handling ready request")

	return &LogProcess{
		finished: func(err error, meta map[string]string) {
			te := time.Now()
			l.metrics.Timing("handle.ready.http", te.Sub(st), getTags(err, meta))
		},
	}
}

// getTags converts metadata into sorted key:value tags
func getTags(err error, meta map[string]string) []string {
	tags := []string{}

	for k, v := range meta {
		tags = append(tags, fmt.Sprintf("%s:%s", k, v))
	}

	if err != nil {
		tags = append(tags, "error:true")
	}

	sort.Strings(tags)

	return tags
}

// formatRequest generates ascii representation of a request
func formatRequest(r *http.Request) string {
	var request []string

	url := fmt.Sprintf("%v %v %v", r.Method, r.URL, r.Proto)
	request = append(request, url)
	request = append(request, fmt.Sprintf("Host: %v", r.Host))

	for name, headers := range r.Header {
		name = strings.ToLower(name)
		for _, h := range headers {
			request = append(request, fmt.Sprintf("%v: %v", name, h))
		}
	}

	return strings.Join(request, "\n")
}
