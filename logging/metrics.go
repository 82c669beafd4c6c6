package logging

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records timings and counters for operations
type Metrics interface {
	Timing(name string, duration time.Duration, tags []string)
	Increment(name string, tags []string)
}

// NullMetrics discards all metrics
type NullMetrics struct {
}

func (s *NullMetrics) Timing(name string, duration time.Duration, tags []string) {}
func (s *NullMetrics) Increment(name string, tags []string)                      {}

// StatsDMetrics sends metrics to a DogStatsD agent
type StatsDMetrics struct {
	c *statsd.Client
}

// NewStatsDMetrics creates a StatsD client which sends to uri
func NewStatsDMetrics(serviceName, environment, uri string) (Metrics, error) {
	c, err := statsd.New(uri)
	if err != nil {
		return nil, err
	}

	c.Tags = []string{
		fmt.Sprintf("service:%s", serviceName),
		fmt.Sprintf("env:%s", environment),
	}

	return &StatsDMetrics{
		c: c,
	}, nil
}

func (s *StatsDMetrics) Timing(name string, duration time.Duration, tags []string) {
	s.c.Timing(name, duration, tags, 1)
}

func (s *StatsDMetrics) Increment(name string, tags []string) {
	s.c.Incr(name, tags, 1)
}

// prometheus labels taken from the key:value tags
var promLabels = []string{"name", "band", "code", "error"}

// PrometheusMetrics records metrics in a Prometheus registry
type PrometheusMetrics struct {
	registry *prometheus.Registry
	timings  *prometheus.HistogramVec
	counters *prometheus.CounterVec
}

// NewPrometheusMetrics creates the collectors and registers them with r
func NewPrometheusMetrics(r *prometheus.Registry) *PrometheusMetrics {
	m := &PrometheusMetrics{
		registry: r,
		timings: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "latency_simulator_operation_duration_seconds",
				Help:    "Duration of handled requests and simulated delays",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
			},
			promLabels,
		),
		counters: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "latency_simulator_events_total",
				Help: "Count of simulated delays by band",
			},
			promLabels,
		),
	}

	r.MustRegister(m.timings, m.counters)

	return m
}

func (p *PrometheusMetrics) Timing(name string, duration time.Duration, tags []string) {
	p.timings.WithLabelValues(labelValues(name, tags)...).Observe(duration.Seconds())
}

func (p *PrometheusMetrics) Increment(name string, tags []string) {
	p.counters.WithLabelValues(labelValues(name, tags)...).Inc()
}

// Handler returns the http handler which exposes the registry
func (p *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

func labelValues(name string, tags []string) []string {
	values := map[string]string{"name": name}
	for _, t := range tags {
		kv := strings.SplitN(t, ":", 2)
		if len(kv) == 2 {
			values[kv[0]] = kv[1]
		}
	}

	lv := make([]string, len(promLabels))
	for i, l := range promLabels {
		lv[i] = values[l]
	}

	return lv
}

// MultiMetrics sends metrics to every sink
type MultiMetrics []Metrics

func (m MultiMetrics) Timing(name string, duration time.Duration, tags []string) {
	for _, s := range m {
		s.Timing(name, duration, tags)
	}
}

func (m MultiMetrics) Increment(name string, tags []string) {
	for _, s := range m {
		s.Increment(name, tags)
	}
}
