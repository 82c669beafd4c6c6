package logging

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockMetrics struct {
	mock.Mock
}

func (m *mockMetrics) Timing(name string, duration time.Duration, tags []string) {
	m.Called(name, duration, tags)
}

func (m *mockMetrics) Increment(name string, tags []string) {
	m.Called(name, tags)
}

func setupLogger(t *testing.T) (*Logger, *mockMetrics) {
	m := &mockMetrics{}
	m.On("Timing", mock.Anything, mock.Anything, mock.Anything)
	m.On("Increment", mock.Anything, mock.Anything)

	return NewLogger(m, hclog.Default()), m
}

func TestHandleHTTPRequestRecordsTiming(t *testing.T) {
	l, m := setupLogger(t)
	r := httptest.NewRequest(http.MethodGet, "/simulate_latency", nil)

	hq := l.HandleHTTPRequest(r)
	hq.SetMetadata("code", "200")
	hq.Finished()

	m.AssertCalled(t, "Timing", "handle.request.http", mock.Anything, []string{"code:200"})
}

func TestSimulateDelayTagsBandOnly(t *testing.T) {
	l, m := setupLogger(t)
	hq := l.HandleHTTPRequest(httptest.NewRequest(http.MethodGet, "/", nil))

	sp := l.SimulateDelay(hq.Span)
	sp.SetMetadata("band", "<=p50")
	sp.SetMetadata("requested_ms", "12")
	sp.Finished()

	m.AssertCalled(t, "Timing", "simulate.delay", mock.Anything, []string{"band:<=p50"})
	m.AssertCalled(t, "Increment", "simulate.band", []string{"band:<=p50"})
}

func TestSimulateDelayTagsErrors(t *testing.T) {
	l, m := setupLogger(t)
	hq := l.HandleHTTPRequest(httptest.NewRequest(http.MethodGet, "/", nil))

	sp := l.SimulateDelay(hq.Span)
	sp.SetError(fmt.Errorf("boom"))
	sp.Finished()

	m.AssertCalled(t, "Increment", "simulate.band", []string{"error:true"})
}

func TestPrometheusMetricsExposesCounters(t *testing.T) {
	p := NewPrometheusMetrics(prometheus.NewRegistry())
	p.Increment("simulate.band", []string{"band:>p99 to max"})
	p.Timing("simulate.delay", 10*time.Millisecond, []string{"band:>p99 to max"})

	rr := httptest.NewRecorder()
	p.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rr.Body.String()
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(body, `latency_simulator_events_total{band=">p99 to max",code="",error="",name="simulate.band"} 1`), body)
	assert.Contains(t, body, "latency_simulator_operation_duration_seconds_count")
}

func TestMultiMetricsSendsToAllSinks(t *testing.T) {
	m1 := &mockMetrics{}
	m1.On("Increment", "a", []string(nil))
	m2 := &mockMetrics{}
	m2.On("Increment", "a", []string(nil))

	MultiMetrics{m1, m2}.Increment("a", nil)

	m1.AssertExpectations(t)
	m2.AssertExpectations(t)
}

func TestGetTagsAreSorted(t *testing.T) {
	tags := getTags(fmt.Errorf("x"), map[string]string{"code": "500", "band": "<=p50"})

	assert.Equal(t, []string{"band:<=p50", "code:500", "error:true"}, tags)
}
