package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/nicholasjackson/latency-simulator/errors"
	"github.com/nicholasjackson/latency-simulator/handlers"
	"github.com/nicholasjackson/latency-simulator/logging"
	"github.com/nicholasjackson/latency-simulator/timing"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func TestSanitisesListParameters(t *testing.T) {
	in := "http://abc.com, https://123.com,"

	out := tidyList(in)

	assert.Equal(t, 2, len(out))
	assert.Equal(t, "http://abc.com", out[0])
	assert.Equal(t, "https://123.com", out[1])
}

func setupRouter(t *testing.T, profile map[string]interface{}, metrics http.Handler) http.Handler {
	lg := logging.NewLogger(&logging.NullMetrics{}, hclog.Default())
	ei := errors.NewInjector(hclog.Default(), 0, http.StatusInternalServerError, 0, http.StatusTooManyRequests)
	hh := handlers.NewHealth(lg, http.StatusOK)
	sim := timing.NewSimulator(
		timing.NewProfile(profile),
		hclog.Default(),
		timing.WithSleepFunc(func(time.Duration) {}),
	)

	return newRouter(
		handlers.NewLatency(lg, sim, ei),
		hh,
		handlers.NewReady(lg, http.StatusOK, 0),
		handlers.NewConfig(lg, ei, hh),
		metrics,
		[]string{"http://example.com"},
		[]string{"Content-Type"},
	)
}

func testProfile() map[string]interface{} {
	return map[string]interface{}{"p50": 25, "p75": 50, "p90": 75, "p95": 100, "p99": 200, "max": 3000}
}

func TestRoutesSimulateLatency(t *testing.T) {
	r := setupRouter(t, testProfile(), nil)
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/simulate_latency", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "random_draw_percentile")
}

func TestRoutesSimulateLatencyErrors(t *testing.T) {
	r := setupRouter(t, nil, nil)
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/simulate_latency", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error": "Latency profile not loaded or is empty. Check server logs."}`, rr.Body.String())
}

func TestRoutesOnlyAllowGetForSimulateLatency(t *testing.T) {
	r := setupRouter(t, testProfile(), nil)
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/simulate_latency", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestRoutesHealthReadyAndConfig(t *testing.T) {
	r := setupRouter(t, testProfile(), nil)

	for path, method := range map[string]string{
		"/health":                http.MethodGet,
		"/ready":                 http.MethodGet,
		"/config/error_rate/0.5": http.MethodPost,
		"/config/error_rate/0.0": http.MethodPost,
	} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(method, path, nil))

		assert.Equal(t, http.StatusOK, rr.Code, path)
	}
}

func TestRoutesRejectGetForConfig(t *testing.T) {
	r := setupRouter(t, testProfile(), nil)

	for _, p := range []string{
		"/config/error_rate/1",
		"/config/health_check_response_code/503",
	} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, p, nil))

		assert.Equal(t, http.StatusMethodNotAllowed, rr.Code, p)
	}

	// nothing was changed by the rejected requests
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/simulate_latency", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRoutesMetricsOnlyWhenEnabled(t *testing.T) {
	rr := httptest.NewRecorder()
	setupRouter(t, testProfile(), nil).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	pm := logging.NewPrometheusMetrics(prometheus.NewRegistry())
	rr = httptest.NewRecorder()
	setupRouter(t, testProfile(), pm.Handler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRoutesAddCORSHeaders(t *testing.T) {
	r := setupRouter(t, testProfile(), nil)
	req := httptest.NewRequest(http.MethodGet, "/simulate_latency", nil)
	req.Header.Set("Origin", "http://example.com")
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)

	assert.Equal(t, "http://example.com", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRunSampleDrawsWithoutSleeping(t *testing.T) {
	sim := timing.NewSimulator(
		timing.NewProfile(testProfile()),
		hclog.Default(),
		timing.WithSleepFunc(func(time.Duration) { t.Fatal("sample should not sleep") }),
	)

	err := runSample(sim, 200, 4, hclog.Default())

	assert.NoError(t, err)
}

func TestRunSampleReturnsProfileError(t *testing.T) {
	sim := timing.NewSimulator(timing.NewProfile(nil), hclog.Default())

	err := runSample(sim, 10, 2, hclog.Default())

	assert.Equal(t, timing.ErrProfileEmpty, err)
}
