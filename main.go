package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hashicorp/go-hclog"
	"github.com/nicholasjackson/env"
	"github.com/nicholasjackson/latency-simulator/config"
	"github.com/nicholasjackson/latency-simulator/errors"
	"github.com/nicholasjackson/latency-simulator/handlers"
	"github.com/nicholasjackson/latency-simulator/logging"
	"github.com/nicholasjackson/latency-simulator/timing"
	"github.com/nicholasjackson/latency-simulator/tracing"
	"github.com/nicholasjackson/latency-simulator/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/cors"
)

var name = env.String("NAME", false, "Latency Simulator", "Name of the service")
var listenAddress = env.String("LISTEN_ADDR", false, "0.0.0.0:9090", "IP address and port to bind service to")
var profileFile = env.String("LATENCY_PROFILE_FILE", false, "config/latency_profile.yml", "Path to the YAML or JSON latency profile")

var logLevel = env.String("LOG_LEVEL", false, "info", "Log level for output. [info|debug|trace|warn|error]")
var logFormat = env.String("LOG_FORMAT", false, "text", "Log file format. [text|json]")

// CORS
var allowedOrigins = env.String("ALLOWED_ORIGINS", false, "*", "Comma separated list of allowed origins for CORS requests")
var allowedHeaders = env.String("ALLOWED_HEADERS", false, "Accept,Accept-Language,Content-Type,Authorization", "Comma separated list of allowed headers for CORS requests")

// health and readiness
var healthResponseCode = env.Int("HEALTH_CHECK_RESPONSE_CODE", false, http.StatusOK, "Response code returned from the HTTP health check at path /health")
var readinessResponseCode = env.Int("READY_CHECK_RESPONSE_CODE", false, http.StatusOK, "Response code returned from the HTTP readiness handler `/ready` after the response delay has elapsed")
var readinessResponseDelay = env.Duration("READY_CHECK_RESPONSE_DELAY", false, time.Duration(0*time.Second), "Delay before the readiness check returns the READY_CHECK_RESPONSE_CODE")

// fault injection, these allow the user to inject errors into the service
// for testing purposes
var errorRate = env.Float64("ERROR_RATE", false, 0.0, "Decimal percentage of requests where the handler will report an error. e.g. 0.1 = 10% of all requests will result in an error")
var errorCode = env.Int("ERROR_CODE", false, http.StatusInternalServerError, "Error code to return on error")
var rateLimitRPS = env.Float64("RATE_LIMIT", false, 0.0, "Rate in req/second after which the service will return an error code")
var rateLimitCode = env.Int("RATE_LIMIT_CODE", false, http.StatusTooManyRequests, "Code to return when service call is rate limited")

// metrics and tracing
var zipkinEndpoint = env.String("TRACING_ZIPKIN", false, "", "Location of Zipkin tracing collector")
var datadogTracingHost = env.String("TRACING_DATADOG_HOST", false, "", "Hostname or IP for Datadog tracing collector")
var datadogTracingPort = env.String("TRACING_DATADOG_PORT", false, "8126", "Port for Datadog tracing collector")
var datadogMetricsURI = env.String("METRICS_DATADOG_URI", false, "", "URI of the DogStatsD agent e.g. localhost:8125")
var environment = env.String("METRICS_ENVIRONMENT", false, "production", "Environment tag added to DogStatsD metrics")
var prometheusEnabled = env.Bool("METRICS_PROMETHEUS", false, false, "Expose Prometheus metrics at /metrics")

var help = flag.Bool("help", false, "--help to show help")
var sample = flag.Int("sample", 0, "Draw the given number of delays without sleeping, log the distribution and exit")
var sampleWorkers = flag.Int("sample-workers", 4, "Number of parallel workers used by --sample")

var version = "dev"

func main() {
	env.Parse()
	flag.Parse()

	// if the help flag is passed show configuration options
	if *help {
		fmt.Println("Latency simulator version:", version)
		fmt.Println("Configuration values are set using environment variables, for info please see the following list:")
		fmt.Println("")
		fmt.Println(env.Help())
		os.Exit(0)
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:       *name,
		Level:      hclog.LevelFromString(*logLevel),
		JSONFormat: *logFormat == "json",
	})

	profile := config.LoadProfile(*profileFile, logger.Named("config"))
	if err := profile.Validate(); err != nil {
		logger.Error("Latency profile is invalid, requests will fail until it is corrected", "error", err)
	}

	sim := timing.NewSimulator(profile, logger.Named("simulator"))

	if *sample > 0 {
		if err := runSample(sim, *sample, *sampleWorkers, logger); err != nil {
			logger.Error("Unable to sample latency profile", "error", err)
			os.Exit(1)
		}

		os.Exit(0)
	}

	setupTracing(logger)

	metrics, promMetrics := setupMetrics(logger)
	lg := logging.NewLogger(metrics, logger)

	ei := errors.NewInjector(logger.Named("error_injector"), *errorRate, *errorCode, *rateLimitRPS, *rateLimitCode)
	hh := handlers.NewHealth(lg, *healthResponseCode)

	var mh http.Handler
	if promMetrics != nil {
		mh = promMetrics.Handler()
	}

	router := newRouter(
		handlers.NewLatency(lg, sim, ei),
		hh,
		handlers.NewReady(lg, *readinessResponseCode, *readinessResponseDelay),
		handlers.NewConfig(lg, ei, hh),
		mh,
		tidyList(*allowedOrigins),
		tidyList(*allowedHeaders),
	)

	logger.Info(
		"Starting service",
		"name", *name,
		"listenAddress", *listenAddress,
		"profile_file", *profileFile,
		"profile", profile.String(),
		"error_rate", *errorRate,
		"rate_limit", *rateLimitRPS,
		"zipkin_endpoint", *zipkinEndpoint,
		"datadog_tracing_host", *datadogTracingHost,
		"datadog_metrics_uri", *datadogMetricsURI,
		"prometheus", *prometheusEnabled,
	)

	srv := &http.Server{
		Addr:    *listenAddress,
		Handler: router,
	}

	// graceful shutdown, in flight delays are allowed to complete
	idleConnsClosed := make(chan struct{})
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("Received signal, shutting down", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Error shutting down service", "error", err)
		}

		close(idleConnsClosed)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Error starting service", "error", err)
		os.Exit(1)
	}

	<-idleConnsClosed
	logger.Info("Service stopped")
}

// newRouter creates the HTTP routes for the service, metrics is optional
func newRouter(
	lh *handlers.Latency,
	hh *handlers.Health,
	rh *handlers.Ready,
	ch *handlers.Config,
	metrics http.Handler,
	origins, headers []string,
) http.Handler {

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/simulate_latency", lh.Handle)
	r.Get("/health", hh.Handle)
	r.Get("/ready", rh.Handle)
	r.Post("/config/*", ch.Handle)

	if metrics != nil {
		r.Handle("/metrics", metrics)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedHeaders: headers,
	})

	return c.Handler(r)
}

func setupTracing(logger hclog.Logger) {
	if *zipkinEndpoint != "" {
		if _, err := tracing.NewZipkinTracer(*zipkinEndpoint, *name, *listenAddress); err != nil {
			logger.Error("Unable to create Zipkin tracer", "error", err)
			os.Exit(1)
		}

		return
	}

	if *datadogTracingHost != "" {
		tracing.NewDataDogTracer(fmt.Sprintf("%s:%s", *datadogTracingHost, *datadogTracingPort), *name)
	}
}

func setupMetrics(logger hclog.Logger) (logging.Metrics, *logging.PrometheusMetrics) {
	sinks := logging.MultiMetrics{}

	if *datadogMetricsURI != "" {
		m, err := logging.NewStatsDMetrics(*name, *environment, *datadogMetricsURI)
		if err != nil {
			logger.Error("Unable to create StatsD client, metrics will not be sent", "error", err)
		} else {
			sinks = append(sinks, m)
		}
	}

	var pm *logging.PrometheusMetrics
	if *prometheusEnabled {
		pm = logging.NewPrometheusMetrics(prometheus.NewRegistry())
		sinks = append(sinks, pm)
	}

	if len(sinks) == 0 {
		return &logging.NullMetrics{}, nil
	}

	return sinks, pm
}

// runSample draws count delays from the simulator and logs the distribution
func runSample(sim *timing.Simulator, count, workers int, logger hclog.Logger) error {
	wp := worker.New(workers, func(n int) (*timing.Result, error) {
		return sim.Plan()
	})

	if err := wp.Do(count); err != nil {
		return err
	}

	s := timing.Summarise(wp.Results())

	logger.Info("Sampled latency profile", "count", s.Count, "min_ms", s.MinMs, "max_ms", s.MaxMs, "mean_ms", fmt.Sprintf("%.2f", s.MeanMs))

	labels := make([]string, 0, len(s.Bands))
	for l := range s.Bands {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	for _, l := range labels {
		logger.Info("Band", "label", l, "count", s.Bands[l], "percent", fmt.Sprintf("%.2f", float64(s.Bands[l])*100/float64(s.Count)))
	}

	return nil
}

// tidyList splits a comma separated environment value and returns a
// sanitised slice
func tidyList(values string) []string {
	resp := []string{}
	rawResp := strings.Split(values, ",")

	for _, r := range rawResp {
		r = strings.Trim(r, " ")
		if r != "" {
			resp = append(resp, r)
		}
	}

	return resp
}
