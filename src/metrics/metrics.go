package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"redox_tutor/src/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "redox_tutor"

// Metrics groups the service's collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	oracleRequests *prometheus.CounterVec
	oracleDuration *prometheus.HistogramVec
	stepChecks     *prometheus.CounterVec
	stepSkips      *prometheus.CounterVec
	telemetry      *prometheus.CounterVec
	logins         prometheus.Counter
}

// New builds a registry with the Go runtime, process and service collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		oracleRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "oracle_requests_total",
			Help:      "Equation analyses by provider and outcome.",
		}, []string{"provider", "outcome"}),
		oracleDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "oracle_duration_seconds",
			Help:      "Latency of equation analyses.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 60},
		}, []string{"provider"}),
		stepChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "step_checks_total",
			Help:      "Wizard answer checks by step and outcome.",
		}, []string{"step", "outcome"}),
		stepSkips: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "step_skips_total",
			Help:      "Steps skipped after a failed check.",
		}, []string{"step"}),
		telemetry: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "telemetry_events_total",
			Help:      "Telemetry events by action and delivery outcome.",
		}, []string{"action", "outcome"}),
		logins: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Students that passed the login screen.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.oracleRequests,
		m.oracleDuration,
		m.stepChecks,
		m.stepSkips,
		m.telemetry,
		m.logins,
	)
	return m
}

// Registry exposes the underlying registry for tests and handlers
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveOracle(provider string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.oracleRequests.WithLabelValues(provider, outcome).Inc()
	m.oracleDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveCheck(step string, correct bool) {
	if m == nil {
		return
	}
	outcome := "correct"
	if !correct {
		outcome = "incorrect"
	}
	m.stepChecks.WithLabelValues(step, outcome).Inc()
}

func (m *Metrics) ObserveSkip(step string) {
	if m == nil {
		return
	}
	m.stepSkips.WithLabelValues(step).Inc()
}

// ObserveTelemetry counts an event as sent, failed or dropped
func (m *Metrics) ObserveTelemetry(action, outcome string) {
	if m == nil {
		return
	}
	m.telemetry.WithLabelValues(action, outcome).Inc()
}

func (m *Metrics) ObserveLogin() {
	if m == nil {
		return
	}
	m.logins.Inc()
}

// Server exposes /metrics on its own listener
type Server struct {
	server *http.Server
}

// NewServer prepares a metrics listener on addr serving path
func NewServer(m *Metrics, addr, path string) *Server {
	mux := http.NewServeMux()
	mux.Handle(path, m.Handler())
	return &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// ListenAndServe blocks until the server stops. A clean shutdown returns nil.
func (s *Server) ListenAndServe() error {
	logger.Info().Str("addr", s.server.Addr).Msg("Metrics server listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
