package autoadvisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	opSearch = "search"
	opHealth = "health"

	statusOK      = "ok"
	statusTimeout = "timeout"
	statusError   = "error"
)

// sdkMetrics are the client-side counterparts of the service's backend metrics.
type sdkMetrics struct {
	calls   *prometheus.CounterVec
	latency *prometheus.HistogramVec
	results prometheus.Histogram
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "autoadvisor",
			Subsystem: "sdk",
			Name:      "operations_total",
			Help:      "SDK calls by operation and outcome.",
		}, []string{"operation", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "autoadvisor",
			Subsystem: "sdk",
			Name:      "operation_duration_seconds",
			Help:      "SDK call latency in seconds, backend round trip included.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		}, []string{"operation"}),
		results: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "autoadvisor",
			Subsystem: "sdk",
			Name:      "search_results",
			Help:      "Recommendations returned by a successful search.",
			Buckets:   []float64{0, 1, 2, 3, 5, 10, 20},
		}),
	}
	if err := registerOrReuse(reg, &m.calls); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.latency); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.results); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse lets several clients share one registry.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	err := reg.Register(*c)
	var are prometheus.AlreadyRegisteredError
	switch {
	case err == nil:
		return nil
	case !errors.As(err, &are):
		return fmt.Errorf("autoadvisor: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return fmt.Errorf("autoadvisor: %T already registered under the same name", are.ExistingCollector)
	}
	*c = existing
	return nil
}

// observer records SDK calls. A nil observer, logger or metrics set is skipped.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg == nil {
		return o, nil
	}
	m, err := newSDKMetrics(reg)
	if err != nil {
		return nil, err
	}
	o.metrics = m
	return o, nil
}

// search records one Search call. results is ignored on failure.
func (o *observer) search(start time.Time, results int, err error) {
	if o == nil {
		return
	}
	status := searchStatus(err)
	if o.metrics != nil && err == nil {
		o.metrics.results.Observe(float64(results))
	}
	attrs := []slog.Attr{slog.Int("results", results)}
	if err != nil {
		attrs = []slog.Attr{slog.String("error", err.Error())}
	}
	o.record(opSearch, status, time.Since(start), attrs...)
}

// health records one Health call with the reported service status.
func (o *observer) health(start time.Time, status string) {
	if o == nil {
		return
	}
	o.record(opHealth, status, time.Since(start))
}

func (o *observer) record(op, status string, dur time.Duration, attrs ...slog.Attr) {
	if o.metrics != nil {
		o.metrics.calls.WithLabelValues(op, status).Inc()
		o.metrics.latency.WithLabelValues(op).Observe(dur.Seconds())
	}
	if o.logger == nil {
		return
	}
	level := slog.LevelDebug
	if status != statusOK {
		level = slog.LevelWarn
	}
	attrs = append(attrs,
		slog.String("op", op),
		slog.String("status", status),
		slog.Duration("duration", dur),
	)
	o.logger.LogAttrs(context.Background(), level, "autoadvisor call", attrs...)
}

// searchStatus keeps timeouts apart from other failures.
func searchStatus(err error) string {
	switch {
	case err == nil:
		return statusOK
	case errors.Is(err, ErrTimeout):
		return statusTimeout
	default:
		return statusError
	}
}
