// Package metrics records service-level Prometheus metrics.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder is implemented by every metrics sink handed to services and workers.
type Recorder interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, duration time.Duration)

	// RecordSettlement counts one committed settlement and the rows it produced.
	RecordSettlement(ctx context.Context, results, suspicious int)
	// RecordCacheLookup counts leaderboard cache hits and misses.
	RecordCacheLookup(ctx context.Context, hit bool)
}

type prometheusRecorder struct {
	attempts    *prometheus.CounterVec
	successes   *prometheus.CounterVec
	failures    *prometheus.CounterVec
	durations   *prometheus.HistogramVec
	settlements prometheus.Counter
	results     prometheus.Counter
	suspicious  prometheus.Counter
	cache       *prometheus.CounterVec
}

// NewPrometheus registers the collectors on reg.
func NewPrometheus(reg prometheus.Registerer) Recorder {
	r := &prometheusRecorder{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weighin",
			Name:      "operation_attempts_total",
			Help:      "Service operations started.",
		}, []string{"service", "operation"}),
		successes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weighin",
			Name:      "operation_success_total",
			Help:      "Service operations finished without an infrastructure error.",
		}, []string{"service", "operation"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weighin",
			Name:      "operation_failure_total",
			Help:      "Service operations that returned an error or panicked.",
		}, []string{"service", "operation"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "weighin",
			Name:      "operation_duration_seconds",
			Help:      "Service operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"service", "operation"}),
		settlements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weighin",
			Name:      "settlements_total",
			Help:      "Committed round settlements.",
		}),
		results: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weighin",
			Name:      "settlement_results_total",
			Help:      "Round results written by settlements.",
		}),
		suspicious: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weighin",
			Name:      "settlement_suspicious_results_total",
			Help:      "Round results flagged suspicious.",
		}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weighin",
			Name:      "leaderboard_cache_lookups_total",
			Help:      "Leaderboard cache lookups by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(r.attempts, r.successes, r.failures, r.durations, r.settlements, r.results, r.suspicious, r.cache)
	return r
}

func (r *prometheusRecorder) RecordOperationAttempt(_ context.Context, operation, service string) {
	r.attempts.WithLabelValues(service, operation).Inc()
}

func (r *prometheusRecorder) RecordOperationSuccess(_ context.Context, operation, service string) {
	r.successes.WithLabelValues(service, operation).Inc()
}

func (r *prometheusRecorder) RecordOperationFailure(_ context.Context, operation, service string) {
	r.failures.WithLabelValues(service, operation).Inc()
}

func (r *prometheusRecorder) RecordOperationDuration(_ context.Context, operation, service string, duration time.Duration) {
	r.durations.WithLabelValues(service, operation).Observe(duration.Seconds())
}

func (r *prometheusRecorder) RecordSettlement(_ context.Context, results, suspicious int) {
	r.settlements.Inc()
	r.results.Add(float64(results))
	r.suspicious.Add(float64(suspicious))
}

func (r *prometheusRecorder) RecordCacheLookup(_ context.Context, hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	r.cache.WithLabelValues(outcome).Inc()
}

type noop struct{}

// NewNoop returns a Recorder that discards everything.
func NewNoop() Recorder { return noop{} }

func (noop) RecordOperationAttempt(context.Context, string, string)                 {}
func (noop) RecordOperationSuccess(context.Context, string, string)                 {}
func (noop) RecordOperationFailure(context.Context, string, string)                 {}
func (noop) RecordOperationDuration(context.Context, string, string, time.Duration) {}
func (noop) RecordSettlement(context.Context, int, int)                             {}
func (noop) RecordCacheLookup(context.Context, bool)                                {}
