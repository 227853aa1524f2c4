// Package metrics exposes engine and HTTP counters to Prometheus.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"parallel/internal/common"
)

const namespace = "parallel"

// Recorder implements common.TransitionRecorder and carries the HTTP metrics.
// Each Recorder owns its registry so tests can build as many as they like.
type Recorder struct {
	registry    *prometheus.Registry
	transitions *prometheus.CounterVec
	rejections  *prometheus.CounterVec
	requests    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
}

var _ common.TransitionRecorder = (*Recorder)(nil)

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_transitions_total",
			Help:      "Accepted state changes by entity and target state.",
		}, []string{"entity", "to"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected_operations_total",
			Help:      "Operations refused by the engine by entity and error kind.",
		}, []string{"entity", "reason"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "method", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}

	r.registry.MustRegister(
		r.transitions,
		r.rejections,
		r.requests,
		r.latency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) Transition(entity, to string) {
	r.transitions.WithLabelValues(entity, to).Inc()
}

func (r *Recorder) Rejected(entity string, err error) {
	r.rejections.WithLabelValues(entity, Reason(err)).Inc()
}

func (r *Recorder) ObserveRequest(route, method string, code int, elapsed time.Duration) {
	r.requests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	r.latency.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Reason maps an engine error onto a low-cardinality label value.
func Reason(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, common.ErrValidation):
		return "validation"
	case errors.Is(err, common.ErrInvalidStateTransition):
		return "invalid_transition"
	case errors.Is(err, common.ErrNotAuthorized):
		return "not_authorized"
	case errors.Is(err, common.ErrAlreadyWrittenToday):
		return "already_written_today"
	case errors.Is(err, common.ErrExpired):
		return "expired"
	case errors.Is(err, common.ErrNotFound):
		return "not_found"
	case errors.Is(err, common.ErrStorage):
		return "storage"
	default:
		return "other"
	}
}
