// Package metrics exposes questionnaire and store counters through Prometheus.
// All Recorder methods are safe on a nil receiver so callers can run without metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "vitaflow"

// Recorder owns the collectors registered for one process.
type Recorder struct {
	storeOps     *prometheus.CounterVec
	storeLatency *prometheus.HistogramVec
	transitions  *prometheus.CounterVec
	validation   *prometheus.CounterVec
	completed    prometheus.Counter
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		storeOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "Key-value store operations by op and result.",
		}, []string{"op", "result"}),
		storeLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_operation_seconds",
			Help:      "Key-value store operation latency.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"op"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "step_transitions_total",
			Help:      "Navigation between questionnaire steps.",
		}, []string{"from", "to"}),
		validation: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_failures_total",
			Help:      "Blocked proceed or submit attempts by step and field.",
		}, []string{"step", "field"}),
		completed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_completed_total",
			Help:      "Questionnaires submitted with every answer present.",
		}),
	}
	reg.MustRegister(r.storeOps, r.storeLatency, r.transitions, r.validation, r.completed)
	return r
}

// ObserveStore satisfies kv.Observer.
func (r *Recorder) ObserveStore(op string, err error, elapsed time.Duration) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.storeOps.WithLabelValues(op, result).Inc()
	r.storeLatency.WithLabelValues(op).Observe(elapsed.Seconds())
}

// Transition records a move between steps.
func (r *Recorder) Transition(from, to string) {
	if r == nil {
		return
	}
	r.transitions.WithLabelValues(from, to).Inc()
}

// ValidationFailed records a blocked proceed/submit.
func (r *Recorder) ValidationFailed(step, field string) {
	if r == nil {
		return
	}
	r.validation.WithLabelValues(step, field).Inc()
}

// Completed records a successful final submit.
func (r *Recorder) Completed() {
	if r == nil {
		return
	}
	r.completed.Inc()
}

// Handler serves the registry in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
