// Package metrics provides Prometheus metrics for dolabbctl.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dolabbctl"

// Recorder groups the collectors for one process. A nil *Recorder is valid
// and records nothing.
type Recorder struct {
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	actions       *prometheus.CounterVec
	staleDiscards *prometheus.CounterVec
	conflicts     *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_requests_total",
				Help:      "Total number of backend API requests",
			},
			[]string{"resource", "method", "outcome"},
		),
		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "api_request_duration_seconds",
				Help:      "Duration of backend API requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"resource", "method"},
		),
		actions: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "actions_total",
				Help:      "Total number of record mutations by outcome",
			},
			[]string{"resource", "action", "outcome"},
		),
		staleDiscards: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stale_list_responses_total",
				Help:      "List responses discarded because a newer request superseded them",
			},
			[]string{"resource"},
		),
		conflicts: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "action_conflicts_total",
				Help:      "Mutations rejected because one was already in flight for the record",
			},
			[]string{"resource"},
		),
	}
}

// ObserveRequest records one backend call.
func (r *Recorder) ObserveRequest(resource, method, outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(resource, method, outcome).Inc()
	r.duration.WithLabelValues(resource, method).Observe(d.Seconds())
}

// RecordAction records the outcome of one mutation.
func (r *Recorder) RecordAction(resource, action, outcome string) {
	if r == nil {
		return
	}
	r.actions.WithLabelValues(resource, action, outcome).Inc()
}

// RecordStaleDiscard records a superseded list response.
func (r *Recorder) RecordStaleDiscard(resource string) {
	if r == nil {
		return
	}
	r.staleDiscards.WithLabelValues(resource).Inc()
}

// RecordConflict records a rejected duplicate mutation.
func (r *Recorder) RecordConflict(resource string) {
	if r == nil {
		return
	}
	r.conflicts.WithLabelValues(resource).Inc()
}
