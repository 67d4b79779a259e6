package observability

import (
	"context"

	"github.com/aretw0/formflow/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "formflow"

// Outcome label values for round trips.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics holds the collectors fed by driver lifecycle events.
type Metrics struct {
	RoundTrips *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
	Redirects  prometheus.Counter
	Dropped    *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil registerer leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RoundTrips: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "round_trips_total",
				Help:      "Total number of webhook round trips",
			},
			[]string{"trigger", "outcome"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "webhook_duration_seconds",
				Help:      "Duration of webhook round trips",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"trigger"},
		),
		Redirects: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "redirects_total",
				Help:      "Total number of page redirects",
			},
		),
		Dropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dropped_triggers_total",
				Help:      "Triggers ignored because a request was already in flight",
			},
			[]string{"trigger"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.RoundTrips, m.Duration, m.Redirects, m.Dropped)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRoundTrip: func(_ context.Context, e *domain.RoundTripEvent) {
			outcome := OutcomeSuccess
			if e.Err != nil {
				outcome = OutcomeError
			}
			m.RoundTrips.WithLabelValues(string(e.Trigger), outcome).Inc()
			m.Duration.WithLabelValues(string(e.Trigger)).Observe(e.Duration.Seconds())
		},
		OnRedirect: func(context.Context, *domain.NavigationEvent) {
			m.Redirects.Inc()
		},
		OnDropped: func(_ context.Context, e *domain.PageEvent) {
			m.Dropped.WithLabelValues(string(e.Trigger)).Inc()
		},
	}
}
