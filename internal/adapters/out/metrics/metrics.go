// Package metrics exposes Prometheus instruments for lifecycle transitions and
// the HTTP API.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services/transition"
)

const namespace = "marketplace"

// TransitionMetrics implements ports.TransitionMetrics.
type TransitionMetrics struct {
	applied  *prometheus.CounterVec
	rejected *prometheus.CounterVec
}

func NewTransitionMetrics(reg prometheus.Registerer) *TransitionMetrics {
	applied := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "orders",
		Name:      "transitions_total",
		Help:      "Order transitions applied, by source and target status.",
	}, []string{"from", "to", "action", "role"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "orders",
		Name:      "transitions_rejected_total",
		Help:      "Order transitions refused, by rejection reason.",
	}, []string{"action", "role", "reason"})

	reg.MustRegister(applied, rejected)
	return &TransitionMetrics{applied: applied, rejected: rejected}
}

func (m *TransitionMetrics) TransitionApplied(from, to order.Status, action order.Action, role kernel.Role) {
	m.applied.WithLabelValues(from.String(), to.String(), action.String(), role.String()).Inc()
}

func (m *TransitionMetrics) TransitionRejected(action order.Action, role kernel.Role, err error) {
	m.rejected.WithLabelValues(action.String(), role.String(), RejectionReason(err)).Inc()
}

// RejectionReason maps an engine error to a low-cardinality label.
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, transition.ErrTerminalStateViolation):
		return "terminal_state"
	case errors.Is(err, transition.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, transition.ErrRoleNotPermitted):
		return "role_not_permitted"
	case errors.Is(err, transition.ErrMissingRequiredField):
		return "missing_required_field"
	case errors.Is(err, transition.ErrGuardRejected):
		return "guard_rejected"
	case errors.Is(err, order.ErrInvariantViolated):
		return "invariant_violated"
	default:
		return "other"
	}
}

// HTTPMetrics counts and times API requests.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "route", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	reg.MustRegister(requests, latency)
	return &HTTPMetrics{requests: requests, latency: latency}
}

// Observe records one finished request. route is the matched path template.
func (m *HTTPMetrics) Observe(method, route string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
