package metrics_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/internal/adapters/out/metrics"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services/transition"
)

func TestTransitionMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewTransitionMetrics(reg)

	m.TransitionApplied(order.Available, order.AwaitingApproval, order.ActionBid, kernel.RoleWriter)
	m.TransitionApplied(order.Available, order.AwaitingApproval, order.ActionBid, kernel.RoleWriter)
	m.TransitionRejected(order.ActionApprove, kernel.RoleWriter, &transition.Error{Kind: transition.ErrRoleNotPermitted})

	series, err := testutil.GatherAndCount(reg, "marketplace_orders_transitions_total")
	require.NoError(t, err)
	assert.Equal(t, 1, series)
	series, err = testutil.GatherAndCount(reg, "marketplace_orders_transitions_rejected_total")
	require.NoError(t, err)
	assert.Equal(t, 1, series)
}

func TestTransitionMetrics_CounterValues(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewTransitionMetrics(reg)

	m.TransitionApplied(order.Submitted, order.Approved, order.ActionApprove, kernel.RoleAdmin)
	m.TransitionRejected(order.ActionBid, kernel.RoleWriter, errors.New("boom"))

	body := scrape(t, reg)
	assert.Contains(t, body, `marketplace_orders_transitions_total{action="approve",from="Submitted",role="admin",to="Approved"} 1`)
	assert.Contains(t, body, `marketplace_orders_transitions_rejected_total{action="bid",reason="other",role="writer"} 1`)
}

func TestRejectionReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&transition.Error{Kind: transition.ErrTerminalStateViolation}, "terminal_state"},
		{&transition.Error{Kind: transition.ErrInvalidTransition}, "invalid_transition"},
		{&transition.Error{Kind: transition.ErrRoleNotPermitted}, "role_not_permitted"},
		{&transition.Error{Kind: transition.ErrMissingRequiredField}, "missing_required_field"},
		{&transition.Error{Kind: transition.ErrGuardRejected}, "guard_rejected"},
		{fmt.Errorf("submit from In Progress: %w", order.ErrInvariantViolated), "invariant_violated"},
		{errors.New("unexpected"), "other"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, metrics.RejectionReason(tt.err))
		})
	}
}

func TestHTTPMetrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewHTTPMetrics(reg)

	m.Observe(http.MethodGet, "/api/v1/orders/:orderId", http.StatusOK, 20*time.Millisecond)

	body := scrape(t, reg)
	assert.Contains(t, body, `marketplace_http_requests_total{method="GET",route="/api/v1/orders/:orderId",status="200"} 1`)
	assert.Contains(t, body, `marketplace_http_request_duration_seconds_count{method="GET",route="/api/v1/orders/:orderId"} 1`)
}

func scrape(t *testing.T, reg *prometheus.Registry) string {
	t.Helper()
	rec := httptest.NewRecorder()
	metrics.Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}
