package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlowMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewFlowMetrics("loginflow", reg)

	m.ObserveAttempt("invalid")
	m.ObserveAttempt("invalid")
	m.ObserveLogin("success", 120*time.Millisecond)
	m.ObserveNavigation("/dashboard")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Attempts.WithLabelValues("invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Attempts.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Navigations.WithLabelValues("/dashboard")))

	count, err := testutil.GatherAndCount(reg, "loginflow_login_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestFlowMetricsNilSafe(t *testing.T) {
	var m *FlowMetrics
	assert.NotPanics(t, func() {
		m.ObserveAttempt("invalid")
		m.ObserveLogin("failed", time.Second)
		m.ObserveNavigation("/")
	})
}

func TestNewFlowMetricsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewFlowMetrics("dup", reg)
	assert.Panics(t, func() { NewFlowMetrics("dup", reg) })
}

func TestEchoHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewFlowMetrics("loginflow", reg)
	m.ObserveAttempt("rejected")

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, EchoHandler(reg)(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `loginflow_attempts_total{outcome="rejected"} 1`)
}
