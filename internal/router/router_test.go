package router

import (
	"net/http"
	"testing"

	"login-flow/internal/loginflow"
	"login-flow/internal/navigator"
	"login-flow/internal/session"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestSetupRoutes(t *testing.T) {
	e := echo.New()
	svc := &session.FakeService{}
	nav := navigator.NewTracker(navigator.RouteLogin)
	flow := loginflow.New(svc, nav)
	t.Cleanup(flow.Close)
	Setup(e, flow, nav, svc, prometheus.NewRegistry())

	got := map[string]struct{}{}
	for _, r := range e.Routes() {
		got[r.Method+" "+r.Path] = struct{}{}
	}

	expected := []string{
		http.MethodGet + " /api/ping",
		http.MethodGet + " /api/login",
		http.MethodPost + " /api/login",
		http.MethodPost + " /api/login/password-visibility",
		http.MethodPut + " /api/login/remember-me",
		http.MethodPost + " /api/logout",
		http.MethodGet + " /metrics",
	}

	require.Equal(t, len(expected), len(got))
	for _, k := range expected {
		_, ok := got[k]
		require.True(t, ok, "missing route %s", k)
	}
}
