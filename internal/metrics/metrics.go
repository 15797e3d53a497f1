// File: internal/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var loginDurationBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 15}

// FlowMetrics 追蹤登入流程的核心指標
type FlowMetrics struct {
	Attempts    *prometheus.CounterVec
	Navigations *prometheus.CounterVec
	Duration    *prometheus.HistogramVec
}

// NewFlowMetrics 建立 FlowMetrics；reg 為 nil 時使用 prometheus.DefaultRegisterer
func NewFlowMetrics(namespace string, reg prometheus.Registerer) *FlowMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &FlowMetrics{
		Attempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "attempts_total",
				Help:      "Login submissions grouped by outcome",
			},
			[]string{"outcome"},
		),
		Navigations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "navigations_total",
				Help:      "Navigation requests issued by the login flow",
			},
			[]string{"route"},
		),
		Duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "login_duration_seconds",
				Help:      "Latency of session service login calls",
				Buckets:   loginDurationBuckets,
			},
			[]string{"outcome"},
		),
	}
}

// ObserveAttempt 記錄一次送出
func (m *FlowMetrics) ObserveAttempt(outcome string) {
	if m == nil {
		return
	}
	m.Attempts.WithLabelValues(outcome).Inc()
}

// ObserveLogin 記錄登入呼叫的結果與耗時
func (m *FlowMetrics) ObserveLogin(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.Attempts.WithLabelValues(outcome).Inc()
	m.Duration.WithLabelValues(outcome).Observe(d.Seconds())
}

// ObserveNavigation 記錄畫面切換
func (m *FlowMetrics) ObserveNavigation(route string) {
	if m == nil {
		return
	}
	m.Navigations.WithLabelValues(route).Inc()
}
