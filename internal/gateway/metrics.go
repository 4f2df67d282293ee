package gateway

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics instruments the gateway with its own prometheus registry so the
// client's counters never collide with a host process's collectors.
type Metrics struct {
	registry     *prometheus.Registry
	requestTotal *prometheus.CounterVec
	refreshTotal *prometheus.CounterVec
	retryTotal   prometheus.Counter
}

// NewMetrics registers the gateway collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_client_requests_total",
		Help: "Total authenticated requests issued through the gateway",
	}, []string{"method", "status"})

	refreshTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_client_token_refresh_total",
		Help: "Token refresh attempts by outcome",
	}, []string{"outcome"})

	retryTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dashboard_client_request_retries_total",
		Help: "Requests retried once after a successful token refresh",
	})

	registry.MustRegister(requestTotal, refreshTotal, retryTotal)

	return &Metrics{
		registry:     registry,
		requestTotal: requestTotal,
		refreshTotal: refreshTotal,
		retryTotal:   retryTotal,
	}
}

// ObserveRequest counts one issued request. A zero status means the
// transport failed before a response arrived.
func (m *Metrics) ObserveRequest(method string, status int) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.requestTotal.WithLabelValues(method, label).Inc()
}

// ObserveRefresh counts one refresh attempt.
func (m *Metrics) ObserveRefresh(outcome string) {
	m.refreshTotal.WithLabelValues(outcome).Inc()
}

// ObserveRetry counts one post-refresh retry.
func (m *Metrics) ObserveRetry() {
	m.retryTotal.Inc()
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
