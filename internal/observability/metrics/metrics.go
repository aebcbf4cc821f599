// Package metrics exposes Prometheus metrics for the Redis tool server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ToolInvocations counts tool calls by tool name and result code.
	ToolInvocations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redismcp_tool_invocations_total",
			Help: "Total number of tool invocations",
		},
		[]string{"tool", "code"},
	)

	// ToolDuration measures the duration of tool invocations.
	ToolDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redismcp_tool_duration_seconds",
			Help:    "Duration of tool invocations in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		},
		[]string{"tool"},
	)

	// HTTPRequests counts HTTP requests by handler, method and status code.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redismcp_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"handler", "method", "code"},
	)
)

// ObserveTool records one tool invocation. An empty code means success.
func ObserveTool(tool, code string, duration time.Duration) {
	if code == "" {
		code = "OK"
	}
	ToolInvocations.WithLabelValues(tool, code).Inc()
	ToolDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

// ObserveHTTPRequest records one HTTP request.
func ObserveHTTPRequest(handler, method string, status int) {
	HTTPRequests.WithLabelValues(handler, method, strconv.Itoa(status)).Inc()
}

// Handler exposes the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
