// Package metrics registers the process's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPDuration observes request latency per route and status.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "paperbroker_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"path", "method", "status"})

	// Trades counts trade attempts by side and outcome.
	Trades = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paperbroker_trades_total",
		Help: "Trade attempts by side (buy/sell) and outcome (committed/rejected/error).",
	}, []string{"side", "outcome"})

	// QuoteLookups counts upstream quote lookups by result.
	QuoteLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paperbroker_quote_lookups_total",
		Help: "Quote lookups by result (hit/absent/error).",
	}, []string{"result"})
)

// Handler exposes the default registry for the /metrics route.
func Handler() http.Handler {
	return promhttp.Handler()
}
