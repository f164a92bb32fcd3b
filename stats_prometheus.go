//go:build prometheus

package httpcore

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus gauges mirroring Stats, gated behind the "prometheus" build
// tag per the teacher's buffer_pool_prometheus.go pattern so a default
// build carries no Prometheus dependency surface. Gauges (not counters)
// are used throughout since Stats already holds the authoritative
// cumulative totals; PublishToPrometheus just copies the current values
// across, so Set is always correct regardless of how often it's called.
var (
	promTotalConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "httpcore",
		Name:      "connections_total",
		Help:      "Total number of accepted connections.",
	})
	promActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "httpcore",
		Name:      "connections_active",
		Help:      "Current number of open connections.",
	})
	promTotalRequests = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "httpcore",
		Name:      "requests_total",
		Help:      "Total number of requests handled.",
	})
	promConnectionErrors = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "httpcore",
		Name:      "connection_errors_total",
		Help:      "Total number of connections that ended in a transport error.",
	})
	promRequestErrors = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "httpcore",
		Name:      "request_errors_total",
		Help:      "Total number of requests that failed to load or whose handler returned an error.",
	})
)

// PublishToPrometheus copies the current snapshot of s into the
// package-level Prometheus collectors above, making it visible to the
// next scrape. Call it wherever a fresh snapshot should be exported, e.g.
// alongside periodic logging of RequestsPerSecond.
func (s *Stats) PublishToPrometheus() {
	promTotalConnections.Set(float64(s.TotalConnections.Load()))
	promActiveConnections.Set(float64(s.ActiveConnections.Load()))
	promTotalRequests.Set(float64(s.TotalRequests.Load()))
	promConnectionErrors.Set(float64(s.ConnectionErrors.Load()))
	promRequestErrors.Set(float64(s.RequestErrors.Load()))
}
