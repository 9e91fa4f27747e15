// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Cache lookup results.
const (
	CacheHit        = "hit"
	CacheRefresh    = "refresh"
	CacheStale      = "stale"
	CacheMissFailed = "miss_failed"
)

var (
	// interactions by kind (command, component, autocomplete) and outcome
	interactions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "naago_interactions_total",
		Help: "Handled interactions by kind and outcome",
	}, []string{"kind", "outcome"})

	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "naago_cache_lookups_total",
		Help: "Character cache lookups by result",
	}, []string{"result"})

	upstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "naago_upstream_request_duration_seconds",
		Help:    "Latency of character API requests",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"op"})

	cooldownDrops = promauto.NewCounter(prometheus.CounterOpts{
		Name: "naago_cooldown_drops_total",
		Help: "Control activations dropped by the per-user cooldown",
	})
)

func ObserveInteraction(kind, outcome string) {
	interactions.WithLabelValues(kind, outcome).Inc()
}

func ObserveCacheLookup(result string) {
	cacheLookups.WithLabelValues(result).Inc()
}

func ObserveUpstream(op string, d time.Duration) {
	upstreamDuration.WithLabelValues(op).Observe(d.Seconds())
}

func ObserveCooldownDrop() {
	cooldownDrops.Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
