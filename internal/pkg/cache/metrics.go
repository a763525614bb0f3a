package cache

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultHit   = "hit"
	resultMiss  = "miss"
	resultError = "error"
)

var requestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "demostar_cache_requests_total",
		Help: "Cache lookups by key and result",
	},
	[]string{"key", "result"},
)

func init() {
	prometheus.MustRegister(requestsTotal)
}

func observe(key, result string) {
	requestsTotal.WithLabelValues(key, result).Inc()
}
