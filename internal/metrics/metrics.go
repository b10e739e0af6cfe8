package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Balance operations
	OperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "balance_operations_total",
			Help: "Total successful balance operations",
		},
		[]string{"action"}, // credit|debit
	)
	OperationsFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "balance_operations_failed_total",
			Help: "Total failed balance operations",
		},
	)

	// Cache
	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Cache hits by entity kind",
		},
		[]string{"entity"}, // balance|transactions
	)
	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Cache misses by entity kind",
		},
		[]string{"entity"},
	)

	// Worker queue
	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)
)

// Handler serves the /metrics endpoint.
var Handler = promhttp.Handler

func Init() {
	prometheus.MustRegister(OperationsTotal)
	prometheus.MustRegister(OperationsFailed)
	prometheus.MustRegister(CacheHits)
	prometheus.MustRegister(CacheMisses)
	prometheus.MustRegister(WorkerQueueDepth)
}
