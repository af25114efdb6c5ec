package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus registry and the client meters.
type Metrics struct {
	Registry            *prometheus.Registry
	RequestDuration     *prometheus.HistogramVec
	RequestTotal        *prometheus.CounterVec
	TransportSwaps      prometheus.Counter
	CleanupFailures     *prometheus.CounterVec
	ActiveSubscriptions *prometheus.GaugeVec
}

// NewMetrics creates a custom Prometheus registry with the standard web3 client metrics.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	reqDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "web3_request_duration_seconds",
		Help:    "Duration of JSON-RPC requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"transport", "method"})

	reqTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "web3_request_total",
		Help: "Total number of JSON-RPC requests.",
	}, []string{"transport", "status"})

	swaps := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "web3_transport_swaps_total",
		Help: "Total number of completed transport swaps.",
	})

	cleanupFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "web3_transport_cleanup_failures_total",
		Help: "Subscription cleanups that failed while swapping transports.",
	}, []string{"transport"})

	subs := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "web3_active_subscriptions",
		Help: "Live subscriptions per transport kind.",
	}, []string{"transport"})

	reg.MustRegister(reqDuration, reqTotal, swaps, cleanupFailures, subs)

	return &Metrics{
		Registry:            reg,
		RequestDuration:     reqDuration,
		RequestTotal:        reqTotal,
		TransportSwaps:      swaps,
		CleanupFailures:     cleanupFailures,
		ActiveSubscriptions: subs,
	}
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// Default returns the process-wide metrics used when no explicit instance is configured.
func Default() *Metrics {
	defaultOnce.Do(func() {
		defaultMetrics = NewMetrics()
	})
	return defaultMetrics
}
