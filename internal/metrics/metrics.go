package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the API
	Registry = prometheus.NewRegistry()
	// HTTPRequests counts requests by method, path, and status
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// OptimizeRuns counts route optimizations by outcome (ok, invalid, failed, busy)
	OptimizeRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "optimize_runs_total", Help: "Route optimizations by outcome."},
		[]string{"outcome"},
	)
	// OptimizeStops tracks the problem size of each optimization
	OptimizeStops = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "optimize_stops", Help: "Stops per optimization request.", Buckets: []float64{2, 5, 10, 25, 50, 100, 250, 500}},
	)
	// OptimizePasses tracks how many improvement passes each run needed
	OptimizePasses = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "optimize_passes", Help: "Improvement passes per optimization.", Buckets: []float64{0, 1, 2, 3, 5, 10, 25, 50}},
	)
	// OptimizeDuration records end-to-end solve time in seconds
	OptimizeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "optimize_duration_seconds", Help: "Optimization duration in seconds.", Buckets: prometheus.DefBuckets},
	)
)

// RegisterDefault registers collectors to the default registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(OptimizeRuns)
		Registry.MustRegister(OptimizeStops)
		Registry.MustRegister(OptimizePasses)
		Registry.MustRegister(OptimizeDuration)
		// Go/process collectors on our registry
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once
