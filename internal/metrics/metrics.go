package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	startTime = time.Now()

	Uptime = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "svctemplate_uptime_seconds",
			Help: "Service uptime in seconds",
		}, func() float64 {
			return time.Since(startTime).Seconds()
		})

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "svctemplate_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status code",
		},
		[]string{"method", "route", "code"},
	)

	RequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "svctemplate_http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "svctemplate_http_request_duration_seconds",
			Help:    "Latency of HTTP requests in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"method", "route"},
	)
)

var registerOnce sync.Once

// InitService registers the service collectors with the default registry.
// It is safe to call more than once.
func InitService() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			Uptime,
			RequestsTotal,
			RequestsInFlight,
			RequestDuration,
			ServerState,
			ShutdownDuration,
		)
	})
}
