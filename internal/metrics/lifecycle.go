package metrics

import (
	"context"
	"time"

	"github.com/dimspell/svctemplate/internal/lifecycle"
	"github.com/kelindar/event"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ServerState = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "svctemplate_server_state",
			Help: "Lifecycle state of the HTTP server (1 accepting, 2 draining, 3 stopped)",
		},
	)

	ShutdownDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "svctemplate_server_shutdown_duration_seconds",
			Help:    "Time between a shutdown request and the server having drained",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
	)
)

// TrackServerState mirrors lifecycle.StateChanged events from dispatcher
// into ServerState and ShutdownDuration until the returned func is called.
func TrackServerState(dispatcher *event.Dispatcher) context.CancelFunc {
	var drainingSince time.Time

	return event.Subscribe(dispatcher, func(ev lifecycle.StateChanged) {
		ServerState.Set(float64(ev.To))

		switch ev.To {
		case lifecycle.StateDraining:
			drainingSince = time.Now()
		case lifecycle.StateStopped:
			if !drainingSince.IsZero() {
				ShutdownDuration.Observe(time.Since(drainingSince).Seconds())
			}
		}
	})
}
