package action

import "time"

var (
	// Service
	defaultHost               = ""
	defaultShutdownTimeout    = 10 * time.Second
	defaultCORSAllowedOrigins = []string{"*"}

	// Probe
	defaultProbeHost    = "127.0.0.1"
	defaultProbeTimeout = 3 * time.Second
)
