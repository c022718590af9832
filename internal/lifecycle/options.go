package lifecycle

import (
	"time"

	"github.com/kelindar/event"
)

type Option func(*Config)

type Config struct {
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration

	// Events receives a StateChanged for every transition. Subscribe before
	// calling Start to observe StateAccepting.
	Events *event.Dispatcher
}

func DefaultConfig() *Config {
	return &Config{
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

func WithEvents(dispatcher *event.Dispatcher) Option {
	return func(c *Config) {
		c.Events = dispatcher
	}
}
