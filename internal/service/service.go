package service

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dimspell/svctemplate/internal/config"
	"github.com/dimspell/svctemplate/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

func init() {
	metrics.InitService()
}

// Service holds the read-only state shared by every request handler.
type Service struct {
	Config     *Config
	InstanceID string
}

type Option func(*Config) error

type Config struct {
	HelloName          string
	Version            string
	CORSAllowedOrigins []string
	RequestTimeout     time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		HelloName:          config.DefaultHelloName,
		Version:            "dev",
		CORSAllowedOrigins: []string{"*"},
		RequestTimeout:     5 * time.Second,
	}
}

func WithServiceConfig(cfg config.ServiceConfig) Option {
	return func(c *Config) error {
		if cfg.HelloName == "" {
			return errors.New("empty hello name")
		}
		c.HelloName = cfg.HelloName
		return nil
	}
}

func WithVersion(version string) Option {
	return func(c *Config) error {
		c.Version = version
		return nil
	}
}

func WithCORSAllowedOrigins(allowedOrigins []string) Option {
	return func(c *Config) error {
		c.CORSAllowedOrigins = allowedOrigins
		return nil
	}
}

func WithRequestTimeout(timeout time.Duration) Option {
	return func(c *Config) error {
		if timeout <= 0 {
			return fmt.Errorf("request timeout must be positive, got %s", timeout)
		}
		c.RequestTimeout = timeout
		return nil
	}
}

func New(opts ...Option) (*Service, error) {
	cfg := DefaultConfig()
	for _, fn := range opts {
		if err := fn(cfg); err != nil {
			return nil, fmt.Errorf("failed to initialize config: %w", err)
		}
	}

	return &Service{
		Config:     cfg,
		InstanceID: uuid.New().String(),
	}, nil
}

func (s *Service) HttpRouter() http.Handler {
	mux := chi.NewRouter()

	mux.Use(middleware.RequestID)
	mux.Use(middleware.Recoverer)
	mux.Use(instrument)

	{ // Meta routes (health, metrics, instance info)
		mux.Get("/health", s.HealthCheck)
		mux.Get("/_metrics", promhttp.Handler().ServeHTTP)
		mux.Get("/.well-known/service.json", s.WellKnownInfo)
	}

	{ // Application routes
		api := chi.NewRouter()
		api.Use(middleware.Timeout(s.Config.RequestTimeout))
		api.Use(cors.New(cors.Options{
			AllowedOrigins:   s.Config.CORSAllowedOrigins,
			AllowCredentials: false,
			AllowedMethods: []string{
				http.MethodGet,
				http.MethodPost,
			},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         7200,
		}).Handler)

		api.Route("/v1", func(r chi.Router) {
			r.Route("/hello", s.helloRoutes)
		})
		mux.Mount("/api", api)
	}

	return mux
}
