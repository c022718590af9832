// Package lifecycletest starts a server on an ephemeral port for end-to-end
// tests and tears it down with the same bounds the tests assert on.
package lifecycletest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/dimspell/svctemplate/internal/config"
	"github.com/dimspell/svctemplate/internal/lifecycle"
	"github.com/dimspell/svctemplate/internal/probe"
	"github.com/dimspell/svctemplate/internal/service"
)

const (
	ReadyTimeout    = 5 * time.Second
	ShutdownTimeout = 5 * time.Second

	readyInterval = 50 * time.Millisecond
	healthPath    = "/health"
)

// Container bundles a running server with its base URL.
type Container struct {
	baseURL *url.URL
	handle  *lifecycle.Handle
}

// Setup binds 127.0.0.1:0, starts handler and polls GET /health until it
// answers 200. When the server is not ready within ReadyTimeout it is shut
// down and an error is returned.
func Setup(ctx context.Context, handler http.Handler, opts ...lifecycle.Option) (*Container, error) {
	ln, err := lifecycle.Listen(ctx, "127.0.0.1", 0)
	if err != nil {
		return nil, fmt.Errorf("bind test listener: %w", err)
	}

	baseURL := &url.URL{Scheme: "http", Host: ln.Addr().String()}
	c := &Container{
		baseURL: baseURL,
		handle:  lifecycle.Start(ln, handler, opts...),
	}

	checker := probe.NewHTTPHealthChecker(c.URL(healthPath))
	if err := probe.WaitReady(ctx, checker, readyInterval, ReadyTimeout); err != nil {
		_ = c.Shutdown()
		return nil, fmt.Errorf("server was not ready in time: %w", err)
	}
	return c, nil
}

// SetupService builds a Service from cfg and opts and starts it with Setup.
func SetupService(ctx context.Context, cfg config.ServiceConfig, opts ...service.Option) (*Container, error) {
	svc, err := service.New(append([]service.Option{service.WithServiceConfig(cfg)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("build service: %w", err)
	}
	return Setup(ctx, svc.HttpRouter())
}

// Shutdown requests a graceful shutdown and waits up to ShutdownTimeout.
// Calling it again after the server stopped returns
// lifecycle.ErrServerStopped.
func (c *Container) Shutdown() error {
	if err := c.handle.RequestShutdown(); err != nil {
		return err
	}
	if err := c.handle.Await(ShutdownTimeout); err != nil {
		return fmt.Errorf("server did not shut down cleanly: %w", err)
	}
	return nil
}

// URL resolves path against the server base URL.
func (c *Container) URL(path string) string {
	return c.baseURL.JoinPath(path).String()
}

func (c *Container) Addr() string { return c.baseURL.Host }

func (c *Container) Handle() *lifecycle.Handle { return c.handle }
