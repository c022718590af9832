package action

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/dimspell/svctemplate/internal/app/logger/logging"
	"github.com/dimspell/svctemplate/internal/app/signals"
	"github.com/dimspell/svctemplate/internal/config"
	"github.com/dimspell/svctemplate/internal/lifecycle"
	"github.com/dimspell/svctemplate/internal/metrics"
	"github.com/dimspell/svctemplate/internal/service"
	"github.com/kelindar/event"
	"github.com/urfave/cli/v3"
)

func RunCommand(version string) *cli.Command {
	cmd := &cli.Command{
		Name:  "run",
		Usage: "Start the HTTP service",
		Description: fmt.Sprintf(
			"Serve on the port from %s (default %d) until SIGINT or SIGTERM.",
			config.PortEnvVar, config.DefaultPort,
		),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:      "config",
				Usage:     "Path to the YAML config document; defaults apply when empty",
				TakesFile: true,
				Sources:   cli.EnvVars(config.PathEnvVar),
			},
			&cli.StringSliceFlag{
				Name:    "cors-origin",
				Usage:   "Origins allowed to call the /api routes",
				Value:   defaultCORSAllowedOrigins,
				Sources: cli.EnvVars(config.CORSOriginsEnvVar),
			},
		},
	}

	cmd.Action = func(ctx context.Context, c *cli.Command) error {
		// Trap before binding, so no stop signal can skip the drain.
		stop := signals.NewNotify()
		defer stop.Stop()

		r := &runner{
			version:         version,
			host:            defaultHost,
			configPath:      c.String("config"),
			corsOrigins:     c.StringSlice("cors-origin"),
			lookupEnv:       os.LookupEnv,
			stop:            stop,
			shutdownTimeout: defaultShutdownTimeout,
		}
		return r.run(ctx)
	}

	return cmd
}

type runner struct {
	version         string
	host            string
	configPath      string
	corsOrigins     []string
	lookupEnv       config.LookupEnvFunc
	stop            signals.Waiter
	shutdownTimeout time.Duration

	// Optional hooks, used by tests.
	wrapHandler func(http.Handler) http.Handler
	onStarted   func(*lifecycle.Handle)
}

func (r *runner) run(ctx context.Context) error {
	port, err := config.PortFromEnv(r.lookupEnv)
	if err != nil {
		return err
	}
	cfg, err := config.Load(r.configPath)
	if err != nil {
		return err
	}

	opts := []service.Option{service.WithServiceConfig(cfg), service.WithVersion(r.version)}
	if len(r.corsOrigins) > 0 {
		opts = append(opts, service.WithCORSAllowedOrigins(r.corsOrigins))
	}
	svc, err := service.New(opts...)
	if err != nil {
		return err
	}

	ln, err := lifecycle.Listen(ctx, r.host, port)
	if err != nil {
		return err
	}
	slog.Info("Starting service", logging.Addr(ln.Addr()), "version", r.version, "instanceId", svc.InstanceID)

	events := event.NewDispatcher()
	defer metrics.TrackServerState(events)()

	var handler http.Handler = svc.HttpRouter()
	if r.wrapHandler != nil {
		handler = r.wrapHandler(handler)
	}
	handle := lifecycle.Start(ln, handler, lifecycle.WithEvents(events))
	if r.onStarted != nil {
		r.onStarted(handle)
	}

	r.waitForStopRequest(ctx, handle)

	if err := handle.RequestShutdown(); err != nil {
		slog.Warn("Could not request shutdown", logging.Error(err))
	}

	if err := handle.Await(r.shutdownTimeout); err != nil {
		if errors.Is(err, lifecycle.ErrTimedOut) {
			return fmt.Errorf("service shutdown timed out after %s: %w", r.shutdownTimeout, err)
		}
		slog.Error("Error during service shutdown", logging.Error(err))
		return err
	}

	slog.Info("Service shut down gracefully")
	return nil
}

// waitForStopRequest returns on the first of: a stop signal, ctx being done,
// or the server exiting on its own.
func (r *runner) waitForStopRequest(ctx context.Context, handle *lifecycle.Handle) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-handle.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	sig, err := r.stop.Wait(ctx)
	switch {
	case err == nil:
		slog.Info("Stop signal received, shutting down service", "signal", sig.String(), "kind", signals.Describe(sig))
	case handle.Err() != nil:
		slog.Error("Server stopped unexpectedly", logging.Error(handle.Err()))
	default:
		slog.Info("Context cancelled, shutting down service", logging.Error(err))
	}
}
