package action

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/dimspell/svctemplate/internal/app/signals"
	"github.com/dimspell/svctemplate/internal/config"
	"github.com/dimspell/svctemplate/internal/lifecycle"
	"github.com/dimspell/svctemplate/internal/probe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError})))
}

func helperRunner(env map[string]string, quit chan os.Signal) (*runner, <-chan *lifecycle.Handle) {
	started := make(chan *lifecycle.Handle, 1)
	r := &runner{
		version: "test",
		host:    "127.0.0.1",
		lookupEnv: func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		},
		stop:            signals.Chan(quit),
		shutdownTimeout: 5 * time.Second,
		onStarted: func(h *lifecycle.Handle) {
			started <- h
		},
	}
	return r, started
}

func helperStarted(t *testing.T, started <-chan *lifecycle.Handle) *lifecycle.Handle {
	t.Helper()

	select {
	case h := <-started:
		return h
	case <-time.After(5 * time.Second):
		t.Fatal("service did not start")
		return nil
	}
}

func helperHealthURL(h *lifecycle.Handle) string {
	return "http://" + h.Addr().String() + "/health"
}

func TestRunner(t *testing.T) {
	t.Run("stops on signal", func(t *testing.T) {
		quit := make(chan os.Signal, 1)
		r, started := helperRunner(map[string]string{config.PortEnvVar: "0"}, quit)

		result := make(chan error, 1)
		go func() { result <- r.run(t.Context()) }()

		h := helperStarted(t, started)
		require.NoError(t, probe.WaitReady(t.Context(), probe.NewHTTPHealthChecker(helperHealthURL(h)), 50*time.Millisecond, 5*time.Second))

		quit <- os.Interrupt

		select {
		case err := <-result:
			assert.NoError(t, err)
		case <-time.After(10 * time.Second):
			t.Fatal("run did not return after the stop signal")
		}
		assert.Equal(t, lifecycle.StateStopped, h.State())
	})

	t.Run("stops when the context is cancelled", func(t *testing.T) {
		r, started := helperRunner(map[string]string{config.PortEnvVar: "0"}, make(chan os.Signal))

		ctx, cancel := context.WithCancel(t.Context())
		result := make(chan error, 1)
		go func() { result <- r.run(ctx) }()

		h := helperStarted(t, started)
		cancel()

		assert.NoError(t, <-result)
		assert.Equal(t, lifecycle.StateStopped, h.State())
	})

	t.Run("reports a shutdown that exceeds the bound", func(t *testing.T) {
		quit := make(chan os.Signal, 1)
		r, started := helperRunner(map[string]string{config.PortEnvVar: "0"}, quit)
		r.shutdownTimeout = 100 * time.Millisecond

		release := make(chan struct{})
		entered := make(chan struct{})
		r.wrapHandler = func(next http.Handler) http.Handler {
			mux := http.NewServeMux()
			mux.Handle("/", next)
			mux.HandleFunc("GET /slow", func(w http.ResponseWriter, r *http.Request) {
				close(entered)
				<-release
			})
			return mux
		}

		result := make(chan error, 1)
		go func() { result <- r.run(t.Context()) }()

		h := helperStarted(t, started)
		go func() {
			client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
			if res, err := client.Get("http://" + h.Addr().String() + "/slow"); err == nil {
				_ = res.Body.Close()
			}
		}()
		<-entered

		quit <- os.Interrupt
		err := <-result
		assert.ErrorIs(t, err, lifecycle.ErrTimedOut)
		assert.ErrorContains(t, err, "service shutdown timed out")

		// The server is left draining, not killed.
		assert.Equal(t, lifecycle.StateDraining, h.State())
		close(release)
		assert.NoError(t, h.Await(5*time.Second))
	})

	t.Run("serves the configured CORS origins", func(t *testing.T) {
		r, started := helperRunner(map[string]string{config.PortEnvVar: "0"}, make(chan os.Signal))
		r.corsOrigins = []string{"https://lobby.example"}

		ctx, cancel := context.WithCancel(t.Context())
		result := make(chan error, 1)
		go func() { result <- r.run(ctx) }()

		h := helperStarted(t, started)
		require.NoError(t, probe.WaitReady(t.Context(), probe.NewHTTPHealthChecker(helperHealthURL(h)), 50*time.Millisecond, 5*time.Second))

		preflight := func(origin string) string {
			req, err := http.NewRequestWithContext(t.Context(), http.MethodOptions, "http://"+h.Addr().String()+"/api/v1/hello", nil)
			require.NoError(t, err)
			req.Header.Set("Origin", origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)

			client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
			res, err := client.Do(req)
			require.NoError(t, err)
			defer res.Body.Close()
			return res.Header.Get("Access-Control-Allow-Origin")
		}
		assert.Equal(t, "https://lobby.example", preflight("https://lobby.example"))
		assert.Empty(t, preflight("https://elsewhere.example"))

		cancel()
		assert.NoError(t, <-result)
	})

	t.Run("rejects a malformed port", func(t *testing.T) {
		r, started := helperRunner(map[string]string{config.PortEnvVar: "eighty"}, nil)

		err := r.run(t.Context())
		assert.ErrorIs(t, err, strconv.ErrSyntax)
		assert.Empty(t, started)
	})

	t.Run("rejects an invalid config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("svc:\n  svc-template:\n    hello-name: x\n"), 0o600))

		r, started := helperRunner(map[string]string{config.PortEnvVar: "0"}, nil)
		r.configPath = path

		err := r.run(t.Context())
		assert.ErrorContains(t, err, "invalid config")
		assert.Empty(t, started)
	})
}

func TestRunCommand_Flags(t *testing.T) {
	cmd := RunCommand("test")

	var names []string
	for _, flag := range cmd.Flags {
		names = append(names, flag.Names()...)
	}
	assert.ElementsMatch(t, []string{"config", "cors-origin"}, names)
}

func TestHealthURL(t *testing.T) {
	assert.Equal(t, "http://127.0.0.1:8080/health", healthURL("127.0.0.1", 8080))
}
