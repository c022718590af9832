// Package lifecycle runs a single HTTP server on a background goroutine and
// coordinates its graceful shutdown.
//
// Start moves the listener into the server goroutine and returns a Handle.
// The Handle is the only way to reach the server afterwards: RequestShutdown
// stops accepting new connections and lets in-flight requests finish, Wait
// and Await block until the server goroutine has returned.
//
// Shutdown is graceful only. When Await gives up it reports ErrTimedOut and
// leaves the server goroutine running; nothing interrupts a request that is
// already being served.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/dimspell/svctemplate/internal/app/logger/logging"
	"github.com/kelindar/event"
)

var (
	// ErrServerStopped is returned by RequestShutdown when the server
	// goroutine has already returned.
	ErrServerStopped = errors.New("server already stopped")

	// ErrShutdownRequested is returned by every RequestShutdown after the
	// first one while the server is still draining.
	ErrShutdownRequested = errors.New("shutdown already requested")

	// ErrTimedOut is returned by Wait and Await when the server did not stop
	// within the bound.
	ErrTimedOut = errors.New("timed out waiting for server to stop")
)

// Handle is the completion token and the shutdown trigger of one server.
type Handle struct {
	addr   net.Addr
	server *http.Server
	events *event.Dispatcher

	cancel    context.CancelFunc
	requested atomic.Bool
	state     atomic.Int32

	done chan struct{}
	err  error
}

// Start serves handler on listener in a new goroutine and returns without
// blocking. The caller must not use listener afterwards.
func Start(listener net.Listener, handler http.Handler, opts ...Option) *Handle {
	if listener == nil {
		panic("lifecycle: nil listener")
	}
	if handler == nil {
		panic("lifecycle: nil handler")
	}

	cfg := DefaultConfig()
	for _, fn := range opts {
		fn(cfg)
	}
	events := cfg.Events
	if events == nil {
		events = event.NewDispatcher()
	}

	// Cleartext HTTP/2 is served by net/http itself so that Shutdown keeps
	// tracking those connections until their streams finish.
	protocols := new(http.Protocols)
	protocols.SetHTTP1(true)
	protocols.SetUnencryptedHTTP2(true)

	ctx, cancel := context.WithCancel(context.Background())
	h := &Handle{
		addr: listener.Addr(),
		server: &http.Server{
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
			ErrorLog:          slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
			Protocols:         protocols,
		},
		events: events,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	h.transition(StateAccepting, nil)
	go h.run(ctx, listener)

	return h
}

func (h *Handle) run(ctx context.Context, listener net.Listener) {
	defer close(h.done)
	defer h.cancel()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- h.server.Serve(listener)
	}()

	var err error
	select {
	case <-ctx.Done():
		h.transition(StateDraining, nil)

		// Shutdown closes the listener first, which unblocks Accept, then
		// waits for the active connections without a deadline. The bound
		// is enforced by whoever awaits the Handle.
		shutdownErr := h.server.Shutdown(context.Background())
		if err = <-serveErr; errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		err = errors.Join(err, shutdownErr)

	case err = <-serveErr:
		// Claim the request flag before done is closed, so no later
		// RequestShutdown can report success for a server that is gone.
		h.requested.Store(true)
		err = fmt.Errorf("server stopped unexpectedly: %w", err)
	}

	h.err = err
	h.transition(StateStopped, err)
}

func (h *Handle) transition(to State, err error) {
	from := State(h.state.Swap(int32(to)))

	if err != nil {
		slog.Error("Server state changed", logging.Addr(h.addr), logging.State(to.String()), logging.Error(err))
	} else {
		slog.Info("Server state changed", logging.Addr(h.addr), logging.State(to.String()))
	}

	event.Publish(h.events, StateChanged{
		Addr: h.addr.String(),
		From: from,
		To:   to,
		Err:  err,
	})
}

// RequestShutdown asks the server to stop accepting connections and drain.
// Only the first call has an effect; it returns ErrServerStopped when there
// is no server left to stop and ErrShutdownRequested while a stop is already
// under way. Both are safe to log and ignore.
//
// A nil error means the request was accepted before the server goroutine
// began to exit. The server can still fail with a transport error while it
// drains; Wait reports that error.
func (h *Handle) RequestShutdown() error {
	if !h.requested.CompareAndSwap(false, true) {
		select {
		case <-h.done:
			return ErrServerStopped
		default:
			return ErrShutdownRequested
		}
	}
	h.cancel()
	return nil
}

// Wait blocks until the server goroutine returns or ctx is done. When ctx
// hits its deadline the error wraps ErrTimedOut.
func (h *Handle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return h.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: %w", ErrTimedOut, ctx.Err())
		}
		return ctx.Err()
	}
}

// Await is Wait bounded by timeout.
func (h *Handle) Await(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return h.Wait(ctx)
}

// Done is closed once the server goroutine has returned.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Err returns the completion error. It is only meaningful after Done is
// closed.
func (h *Handle) Err() error {
	select {
	case <-h.done:
		return h.err
	default:
		return nil
	}
}

func (h *Handle) State() State { return State(h.state.Load()) }

// Addr is the address the listener was bound to.
func (h *Handle) Addr() net.Addr { return h.addr }

// Events is the dispatcher StateChanged events are published on.
func (h *Handle) Events() *event.Dispatcher { return h.events }
