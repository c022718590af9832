// Package signals turns process termination requests into a single
// blocking call, so callers never touch os/signal directly.
package signals

import (
	"context"
	"os"
	"os/signal"
)

// Waiter blocks until a stop request arrives or ctx is done.
type Waiter interface {
	Wait(ctx context.Context) (os.Signal, error)
}

// Notify traps stop signals from the moment it is created until Stop. The
// first signal is kept for Wait; later ones are absorbed, so a repeated
// Ctrl-C never reaches the default handler while the service drains.
type Notify struct {
	quit chan os.Signal
}

// NewNotify traps the interactive interrupt and the platform's termination
// signal.
func NewNotify() *Notify {
	return Trap(stopSignals()...)
}

// Trap starts trapping sigs.
func Trap(sigs ...os.Signal) *Notify {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, sigs...)
	return &Notify{quit: quit}
}

func (n *Notify) Wait(ctx context.Context) (os.Signal, error) {
	return Chan(n.quit).Wait(ctx)
}

// Stop gives the trapped signals back to their default handling.
func (n *Notify) Stop() {
	signal.Stop(n.quit)
}

// Chan waits for a value on the channel. Tests use it to inject signals.
type Chan <-chan os.Signal

func (c Chan) Wait(ctx context.Context) (os.Signal, error) {
	select {
	case sig := <-c:
		return sig, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Describe names the kind of stop request sig represents.
func Describe(sig os.Signal) string {
	if sig == os.Interrupt {
		return "interrupt"
	}
	if isTermination(sig) {
		return "termination"
	}
	return sig.String()
}
