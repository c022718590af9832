package probe

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// WaitReady runs checker every interval until it succeeds or maxElapsed has
// passed.
func WaitReady(ctx context.Context, checker Checker, interval, maxElapsed time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, maxElapsed)
	defer cancel()

	var lastErr error
	err := backoff.RetryNotify(
		func() error {
			lastErr = checker.Check(ctx)
			return lastErr
		},
		backoff.WithContext(backoff.NewConstantBackOff(interval), ctx),
		func(err error, next time.Duration) {
			slog.Debug("Probe failed, retrying", "next", next.String(), "error", err)
		},
	)
	if err != nil {
		if lastErr == nil {
			lastErr = err
		}
		return fmt.Errorf("not ready after %s: %w", maxElapsed, lastErr)
	}
	return nil
}
