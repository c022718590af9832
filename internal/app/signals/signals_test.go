package signals

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChan_Wait(t *testing.T) {
	t.Run("first signal wins", func(t *testing.T) {
		quit := make(chan os.Signal, 2)
		quit <- os.Interrupt
		quit <- os.Kill

		sig, err := Chan(quit).Wait(t.Context())
		require.NoError(t, err)
		assert.Equal(t, os.Interrupt, sig)
	})

	t.Run("context cancelled", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
		defer cancel()

		sig, err := Chan(make(chan os.Signal)).Wait(ctx)
		assert.Nil(t, sig)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestStopSignals(t *testing.T) {
	assert.Contains(t, stopSignals(), os.Interrupt)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "interrupt", Describe(os.Interrupt))
	assert.Equal(t, os.Kill.String(), Describe(os.Kill))
}
