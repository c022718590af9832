//go:build unix

package signals

import (
	"os"

	"golang.org/x/sys/unix"
)

func stopSignals() []os.Signal {
	return []os.Signal{os.Interrupt, unix.SIGTERM}
}

func isTermination(sig os.Signal) bool {
	return sig == unix.SIGTERM
}
