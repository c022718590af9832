//go:build !unix

package signals

import "os"

func stopSignals() []os.Signal {
	return []os.Signal{os.Interrupt}
}

func isTermination(os.Signal) bool { return false }
