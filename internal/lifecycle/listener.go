package lifecycle

import (
	"context"
	"fmt"
	"net"
	"strconv"
)

// Listen binds a TCP listener on host:port. An empty host binds every
// interface, port 0 picks an ephemeral port.
func Listen(ctx context.Context, host string, port uint16) (net.Listener, error) {
	addr := net.JoinHostPort(host, strconv.FormatUint(uint64(port), 10))

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to bind %s: %w", addr, err)
	}
	return ln, nil
}
