package probe

import (
	"context"
	"net"
	"time"
)

type TCPChecker struct {
	Timeout time.Duration
	Address string
}

func (c *TCPChecker) Check(ctx context.Context) error {
	dialer := net.Dialer{Timeout: c.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", c.Address)
	if err != nil {
		return err
	}
	_ = conn.Close()
	return nil
}
