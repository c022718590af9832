package logging

import (
	"log/slog"
	"net"
)

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.String("error", err.Error())
}

func Addr(addr net.Addr) slog.Attr {
	if addr == nil {
		return slog.String("addr", "")
	}
	return slog.String("addr", addr.String())
}

func State(state string) slog.Attr {
	return slog.String("state", state)
}
