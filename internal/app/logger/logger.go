package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"
)

const (
	FlagLogLevel  = "log-level"
	FlagLogFormat = "log-format"
	FlagLogFile   = "log-file"
	FlagNoColor   = "no-color"
)

// logLevels maps log level names to slog.Level values.
var logLevels = map[string]slog.Level{
	"trace":   slog.LevelDebug,
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
	"fatal":   slog.LevelError,
}

// CleanupFunc is a function that can be deferred to clean up resources.
type CleanupFunc func() error

// Flags returns the root flags read by InitDefaultLogger.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  FlagLogLevel,
			Value: "info",
			Usage: "Log level (debug, info, warn, error)",
		},
		&cli.StringFlag{
			Name:  FlagLogFormat,
			Value: "text",
			Usage: "Log format (text, json)",
		},
		&cli.StringFlag{
			Name:  FlagLogFile,
			Usage: "Log file path",
		},
		&cli.BoolFlag{
			Name:  FlagNoColor,
			Usage: "Disable colors in log output",
		},
	}
}

func ParseLevel(name string) (slog.Level, error) {
	level, ok := logLevels[strings.ToLower(name)]
	if !ok {
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s", name)
	}
	return level, nil
}

// InitDefaultLogger replaces the default slog logger using the root flags.
func InitDefaultLogger(cmd *cli.Command) (CleanupFunc, error) {
	deferred := io.NopCloser(nil).Close

	logLevel, err := ParseLevel(cmd.String(FlagLogLevel))
	if err != nil {
		return deferred, err
	}

	w := os.Stderr
	if path := cmd.String(FlagLogFile); path != "" {
		w, err = os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
		if err != nil {
			return deferred, err
		}
		deferred = w.Close
	}

	switch strings.ToLower(cmd.String(FlagLogFormat)) {
	case "text":
		slog.SetDefault(slog.New(NewColoredHandler(w, logLevel, cmd.Bool(FlagNoColor))))
	case "json":
		slog.SetDefault(slog.New(NewJSONHandler(w, logLevel)))
	default:
		return deferred, fmt.Errorf("invalid log format: %s", cmd.String(FlagLogFormat))
	}

	return deferred, nil
}

// NewColoredHandler writes tinted text. Colors are dropped when w is not a
// terminal, when NO_COLOR is set or when forceNoColor is true.
func NewColoredHandler(w *os.File, logLevel slog.Level, forceNoColor bool) slog.Handler {
	return tint.NewHandler(
		colorable.NewColorable(w),
		&tint.Options{
			Level:      logLevel,
			TimeFormat: time.TimeOnly,
			NoColor:    !isatty.IsTerminal(w.Fd()) || os.Getenv("NO_COLOR") != "" || forceNoColor,
			AddSource:  logLevel == slog.LevelDebug,
		},
	)
}

func NewJSONHandler(w io.Writer, logLevel slog.Level) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource: logLevel == slog.LevelDebug,
		Level:     logLevel,
	})
}
