package app

import (
	"context"
	"fmt"

	"github.com/dimspell/svctemplate/internal/app/action"
	"github.com/dimspell/svctemplate/internal/app/logger"
	"github.com/urfave/cli/v3"
)

const appName = "svctemplate"

func NewApp(version, commit, buildDate string) *cli.Command {
	app := &cli.Command{
		Name:  appName,
		Usage: "HTTP service with health and greeting endpoints",
		Version: fmt.Sprintf(
			"%s (revision: %s) built on %s",
			version,
			shortRevision(commit),
			buildDate,
		),
		Flags: logger.Flags(),
	}

	// Setup function
	var closers []logger.CleanupFunc
	app.Before = func(ctx context.Context, c *cli.Command) (context.Context, error) {
		closer, err := logger.InitDefaultLogger(c)
		if err != nil {
			return ctx, err
		}
		closers = append(closers, closer)
		return ctx, nil
	}

	// Cleanup function
	app.After = func(_ context.Context, _ *cli.Command) error {
		for _, closer := range closers {
			_ = closer()
		}
		return nil
	}

	app.Commands = append(app.Commands,
		action.RunCommand(version),
		action.ProbeCommand(),
	)

	return app
}
