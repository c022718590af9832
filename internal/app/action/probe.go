package action

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/dimspell/svctemplate/internal/config"
	"github.com/dimspell/svctemplate/internal/probe"
	"github.com/urfave/cli/v3"
)

// ProbeCommand checks the health endpoint of a running service. It is meant
// for container health checks, where the exit code is all that matters.
func ProbeCommand() *cli.Command {
	cmd := &cli.Command{
		Name:  "probe",
		Usage: "Check the health endpoint of a running service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "url",
				Usage: fmt.Sprintf("Health endpoint (default: http://%s:$%s/health)", defaultProbeHost, config.PortEnvVar),
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: defaultProbeTimeout,
				Usage: "Timeout of a single check",
			},
			&cli.DurationFlag{
				Name:  "wait",
				Usage: "Keep retrying until the service is ready or the duration has passed",
			},
		},
	}

	cmd.Action = func(ctx context.Context, c *cli.Command) error {
		url := c.String("url")
		if url == "" {
			port, err := config.PortFromEnv(os.LookupEnv)
			if err != nil {
				return err
			}
			url = healthURL(defaultProbeHost, port)
		}

		checker := probe.NewHTTPHealthChecker(url)
		checker.Client.Timeout = c.Duration("timeout")

		if wait := c.Duration("wait"); wait > 0 {
			return probe.WaitReady(ctx, checker, 100*time.Millisecond, wait)
		}
		return checker.Check(ctx)
	}

	return cmd
}

func healthURL(host string, port uint16) string {
	return "http://" + net.JoinHostPort(host, strconv.FormatUint(uint64(port), 10)) + "/health"
}
