package main

import (
	"fmt"
	"os"

	"github.com/krancour/kurban/internal/signals"
	"github.com/krancour/kurban/internal/version"
	"github.com/urfave/cli/v2"
)

func main() {
	app := newApp()
	fmt.Println()
	if err := app.RunContext(signals.Context(), os.Args); err != nil {
		fmt.Printf("\n%s\n\n", err)
		os.Exit(1)
	}
	fmt.Println()
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "kurban"
	app.Usage = "Administer the Kurban donation platform"
	app.Version = fmt.Sprintf(
		"%s -- commit %s",
		version.Version(),
		version.Commit(),
	)
	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    flagInsecure,
			Aliases: []string{"k"},
			Usage:   "Allow insecure API server connections when using TLS",
		},
		&cli.StringFlag{
			Name: flagLogLevel,
			Usage: "Log at the specified level; one of: trace, debug, info, " +
				"warn, error; overrides KURBAN_LOG_LEVEL",
		},
	}
	app.Before = setup
	app.After = teardown
	app.Commands = []*cli.Command{
		auditCommand,
		broadcastCommand,
		loginCommand,
		logoutCommand,
		metricsCommand,
		overviewCommand,
		whoamiCommand,
	}
	return app
}
