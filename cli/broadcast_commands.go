package main

import (
	"fmt"

	"github.com/gosuri/uitable"
	"github.com/krancour/kurban/sdk/admin"
	"github.com/krancour/kurban/sdk/authx"
	"github.com/urfave/cli/v2"
)

var broadcastCommand = &cli.Command{
	Name:  "broadcast",
	Usage: "View live sacrifice broadcast reports",
	Subcommands: []*cli.Command{
		{
			Name:  "viewers",
			Usage: "Show average broadcast viewership",
			Flags: []cli.Flag{
				cliFlagOutput,
			},
			Action: broadcastViewers,
		},
	},
}

func broadcastViewers(c *cli.Context) error {
	output := c.String(flagOutput)

	if err := validateOutputFormat(output); err != nil {
		return err
	}

	client, err := getAuthorizedClient(
		c,
		authx.RoleAdmin,
		authx.RoleAnalyst,
		authx.RoleBroadcaster,
	)
	if err != nil {
		return err
	}

	avg, err := client.Admin().Broadcasts().ViewerAverage(c.Context)
	if err != nil {
		return err
	}

	return printOutput(
		c.App.Writer,
		output,
		avg,
		func() fmt.Stringer {
			return viewerAverageTable(avg)
		},
	)
}

func viewerAverageTable(avg admin.BroadcastViewerAverage) *uitable.Table {
	table := uitable.New()
	table.AddRow("BROADCASTS", "AVERAGE VIEWERS", "PEAK VIEWERS")
	table.AddRow(
		avg.BroadcastCount,
		fmt.Sprintf("%.1f", avg.AverageViewers),
		avg.PeakViewers,
	)
	return table
}
