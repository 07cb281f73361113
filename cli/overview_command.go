package main

import (
	"fmt"
	"strings"

	"github.com/krancour/kurban/sdk/admin"
	"github.com/krancour/kurban/sdk/authx"
	"github.com/urfave/cli/v2"
)

var overviewCommand = &cli.Command{
	Name:  "overview",
	Usage: "Show everything on the admin dashboard at once",
	Flags: []cli.Flag{
		cliFlagOutput,
	},
	Action: overview,
}

func overview(c *cli.Context) error {
	output := c.String(flagOutput)

	if err := validateOutputFormat(output); err != nil {
		return err
	}

	client, err := getAuthorizedClient(c, authx.RoleAdmin)
	if err != nil {
		return err
	}

	ov, err := client.Admin().Overview(c.Context)
	if err != nil {
		return err
	}

	return printOutput(
		c.App.Writer,
		output,
		ov,
		func() fmt.Stringer {
			return overviewTable(ov)
		},
	)
}

func overviewTable(ov admin.Overview) fmt.Stringer {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "SUMMARY\n%s\n\n", summaryTable(ov.Summary))
	fmt.Fprintf(
		sb,
		"DONATIONS (LAST %s)\n%s\n\n",
		ov.DonationTrend.Range,
		trendTable(ov.DonationTrend),
	)
	fmt.Fprintf(sb, "BROADCASTS\n%s\n\n", viewerAverageTable(ov.Broadcasts))
	fmt.Fprintf(
		sb,
		"RECENT AUDIT LOG (%d OF %d)\n%s",
		len(ov.RecentAuditLogs.Items),
		ov.RecentAuditLogs.Total,
		auditLogTable(ov.RecentAuditLogs),
	)
	return sb
}
