package main

import (
	"fmt"

	"github.com/gosuri/uitable"
	"github.com/krancour/kurban/sdk/admin"
	"github.com/krancour/kurban/sdk/authx"
	"github.com/urfave/cli/v2"
)

var metricsRoles = []string{authx.RoleAdmin, authx.RoleAnalyst}

var metricsCommand = &cli.Command{
	Name:  "metrics",
	Usage: "View dashboard metrics and donation reports",
	Subcommands: []*cli.Command{
		{
			Name:  "summary",
			Usage: "Show headline donation and sacrifice figures",
			Flags: []cli.Flag{
				cliFlagOutput,
			},
			Action: metricsSummary,
		},
		{
			Name:  "trend",
			Usage: "Show donation totals over time",
			Flags: []cli.Flag{
				cliFlagOutput,
				cliFlagRange,
			},
			Action: metricsTrend,
		},
	},
}

func metricsSummary(c *cli.Context) error {
	output := c.String(flagOutput)

	if err := validateOutputFormat(output); err != nil {
		return err
	}

	client, err := getAuthorizedClient(c, metricsRoles...)
	if err != nil {
		return err
	}

	summary, err := client.Admin().Metrics().Summary(c.Context)
	if err != nil {
		return err
	}

	return printOutput(
		c.App.Writer,
		output,
		summary,
		func() fmt.Stringer {
			return summaryTable(summary)
		},
	)
}

func metricsTrend(c *cli.Context) error {
	output := c.String(flagOutput)

	if err := validateOutputFormat(output); err != nil {
		return err
	}

	client, err := getAuthorizedClient(c, metricsRoles...)
	if err != nil {
		return err
	}

	trend, err := client.Admin().Metrics().DonationTrend(
		c.Context,
		c.String(flagRange),
	)
	if err != nil {
		return err
	}

	if len(trend.Points) == 0 && isTableOutput(output) {
		fmt.Fprintf(
			c.App.Writer,
			"No donations in the last %s.\n",
			trend.Range,
		)
		return nil
	}

	return printOutput(
		c.App.Writer,
		output,
		trend,
		func() fmt.Stringer {
			return trendTable(trend)
		},
	)
}

func summaryTable(summary admin.MetricsSummary) *uitable.Table {
	table := uitable.New()
	table.AddRow(
		"DONATIONS",
		"TOTAL",
		"DONORS",
		"SHARES SOLD",
		"SACRIFICED",
		"PENDING",
	)
	table.AddRow(
		summary.DonationCount,
		formatAmount(summary.TotalDonations, summary.Currency),
		summary.DonorCount,
		summary.SharesSold,
		summary.SacrificesCompleted,
		summary.SacrificesPending,
	)
	return table
}

func trendTable(trend admin.DonationTrend) *uitable.Table {
	table := uitable.New()
	table.AddRow("DATE", "DONATIONS", "AMOUNT")
	for _, point := range trend.Points {
		table.AddRow(point.Date, point.Count, formatAmount(point.Amount, ""))
	}
	return table
}

