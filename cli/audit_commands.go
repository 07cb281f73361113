package main

import (
	"fmt"
	"time"

	"github.com/gosuri/uitable"
	"github.com/krancour/kurban/sdk/admin"
	"github.com/krancour/kurban/sdk/authx"
	"github.com/urfave/cli/v2"
)

var auditCommand = &cli.Command{
	Name:  "audit",
	Usage: "Review the audit log",
	Subcommands: []*cli.Command{
		{
			Name:  "list",
			Usage: "Show the most recent audit log entries",
			Flags: []cli.Flag{
				cliFlagOutput,
				cliFlagSize,
			},
			Action: auditList,
		},
	},
}

func auditList(c *cli.Context) error {
	output := c.String(flagOutput)

	if err := validateOutputFormat(output); err != nil {
		return err
	}

	client, err := getAuthorizedClient(c, authx.RoleAdmin, authx.RoleAuditor)
	if err != nil {
		return err
	}

	logs, err := client.Admin().AuditLogs().List(
		c.Context,
		&admin.AuditLogListOptions{
			Size: c.Int(flagSize),
		},
	)
	if err != nil {
		return err
	}

	if len(logs.Items) == 0 && isTableOutput(output) {
		fmt.Fprintln(c.App.Writer, "No audit log entries found.")
		return nil
	}

	return printOutput(
		c.App.Writer,
		output,
		logs,
		func() fmt.Stringer {
			return auditLogTable(logs)
		},
	)
}

func auditLogTable(logs admin.AuditLogList) *uitable.Table {
	table := uitable.New()
	table.AddRow("TIME", "ACTOR", "ACTION", "TARGET", "IP ADDRESS")
	for _, entry := range logs.Items {
		table.AddRow(
			entry.CreatedAt.Local().Format(time.RFC822),
			entry.Actor,
			entry.Action,
			entry.Target,
			entry.IPAddress,
		)
	}
	return table
}
