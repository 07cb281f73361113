package main

import (
	"github.com/krancour/kurban/sdk/admin"
	"github.com/urfave/cli/v2"
)

const (
	flagInsecure = "insecure"
	flagLogLevel = "log-level"
	flagOutput   = "output"
	flagPassword = "password"
	flagRange    = "range"
	flagServer   = "server"
	flagSize     = "size"
	flagUser     = "user"
)

var (
	cliFlagOutput = &cli.StringFlag{
		Name:    flagOutput,
		Aliases: []string{"o"},
		Usage: "Return output in the specified format; supported formats: table, " +
			"yaml, json",
		Value: "table",
	}
	cliFlagRange = &cli.StringFlag{
		Name:    flagRange,
		Aliases: []string{"r"},
		Usage: "Report over the specified lookback window; a positive number " +
			`followed by "d" (days), "w" (weeks) or "m" (months)`,
		Value: admin.DefaultDonationTrendRange,
	}
	cliFlagSize = &cli.IntFlag{
		Name:    flagSize,
		Aliases: []string{"n"},
		Usage:   "Retrieve the specified number of entries (at most 100)",
		Value:   admin.DefaultAuditLogPageSize,
	}
)
