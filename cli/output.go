package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/pkg/errors"
)

const (
	outputFormatTable = "table"
	outputFormatYAML  = "yaml"
	outputFormatJSON  = "json"
)

func validateOutputFormat(outputFormat string) error {
	switch strings.ToLower(outputFormat) {
	case outputFormatTable:
	case outputFormatYAML:
	case outputFormatJSON:
	default:
		return errors.Errorf("unknown output format %q", outputFormat)
	}
	return nil
}

// isTableOutput returns true if the given format calls for human-readable
// output. Empty results are only worth a sentence in that case; structured
// formats always get a document.
func isTableOutput(outputFormat string) bool {
	return strings.EqualFold(outputFormat, outputFormatTable)
}

// printOutput writes obj to w in the given format. The table function is
// only invoked for table output and usually returns a *uitable.Table.
func printOutput(
	w io.Writer,
	outputFormat string,
	obj interface{},
	table func() fmt.Stringer,
) error {
	switch strings.ToLower(outputFormat) {
	case outputFormatTable:
		fmt.Fprintln(w, table())
	case outputFormatYAML:
		yamlBytes, err := yaml.Marshal(obj)
		if err != nil {
			return errors.Wrap(err, "error formatting output")
		}
		fmt.Fprint(w, string(yamlBytes))
	case outputFormatJSON:
		prettyJSON, err := json.MarshalIndent(obj, "", "  ")
		if err != nil {
			return errors.Wrap(err, "error formatting output")
		}
		fmt.Fprintln(w, string(prettyJSON))
	default:
		return errors.Errorf("unknown output format %q", outputFormat)
	}
	return nil
}

func formatAmount(amount float64, currency string) string {
	if currency == "" {
		return fmt.Sprintf("%.2f", amount)
	}
	return fmt.Sprintf("%.2f %s", amount, currency)
}
