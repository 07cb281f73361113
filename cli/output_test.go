package main

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/gosuri/uitable"
	"github.com/stretchr/testify/require"
)

func TestValidateOutputFormat(t *testing.T) {
	for _, format := range []string{"table", "yaml", "json", "JSON", "Table"} {
		require.NoError(t, validateOutputFormat(format), format)
	}
	require.Error(t, validateOutputFormat("xml"))
	require.Error(t, validateOutputFormat(""))
}

func TestPrintOutput(t *testing.T) {
	obj := struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}{
		Name:  "koç",
		Count: 7,
	}
	testCases := []struct {
		format   string
		expected string
	}{
		{
			format:   "json",
			expected: "{\n  \"name\": \"koç\",\n  \"count\": 7\n}\n",
		},
		{
			format:   "yaml",
			expected: "count: 7\nname: koç\n",
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.format, func(t *testing.T) {
			buf := &bytes.Buffer{}
			require.NoError(
				t,
				printOutput(
					buf,
					testCase.format,
					obj,
					func() fmt.Stringer {
						require.FailNow(t, "table should not be rendered")
						return nil
					},
				),
			)
			require.Equal(t, testCase.expected, buf.String())
		})
	}
	t.Run("table", func(t *testing.T) {
		buf := &bytes.Buffer{}
		require.NoError(
			t,
			printOutput(
				buf,
				"table",
				obj,
				func() fmt.Stringer {
					table := uitable.New()
					table.AddRow("NAME", "COUNT")
					table.AddRow(obj.Name, obj.Count)
					return table
				},
			),
		)
		require.Contains(t, buf.String(), "NAME")
		require.Contains(t, buf.String(), "koç")
	})
	t.Run("unknown", func(t *testing.T) {
		require.Error(t, printOutput(&bytes.Buffer{}, "xml", obj, nil))
	})
}

func TestFormatAmount(t *testing.T) {
	require.Equal(t, "1250.50 TRY", formatAmount(1250.5, "TRY"))
	require.Equal(t, "3.00", formatAmount(3, ""))
}
