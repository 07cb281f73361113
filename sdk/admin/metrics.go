package admin

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/krancour/kurban/sdk/internal/restmachinery"
	"github.com/krancour/kurban/sdk/meta"
	"github.com/xeipuuv/gojsonschema"
)

// DefaultDonationTrendRange is used when no range is specified.
const DefaultDonationTrendRange = "7d"

var donationTrendRangeRegex = regexp.MustCompile(`^[1-9][0-9]*[dwm]$`)

// MetricsSummary is a point-in-time snapshot of the platform's headline
// figures as shown on the admin dashboard.
type MetricsSummary struct {
	// TotalDonations is the sum of all completed donations, denominated in
	// Currency.
	TotalDonations float64 `json:"totalDonations"`
	// DonationCount is the number of completed donations.
	DonationCount int `json:"donationCount"`
	// DonorCount is the number of distinct donors.
	DonorCount int `json:"donorCount"`
	// SharesSold is the number of animal shares that have been paid for.
	SharesSold int `json:"sharesSold"`
	// SacrificesCompleted is the number of shares whose sacrifice has been
	// performed and confirmed.
	SacrificesCompleted int `json:"sacrificesCompleted"`
	// SacrificesPending is the number of paid shares still awaiting sacrifice.
	SacrificesPending int    `json:"sacrificesPending"`
	Currency          string `json:"currency,omitempty"`
	// GeneratedAt is when the backend computed the summary.
	GeneratedAt *time.Time `json:"generatedAt,omitempty"`
}

// DonationTrend is a time series of donation totals.
type DonationTrend struct {
	// Range is the lookback window the series covers, e.g. "7d", "4w" or "3m".
	Range  string               `json:"range"`
	Points []DonationTrendPoint `json:"points"`
}

// DonationTrendPoint is a single bucket of a DonationTrend.
type DonationTrendPoint struct {
	// Date identifies the bucket. It is formatted as YYYY-MM-DD.
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
	Count  int     `json:"count"`
}

// MetricsClient is the specialized client for dashboard metrics and
// donation reports.
type MetricsClient interface {
	// Summary returns the dashboard's headline figures.
	Summary(context.Context) (MetricsSummary, error)
	// DonationTrend returns donation totals over the given range. The range is
	// a positive count followed by d (days), w (weeks) or m (months). An empty
	// range means DefaultDonationTrendRange.
	DonationTrend(ctx context.Context, rng string) (DonationTrend, error)
}

type metricsClient struct {
	*restmachinery.BaseClient
	summarySchemaLoader       gojsonschema.JSONLoader
	donationTrendSchemaLoader gojsonschema.JSONLoader
}

// NewMetricsClient returns a specialized client for dashboard metrics and
// donation reports.
func NewMetricsClient(baseClient *restmachinery.BaseClient) MetricsClient {
	return &metricsClient{
		BaseClient: baseClient,
		summarySchemaLoader: gojsonschema.NewBytesLoader(
			metricsSummarySchemaBytes,
		),
		donationTrendSchemaLoader: gojsonschema.NewBytesLoader(
			donationTrendSchemaBytes,
		),
	}
}

func (m *metricsClient) Summary(ctx context.Context) (MetricsSummary, error) {
	summary := MetricsSummary{}
	return summary, m.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:      http.MethodGet,
			Path:        "admin/metrics/summary",
			SuccessCode: http.StatusOK,
			RespObj:     &summary,
			RespSchema:  m.summarySchemaLoader,
		},
	)
}

func (m *metricsClient) DonationTrend(
	ctx context.Context,
	rng string,
) (DonationTrend, error) {
	trend := DonationTrend{}
	rng = strings.ToLower(strings.TrimSpace(rng))
	if rng == "" {
		rng = DefaultDonationTrendRange
	}
	if !donationTrendRangeRegex.MatchString(rng) {
		return trend, &meta.ErrBadRequest{
			Reason: "invalid range",
			Details: []string{
				`range must be a positive number followed by "d", "w" or "m"`,
			},
		}
	}
	if err := m.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:      http.MethodGet,
			Path:        "admin/reports/donations",
			QueryParams: map[string]string{"range": rng},
			SuccessCode: http.StatusOK,
			RespObj:     &trend,
			RespSchema:  m.donationTrendSchemaLoader,
		},
	); err != nil {
		return trend, err
	}
	if trend.Range == "" {
		trend.Range = rng
	}
	return trend, nil
}

// nolint: lll
var metricsSummarySchemaBytes = []byte(`
{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["totalDonations", "donationCount"],
	"properties": {
		"totalDonations": { "type": "number", "minimum": 0 },
		"donationCount": { "type": "integer", "minimum": 0 },
		"donorCount": { "type": "integer", "minimum": 0 },
		"sharesSold": { "type": "integer", "minimum": 0 },
		"sacrificesCompleted": { "type": "integer", "minimum": 0 },
		"sacrificesPending": { "type": "integer", "minimum": 0 },
		"currency": { "type": ["string", "null"] },
		"generatedAt": {
			"oneOf": [
				{ "type": "string", "format": "date-time" },
				{ "type": "null" }
			]
		}
	}
}
`)

// nolint: lll
var donationTrendSchemaBytes = []byte(`
{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["points"],
	"properties": {
		"range": { "type": ["string", "null"] },
		"points": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["date", "amount"],
				"properties": {
					"date": { "type": "string", "minLength": 1 },
					"amount": { "type": "number" },
					"count": { "type": "integer", "minimum": 0 }
				}
			}
		}
	}
}
`)
