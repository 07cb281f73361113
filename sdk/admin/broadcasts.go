package admin

import (
	"context"
	"net/http"

	"github.com/krancour/kurban/sdk/internal/restmachinery"
	"github.com/xeipuuv/gojsonschema"
)

// BroadcastViewerAverage summarizes live sacrifice broadcast viewership.
type BroadcastViewerAverage struct {
	// AverageViewers is the mean concurrent viewer count across broadcasts.
	AverageViewers float64 `json:"averageViewers"`
	// BroadcastCount is the number of broadcasts the average was taken over.
	BroadcastCount int `json:"broadcastCount"`
	// PeakViewers is the highest concurrent viewer count observed.
	PeakViewers int `json:"peakViewers"`
}

// BroadcastsClient is the specialized client for broadcast reports.
type BroadcastsClient interface {
	// ViewerAverage returns average viewership across broadcasts.
	ViewerAverage(context.Context) (BroadcastViewerAverage, error)
}

type broadcastsClient struct {
	*restmachinery.BaseClient
	viewerAverageSchemaLoader gojsonschema.JSONLoader
}

// NewBroadcastsClient returns a specialized client for broadcast reports.
func NewBroadcastsClient(
	baseClient *restmachinery.BaseClient,
) BroadcastsClient {
	return &broadcastsClient{
		BaseClient: baseClient,
		viewerAverageSchemaLoader: gojsonschema.NewBytesLoader(
			broadcastViewerAverageSchemaBytes,
		),
	}
}

func (b *broadcastsClient) ViewerAverage(
	ctx context.Context,
) (BroadcastViewerAverage, error) {
	avg := BroadcastViewerAverage{}
	return avg, b.ExecuteRequest(
		ctx,
		restmachinery.OutboundRequest{
			Method:      http.MethodGet,
			Path:        "admin/reports/broadcasts/viewers/average",
			SuccessCode: http.StatusOK,
			RespObj:     &avg,
			RespSchema:  b.viewerAverageSchemaLoader,
		},
	)
}

var broadcastViewerAverageSchemaBytes = []byte(`
{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["averageViewers"],
	"properties": {
		"averageViewers": { "type": "number", "minimum": 0 },
		"broadcastCount": { "type": "integer", "minimum": 0 },
		"peakViewers": { "type": "integer", "minimum": 0 }
	}
}
`)
