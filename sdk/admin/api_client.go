package admin

import (
	"context"

	"github.com/krancour/kurban/sdk/internal/restmachinery"
	"github.com/pkg/errors"
	"github.com/sourcegraph/conc/pool"
)

// Overview is everything shown on the admin dashboard's landing page.
type Overview struct {
	Summary         MetricsSummary         `json:"summary"`
	DonationTrend   DonationTrend          `json:"donationTrend"`
	RecentAuditLogs AuditLogList           `json:"recentAuditLogs"`
	Broadcasts      BroadcastViewerAverage `json:"broadcasts"`
}

// APIClient is the root of a tree of more specialized API clients for the
// admin dashboard.
type APIClient interface {
	// Metrics returns a specialized client for dashboard metrics and donation
	// reports.
	Metrics() MetricsClient
	// AuditLogs returns a specialized client for reading the audit log.
	AuditLogs() AuditLogsClient
	// Broadcasts returns a specialized client for broadcast reports.
	Broadcasts() BroadcastsClient
	// Overview fetches the metrics summary, the default donation trend, the
	// most recent page of the audit log and the broadcast viewer average
	// concurrently. The first failure cancels the remaining requests and is
	// returned.
	Overview(context.Context) (Overview, error)
}

type apiClient struct {
	metricsClient    MetricsClient
	auditLogsClient  AuditLogsClient
	broadcastsClient BroadcastsClient
}

// NewAPIClient returns an admin dashboard APIClient whose specialized clients
// all share the given transport.
func NewAPIClient(baseClient *restmachinery.BaseClient) APIClient {
	return &apiClient{
		metricsClient:    NewMetricsClient(baseClient),
		auditLogsClient:  NewAuditLogsClient(baseClient),
		broadcastsClient: NewBroadcastsClient(baseClient),
	}
}

func (a *apiClient) Metrics() MetricsClient {
	return a.metricsClient
}

func (a *apiClient) AuditLogs() AuditLogsClient {
	return a.auditLogsClient
}

func (a *apiClient) Broadcasts() BroadcastsClient {
	return a.broadcastsClient
}

func (a *apiClient) Overview(ctx context.Context) (Overview, error) {
	overview := Overview{}
	p := pool.New().
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError()
	// Each task writes only its own field of overview.
	p.Go(func(ctx context.Context) error {
		var err error
		overview.Summary, err = a.metricsClient.Summary(ctx)
		return errors.Wrap(err, "error fetching metrics summary")
	})
	p.Go(func(ctx context.Context) error {
		var err error
		overview.DonationTrend, err = a.metricsClient.DonationTrend(
			ctx,
			DefaultDonationTrendRange,
		)
		return errors.Wrap(err, "error fetching donation trend")
	})
	p.Go(func(ctx context.Context) error {
		var err error
		overview.RecentAuditLogs, err = a.auditLogsClient.List(ctx, nil)
		return errors.Wrap(err, "error fetching audit logs")
	})
	p.Go(func(ctx context.Context) error {
		var err error
		overview.Broadcasts, err = a.broadcastsClient.ViewerAverage(ctx)
		return errors.Wrap(err, "error fetching broadcast viewer average")
	})
	if err := p.Wait(); err != nil {
		return Overview{}, err
	}
	return overview, nil
}
