package admin

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/gorilla/mux"
	"github.com/krancour/kurban/sdk/meta"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsClient(t *testing.T) {
	baseClient := newTestAPI(t, mux.NewRouter())
	client := NewMetricsClient(baseClient)
	require.IsType(t, &metricsClient{}, client)
	require.Same(t, baseClient, client.(*metricsClient).BaseClient)
}

func TestMetricsClientSummary(t *testing.T) {
	testCases := []struct {
		name       string
		body       string
		assertions func(*testing.T, MetricsSummary, error)
	}{
		{
			name: "valid",
			body: `{
				"totalDonations": 125000.5,
				"donationCount": 310,
				"donorCount": 250,
				"sharesSold": 301,
				"sacrificesCompleted": 120,
				"sacrificesPending": 181,
				"currency": "TRY",
				"generatedAt": "2024-06-16T08:00:00Z"
			}`,
			assertions: func(t *testing.T, summary MetricsSummary, err error) {
				require.NoError(t, err)
				require.Equal(t, 125000.5, summary.TotalDonations)
				require.Equal(t, 310, summary.DonationCount)
				require.Equal(t, 181, summary.SacrificesPending)
				require.Equal(t, "TRY", summary.Currency)
				require.NotNil(t, summary.GeneratedAt)
			},
		},
		{
			name: "missing required field",
			body: `{"donationCount": 310}`,
			assertions: func(t *testing.T, _ MetricsSummary, err error) {
				require.IsType(t, &meta.ErrMalformedResponse{}, err)
			},
		},
		{
			name: "wrong type",
			body: `{"totalDonations": "lots", "donationCount": 310}`,
			assertions: func(t *testing.T, _ MetricsSummary, err error) {
				require.IsType(t, &meta.ErrMalformedResponse{}, err)
			},
		},
		{
			name: "not json",
			body: `<html>oops</html>`,
			assertions: func(t *testing.T, _ MetricsSummary, err error) {
				require.IsType(t, &meta.ErrMalformedResponse{}, err)
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			router := mux.NewRouter()
			router.HandleFunc(
				"/admin/metrics/summary",
				func(w http.ResponseWriter, r *http.Request) {
					requireBearerToken(t, r.Header.Get("Authorization"))
					fmt.Fprint(w, testCase.body)
				},
			).Methods(http.MethodGet)
			summary, err := NewMetricsClient(newTestAPI(t, router)).Summary(
				context.Background(),
			)
			testCase.assertions(t, summary, err)
		})
	}
}

func TestMetricsClientSummaryForbidden(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc(
		"/admin/metrics/summary",
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"message": "analysts only"}`)
		},
	)
	_, err := NewMetricsClient(newTestAPI(t, router)).Summary(
		context.Background(),
	)
	authzErr, ok := err.(*meta.ErrAuthorization)
	require.True(t, ok)
	require.Equal(t, "analysts only", authzErr.Reason)
}

func TestMetricsClientDonationTrend(t *testing.T) {
	testCases := []struct {
		name          string
		rng           string
		expectedRange string
		body          string
		assertions    func(*testing.T, DonationTrend, error)
	}{
		{
			name:          "default range",
			rng:           "",
			expectedRange: DefaultDonationTrendRange,
			body: `{
				"range": "7d",
				"points": [
					{"date": "2024-06-15", "amount": 1000, "count": 4},
					{"date": "2024-06-16", "amount": 2500.25, "count": 9}
				]
			}`,
			assertions: func(t *testing.T, trend DonationTrend, err error) {
				require.NoError(t, err)
				require.Equal(t, "7d", trend.Range)
				require.Len(t, trend.Points, 2)
				require.Equal(t, "2024-06-16", trend.Points[1].Date)
				require.Equal(t, 2500.25, trend.Points[1].Amount)
				require.Equal(t, 9, trend.Points[1].Count)
			},
		},
		{
			name:          "range normalized and echoed when omitted",
			rng:           " 3M ",
			expectedRange: "3m",
			body:          `{"points": []}`,
			assertions: func(t *testing.T, trend DonationTrend, err error) {
				require.NoError(t, err)
				require.Equal(t, "3m", trend.Range)
				require.Empty(t, trend.Points)
			},
		},
		{
			name:          "point missing amount",
			rng:           "4w",
			expectedRange: "4w",
			body:          `{"points": [{"date": "2024-06-15"}]}`,
			assertions: func(t *testing.T, _ DonationTrend, err error) {
				require.IsType(t, &meta.ErrMalformedResponse{}, err)
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			router := mux.NewRouter()
			router.HandleFunc(
				"/admin/reports/donations",
				func(w http.ResponseWriter, r *http.Request) {
					require.Equal(
						t,
						testCase.expectedRange,
						r.URL.Query().Get("range"),
					)
					fmt.Fprint(w, testCase.body)
				},
			).Methods(http.MethodGet)
			trend, err := NewMetricsClient(newTestAPI(t, router)).DonationTrend(
				context.Background(),
				testCase.rng,
			)
			testCase.assertions(t, trend, err)
		})
	}
}

func TestMetricsClientDonationTrendInvalidRange(t *testing.T) {
	var calls int32
	router := mux.NewRouter()
	router.HandleFunc(
		"/admin/reports/donations",
		func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
		},
	)
	client := NewMetricsClient(newTestAPI(t, router))
	for _, rng := range []string{"0d", "7", "d", "7y", "-7d", "07d", "7 d"} {
		_, err := client.DonationTrend(context.Background(), rng)
		require.IsType(t, &meta.ErrBadRequest{}, err, rng)
	}
	require.Equal(t, int32(0), atomic.LoadInt32(&calls))
}
