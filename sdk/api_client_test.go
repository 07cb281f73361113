package sdk

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gorilla/mux"
	"github.com/krancour/kurban/sdk/authx"
	"github.com/krancour/kurban/sdk/meta"
	"github.com/krancour/kurban/sdk/tokens"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func TestNewAPIClient(t *testing.T) {
	client := NewAPIClient("ftp://bad", nil, nil)
	require.IsType(t, &apiClient{}, client)
	require.Equal(t, DefaultAPIAddress, client.APIAddress())
	require.NotNil(t, client.Sessions())
	require.NotNil(t, client.Admin())
	require.NotNil(t, client.Admin().Metrics())
	require.NotNil(t, client.Admin().AuditLogs())
	require.NotNil(t, client.Admin().Broadcasts())
}

func TestResolveAPIAddress(t *testing.T) {
	address, ok := ResolveAPIAddress("https://kurban.example.com/api/")
	require.True(t, ok)
	require.Equal(t, "https://kurban.example.com/api", address)
	address, ok = ResolveAPIAddress("not a url")
	require.False(t, ok)
	require.Equal(t, DefaultAPIAddress, address)
}

// TestAPIClientSessionLifecycle exercises login, an authorized dashboard call
// and a session expiry through a single shared transport.
func TestAPIClientSessionLifecycle(t *testing.T) {
	const testToken = "prettypleasewithsugarontop"
	var revoked atomic.Bool
	router := mux.NewRouter()
	router.HandleFunc(
		"/auth/login",
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(
				w,
				`{"token": %q, "user": {"id": "42", "roles": ["analyst"]}}`,
				testToken,
			)
		},
	).Methods(http.MethodPost)
	router.HandleFunc(
		"/admin/reports/broadcasts/viewers/average",
		func(w http.ResponseWriter, r *http.Request) {
			if revoked.Load() ||
				r.Header.Get("Authorization") != "Bearer "+testToken {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			fmt.Fprint(w, `{"averageViewers": 12}`)
		},
	).Methods(http.MethodGet)
	server := httptest.NewServer(router)
	defer server.Close()

	ctx := context.Background()
	store := tokens.NewMemoryStore()
	logger, _ := test.NewNullLogger()
	client := NewAPIClient(
		server.URL,
		store,
		&APIClientOptions{Logger: logger},
	)
	expirations := 0
	unsubscribe := client.OnSessionExpired(func() {
		expirations++
	})
	defer unsubscribe()
	sessions := client.NewSessionStore()
	defer sessions.Close()

	require.NoError(t, sessions.Login(ctx, "tony@starkindustries.com", "pw"))
	require.True(t, sessions.HasAnyRole(authx.RoleAnalyst, authx.RoleBroadcaster))

	avg, err := client.Admin().Broadcasts().ViewerAverage(ctx)
	require.NoError(t, err)
	require.Equal(t, float64(12), avg.AverageViewers)

	revoked.Store(true)
	_, err = client.Admin().Broadcasts().ViewerAverage(ctx)
	require.IsType(t, &meta.ErrAuthentication{}, err)
	require.Equal(t, 1, expirations)
	require.False(t, sessions.IsAuthenticated())
	require.Equal(t, authx.SessionStateAnonymous, sessions.State())

	// With no token on record, a second rejection is not a new expiry.
	_, err = client.Admin().Broadcasts().ViewerAverage(ctx)
	require.IsType(t, &meta.ErrAuthentication{}, err)
	require.Equal(t, 1, expirations)
}
