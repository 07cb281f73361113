package admin

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/krancour/kurban/sdk/internal/restmachinery"
	"github.com/krancour/kurban/sdk/tokens"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

const testToken = "prettypleasewithsugarontop"

// newTestAPI starts a fake API server with the given router and returns a
// transport pointed at it that presents testToken.
func newTestAPI(t *testing.T, router *mux.Router) *restmachinery.BaseClient {
	t.Helper()
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	store := tokens.NewMemoryStore()
	require.NoError(
		t,
		store.Set(context.Background(), tokens.AccessTokenKey, testToken),
	)
	logger, _ := test.NewNullLogger()
	return restmachinery.NewBaseClient(
		server.URL,
		store,
		&restmachinery.APIClientOptions{Logger: logger},
	)
}

func requireBearerToken(t *testing.T, authHeader string) {
	require.Equal(t, "Bearer "+testToken, authHeader)
}
