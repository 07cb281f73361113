package authx

import (
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/krancour/kurban/sdk/internal/restmachinery"
	"github.com/krancour/kurban/sdk/tokens"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

const (
	testPhoneOrEmail = "tony@starkindustries.com"
	testPassword     = "iloveyou3000"
	testToken        = "prettypleasewithsugarontop"
	testRefreshToken = "littlepiglittlepigletmecomein"
)

func newTestLogger() logrus.FieldLogger {
	logger, _ := test.NewNullLogger()
	return logger
}

// newTestAPI starts a fake API server with the given router and returns a
// transport pointed at it.
func newTestAPI(
	t *testing.T,
	router *mux.Router,
	store tokens.Store,
) *restmachinery.BaseClient {
	t.Helper()
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return restmachinery.NewBaseClient(
		server.URL,
		store,
		&restmachinery.APIClientOptions{Logger: newTestLogger()},
	)
}
