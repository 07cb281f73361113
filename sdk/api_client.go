package sdk

import (
	"github.com/krancour/kurban/sdk/admin"
	"github.com/krancour/kurban/sdk/authx"
	"github.com/krancour/kurban/sdk/internal/restmachinery"
	"github.com/krancour/kurban/sdk/tokens"
)

// DefaultAPIAddress is used whenever no valid API address is supplied.
const DefaultAPIAddress = restmachinery.DefaultAPIAddress

// DefaultTimeout bounds every request made to the API server.
const DefaultTimeout = restmachinery.DefaultTimeout

// APIClientOptions encapsulates optional API client configuration.
type APIClientOptions = restmachinery.APIClientOptions

// ResolveAPIAddress returns the override if it is a well-formed, absolute
// http or https URL and DefaultAPIAddress otherwise. The boolean return value
// indicates whether the override was used.
func ResolveAPIAddress(override string) (string, bool) {
	return restmachinery.ResolveAPIAddress(override)
}

// APIClient is the general interface for the Kurban admin API. It does little
// more than expose functions for obtaining more specialized clients for
// different areas of concern. Every specialized client shares one transport,
// so credentials and session expiry are handled in exactly one place.
type APIClient interface {
	// APIAddress returns the address of the API server in use after
	// validation.
	APIAddress() string
	// Sessions returns a specialized client for exchanging credentials for a
	// session.
	Sessions() authx.SessionsClient
	// Admin returns a specialized client for the admin dashboard.
	Admin() admin.APIClient
	// OnSessionExpired registers a handler that is invoked whenever the API
	// server rejects the client's bearer token. Persisted credentials have
	// already been purged by the time the handler is invoked. The returned
	// function unregisters the handler.
	OnSessionExpired(handler func()) (unsubscribe func())
	// NewSessionStore returns an authx.SessionStore that logs in through this
	// client, persists credentials to the client's store and resets itself
	// when the session expires.
	NewSessionStore() *authx.SessionStore
}

type apiClient struct {
	baseClient     *restmachinery.BaseClient
	sessionsClient authx.SessionsClient
	adminClient    admin.APIClient
}

// NewAPIClient returns a Kurban admin APIClient. Credentials are read from and
// purged from the given store. A nil store is replaced with an in-memory
// store. An invalid apiAddress is replaced with DefaultAPIAddress.
func NewAPIClient(
	apiAddress string,
	store tokens.Store,
	opts *APIClientOptions,
) APIClient {
	baseClient := restmachinery.NewBaseClient(apiAddress, store, opts)
	return &apiClient{
		baseClient:     baseClient,
		sessionsClient: authx.NewSessionsClient(baseClient),
		adminClient:    admin.NewAPIClient(baseClient),
	}
}

func (a *apiClient) APIAddress() string {
	return a.baseClient.APIAddress
}

func (a *apiClient) Sessions() authx.SessionsClient {
	return a.sessionsClient
}

func (a *apiClient) Admin() admin.APIClient {
	return a.adminClient
}

func (a *apiClient) OnSessionExpired(handler func()) func() {
	return a.baseClient.OnSessionExpired(handler)
}

func (a *apiClient) NewSessionStore() *authx.SessionStore {
	return authx.NewSessionStore(
		a.sessionsClient,
		a.baseClient.Tokens,
		a.baseClient,
		a.baseClient.Logger,
	)
}
