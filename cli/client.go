package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/krancour/kurban/sdk"
	"github.com/krancour/kurban/sdk/authx"
	"github.com/krancour/kurban/sdk/tokens"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

const metadataAppState = "appState"

const sessionExpiredMessage = `Your session has expired. Please run "kurban login".`

// appState holds what every command needs and is built once per invocation.
type appState struct {
	config  config
	logger  *logrus.Logger
	tokens  tokens.Store
	closers []func() error
}

func setup(c *cli.Context) error {
	cfg, err := getConfig()
	if err != nil {
		return err
	}
	level := cfg.LogLevel
	if c.IsSet(flagLogLevel) {
		level = c.String(flagLogLevel)
	}
	logger, closeLog, err := newLogger(level, cfg.LogFile)
	if err != nil {
		return err
	}
	logger.WithField("store", cfg.CredentialsStore).Debug(
		"opening credentials store",
	)
	store, closeStore, err := cfg.credentialStore()
	if err != nil {
		err = errors.Wrap(err, "error opening credentials store")
		logger.WithError(err).Error("error setting up")
		if closeErr := closeLog(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "error closing log file: %s\n", closeErr)
		}
		return err
	}
	if c.App.Metadata == nil {
		c.App.Metadata = map[string]interface{}{}
	}
	c.App.Metadata[metadataAppState] = &appState{
		config:  cfg,
		logger:  logger,
		tokens:  store,
		closers: []func() error{closeStore, closeLog},
	}
	return nil
}

func teardown(c *cli.Context) error {
	rt, ok := c.App.Metadata[metadataAppState].(*appState)
	if !ok {
		return nil
	}
	for _, closeFn := range rt.closers {
		if err := closeFn(); err != nil {
			rt.logger.WithError(err).Warn("error releasing resources")
		}
	}
	return nil
}

func getAppState(c *cli.Context) (*appState, error) {
	rt, ok := c.App.Metadata[metadataAppState].(*appState)
	if !ok {
		return nil, errors.New("kurban was not initialized")
	}
	return rt, nil
}

// kurbanClient bundles an API client with a session store that shares its
// transport.
type kurbanClient struct {
	sdk.APIClient
	sessions *authx.SessionStore
	tokens   tokens.Store
	logger   logrus.FieldLogger
}

// getClient returns a client for the API server at apiAddressOverride or, if
// that is empty, at the configured or persisted address. The persisted
// session, if any, is rehydrated.
func getClient(
	c *cli.Context,
	apiAddressOverride string,
) (*kurbanClient, error) {
	rt, err := getAppState(c)
	if err != nil {
		return nil, err
	}
	address, err :=
		rt.config.apiAddress(c.Context, apiAddressOverride, rt.tokens)
	if err != nil {
		return nil, err
	}
	apiClient := sdk.NewAPIClient(
		address,
		rt.tokens,
		&sdk.APIClientOptions{
			AllowInsecureConnections: c.Bool(flagInsecure),
			Logger:                   rt.logger,
		},
	)
	apiClient.OnSessionExpired(func() {
		fmt.Fprintln(os.Stderr, sessionExpiredMessage)
	})
	sessions := apiClient.NewSessionStore()
	if err = sessions.Rehydrate(c.Context); err != nil {
		return nil, errors.Wrap(err, "error restoring session")
	}
	return &kurbanClient{
		APIClient: apiClient,
		sessions:  sessions,
		tokens:    rt.tokens,
		logger:    rt.logger,
	}, nil
}

// getAuthorizedClient is like getClient, but fails fast when no session is
// held or when the session holds none of the given roles.
func getAuthorizedClient(
	c *cli.Context,
	roles ...string,
) (*kurbanClient, error) {
	client, err := getClient(c, "")
	if err != nil {
		return nil, err
	}
	if !client.sessions.IsAuthenticated() {
		return nil, errors.New(`You are not logged in. Please run "kurban login".`)
	}
	if !client.sessions.HasAnyRole(roles...) {
		return nil, errors.Errorf(
			"This command requires one of the following roles: %s",
			strings.Join(roles, ", "),
		)
	}
	return client, nil
}
