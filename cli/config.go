package main

import (
	"context"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/krancour/kurban/internal/redis"
	"github.com/krancour/kurban/sdk/tokens"
	"github.com/pkg/errors"
)

const envconfigPrefix = "KURBAN"

const (
	credentialsStoreFile  = "file"
	credentialsStoreRedis = "redis"
)

// config represents CLI configuration specified by environment variables.
type config struct {
	APIAddress string `envconfig:"API_ADDRESS"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"warn"`
	// LogFile, if set, redirects logs from stderr to a rotated file.
	LogFile string `envconfig:"LOG_FILE"`
	// CredentialsStore selects where credentials are persisted between
	// invocations; one of: file, redis.
	CredentialsStore string `envconfig:"CREDENTIALS_STORE" default:"file"`
	// CredentialsFile overrides the default location of the credentials file.
	CredentialsFile string `envconfig:"CREDENTIALS_FILE"`
}

func getConfig() (config, error) {
	c := config{}
	if err := envconfig.Process(envconfigPrefix, &c); err != nil {
		return c, errors.Wrap(
			err,
			"error getting kurban configuration from environment",
		)
	}
	return c, nil
}

// credentialStore returns the store selected by the configuration along with
// a function that releases any connection it holds.
func (c config) credentialStore() (tokens.Store, func() error, error) {
	switch strings.ToLower(strings.TrimSpace(c.CredentialsStore)) {
	case credentialsStoreFile:
		path := c.CredentialsFile
		if path == "" {
			var err error
			if path, err = tokens.DefaultFilePath(); err != nil {
				return nil, nil, err
			}
		}
		return tokens.NewFileStore(path), func() error { return nil }, nil
	case credentialsStoreRedis:
		redisConfig, err := redis.GetConfig()
		if err != nil {
			return nil, nil, err
		}
		client := redis.Client(redisConfig)
		return tokens.NewRedisStore(client, redisConfig.Prefix), client.Close, nil
	default:
		return nil, nil, errors.Errorf(
			"unknown credentials store %q; supported stores: %s, %s",
			c.CredentialsStore,
			credentialsStoreFile,
			credentialsStoreRedis,
		)
	}
}

// apiAddress picks the API server address from, in order of precedence, the
// given override, the environment and the address persisted at login. An
// empty return value means none was specified. Validation is left to the SDK,
// which falls back to its default address.
func (c config) apiAddress(
	ctx context.Context,
	override string,
	store tokens.Store,
) (string, error) {
	if override = strings.TrimSpace(override); override != "" {
		return override, nil
	}
	if address := strings.TrimSpace(c.APIAddress); address != "" {
		return address, nil
	}
	address, _, err := store.Get(ctx, tokens.APIAddressKey)
	if err != nil {
		return "", errors.Wrap(err, "error reading persisted API address")
	}
	return address, nil
}
