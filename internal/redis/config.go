package redis

import (
	"crypto/tls"
	"net"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const envconfigPrefix = "KURBAN_REDIS"

// Config represents common configuration options for a Redis connection.
type Config struct {
	Address   string `envconfig:"ADDRESS" default:"localhost:6379"`
	Password  string `envconfig:"PASSWORD"`
	DB        int    `envconfig:"DB"`
	EnableTLS bool   `envconfig:"ENABLE_TLS"`
	// Prefix namespaces every key written by this client.
	Prefix string `envconfig:"PREFIX" default:"kurban"`
}

// GetConfig returns Redis connection options specified by environment
// variables.
func GetConfig() (Config, error) {
	c := Config{}
	err := envconfig.Process(envconfigPrefix, &c)
	return c, errors.Wrap(
		err,
		"error getting redis configuration from environment",
	)
}

// Client returns a connection to the Redis database described by the given
// Config.
func Client(c Config) *redis.Client {
	redisOpts := &redis.Options{
		Addr:       c.Address,
		Password:   c.Password,
		DB:         c.DB,
		MaxRetries: 5,
	}
	if c.EnableTLS {
		host, _, err := net.SplitHostPort(c.Address)
		if err != nil {
			host = c.Address
		}
		redisOpts.TLSConfig = &tls.Config{
			ServerName: host,
		}
	}
	return redis.NewClient(redisOpts)
}
