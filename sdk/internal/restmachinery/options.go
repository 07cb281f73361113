package restmachinery

import (
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultTimeout bounds every request made to the API server.
const DefaultTimeout = 15 * time.Second

// APIClientOptions encapsulates optional API client configuration.
type APIClientOptions struct {
	// AllowInsecureConnections indicates whether SSL-related errors should be
	// ignored when connecting to the API server.
	AllowInsecureConnections bool
	// Timeout overrides DefaultTimeout when non-zero.
	Timeout time.Duration
	// Logger receives request and session lifecycle logging. The logrus
	// standard logger is used when nil.
	Logger logrus.FieldLogger
}
