// Package tokens persists the credentials of an authenticated session outside
// of process memory so that a restarted client can pick up where it left off.
package tokens

import "context"

// Fixed keys under which credentials and related session state are stored.
const (
	AccessTokenKey  = "admin_access_token"
	RefreshTokenKey = "admin_refresh_token"
	SessionKey      = "admin_session"
	APIAddressKey   = "api_address"
)

// Store is a small, durable key/value store. Implementations must be safe for
// concurrent use.
type Store interface {
	// Get returns the value stored under the given key. The boolean return
	// value indicates whether the key was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores a value under the given key, replacing any existing value.
	Set(ctx context.Context, key, value string) error
	// Delete removes the given keys. Deleting keys that are not present is not
	// an error.
	Delete(ctx context.Context, keys ...string) error
}
