// Package meta contains error types common to all of the Kurban API's
// specialized clients.
package meta
