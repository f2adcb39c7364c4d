// Package storage provides a small key-value persistence layer with
// JSON encoding, quota handling and availability probing. All safe
// accessors resolve failures to nil/false/empty returns; callers never
// need recover or error plumbing around cache operations.
package storage

import "errors"

var (
	// ErrQuotaExceeded is returned by a backend when a write would
	// exceed its configured capacity.
	ErrQuotaExceeded = errors.New("storage: quota exceeded")

	// ErrUnavailable is returned by a backend that cannot serve
	// requests at all (missing directory, closed store).
	ErrUnavailable = errors.New("storage: unavailable")
)

// Store is a flat string-keyed value store. Implementations hold raw
// serialized values; encoding belongs to the safe accessors on top.
type Store interface {
	// Get returns the raw value for key, with false when absent.
	Get(key string) (string, bool, error)
	// Set writes the raw value for key. Returns ErrQuotaExceeded when
	// the write does not fit the backend's capacity.
	Set(key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(key string) error
	// Keys lists all stored keys in unspecified order.
	Keys() ([]string, error)
}
