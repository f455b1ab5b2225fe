// Package storage defines the key/value blob port the stores persist
// through, with in-memory, file-backed, and sqlite adapters.
package storage

import "errors"

// ErrNotFound is returned by Load when no value exists for a key.
var ErrNotFound = errors.New("storage: key not found")

// Well-known keys used by the application state.
const (
	KeyCards         = "cards"
	KeyAuth          = "auth"
	KeyCurrentUser   = "currentUser"
	KeyUserDirectory = "userDirectory"
)

// Store is a synchronous blob store keyed by string. Writes are full
// overwrites; there are no transactions.
type Store interface {
	Load(key string) ([]byte, error)
	Save(key string, value []byte) error
	Remove(key string) error
}
