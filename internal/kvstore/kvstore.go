// Package kvstore provides the durable key-value store backing persisted
// client state (credential and serialized identity).
package kvstore

// Store is the persistence boundary for client-side state. A missing key is
// reported via ok=false, not an error; errors are reserved for I/O failures.
type Store interface {
	Load(key string) (value string, ok bool, err error)
	Save(key, value string) error
	Remove(key string) error
}
