// Package contract provides interfaces and shared utilities for the
// foresight CLI's internal architecture.
package contract

import "github.com/gamelens/foresight/schema"

// StoreManager defines the interface for managing model stores.
// This allows the storage layer to be mocked for testing.
type StoreManager interface {
	GetModelStore() ModelStore
}

// ModelStore defines the interface for model snapshot storage.
// This allows mocking the store for testing.
type ModelStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetAllSnapshots() ([]schema.SnapshotEntry, error)
	Close() error
	GetStatus() (schema.StoreStatus, error)
}
