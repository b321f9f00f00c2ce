// Package storage persists datasets and experiment results. The local
// filesystem is the default backend; an Azure blob container can stand in
// for it when runs share results.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a named object does not exist in the store.
var ErrNotFound = errors.New("object not found")

// Store reads and writes whole objects by name.
type Store interface {
	// Read returns the object's contents, or ErrNotFound.
	Read(ctx context.Context, name string) ([]byte, error)
	// Write replaces the object's contents, creating it if needed.
	Write(ctx context.Context, name string, data []byte) error
	// List returns the names of objects starting with prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
	// Location describes where name lives, for user-facing messages.
	Location(name string) string
}
