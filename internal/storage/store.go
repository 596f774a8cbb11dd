// Package storage provides the durable key-value port backing all
// persisted game state. Each key holds one JSON blob; every mutating
// service call rewrites the whole blob for its key.
package storage

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get for keys that were never written
var ErrKeyNotFound = errors.New("key not found")

// Store is the persistence port. Implementations must be safe for
// concurrent use.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Well-known storage keys
const (
	KeyInventory         = "moonling:inventory"
	KeyDiscoverySettings = "moonling:discovery:settings"
	KeyDiscoveryLog      = "moonling:discovery:log"
	KeyCyclePrefix       = "moonling:cycle:"  // + wallet + ":" + mint
	KeyPointsPrefix      = "moonling:points:" // + mint
)
