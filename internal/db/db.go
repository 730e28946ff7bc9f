// Package db stores named records on disk. Each backend keeps a flat
// key -> bytes mapping; callers own the encoding of the values.
package db

import (
	"context"
	"fmt"
)

const (
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
)

type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error) // sorted
	Close() error
}

// Open opens the named backend inside dataDir.
func Open(backend, dataDir string) (Store, error) {
	switch backend {
	case BackendSQLite, "":
		return NewSQLiteStore(dataDir)
	case BackendBolt:
		return NewBoltStore(dataDir)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", backend)
	}
}
