package storage

import (
	"context"

	"github.com/toriana04/fraudintel/core"
)

// VectorCache persists embedding vectors across process restarts so that an
// unchanged corpus is not re-embedded. Vectors are grouped by namespace,
// normally the embedding model name, and keyed by the content ID of the text
// they were computed from.
//
// Implementations must be thread-safe.
type VectorCache interface {
	// GetVectors returns the cached vectors for ids. Missing ids are absent
	// from the result; a miss is not an error.
	GetVectors(ctx context.Context, namespace string, ids []core.ID) (map[core.ID][]float32, error)

	// PutVectors stores vectors, replacing existing entries.
	PutVectors(ctx context.Context, namespace string, vectors map[core.ID][]float32) error

	// DeleteNamespace removes every vector stored under namespace and
	// returns how many were removed.
	DeleteNamespace(ctx context.Context, namespace string) (int, error)

	// Close releases the cache.
	Close() error
}
