package badger

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/toriana04/fraudintel/core"
	"github.com/toriana04/fraudintel/storage"
)

// VectorCache implements storage.VectorCache on a Backend.
type VectorCache struct {
	backend *Backend
	owned   bool
	logger  *slog.Logger
}

var _ storage.VectorCache = (*VectorCache)(nil)

// NewVectorCache opens an on-disk cache at path.
//
// Returns storage.VectorCache interface to enforce abstraction.
func NewVectorCache(path string) (storage.VectorCache, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	return newVectorCache(backend, true), nil
}

// NewVectorCacheOnBackend creates a cache sharing an already open backend.
// Closing the cache leaves the backend open.
func NewVectorCacheOnBackend(backend *Backend) storage.VectorCache {
	return newVectorCache(backend, false)
}

func newVectorCache(backend *Backend, owned bool) *VectorCache {
	return &VectorCache{
		backend: backend,
		owned:   owned,
		logger:  slog.Default().With("component", "vector-cache"),
	}
}

// GetVectors returns the cached vectors for ids.
func (c *VectorCache) GetVectors(ctx context.Context, namespace string, ids []core.ID) (map[core.ID][]float32, error) {
	if namespace == "" {
		return nil, storage.ErrEmptyNamespace
	}
	if c.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	found := make(map[core.ID][]float32, len(ids))
	err := c.backend.View(func(tx *badger.Txn) error {
		for _, id := range ids {
			if err := ctx.Err(); err != nil {
				return err
			}
			item, err := tx.Get(makeVectorKey(namespace, id))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			err = item.Value(func(val []byte) error {
				vector, err := storage.UnmarshalVector(val)
				if err != nil {
					return err
				}
				found[id] = vector
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Debug("vector cache lookup", "namespace", namespace, "requested", len(ids), "hits", len(found))
	return found, nil
}

// PutVectors stores vectors in a single write batch.
func (c *VectorCache) PutVectors(ctx context.Context, namespace string, vectors map[core.ID][]float32) error {
	if namespace == "" {
		return storage.ErrEmptyNamespace
	}
	if c.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	if len(vectors) == 0 {
		return nil
	}

	wb := c.backend.WriteBatch()
	defer wb.Cancel()
	for id, vector := range vectors {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := wb.Set(makeVectorKey(namespace, id), storage.MarshalVector(vector)); err != nil {
			return err
		}
	}
	if err := wb.Flush(); err != nil {
		return err
	}

	c.logger.Debug("vector cache stored", "namespace", namespace, "count", len(vectors))
	return nil
}

// DeleteNamespace removes every vector stored under namespace.
func (c *VectorCache) DeleteNamespace(ctx context.Context, namespace string) (int, error) {
	if namespace == "" {
		return 0, storage.ErrEmptyNamespace
	}
	if c.backend.IsClosed() {
		return 0, storage.ErrStorageClosed
	}

	prefix := makeVectorPrefix(namespace)
	count := 0
	err := c.backend.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()
		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, nil
	}
	if err := c.backend.DropPrefix(prefix); err != nil {
		return 0, err
	}
	return count, nil
}

// Close closes the underlying backend when the cache opened it.
func (c *VectorCache) Close() error {
	if !c.owned || c.backend.IsClosed() {
		return nil
	}
	return c.backend.Close()
}
