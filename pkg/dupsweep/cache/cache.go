// Package cache persists file digests in a Badger store so repeated scans
// of an unchanged tree skip rehashing.
package cache

import (
	"errors"
	"sync"

	"github.com/dgraph-io/badger/v4"

	"github.com/jamesainslie/dupsweep/pkg/dupsweep/logging"
	"github.com/jamesainslie/dupsweep/pkg/dupsweep/types"
)

// ErrNotFound is returned when a cache entry doesn't exist.
var ErrNotFound = errors.New("cache entry not found")

var logger = logging.Get("cache")

// Cache is a digest cache for one hash algorithm. Store buffers entries in
// memory until Flush writes them in a single batch.
type Cache struct {
	db        *badger.DB
	algorithm string

	mu      sync.Mutex
	pending map[string]*CachedDigest
}

// Open opens or creates a cache at the given path for the given algorithm.
func Open(path, algorithm string) (*Cache, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Disable badger logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Cache{
		db:        db,
		algorithm: algorithm,
		pending:   make(map[string]*CachedDigest),
	}, nil
}

// Algorithm returns the hash algorithm this cache serves.
func (c *Cache) Algorithm() string {
	return c.algorithm
}

// Close flushes pending entries and closes the cache.
func (c *Cache) Close() error {
	flushErr := c.Flush()
	if err := c.db.Close(); err != nil {
		return err
	}
	return flushErr
}

// Get retrieves the stored entry for path.
func (c *Cache) Get(path string) (*CachedDigest, error) {
	c.mu.Lock()
	if entry, ok := c.pending[path]; ok {
		c.mu.Unlock()
		return entry, nil
	}
	c.mu.Unlock()

	var entry CachedDigest
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(makeKey(c.algorithm, path))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(entry.Decode)
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Lookup returns the cached digest for path when its stamp matches.
func (c *Cache) Lookup(path string, stamp types.FileStamp) (string, bool) {
	entry, err := c.Get(path)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Warn("cache lookup failed", "path", path, "err", err)
		}
		return "", false
	}
	if !entry.Matches(stamp) {
		return "", false
	}
	return entry.Digest, true
}

// Store records a digest. It is persisted on the next Flush.
func (c *Cache) Store(path string, stamp types.FileStamp, digest string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending[path] = newCachedDigest(stamp, digest)
}

// Flush writes all pending entries in a single batch.
func (c *Cache) Flush() error {
	c.mu.Lock()
	pending := c.pending
	c.pending = make(map[string]*CachedDigest)
	c.mu.Unlock()

	if len(pending) == 0 {
		return nil
	}

	wb := c.db.NewWriteBatch()
	defer wb.Cancel()

	for path, entry := range pending {
		value, err := entry.Encode()
		if err != nil {
			return err
		}
		if err := wb.Set(makeKey(c.algorithm, path), value); err != nil {
			return err
		}
	}

	if err := wb.Flush(); err != nil {
		return err
	}
	logger.Debug("digest cache flushed", "entries", len(pending))
	return nil
}

// Forget removes the entry for path, typically after the file was deleted.
func (c *Cache) Forget(path string) error {
	c.mu.Lock()
	delete(c.pending, path)
	c.mu.Unlock()

	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(makeKey(c.algorithm, path))
	})
}

// Len returns the number of persisted entries for this algorithm.
func (c *Cache) Len() (int, error) {
	prefix := makeKey(c.algorithm, "")
	n := 0
	err := c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

// Clear removes all cached entries for every algorithm.
func (c *Cache) Clear() error {
	c.mu.Lock()
	c.pending = make(map[string]*CachedDigest)
	c.mu.Unlock()

	return c.db.DropAll()
}
