// Package blob provides an in-memory docgrab.ObjectStore backed by bigcache.
// Objects are addressed by blob: URLs that the transfer collaborator can
// open like any other source.
package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/fwojciec/docgrab"
	"github.com/google/uuid"
)

// Scheme is the URL scheme of object addresses.
const Scheme = "blob"

// addressPrefix precedes the object key in every address.
const addressPrefix = Scheme + ":docgrab/"

// DefaultLifeWindow bounds how long an object survives when it is never revoked.
const DefaultLifeWindow = 10 * time.Minute

// Objects live for a second or so between fetch and transfer, so the store
// holds a handful at a time. Shard queues start small and grow on demand up
// to MaxObjectMB per shard; larger objects are rejected.
const (
	shards          = 4
	expectedObjects = 16
	typicalObject   = 64 << 10
	hardMaxMB       = 1024

	// MaxObjectMB is the largest object the store accepts, in megabytes.
	MaxObjectMB = hardMaxMB / shards
)

// Compile-time interface verification.
var (
	_ docgrab.ObjectStore = (*Store)(nil)
	_ docgrab.Opener      = (*Store)(nil)
)

// Store holds fetched bytes until they are revoked.
// Store is safe for concurrent use.
type Store struct {
	cache *bigcache.BigCache
}

// NewStore creates a new Store. Objects that are never revoked expire
// after lifeWindow; zero means DefaultLifeWindow.
// Close must be called when the Store is no longer needed.
func NewStore(ctx context.Context, lifeWindow time.Duration) (*Store, error) {
	if lifeWindow <= 0 {
		lifeWindow = DefaultLifeWindow
	}
	cfg := bigcache.Config{
		Shards:             shards,
		LifeWindow:         lifeWindow,
		CleanWindow:        time.Minute,
		MaxEntriesInWindow: expectedObjects,
		MaxEntrySize:       typicalObject,
		HardMaxCacheSize:   hardMaxMB,
		Verbose:            false,
	}

	cache, err := bigcache.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating object cache: %w", err)
	}
	return &Store{cache: cache}, nil
}

// CreateObject stores data and returns its address.
func (s *Store) CreateObject(data []byte) (string, error) {
	key := uuid.New().String()
	if err := s.cache.Set(key, data); err != nil {
		return "", docgrab.Errorf(docgrab.EINTERNAL, "storing %d byte object: %v", len(data), err)
	}
	return addressPrefix + key, nil
}

// RevokeObject releases the object at address. Unknown addresses are ignored.
func (s *Store) RevokeObject(address string) {
	if key, ok := strings.CutPrefix(address, addressPrefix); ok {
		_ = s.cache.Delete(key)
	}
}

// Open returns a reader over the object at address.
// Returns ENOTFOUND when the object was revoked or never existed.
func (s *Store) Open(ctx context.Context, address string) (io.ReadCloser, error) {
	key, ok := strings.CutPrefix(address, addressPrefix)
	if !ok {
		return nil, docgrab.Errorf(docgrab.EINVALID, "not an object address: %q", address)
	}
	data, err := s.cache.Get(key)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return nil, docgrab.Errorf(docgrab.ENOTFOUND, "object %s not found", address)
	} else if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Len returns the number of live objects.
func (s *Store) Len() int {
	return s.cache.Len()
}

// Capacity returns the bytes currently allocated for object storage.
func (s *Store) Capacity() int {
	return s.cache.Capacity()
}

// Close releases the cache.
func (s *Store) Close() error {
	return s.cache.Close()
}
