// Package storage provides string-keyed blob stores.
package storage

import (
	"context"
	"sync"
)

// BlobStore stores opaque string values under string keys.
type BlobStore interface {
	// Get returns the value for key; ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Compile-time interface checks.
var (
	_ BlobStore = (*MemoryStore)(nil)
	_ BlobStore = (*prefixed)(nil)
)

// MemoryStore is an in-memory blob store. Safe for concurrent access.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string]string)}
}

// Get returns the value stored under key.
func (s *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.blobs[key]
	return v, ok, nil
}

// Set stores value under key, replacing any previous value.
func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blobs[key] = value
	return nil
}

type prefixed struct {
	store  BlobStore
	prefix string
}

// WithPrefix returns a view of store where every key is namespaced by prefix.
func WithPrefix(store BlobStore, prefix string) BlobStore {
	return &prefixed{store: store, prefix: prefix + ":"}
}

func (p *prefixed) Get(ctx context.Context, key string) (string, bool, error) {
	return p.store.Get(ctx, p.prefix+key)
}

func (p *prefixed) Set(ctx context.Context, key, value string) error {
	return p.store.Set(ctx, p.prefix+key, value)
}
