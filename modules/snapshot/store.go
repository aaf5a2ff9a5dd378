// Package snapshot persists one JSON document per session and store slice,
// and serializes mutations of that document behind a per-session lock.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	kvjetstream "github.com/go-monolith/mono/plugin/kv-jetstream"
	"github.com/go-monolith/mono/pkg/storage"
)

var (
	// ErrCommitFailed is returned when a mutated state could not be written.
	// The in-memory state is left as it was before the mutation.
	ErrCommitFailed = errors.New("snapshot commit failed")
	// ErrStoreUnavailable is returned when a backend has not been started.
	ErrStoreUnavailable = errors.New("snapshot store unavailable")
)

// Store is a key-value backend for snapshot documents.
type Store interface {
	// Load returns the document for key. found is false when no document exists.
	Load(ctx context.Context, key string) (data []byte, found bool, err error)
	// Save overwrites the document for key.
	Save(ctx context.Context, key string, data []byte) error
	// Delete removes the document for key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
}

// kvStore keeps snapshots in a JetStream KV bucket.
type kvStore struct {
	bucket kvjetstream.KVStoragePort
}

// NewKVStore returns a Store backed by a kv-jetstream bucket.
func NewKVStore(bucket kvjetstream.KVStoragePort) Store {
	return &kvStore{bucket: bucket}
}

func (s *kvStore) Load(_ context.Context, key string) ([]byte, bool, error) {
	data, err := s.bucket.Get(key)
	if err != nil {
		if errors.Is(err, kvjetstream.ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("kv get %s: %w", key, err)
	}
	return data, true, nil
}

func (s *kvStore) Save(_ context.Context, key string, data []byte) error {
	if err := s.bucket.Set(key, data, 0); err != nil {
		return fmt.Errorf("kv set %s: %w", key, err)
	}
	return nil
}

func (s *kvStore) Delete(_ context.Context, key string) error {
	if err := s.bucket.Delete(key); err != nil && !errors.Is(err, kvjetstream.ErrKeyNotFound) {
		return fmt.Errorf("kv delete %s: %w", key, err)
	}
	return nil
}

// storageStore keeps snapshots in a mono storage.Storage (Redis) under a
// key prefix. An empty value is treated as a miss.
type storageStore struct {
	resolve func() storage.Storage
	prefix  string
	ttl     time.Duration
}

// NewStorageStore returns a Store backed by s. Keys are written as prefix+key
// and expire after ttl; a zero ttl keeps them forever.
func NewStorageStore(s storage.Storage, prefix string, ttl time.Duration) Store {
	return &storageStore{
		resolve: func() storage.Storage { return s },
		prefix:  prefix,
		ttl:     ttl,
	}
}

func (s *storageStore) backend() (storage.Storage, error) {
	st := s.resolve()
	if st == nil {
		return nil, ErrStoreUnavailable
	}
	return st, nil
}

func (s *storageStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	st, err := s.backend()
	if err != nil {
		return nil, false, err
	}
	data, err := st.GetWithContext(ctx, s.prefix+key)
	if err != nil {
		return nil, false, fmt.Errorf("storage get %s: %w", s.prefix+key, err)
	}
	if len(data) == 0 {
		return nil, false, nil
	}
	return data, true, nil
}

func (s *storageStore) Save(ctx context.Context, key string, data []byte) error {
	st, err := s.backend()
	if err != nil {
		return err
	}
	if err := st.SetWithContext(ctx, s.prefix+key, data, s.ttl); err != nil {
		return fmt.Errorf("storage set %s: %w", s.prefix+key, err)
	}
	return nil
}

func (s *storageStore) Delete(ctx context.Context, key string) error {
	st, err := s.backend()
	if err != nil {
		return err
	}
	if err := st.DeleteWithContext(ctx, s.prefix+key); err != nil {
		return fmt.Errorf("storage delete %s: %w", s.prefix+key, err)
	}
	return nil
}

// MemoryStore is a process-local Store used in tests and when no snapshot
// plugin is registered. SaveErr, when set, makes every Save fail.
type MemoryStore struct {
	mu      sync.RWMutex
	data    map[string][]byte
	SaveErr error
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Load(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

func (s *MemoryStore) Save(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.data[key] = append([]byte(nil), data...)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Put writes raw bytes for key, bypassing SaveErr.
func (s *MemoryStore) Put(key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = data
}

// Len returns the number of stored documents.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
