package storage

import (
	"context"
	"sync"
)

type memBlobs struct {
	mu sync.Mutex
	m  map[string][]byte
}

func (b *memBlobs) get(_ context.Context, keys ...string) (map[string][]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[string][]byte, len(keys))
	for _, k := range keys {
		if v, ok := b.m[k]; ok {
			out[k] = append([]byte(nil), v...)
		}
	}
	return out, nil
}

func (b *memBlobs) put(_ context.Context, kv map[string][]byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for k, v := range kv {
		b.m[k] = append([]byte(nil), v...)
	}
	return nil
}

// MemoryStore keeps blobs in process memory.
type MemoryStore struct {
	codec
	blobs *memBlobs
}

func NewMemory() *MemoryStore {
	b := &memBlobs{m: make(map[string][]byte)}
	return &MemoryStore{codec: codec{b: b}, blobs: b}
}

// Raw returns a copy of the blob stored under key.
func (s *MemoryStore) Raw(key string) ([]byte, bool) {
	got, _ := s.blobs.get(context.Background(), key)
	v, ok := got[key]
	return v, ok
}

func (s *MemoryStore) Close() error { return nil }
