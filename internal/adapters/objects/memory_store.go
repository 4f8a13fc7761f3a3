package objects

import (
	"context"
	"fmt"
	"sync"

	"github.com/mikey/llm-email-categorizer/internal/core"
)

// MemoryStore is an in-memory object store used by the SMTP intake and the CLI
type MemoryStore struct {
	objects map[core.ObjectRef][]byte
	mu      sync.RWMutex
}

var _ core.ObjectFetcher = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[core.ObjectRef][]byte)}
}

// Put stores an object
func (s *MemoryStore) Put(ref core.ObjectRef, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[ref] = data
}

// Fetch returns a stored object
func (s *MemoryStore) Fetch(_ context.Context, ref core.ObjectRef) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[ref]
	if !ok {
		return nil, fmt.Errorf("object not found: %s/%s", ref.Bucket, ref.Key)
	}
	return data, nil
}

// Delete removes an object
func (s *MemoryStore) Delete(ref core.ObjectRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, ref)
}
