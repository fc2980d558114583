package memstore

import (
	"sync"

	"ragtour/internal/domain"
)

// VectorStore keeps indexed chunks in memory for the life of the process.
type VectorStore struct {
	mu      sync.RWMutex
	entries []domain.Chunk
}

func NewVectorStore() *VectorStore {
	return &VectorStore{}
}

func (s *VectorStore) Replace(entries []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = domain.CloneChunks(entries)
	return nil
}

func (s *VectorStore) Entries() ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CloneChunks(s.entries), nil
}

func (s *VectorStore) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

func (s *VectorStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	return nil
}
