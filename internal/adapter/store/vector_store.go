package store

import (
	"encoding/json"
	"fmt"
	"sync"

	"go.etcd.io/bbolt"
	"ragtour/internal/domain"
)

// BoltVectorStore implements port.VectorStore on a bbolt bucket. Keys are
// zero-padded positions so cursor order equals insertion order.
type BoltVectorStore struct {
	db *bbolt.DB
	mu sync.RWMutex
	// In-memory copy for fast reads
	entries []domain.Chunk
}

type storedEntry struct {
	ID         string               `json:"id"`
	Text       string               `json:"text"`
	TokenCount int                  `json:"tokens"`
	Metadata   domain.ChunkMetadata `json:"meta"`
	Vector     []float32            `json:"v"`
}

// NewBoltVectorStore creates a vector store on db and loads existing entries.
func NewBoltVectorStore(db *bbolt.DB) (*BoltVectorStore, error) {
	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketEntries)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create entries bucket: %w", err)
	}

	s := &BoltVectorStore{db: db}
	if err := s.loadEntries(); err != nil {
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}
	return s, nil
}

func (s *BoltVectorStore) loadEntries() error {
	return s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketEntries)
		if b == nil {
			return nil
		}

		return b.ForEach(func(k, v []byte) error {
			var stored storedEntry
			if err := json.Unmarshal(v, &stored); err != nil {
				return fmt.Errorf("corrupted entry %s: %w", k, err)
			}
			s.entries = append(s.entries, domain.Chunk{
				ID:         stored.ID,
				Text:       stored.Text,
				TokenCount: stored.TokenCount,
				Metadata:   stored.Metadata,
				Embedding:  stored.Vector,
			})
			return nil
		})
	})
}

func entryKey(i int) []byte {
	return []byte(fmt.Sprintf("%08d", i))
}

// Replace drops the bucket contents and writes entries in one transaction.
func (s *BoltVectorStore) Replace(entries []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketEntries); err != nil && err != bbolt.ErrBucketNotFound {
			return err
		}
		b, err := tx.CreateBucket(bucketEntries)
		if err != nil {
			return err
		}

		for i, e := range entries {
			data, err := json.Marshal(storedEntry{
				ID:         e.ID,
				Text:       e.Text,
				TokenCount: e.TokenCount,
				Metadata:   e.Metadata,
				Vector:     e.Embedding,
			})
			if err != nil {
				return err
			}
			if err := b.Put(entryKey(i), data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store entries: %w", err)
	}

	s.entries = domain.CloneChunks(entries)
	return nil
}

func (s *BoltVectorStore) Entries() ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CloneChunks(s.entries), nil
}

func (s *BoltVectorStore) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

func (s *BoltVectorStore) Clear() error {
	return s.Replace(nil)
}
