package cache

import (
	"errors"
	"testing"
	"time"

	"ragtour/internal/domain"
)

type countingRetriever struct {
	calls int
	err   error
}

func (r *countingRetriever) Search(query domain.QueryVector) ([]domain.ScoredChunk, []domain.ScoredChunk, error) {
	r.calls++
	if r.err != nil {
		return nil, nil, r.err
	}
	scored := []domain.ScoredChunk{
		{Chunk: domain.Chunk{ID: "chunk_1", Embedding: []float32{1, 0}}, Similarity: 0.9},
		{Chunk: domain.Chunk{ID: "chunk_2", Embedding: []float32{0, 1}}, Similarity: 0.1},
	}
	return scored, scored[:1], nil
}

func TestCachedRetriever_HitAndInvalidate(t *testing.T) {
	inner := &countingRetriever{}
	r := NewCachedRetriever(inner, NewQueryCache(10, time.Minute))
	q := domain.QueryVector{Keyword: "typescript", Vector: []float32{1, 0}}

	if _, _, err := r.Search(q); err != nil {
		t.Fatal(err)
	}
	scored, top, err := r.Search(q)
	if err != nil {
		t.Fatal(err)
	}
	if inner.calls != 1 {
		t.Errorf("expected second search to hit cache, got %d calls", inner.calls)
	}
	if len(scored) != 2 || len(top) != 1 || top[0].Chunk.ID != "chunk_1" {
		t.Errorf("unexpected cached result: %+v %+v", scored, top)
	}

	hits, misses := r.Cache().Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("expected 1 hit / 1 miss, got %d / %d", hits, misses)
	}

	r.Invalidate()
	if _, _, err := r.Search(q); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 2 {
		t.Errorf("expected search after invalidate to miss, got %d calls", inner.calls)
	}
}

func TestCachedRetriever_ReturnsCopies(t *testing.T) {
	r := NewCachedRetriever(&countingRetriever{}, NewQueryCache(10, time.Minute))
	q := domain.QueryVector{Keyword: "strict"}

	scored, _, _ := r.Search(q)
	scored[0].Chunk.Embedding[0] = 42
	scored[0].Similarity = -1

	again, _, _ := r.Search(q)
	if again[0].Chunk.Embedding[0] != 1 || again[0].Similarity != 0.9 {
		t.Errorf("cached entry was mutated through a returned slice: %+v", again[0])
	}
}

func TestCachedRetriever_ErrorsNotCached(t *testing.T) {
	inner := &countingRetriever{err: domain.ErrEmptyStore}
	r := NewCachedRetriever(inner, NewQueryCache(10, time.Minute))
	q := domain.QueryVector{Keyword: "default"}

	for i := 0; i < 2; i++ {
		if _, _, err := r.Search(q); !errors.Is(err, domain.ErrEmptyStore) {
			t.Fatalf("expected ErrEmptyStore, got %v", err)
		}
	}
	if inner.calls != 2 {
		t.Errorf("errors should not be cached, got %d calls", inner.calls)
	}
}

func TestQueryCache_Eviction(t *testing.T) {
	c := NewQueryCache(2, time.Minute)
	c.Put("a", nil, nil)
	c.Put("b", nil, nil)
	c.Get("a")
	c.Put("c", nil, nil)

	if c.Size() != 2 {
		t.Fatalf("expected size 2, got %d", c.Size())
	}
	if _, _, ok := c.Get("b"); ok {
		t.Error("expected least recently used entry to be evicted")
	}
	if _, _, ok := c.Get("a"); !ok {
		t.Error("expected recently used entry to survive")
	}
}

func TestQueryCache_TTL(t *testing.T) {
	c := NewQueryCache(10, time.Millisecond)
	c.Put("a", nil, nil)
	time.Sleep(5 * time.Millisecond)
	if _, _, ok := c.Get("a"); ok {
		t.Error("expected entry to expire")
	}
}
