package app

import (
	"context"
	"errors"
	"testing"

	"ragtour/config"
	"ragtour/internal/adapter/store"
	"ragtour/internal/domain"
	"ragtour/internal/logging"
	"ragtour/internal/usecase"
)

func TestNew_MemoryBackend(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Random.Seed = 1

	a, err := New(cfg, Options{RootDir: t.TempDir(), Logger: logging.Discard()})
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	if a.Pipeline.State() != usecase.StateIdle {
		t.Errorf("expected idle, got %s", a.Pipeline.State())
	}
	if a.Cache == nil {
		t.Error("expected retrieval cache to be enabled by default")
	}

	ctx := context.Background()
	if _, err := a.Pipeline.Ingest(ctx); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if _, err := a.Pipeline.Query(ctx, "What is TypeScript?"); err != nil {
			t.Fatal(err)
		}
	}
	if hits, _ := a.Cache.Stats(); hits != 1 {
		t.Errorf("expected repeated keyword to hit the cache once, got %d", hits)
	}
}

func TestNew_BoltBackendResumes(t *testing.T) {
	root := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Store.Backend = config.BackendBolt
	opts := Options{RootDir: root, Logger: logging.Discard()}

	first, err := New(cfg, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.Pipeline.State() != usecase.StateIdle {
		t.Errorf("fresh store should start idle, got %s", first.Pipeline.State())
	}
	if _, err := first.Pipeline.Ingest(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := first.Close(); err != nil {
		t.Fatal(err)
	}

	second, err := New(cfg, opts)
	if err != nil {
		t.Fatal(err)
	}
	defer second.Close()

	if second.Pipeline.State() != usecase.StateIngested {
		t.Fatalf("expected persisted store to resume as ingested, got %s", second.Pipeline.State())
	}
	s, err := second.Pipeline.Query(context.Background(), "strict null checks")
	if err != nil {
		t.Fatal(err)
	}
	if s.TopK[0].Chunk.ID != "chunk_5" {
		t.Errorf("expected chunk_5 first, got %s", s.TopK[0].Chunk.ID)
	}
}

func TestNew_BoltBackendDiscardsPartialStore(t *testing.T) {
	root := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Store.Backend = config.BackendBolt
	opts := Options{RootDir: root, Logger: logging.Discard()}

	first, err := New(cfg, opts)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := first.Pipeline.Ingest(context.Background()); err != nil {
		t.Fatal(err)
	}
	vs, err := store.NewBoltVectorStore(first.bolt.DB())
	if err != nil {
		t.Fatal(err)
	}
	entries, err := vs.Entries()
	if err != nil {
		t.Fatal(err)
	}
	if err := vs.Replace(entries[:2]); err != nil {
		t.Fatal(err)
	}
	if err := first.Close(); err != nil {
		t.Fatal(err)
	}

	second, err := New(cfg, opts)
	if err != nil {
		t.Fatal(err)
	}
	defer second.Close()

	if second.Pipeline.State() != usecase.StateIdle {
		t.Errorf("expected idle after partial store, got %s", second.Pipeline.State())
	}
	if n, err := second.Pipeline.Stored(); err != nil || n != 0 {
		t.Errorf("expected partial store to be cleared, got %d (%v)", n, err)
	}
	if _, err := second.Pipeline.Query(context.Background(), "strict"); !errors.Is(err, domain.ErrEmptyStore) {
		t.Errorf("expected ErrEmptyStore, got %v", err)
	}
}
