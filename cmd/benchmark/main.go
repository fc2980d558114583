package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"ragtour/config"
	"ragtour/internal/app"
	"ragtour/internal/domain"
	"ragtour/internal/logging"
)

func main() {
	dir := flag.String("dir", ".", "Project directory holding ragtour.yaml")
	query := flag.String("q", "", "Single query to test (default: every suggested query)")
	runs := flag.Int("runs", 50, "Query repetitions used to measure rerank stability")
	flag.Parse()

	cfg, err := config.LoadFromDir(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	// The benchmark never touches a persisted store.
	cfg.Store.Backend = config.BackendMemory

	a, err := app.New(cfg, app.Options{RootDir: *dir, Logger: logging.Discard()})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building pipeline: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	ctx := context.Background()
	if _, err := a.Pipeline.Ingest(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Ingestion error: %v\n", err)
		os.Exit(1)
	}

	queries := a.Fixture.Suggestions
	if *query != "" {
		queries = []string{*query}
	}
	if len(queries) == 0 {
		fmt.Println("Usage: go run cmd/benchmark/main.go -dir . -q \"query\"")
		os.Exit(1)
	}

	fmt.Println("RETRIEVAL BENCHMARK")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Fixture: %s (%d documents, dimension %d)\n", a.Fixture.Name, len(a.Fixture.Documents), a.Fixture.Dimension)
	fmt.Printf("Rerank jitter: [%.2f, %.2f]  runs per query: %d\n\n", cfg.Rerank.JitterMin, cfg.Rerank.JitterMax, *runs)

	totalTop := 0.0
	for _, q := range queries {
		session, err := a.Pipeline.Query(ctx, q)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Query error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Query: %q -> keyword %q\n", q, session.Resolved.Keyword)
		fmt.Println(strings.Repeat("-", 70))
		for i, s := range session.TopK {
			fmt.Printf("%d. [%s %.3f] %s (%s)\n", i+1, rating(s.Similarity), s.Similarity, s.Chunk.Metadata.Title, s.Chunk.ID)
		}

		flips, err := rerankFlips(ctx, a, q, session.TopK[0].Chunk.ID, *runs)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Query error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("   Rerank changed top-1 in %d/%d runs\n\n", flips, *runs)

		totalTop += session.TopK[0].Similarity
	}

	avg := totalTop / float64(len(queries))
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("QUALITY METRICS:\n")
	fmt.Printf("  Average top-1 similarity: %.3f\n", avg)

	if avg > 0.7 {
		fmt.Println("  Status: GOOD - query vectors separate the documents well")
	} else if avg > 0.4 {
		fmt.Println("  Status: OK - results are somewhat related")
	} else {
		fmt.Println("  Status: POOR - query vectors do not match the embeddings")
	}
}

// rerankFlips counts how often reranking displaces the retrieval top-1.
func rerankFlips(ctx context.Context, a *app.App, q, top string, runs int) (int, error) {
	flips := 0
	for i := 0; i < runs; i++ {
		s, err := a.Pipeline.Query(ctx, q)
		if err != nil {
			return 0, err
		}
		if firstID(s.Reranked) != top {
			flips++
		}
	}
	return flips, nil
}

func firstID(r []domain.RerankedChunk) string {
	if len(r) == 0 {
		return ""
	}
	return r[0].Chunk.ID
}

func rating(similarity float64) string {
	switch {
	case similarity > 0.7:
		return "HIGH"
	case similarity > 0.5:
		return "GOOD"
	case similarity > 0.3:
		return "OK"
	default:
		return "LOW"
	}
}
