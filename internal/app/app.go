// Package app assembles a pipeline from configuration.
package app

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"ragtour/config"
	"ragtour/internal/adapter/analyzer"
	"ragtour/internal/adapter/cache"
	"ragtour/internal/adapter/chunker"
	"ragtour/internal/adapter/embedding"
	"ragtour/internal/adapter/evaluator"
	"ragtour/internal/adapter/fixture"
	"ragtour/internal/adapter/llm"
	"ragtour/internal/adapter/memstore"
	"ragtour/internal/adapter/presenter"
	"ragtour/internal/adapter/random"
	"ragtour/internal/adapter/retriever"
	"ragtour/internal/adapter/store"
	"ragtour/internal/port"
	"ragtour/internal/usecase"
)

// App is a wired pipeline plus the resources it holds open.
type App struct {
	Pipeline *usecase.Pipeline
	Fixture  *fixture.Fixture
	Cache    *cache.QueryCache

	bolt *store.BoltStore
}

// Options are the per-invocation inputs that do not live in Config.
type Options struct {
	RootDir   string
	Presenter port.Presenter
	Logger    logrus.FieldLogger
}

// New resolves the fixture, opens the configured store and wires every stage.
func New(cfg *config.Config, opts Options) (*App, error) {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	f, err := fixture.Resolve(opts.RootDir, cfg.Fixture.Path, cfg.Fixture.Pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to load fixture: %w", err)
	}

	a := &App{Fixture: f}

	var vs port.VectorStore
	resume := false
	switch cfg.Store.Backend {
	case config.BackendBolt:
		vs, resume, err = a.openBolt(cfg, opts.RootDir, log)
		if err != nil {
			return nil, err
		}
	default:
		vs = memstore.NewVectorStore()
	}

	rng := random.NewSource(cfg.Random.Seed)
	tokenizer := analyzer.NewTokenizer()

	var ret port.Retriever = retriever.NewVectorRetriever(vs)
	if cfg.Retrieve.CacheEnabled {
		a.Cache = cache.NewQueryCache(cfg.Retrieve.CacheSize, cfg.Retrieve.CacheTTL)
		ret = cache.NewCachedRetriever(ret, a.Cache)
	}

	pres := opts.Presenter
	if pres == nil {
		pres = presenter.Discard
	}

	a.Pipeline = usecase.NewPipeline(usecase.PipelineDeps{
		Catalog: usecase.Catalog{
			Documents:   f.Documents,
			Embeddings:  f.Embeddings,
			Suggestions: f.Suggestions,
		},
		Chunker:   chunker.NewDocumentChunker(tokenizer),
		Store:     vs,
		Embedder:  embedding.NewKeywordEmbedder(f),
		Retriever: ret,
		Reranker:  retriever.NewCrossEncoderReranker(rng, cfg.Rerank.JitterMin, cfg.Rerank.JitterMax),
		Prompts:   usecase.NewPromptUseCase(tokenizer),
		LLM:       llm.NewCannedLLM(f),
		Evaluator: evaluator.NewRandomEvaluator(rng,
			evaluator.Range{Min: cfg.Evaluate.ConfidenceMin, Max: cfg.Evaluate.ConfidenceMax},
			evaluator.Range{Min: cfg.Evaluate.RelevanceMin, Max: cfg.Evaluate.RelevanceMax},
		),
		Tokenizer: tokenizer,
		Presenter: pres,
		Logger:    log,
		MaxChunk:  chunker.MaxChunkTokens,
	})

	if resume {
		if err := a.Pipeline.Resume(); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to resume persisted store: %w", err)
		}
		log.WithField("fixture", f.Name).Info("resumed persisted vector store")
	}

	return a, nil
}

// openBolt opens the persistent store. It reports whether the stored entries
// were built from this fixture and can be resumed without re-ingesting.
func (a *App) openBolt(cfg *config.Config, root string, log logrus.FieldLogger) (port.VectorStore, bool, error) {
	if err := config.EnsureDataDir(root); err != nil {
		return nil, false, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := cfg.StoreDBPath(root)
	bs, err := store.NewBoltStore(dbPath)
	if err != nil {
		return nil, false, fmt.Errorf("failed to open vector store: %w", err)
	}
	a.bolt = bs

	vs, err := store.NewBoltVectorStore(bs.DB())
	if err != nil {
		a.Close()
		return nil, false, fmt.Errorf("failed to open vector bucket: %w", err)
	}

	fingerprint := a.Fixture.Fingerprint()
	result, err := bs.CheckMigration(fingerprint)
	if err != nil {
		a.Close()
		return nil, false, fmt.Errorf("failed to check store schema: %w", err)
	}

	if result.NeedsRebuild || result.OldVersion == 0 {
		log.WithField("reason", result.Reason).Info("resetting persisted vector store")
		if err := vs.Clear(); err != nil {
			a.Close()
			return nil, false, fmt.Errorf("failed to clear vector store: %w", err)
		}
		if err := bs.Migrate(fingerprint); err != nil {
			a.Close()
			return nil, false, fmt.Errorf("failed to record store schema: %w", err)
		}
		return vs, false, nil
	}

	count, err := vs.Count()
	if err != nil {
		a.Close()
		return nil, false, err
	}
	if count == len(a.Fixture.Documents) {
		return vs, true, nil
	}

	if count > 0 {
		log.WithFields(logrus.Fields{
			"stored":    count,
			"documents": len(a.Fixture.Documents),
		}).Info("discarding partial vector store")
		if err := vs.Clear(); err != nil {
			a.Close()
			return nil, false, fmt.Errorf("failed to clear vector store: %w", err)
		}
	}
	return vs, false, nil
}

// Close releases the persistent store, if any.
func (a *App) Close() error {
	if a.bolt == nil {
		return nil
	}
	err := a.bolt.Close()
	a.bolt = nil
	return err
}

// ConsolePresenter builds the presenter selected by the presentation config.
func ConsolePresenter(cfg *config.Config, out io.Writer) port.Presenter {
	if cfg.Presentation.Format == "json" {
		return presenter.NewJSONLines(out)
	}
	return presenter.NewConsole(out,
		presenter.WithPacing(cfg.Presentation.Pacing),
		presenter.WithTechDetails(cfg.Presentation.ShowTech),
	)
}
