package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"ragtour/internal/domain"
	"ragtour/internal/port"
)

// State is the orchestrator's position in the ingest/query lifecycle.
type State int

const (
	StateIdle State = iota
	StateIngesting
	StateIngested
	StateQuerying
	StateQueried
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateIngesting:
		return "ingesting"
	case StateIngested:
		return "ingested"
	case StateQuerying:
		return "querying"
	case StateQueried:
		return "queried"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

const (
	previewChars   = 200
	embeddingDtype = "float32"
	indexStatus    = "Indexed"
	indexType      = "Flat IP"
)

// Catalog is the fixture content a pipeline ingests.
type Catalog struct {
	Documents   []domain.Document
	Embeddings  [][]float32
	Suggestions []string
}

// PipelineDeps wires the stages together.
type PipelineDeps struct {
	Catalog   Catalog
	Chunker   port.Chunker
	Store     port.VectorStore
	Embedder  port.QueryEmbedder
	Retriever port.Retriever
	Reranker  port.Reranker
	Prompts   port.PromptBuilder
	LLM       port.LLM
	Evaluator port.Evaluator
	Tokenizer port.Tokenizer
	Presenter port.Presenter
	Logger    logrus.FieldLogger
	MaxChunk  int
}

// invalidator is implemented by retrievers that cache rankings.
type invalidator interface {
	Invalidate()
}

// Pipeline owns the session state and runs the ingestion and query flows.
// Flows are serialized: a call made while another flow is running fails
// with domain.ErrFlowInProgress.
type Pipeline struct {
	catalog   Catalog
	indexer   *IndexUseCase
	retrieve  *RetrieveUseCase
	prompts   port.PromptBuilder
	llm       port.LLM
	evaluator port.Evaluator
	tokenizer port.Tokenizer
	presenter port.Presenter
	log       logrus.FieldLogger
	maxChunk  int
	cache     invalidator

	mu      sync.Mutex
	busy    bool
	state   State
	chunks  []domain.Chunk
	session *domain.QuerySession
}

// NewPipeline creates an idle pipeline.
func NewPipeline(deps PipelineDeps) *Pipeline {
	p := &Pipeline{
		catalog:   deps.Catalog,
		indexer:   NewIndexUseCase(deps.Chunker, deps.Store),
		retrieve:  NewRetrieveUseCase(deps.Embedder, deps.Retriever, deps.Reranker),
		prompts:   deps.Prompts,
		llm:       deps.LLM,
		evaluator: deps.Evaluator,
		tokenizer: deps.Tokenizer,
		presenter: deps.Presenter,
		log:       deps.Logger,
		maxChunk:  deps.MaxChunk,
		state:     StateIdle,
	}
	if p.log == nil {
		p.log = logrus.StandardLogger()
	}
	if inv, ok := deps.Retriever.(invalidator); ok {
		p.cache = inv
	}
	return p
}

// Resume marks an already populated store as ingested. It is used when a
// persistent store was built from the same catalog by an earlier process.
func (p *Pipeline) Resume() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.busy {
		return domain.ErrFlowInProgress
	}

	entries, err := p.indexer.store.Entries()
	if err != nil {
		return fmt.Errorf("failed to read vector store: %w", err)
	}
	if len(entries) == 0 {
		return domain.ErrEmptyStore
	}

	p.chunks = entries
	p.session = nil
	p.state = StateIngested
	return nil
}

// State returns the current lifecycle state.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Session returns a copy of the last completed query session.
func (p *Pipeline) Session() (*domain.QuerySession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session == nil {
		return nil, domain.ErrNoSession
	}
	s := *p.session
	return &s, nil
}

// Stored returns the number of entries in the vector store.
func (p *Pipeline) Stored() (int, error) {
	return p.indexer.Stored()
}

// Suggestions returns the catalog's suggested queries.
func (p *Pipeline) Suggestions() []string {
	out := make([]string, len(p.catalog.Suggestions))
	copy(out, p.catalog.Suggestions)
	return out
}

// begin claims the pipeline for a flow and returns the state to restore
// if the flow fails.
func (p *Pipeline) begin(next State) (State, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.busy {
		return p.state, domain.ErrFlowInProgress
	}
	prev := p.state
	p.busy = true
	p.state = next
	return prev, nil
}

func (p *Pipeline) finish(state State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.busy = false
	p.state = state
}

// flowRun collects the stage records of one flow.
type flowRun struct {
	ctx       context.Context
	id        string
	flow      string
	presenter port.Presenter
	stages    []domain.StageRecord
}

func (r *flowRun) emit(index int, title, subtitle string, data any) error {
	rec := domain.StageRecord{
		RunID:    r.id,
		Flow:     r.flow,
		Index:    index,
		Title:    title,
		Subtitle: subtitle,
		Data:     data,
	}
	r.stages = append(r.stages, rec)
	if r.presenter == nil {
		return nil
	}
	if err := r.presenter.Present(r.ctx, rec); err != nil {
		return fmt.Errorf("presenting stage %d: %w", index, err)
	}
	return nil
}

// Ingest runs the ingestion flow: collection, chunking, embedding and
// indexing. On failure the store is left empty and the pipeline is idle.
func (p *Pipeline) Ingest(ctx context.Context) (*domain.IngestReport, error) {
	if _, err := p.begin(StateIngesting); err != nil {
		return nil, err
	}

	run := &flowRun{ctx: ctx, id: uuid.NewString(), flow: domain.FlowIngestion, presenter: p.presenter}
	log := p.log.WithFields(logrus.Fields{"run_id": run.id, "flow": run.flow})
	log.Info("ingestion started")

	report, err := p.ingest(run)
	if err != nil {
		if clearErr := p.indexer.Reset(); clearErr != nil {
			log.WithError(clearErr).Warn("failed to clear store after ingestion error")
		}
		p.mu.Lock()
		p.chunks = nil
		p.mu.Unlock()
		p.finish(StateIdle)
		log.WithError(err).Error("ingestion failed")
		return nil, err
	}

	p.finish(StateIngested)
	log.WithField("stored", report.Stored).Info("ingestion complete")
	return report, nil
}

func (p *Pipeline) ingest(run *flowRun) (*domain.IngestReport, error) {
	p.mu.Lock()
	p.chunks = nil
	p.session = nil
	p.mu.Unlock()

	if p.cache != nil {
		p.cache.Invalidate()
	}
	if err := p.indexer.Reset(); err != nil {
		return nil, err
	}

	docs := p.catalog.Documents
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: no documents", domain.ErrUnresolvedFixture)
	}

	texts := make([]string, len(docs))
	chars := 0
	for i, d := range docs {
		texts[i] = d.Text
		chars += utf8.RuneCountInString(d.Text)
	}
	collection := domain.CollectionOutput{
		Pages:      len(docs),
		Characters: chars,
		Tokens:     p.tokenizer.CountTokens(strings.Join(texts, " ")),
		Preview:    preview(docs[0].Text, previewChars),
	}
	if err := run.emit(domain.StageDataCollection, "Data Collection",
		"Load source documents into memory", collection); err != nil {
		return nil, err
	}

	chunks := p.indexer.Chunk(docs)
	p.mu.Lock()
	p.chunks = chunks
	p.mu.Unlock()

	total := 0
	for _, c := range chunks {
		total += c.TokenCount
	}
	chunking := domain.ChunkingOutput{
		Chunks:    domain.CloneChunks(chunks),
		AvgTokens: int(math.Round(float64(total) / float64(len(chunks)))),
		MaxSize:   p.maxChunk,
	}
	if err := run.emit(domain.StageChunking, "Chunking",
		"Split documents into retrievable chunks", chunking); err != nil {
		return nil, err
	}

	working, err := p.indexer.Index(chunks, p.catalog.Embeddings)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.chunks = working
	p.mu.Unlock()

	embeddings := make(map[string][]float32, len(working))
	order := make([]string, len(working))
	dimension := 0
	for i, c := range working {
		embeddings[c.ID] = append([]float32(nil), c.Embedding...)
		order[i] = c.ID
		dimension = len(c.Embedding)
	}
	if err := run.emit(domain.StageEmbedding, "Embedding Generation",
		"Map each chunk to a dense vector", domain.EmbeddingOutput{
			Vectors:    len(working),
			Dimension:  dimension,
			Dtype:      embeddingDtype,
			Embeddings: embeddings,
			Order:      order,
		}); err != nil {
		return nil, err
	}

	stored, err := p.indexer.Stored()
	if err != nil {
		return nil, fmt.Errorf("failed to count stored vectors: %w", err)
	}
	if err := run.emit(domain.StageVectorDatabase, "Vector Database",
		"Store vectors in a flat inner-product index", domain.VectorDatabaseOutput{
			Stored:    stored,
			Status:    indexStatus,
			IndexType: indexType,
		}); err != nil {
		return nil, err
	}

	return &domain.IngestReport{
		RunID:  run.id,
		Chunks: len(working),
		Stored: stored,
		Stages: run.stages,
	}, nil
}

// Query runs the query flow for text. The new session replaces the old one
// only if every stage succeeds.
func (p *Pipeline) Query(ctx context.Context, text string) (*domain.QuerySession, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyQuery
	}

	prev, err := p.begin(StateQuerying)
	if err != nil {
		return nil, err
	}

	run := &flowRun{ctx: ctx, id: uuid.NewString(), flow: domain.FlowQuery, presenter: p.presenter}
	log := p.log.WithFields(logrus.Fields{"run_id": run.id, "flow": run.flow})

	session, err := p.query(run, text)
	if err != nil {
		p.finish(prev)
		log.WithError(err).Warn("query failed")
		return nil, err
	}

	p.mu.Lock()
	p.session = session
	p.mu.Unlock()
	p.finish(StateQueried)

	log.WithFields(logrus.Fields{
		"keyword": session.Resolved.Keyword,
		"top":     session.TopK[0].Chunk.ID,
	}).Info("query complete")

	out := *session
	return &out, nil
}

func (p *Pipeline) query(run *flowRun, text string) (*domain.QuerySession, error) {
	count, err := p.indexer.Stored()
	if err != nil {
		return nil, fmt.Errorf("failed to count stored vectors: %w", err)
	}
	if count == 0 {
		return nil, domain.ErrEmptyStore
	}

	session := &domain.QuerySession{RunID: run.id, Query: text}

	session.Resolved = p.retrieve.Resolve(text)
	model, dim := p.retrieve.EmbedderModel()
	if err := run.emit(domain.StageQueryEmbedding, "Query Embedding",
		"Embed the question into the chunk vector space", domain.QueryEmbeddingOutput{
			Query:     text,
			Keyword:   session.Resolved.Keyword,
			Vector:    append([]float32(nil), session.Resolved.Vector...),
			Dimension: dim,
			Model:     model,
		}); err != nil {
		return nil, err
	}

	session.Scored, session.TopK, err = p.retrieve.Search(session.Resolved)
	if err != nil {
		return nil, err
	}
	if err := run.emit(domain.StageRetrieval, "Top-K Retrieval",
		fmt.Sprintf("Cosine similarity against every stored vector, keep top %d", len(session.TopK)),
		domain.RetrievalOutput{Scored: session.Scored, TopK: session.TopK}); err != nil {
		return nil, err
	}

	session.Reranked = p.retrieve.Rerank(session.TopK)
	if err := run.emit(domain.StageReranking, "Reranking",
		"Rescore candidates with a cross-encoder", domain.RerankOutput{
			Results: session.Reranked,
			Model:   p.retrieve.RerankerModel(),
		}); err != nil {
		return nil, err
	}

	session.Prompt = p.prompts.Build(text, session.Reranked)
	if err := run.emit(domain.StagePrompt, "Prompt Construction",
		"Assemble system instruction, context and question", domain.PromptOutput{Prompt: session.Prompt}); err != nil {
		return nil, err
	}

	session.Answer = p.llm.Generate(text)
	if err := run.emit(domain.StageGeneration, "LLM Answer Generation",
		"Generate a grounded answer with citations", domain.GenerationOutput{
			Answer: session.Answer,
			Model:  p.llm.ModelName(),
		}); err != nil {
		return nil, err
	}

	session.Evaluation = p.evaluator.Evaluate()
	if err := run.emit(domain.StageEvaluation, "Evaluation & Feedback",
		"Score the answer and collect feedback", domain.EvaluationOutput{Evaluation: session.Evaluation}); err != nil {
		return nil, err
	}

	session.Stages = run.stages
	return session, nil
}

// RecordFeedback stores a rating on the current session.
func (p *Pipeline) RecordFeedback(rating string) error {
	rating = strings.ToLower(strings.TrimSpace(rating))
	if rating != domain.FeedbackUp && rating != domain.FeedbackDown {
		return fmt.Errorf("invalid feedback rating %q: want %q or %q", rating, domain.FeedbackUp, domain.FeedbackDown)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session == nil {
		return domain.ErrNoSession
	}
	p.session.Feedback = rating
	p.log.WithFields(logrus.Fields{"run_id": p.session.RunID, "rating": rating}).Info("feedback recorded")
	return nil
}

// Graph returns the similarity view of the last query.
func (p *Pipeline) Graph() (*domain.Graph, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session == nil {
		return nil, domain.ErrNoSession
	}

	top := make(map[string]bool, len(p.session.TopK))
	for _, s := range p.session.TopK {
		top[s.Chunk.ID] = true
	}

	nodes := make([]domain.GraphNode, len(p.session.Scored))
	for i, s := range p.session.Scored {
		nodes[i] = domain.GraphNode{
			ChunkID:    s.Chunk.ID,
			Label:      shortLabel(s.Chunk.Metadata.Title),
			Title:      s.Chunk.Metadata.Title,
			Similarity: s.Similarity,
			IsTop:      top[s.Chunk.ID],
		}
	}

	return &domain.Graph{
		Query:   p.session.Query,
		Keyword: p.session.Resolved.Keyword,
		Nodes:   nodes,
	}, nil
}

func shortLabel(title string) string {
	words := strings.Fields(title)
	if len(words) > 2 {
		words = words[:2]
	}
	return strings.Join(words, " ")
}

func preview(text string, n int) string {
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return string(r[:n])
}
