package domain

// Flow names stamped on stage records.
const (
	FlowIngestion = "ingestion"
	FlowQuery     = "query"
)

// Stage indices, in the order the two flows emit them.
const (
	StageDataCollection = iota + 1
	StageChunking
	StageEmbedding
	StageVectorDatabase
	StageQueryEmbedding
	StageRetrieval
	StageReranking
	StagePrompt
	StageGeneration
	StageEvaluation
)

// StageRecord is what the core hands to a presentation adapter after each
// stage. Data holds one of the *Output types below.
type StageRecord struct {
	RunID    string `json:"run_id"`
	Flow     string `json:"flow"`
	Index    int    `json:"index"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Data     any    `json:"data"`
}

type CollectionOutput struct {
	Pages      int    `json:"pages"`
	Characters int    `json:"characters"`
	Tokens     int    `json:"tokens"`
	Preview    string `json:"preview"`
}

type ChunkingOutput struct {
	Chunks    []Chunk `json:"chunks"`
	AvgTokens int     `json:"avg_tokens"`
	MaxSize   int     `json:"max_size"`
}

type EmbeddingOutput struct {
	Vectors    int                  `json:"vectors"`
	Dimension  int                  `json:"dimension"`
	Dtype      string               `json:"dtype"`
	Embeddings map[string][]float32 `json:"embeddings"`
	Order      []string             `json:"order"`
}

type VectorDatabaseOutput struct {
	Stored    int    `json:"stored"`
	Status    string `json:"status"`
	IndexType string `json:"index_type"`
}

type QueryEmbeddingOutput struct {
	Query     string    `json:"query"`
	Keyword   string    `json:"keyword"`
	Vector    []float32 `json:"vector"`
	Dimension int       `json:"dimension"`
	Model     string    `json:"model"`
}

type RetrievalOutput struct {
	Scored []ScoredChunk `json:"scored"`
	TopK   []ScoredChunk `json:"top_k"`
}

type RerankOutput struct {
	Results []RerankedChunk `json:"results"`
	Model   string          `json:"model"`
}

type PromptOutput struct {
	Prompt Prompt `json:"prompt"`
}

type GenerationOutput struct {
	Answer string `json:"answer"`
	Model  string `json:"model"`
}

type EvaluationOutput struct {
	Evaluation Evaluation `json:"evaluation"`
}
