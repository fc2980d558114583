package domain

// Document is one fixture page of the knowledge base.
type Document struct {
	Title  string `json:"title" yaml:"title"`
	Text   string `json:"text" yaml:"text"`
	Page   int    `json:"page" yaml:"page"`
	Source string `json:"source" yaml:"source,omitempty"`
}

type ChunkMetadata struct {
	Page   int    `json:"page"`
	Title  string `json:"title"`
	Source string `json:"source"`
}

// Chunk is the retrievable unit derived from exactly one Document.
// Embedding stays nil until indexing assigns it.
type Chunk struct {
	ID         string        `json:"id"`
	Text       string        `json:"text"`
	TokenCount int           `json:"token_count"`
	Metadata   ChunkMetadata `json:"metadata"`
	Embedding  []float32     `json:"embedding,omitempty"`
}

// Clone returns a deep copy so stored entries never alias working chunks.
func (c Chunk) Clone() Chunk {
	out := c
	if c.Embedding != nil {
		out.Embedding = make([]float32, len(c.Embedding))
		copy(out.Embedding, c.Embedding)
	}
	return out
}

// CloneChunks deep-copies a chunk slice.
func CloneChunks(chunks []Chunk) []Chunk {
	if chunks == nil {
		return nil
	}
	out := make([]Chunk, len(chunks))
	for i, c := range chunks {
		out[i] = c.Clone()
	}
	return out
}

// ScoredChunk is a vector store entry with its similarity to the query.
type ScoredChunk struct {
	Chunk      Chunk   `json:"chunk"`
	Similarity float64 `json:"similarity"`
}

// RerankedChunk carries the second-pass score and the 1-based position the
// item held before reranking.
type RerankedChunk struct {
	ScoredChunk
	RerankScore  float64 `json:"rerank_score"`
	OriginalRank int     `json:"original_rank"`
}

// QueryVector is the resolved embedding for a query string.
type QueryVector struct {
	Keyword string    `json:"keyword"`
	Vector  []float32 `json:"vector"`
}

type Prompt struct {
	System     string `json:"system"`
	Context    string `json:"context"`
	Question   string `json:"question"`
	Text       string `json:"text"`
	TokenCount int    `json:"token_count"`
}

type Evaluation struct {
	Confidence int `json:"confidence"`
	Relevance  int `json:"relevance"`
}

// Feedback ratings accepted on a query session.
const (
	FeedbackUp   = "up"
	FeedbackDown = "down"
)

// QuerySession holds everything derived by the most recent query flow.
type QuerySession struct {
	RunID      string          `json:"run_id"`
	Query      string          `json:"query"`
	Resolved   QueryVector     `json:"resolved"`
	Scored     []ScoredChunk   `json:"scored"`
	TopK       []ScoredChunk   `json:"top_k"`
	Reranked   []RerankedChunk `json:"reranked"`
	Prompt     Prompt          `json:"prompt"`
	Answer     string          `json:"answer"`
	Evaluation Evaluation      `json:"evaluation"`
	Feedback   string          `json:"feedback,omitempty"`
	Stages     []StageRecord   `json:"stages"`
}

// IngestReport summarises a completed ingestion flow.
type IngestReport struct {
	RunID  string        `json:"run_id"`
	Chunks int           `json:"chunks"`
	Stored int           `json:"stored"`
	Stages []StageRecord `json:"stages"`
}

// GraphNode is one stored chunk as seen from the last query.
type GraphNode struct {
	ChunkID    string  `json:"chunk_id"`
	Label      string  `json:"label"`
	Title      string  `json:"title"`
	Similarity float64 `json:"similarity"`
	IsTop      bool    `json:"is_top"`
}

// Graph is the query-to-chunk similarity view of the last query flow.
type Graph struct {
	Query   string      `json:"query"`
	Keyword string      `json:"keyword"`
	Nodes   []GraphNode `json:"nodes"`
}
