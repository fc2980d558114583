package domain

import (
	"encoding/json"
	"math"
)

// encoding/json has no NaN, so an unrankable score travels as null and
// decodes back to NaN.

func scoreOut(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func scoreIn(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}

// Unrankable reports whether the similarity could not be computed, as with
// a zero vector.
func (s ScoredChunk) Unrankable() bool {
	return math.IsNaN(s.Similarity)
}

type scoredJSON struct {
	Chunk      Chunk    `json:"chunk"`
	Similarity *float64 `json:"similarity"`
	Unrankable bool     `json:"unrankable,omitempty"`
}

func (s ScoredChunk) toJSON() scoredJSON {
	return scoredJSON{
		Chunk:      s.Chunk,
		Similarity: scoreOut(s.Similarity),
		Unrankable: s.Unrankable(),
	}
}

func (s ScoredChunk) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.toJSON())
}

func (s *ScoredChunk) UnmarshalJSON(data []byte) error {
	var raw scoredJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Chunk = raw.Chunk
	s.Similarity = scoreIn(raw.Similarity)
	return nil
}

type rerankedJSON struct {
	scoredJSON
	RerankScore  *float64 `json:"rerank_score"`
	OriginalRank int      `json:"original_rank"`
}

// MarshalJSON shadows the promoted ScoredChunk method so the rerank fields
// are kept.
func (r RerankedChunk) MarshalJSON() ([]byte, error) {
	return json.Marshal(rerankedJSON{
		scoredJSON:   r.ScoredChunk.toJSON(),
		RerankScore:  scoreOut(r.RerankScore),
		OriginalRank: r.OriginalRank,
	})
}

func (r *RerankedChunk) UnmarshalJSON(data []byte) error {
	var raw rerankedJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Chunk = raw.Chunk
	r.Similarity = scoreIn(raw.Similarity)
	r.RerankScore = scoreIn(raw.RerankScore)
	r.OriginalRank = raw.OriginalRank
	return nil
}

type graphNodeJSON struct {
	ChunkID    string   `json:"chunk_id"`
	Label      string   `json:"label"`
	Title      string   `json:"title"`
	Similarity *float64 `json:"similarity"`
	Unrankable bool     `json:"unrankable,omitempty"`
	IsTop      bool     `json:"is_top"`
}

func (n GraphNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(graphNodeJSON{
		ChunkID:    n.ChunkID,
		Label:      n.Label,
		Title:      n.Title,
		Similarity: scoreOut(n.Similarity),
		Unrankable: math.IsNaN(n.Similarity),
		IsTop:      n.IsTop,
	})
}

func (n *GraphNode) UnmarshalJSON(data []byte) error {
	var raw graphNodeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	n.ChunkID = raw.ChunkID
	n.Label = raw.Label
	n.Title = raw.Title
	n.Similarity = scoreIn(raw.Similarity)
	n.IsTop = raw.IsTop
	return nil
}
