package embedding

import (
	"strings"

	"ragtour/internal/adapter/fixture"
	"ragtour/internal/domain"
)

// KeywordEmbedder resolves a query to a pre-baked vector by scanning the
// fixture's keyword table in order and taking the first keyword contained
// in the lower-cased query.
type KeywordEmbedder struct {
	table     []fixture.KeywordVector
	fallback  []float32
	dimension int
}

func NewKeywordEmbedder(f *fixture.Fixture) *KeywordEmbedder {
	fallback, _ := f.QueryVector(fixture.DefaultKeyword)
	return &KeywordEmbedder{
		table:     f.QueryVectors,
		fallback:  fallback,
		dimension: f.Dimension,
	}
}

func (e *KeywordEmbedder) Embed(query string) domain.QueryVector {
	q := strings.ToLower(query)
	for _, kv := range e.table {
		if strings.Contains(q, kv.Keyword) {
			return domain.QueryVector{Keyword: kv.Keyword, Vector: cloneVector(kv.Vector)}
		}
	}
	return domain.QueryVector{Keyword: fixture.DefaultKeyword, Vector: cloneVector(e.fallback)}
}

func (e *KeywordEmbedder) Dimension() int {
	return e.dimension
}

func (e *KeywordEmbedder) ModelName() string {
	return "fixture-keyword"
}

func cloneVector(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)
	return out
}
