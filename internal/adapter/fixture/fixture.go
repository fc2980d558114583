package fixture

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
	"ragtour/internal/domain"
)

// DefaultKeyword is the query-vector entry used when no keyword matches.
const DefaultKeyword = "default"

//go:embed typescript.yaml
var builtin []byte

// Fixture is the immutable catalog the pipeline runs on: documents, their
// pre-baked embeddings, the keyword query-vector table and canned answers.
type Fixture struct {
	Name          string            `yaml:"name"`
	Source        string            `yaml:"source"`
	Dimension     int               `yaml:"dimension"`
	Documents     []domain.Document `yaml:"documents"`
	Embeddings    [][]float32       `yaml:"embeddings"`
	QueryVectors  []KeywordVector   `yaml:"query_vectors"`
	Answers       []AnswerRule      `yaml:"answers"`
	DefaultAnswer string            `yaml:"default_answer"`
	Suggestions   []string          `yaml:"suggestions,omitempty"`
}

type KeywordVector struct {
	Keyword string    `yaml:"keyword"`
	Vector  []float32 `yaml:"vector,flow"`
}

// AnswerRule maps trigger substrings to a canned answer. A rule without
// triggers is only reachable as the default answer.
type AnswerRule struct {
	Key      string   `yaml:"key"`
	Triggers []string `yaml:"triggers,omitempty,flow"`
	Text     string   `yaml:"text"`
}

// Default returns the built-in TypeScript notes fixture.
func Default() (*Fixture, error) {
	return Parse(builtin)
}

// Load reads and validates a fixture file.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates fixture YAML.
func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnresolvedFixture, err)
	}

	for i := range f.Documents {
		if f.Documents[i].Source == "" {
			f.Documents[i].Source = f.Source
		}
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Discover returns the first file under root matching a doublestar pattern,
// in lexical order.
func Discover(root, pattern string) (string, error) {
	matches, err := doublestar.Glob(os.DirFS(root), pattern)
	if err != nil {
		return "", fmt.Errorf("invalid fixture pattern %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: no fixture matches %q under %s", domain.ErrUnresolvedFixture, pattern, root)
	}
	sort.Strings(matches)
	return filepath.Join(root, filepath.FromSlash(matches[0])), nil
}

// Resolve picks the fixture named by path, else by pattern under root, else
// the built-in one.
func Resolve(root, path, pattern string) (*Fixture, error) {
	switch {
	case path != "":
		return Load(path)
	case pattern != "":
		found, err := Discover(root, pattern)
		if err != nil {
			return nil, err
		}
		return Load(found)
	default:
		return Default()
	}
}

// Validate checks the cross-table invariants the pipeline relies on.
func (f *Fixture) Validate() error {
	fail := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", domain.ErrUnresolvedFixture, fmt.Sprintf(format, args...))
	}

	if f.Dimension <= 0 {
		return fail("dimension must be positive, got %d", f.Dimension)
	}
	if len(f.Documents) == 0 {
		return fail("no documents")
	}
	if len(f.Embeddings) != len(f.Documents) {
		return fail("%d embeddings for %d documents", len(f.Embeddings), len(f.Documents))
	}
	for i, emb := range f.Embeddings {
		if len(emb) != f.Dimension {
			return fail("embedding %d has %d dimensions, want %d", i, len(emb), f.Dimension)
		}
		if !finite(emb) {
			return fail("embedding %d has a non-finite component", i)
		}
	}

	seen := make(map[string]bool, len(f.QueryVectors))
	for _, qv := range f.QueryVectors {
		if qv.Keyword == "" {
			return fail("query vector with empty keyword")
		}
		if seen[qv.Keyword] {
			return fail("duplicate query keyword %q", qv.Keyword)
		}
		seen[qv.Keyword] = true
		if len(qv.Vector) != f.Dimension {
			return fail("query vector %q has %d dimensions, want %d", qv.Keyword, len(qv.Vector), f.Dimension)
		}
		if !finite(qv.Vector) {
			return fail("query vector %q has a non-finite component", qv.Keyword)
		}
	}
	if !seen[DefaultKeyword] {
		return fail("missing %q query vector", DefaultKeyword)
	}

	if _, ok := f.Answer(f.DefaultAnswer); !ok {
		return fail("default answer %q not found", f.DefaultAnswer)
	}
	for _, a := range f.Answers {
		if a.Text == "" {
			return fail("answer %q has no text", a.Key)
		}
	}

	return nil
}

// QueryVector returns the vector registered for keyword.
func (f *Fixture) QueryVector(keyword string) ([]float32, bool) {
	for _, qv := range f.QueryVectors {
		if qv.Keyword == keyword {
			return qv.Vector, true
		}
	}
	return nil, false
}

// Answer returns the answer text registered under key.
func (f *Fixture) Answer(key string) (string, bool) {
	for _, a := range f.Answers {
		if a.Key == key {
			return a.Text, true
		}
	}
	return "", false
}

// Fingerprint identifies the fixture content; persisted stores built from a
// different fingerprint are stale.
func (f *Fixture) Fingerprint() string {
	data, _ := yaml.Marshal(f)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:8])
}

// Marshal encodes the fixture back to YAML.
func (f *Fixture) Marshal() ([]byte, error) {
	return yaml.Marshal(f)
}

func finite(v []float32) bool {
	for _, x := range v {
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
