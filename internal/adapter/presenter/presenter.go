package presenter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"ragtour/internal/domain"
	"ragtour/internal/port"
)

// JSONLines writes one JSON-encoded stage record per line.
type JSONLines struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func NewJSONLines(out io.Writer) *JSONLines {
	return &JSONLines{enc: json.NewEncoder(out)}
}

func (p *JSONLines) Present(ctx context.Context, rec domain.StageRecord) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.enc.Encode(rec); err != nil {
		return fmt.Errorf("failed to encode stage %d: %w", rec.Index, err)
	}
	return ctx.Err()
}

// Recorder keeps every record it is handed.
type Recorder struct {
	mu      sync.Mutex
	records []domain.StageRecord
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Present(ctx context.Context, rec domain.StageRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return nil
}

// Records returns a copy of the recorded stages.
func (r *Recorder) Records() []domain.StageRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.StageRecord, len(r.records))
	copy(out, r.records)
	return out
}

// Indices returns the stage indices seen, in order.
func (r *Recorder) Indices() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, len(r.records))
	for i, rec := range r.records {
		out[i] = rec.Index
	}
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = nil
}

// Multi fans a record out to several presenters and stops at the first error.
type Multi []port.Presenter

func (m Multi) Present(ctx context.Context, rec domain.StageRecord) error {
	for _, p := range m {
		if err := p.Present(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

type discard struct{}

func (discard) Present(ctx context.Context, rec domain.StageRecord) error {
	return nil
}

// Discard drops every record.
var Discard port.Presenter = discard{}
