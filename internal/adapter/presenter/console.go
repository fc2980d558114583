package presenter

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"ragtour/internal/domain"
)

// TotalStages is the number of stages across both flows.
const TotalStages = domain.StageEvaluation

// Console renders stage records as human readable text with a progress bar
// over the ten stages. Pacing inserts a pause after each record.
type Console struct {
	mu       sync.Mutex
	out      io.Writer
	bar      *progressbar.ProgressBar
	pacing   time.Duration
	showTech bool
	noBar    bool
}

// ConsoleOption configures a Console.
type ConsoleOption func(*Console)

// WithPacing pauses for d after each stage.
func WithPacing(d time.Duration) ConsoleOption {
	return func(c *Console) { c.pacing = d }
}

// WithTechDetails includes raw vectors and scores in the output.
func WithTechDetails(show bool) ConsoleOption {
	return func(c *Console) { c.showTech = show }
}

// WithoutProgressBar disables the progress bar.
func WithoutProgressBar() ConsoleOption {
	return func(c *Console) { c.noBar = true }
}

func NewConsole(out io.Writer, opts ...ConsoleOption) *Console {
	c := &Console{out: out}
	for _, opt := range opts {
		opt(c)
	}
	if !c.noBar {
		c.bar = progressbar.NewOptions(TotalStages,
			progressbar.OptionSetWriter(out),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowBytes(false),
			progressbar.OptionSetWidth(30),
			progressbar.OptionShowCount(),
			progressbar.OptionSetDescription("[cyan]Pipeline[reset]"),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(out)
			}),
		)
	}
	return c
}

func (c *Console) Present(ctx context.Context, rec domain.StageRecord) error {
	c.mu.Lock()
	fmt.Fprintf(c.out, "\n[%d/%d] %s\n", rec.Index, TotalStages, rec.Title)
	if rec.Subtitle != "" {
		fmt.Fprintf(c.out, "      %s\n", rec.Subtitle)
	}
	if body := c.render(rec); body != "" {
		fmt.Fprintln(c.out, body)
	}
	if c.bar != nil {
		if rec.Index == domain.StageDataCollection || rec.Index == domain.StageQueryEmbedding {
			c.bar.Reset()
		}
		_ = c.bar.Set(rec.Index)
		fmt.Fprintln(c.out)
	}
	c.mu.Unlock()

	if c.pacing <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(c.pacing)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Console) render(rec domain.StageRecord) string {
	var b strings.Builder

	switch d := rec.Data.(type) {
	case domain.CollectionOutput:
		fmt.Fprintf(&b, "  pages: %d  characters: %d  tokens: ~%d\n", d.Pages, d.Characters, d.Tokens)
		fmt.Fprintf(&b, "  preview: %s", truncate(d.Preview, 80))

	case domain.ChunkingOutput:
		fmt.Fprintf(&b, "  chunks: %d  avg tokens: %d  max size: %d\n", len(d.Chunks), d.AvgTokens, d.MaxSize)
		for _, ch := range d.Chunks {
			fmt.Fprintf(&b, "  %-8s p.%d %-28s %3d tokens\n", ch.ID, ch.Metadata.Page, ch.Metadata.Title, ch.TokenCount)
		}

	case domain.EmbeddingOutput:
		fmt.Fprintf(&b, "  vectors: %d  dimension: %d  dtype: %s", d.Vectors, d.Dimension, d.Dtype)
		if c.showTech {
			for _, id := range d.Order {
				fmt.Fprintf(&b, "\n  %-8s %s", id, formatVector(d.Embeddings[id]))
			}
		}

	case domain.VectorDatabaseOutput:
		fmt.Fprintf(&b, "  stored: %d  status: %s  index: %s", d.Stored, d.Status, d.IndexType)

	case domain.QueryEmbeddingOutput:
		fmt.Fprintf(&b, "  query: %q  keyword: %s  dims: %d", d.Query, d.Keyword, d.Dimension)
		if c.showTech {
			fmt.Fprintf(&b, "\n  model: %s", d.Model)
			fmt.Fprintf(&b, "\n  vector: %s", formatVector(d.Vector))
		}

	case domain.RetrievalOutput:
		top := make(map[string]bool, len(d.TopK))
		for _, s := range d.TopK {
			top[s.Chunk.ID] = true
		}
		for _, s := range d.Scored {
			marker := " "
			if top[s.Chunk.ID] {
				marker = "*"
			}
			fmt.Fprintf(&b, "  %s %-8s %-28s %.4f\n", marker, s.Chunk.ID, s.Chunk.Metadata.Title, s.Similarity)
		}

	case domain.RerankOutput:
		if c.showTech {
			fmt.Fprintf(&b, "  model: %s\n", d.Model)
		}
		for i, r := range d.Results {
			fmt.Fprintf(&b, "  %d. %-8s %-28s %.4f (was #%d)\n", i+1, r.Chunk.ID, r.Chunk.Metadata.Title, r.RerankScore, r.OriginalRank)
		}

	case domain.PromptOutput:
		if c.showTech {
			b.WriteString(indent(d.Prompt.Text))
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "  prompt tokens: ~%d", d.Prompt.TokenCount)

	case domain.GenerationOutput:
		if c.showTech {
			fmt.Fprintf(&b, "  model: %s\n", d.Model)
		}
		b.WriteString(indent(d.Answer))

	case domain.EvaluationOutput:
		fmt.Fprintf(&b, "  confidence: %d%%  relevance: %d%%", d.Evaluation.Confidence, d.Evaluation.Relevance)
	}

	return strings.TrimRight(b.String(), "\n")
}

func formatVector(v []float32) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = fmt.Sprintf("%.2f", x)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n")
}
