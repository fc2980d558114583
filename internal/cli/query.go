package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"ragtour/internal/adapter/presenter"
	"ragtour/internal/app"
	"ragtour/internal/domain"
	"ragtour/internal/port"
	"ragtour/internal/usecase"
)

var (
	queryText   string
	queryJSON   bool
	queryIngest bool
	queryOutput string
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Run the query flow",
	Long: `Embed the question, retrieve the top 3 chunks by cosine similarity, rerank
them, assemble the prompt and produce the answer with its evaluation.

Examples:
  ragtour query -q "What is TypeScript?"
  ragtour query -q "strict null checks" --json -o session.json`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "question to ask (required)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output the query session as JSON")
	queryCmd.Flags().BoolVar(&queryIngest, "ingest", true, "run ingestion first when the store is empty")
	queryCmd.Flags().StringVarP(&queryOutput, "output", "o", "", "output file for --json (default: stdout)")
	queryCmd.MarkFlagRequired("query")
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	out := cmd.OutOrStdout()

	var pres port.Presenter = presenter.Discard
	if !queryJSON {
		pres = app.ConsolePresenter(cfg, out)
	}

	a, err := openApp(pres)
	if err != nil {
		return err
	}
	defer a.Close()

	session, err := ensureAndQuery(cmd, a.Pipeline, queryText, queryIngest)
	if err != nil {
		return err
	}

	if queryJSON {
		return writeJSON(out, queryOutput, session)
	}

	fmt.Fprintf(out, "\nTop source: %s (%s)\n", session.Reranked[0].Chunk.Metadata.Title, session.Reranked[0].Chunk.ID)
	return nil
}

// ensureAndQuery ingests first when allowed and needed, then runs the query.
func ensureAndQuery(cmd *cobra.Command, p *usecase.Pipeline, text string, ingest bool) (*domain.QuerySession, error) {
	if ingest && p.State() == usecase.StateIdle {
		if _, err := p.Ingest(cmd.Context()); err != nil {
			return nil, fmt.Errorf("ingestion failed: %w", err)
		}
	}

	session, err := p.Query(cmd.Context(), text)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return session, nil
}

// writeJSON encodes v to path, or to out when path is empty.
func writeJSON(out io.Writer, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if path != "" {
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		fmt.Fprintf(out, "Written to %s\n", path)
		return nil
	}

	fmt.Fprintln(out, string(data))
	return nil
}
