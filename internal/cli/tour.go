package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"ragtour/internal/app"
	"ragtour/internal/domain"
)

var tourCmd = &cobra.Command{
	Use:   "tour",
	Short: "Interactive walkthrough",
	Long: `Run the ingestion flow, then read questions from stdin and run a query flow
for each one. Type "up" or "down" to rate the last answer, "exit" to quit.

Examples:
  ragtour tour
  echo "What is TypeScript?" | ragtour tour`,
	RunE: runTour,
}

func init() {
	rootCmd.AddCommand(tourCmd)
}

func runTour(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	out := cmd.OutOrStdout()

	a, err := openApp(app.ConsolePresenter(cfg, out))
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if _, err := a.Pipeline.Ingest(ctx); err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	if suggestions := a.Pipeline.Suggestions(); len(suggestions) > 0 {
		fmt.Fprintln(out, "\nTry one of these:")
		for _, s := range suggestions {
			fmt.Fprintf(out, "  - %s\n", s)
		}
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "\nAsk a question> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "exit", "quit":
			return nil
		case domain.FeedbackUp, domain.FeedbackDown:
			if err := a.Pipeline.RecordFeedback(line); err != nil {
				fmt.Fprintf(out, "Cannot record feedback: %v\n", err)
				continue
			}
			fmt.Fprintln(out, "Thanks, feedback recorded.")
			continue
		}

		session, err := a.Pipeline.Query(ctx, line)
		switch {
		case errors.Is(err, domain.ErrEmptyQuery):
			continue
		case err != nil:
			fmt.Fprintf(out, "Query failed: %v\n", err)
			continue
		}

		fmt.Fprintf(out, "\nMatched keyword %q, top source %s. Rate with up/down, or ask another question.\n",
			session.Resolved.Keyword, session.Reranked[0].Chunk.Metadata.Title)
	}
}
