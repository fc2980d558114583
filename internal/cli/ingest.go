package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"ragtour/config"
	"ragtour/internal/app"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Run the ingestion flow",
	Long: `Load the fixture documents, chunk them, attach their embeddings and store
them in the vector store. With the bolt backend the store is kept in
.ragtour/store.db and later commands reuse it.

Examples:
  ragtour ingest
  ragtour ingest --config ragtour.yaml`,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	out := cmd.OutOrStdout()

	a, err := openApp(app.ConsolePresenter(cfg, out))
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.Pipeline.Ingest(cmd.Context())
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	if cfg.Presentation.Format == "json" {
		return nil
	}

	fmt.Fprintf(out, "\nIngestion complete:\n")
	fmt.Fprintf(out, "  Fixture:  %s\n", a.Fixture.Name)
	fmt.Fprintf(out, "  Chunks:   %d\n", report.Chunks)
	fmt.Fprintf(out, "  Stored:   %d\n", report.Stored)
	fmt.Fprintf(out, "  Run ID:   %s\n", report.RunID)
	if cfg.Store.Backend == config.BackendBolt {
		fmt.Fprintf(out, "\nStore saved at: %s\n", cfg.StoreDBPath(GetRootDir()))
	}
	return nil
}
