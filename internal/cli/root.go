package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"ragtour/config"
	"ragtour/internal/app"
	"ragtour/internal/logging"
	"ragtour/internal/port"
)

var (
	cfgFile  string
	cfg      *config.Config
	rootDir  string
	logLevel string
	seed     int64
)

var rootCmd = &cobra.Command{
	Use:   "ragtour",
	Short: "RAG pipeline walkthrough - watch every stage of retrieval-augmented generation",
	Long: `ragtour runs a complete retrieval-augmented generation pipeline over a small
fixture knowledge base and shows what each stage produces: chunking, embedding,
vector indexing, query embedding, top-k retrieval, reranking, prompt assembly,
answer generation and evaluation.

Example usage:
  ragtour ingest                        # Run the ingestion flow
  ragtour query -q "What is TypeScript?" # Ingest if needed, then answer
  ragtour tour                          # Interactive walkthrough
  ragtour serve                         # HTTP API`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if err := godotenv.Load(filepath.Join(rootDir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load .env: %w", err)
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.ApplyEnv(); err != nil {
			return fmt.Errorf("failed to apply environment: %w", err)
		}

		if cmd.Flags().Changed("log-level") {
			cfg.Logging.Level = logLevel
		}
		if cmd.Flags().Changed("seed") {
			cfg.Random.Seed = seed
		}

		if err := logging.Init(cfg.Logging.Level, cfg.Logging.Format, os.Stderr); err != nil {
			return err
		}

		return nil
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./ragtour.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "root directory (default is current directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed for reranking and evaluation (0 = clock)")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}

// openApp wires a pipeline for the current command.
func openApp(pres port.Presenter) (*app.App, error) {
	return app.New(GetConfig(), app.Options{
		RootDir:   GetRootDir(),
		Presenter: pres,
		Logger:    logging.New("pipeline"),
	})
}
