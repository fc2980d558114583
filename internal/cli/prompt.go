package cli

import (
	"github.com/spf13/cobra"
	"ragtour/internal/adapter/presenter"
)

var (
	promptQuery  string
	promptOutput string
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Assemble the LLM prompt for a question",
	Long: `Run retrieval and reranking for the question and emit the assembled prompt
(system instruction, cited context and question) as JSON, ready to send to a
real model.

Examples:
  ragtour prompt -q "how do enums compile"
  ragtour prompt -q "interfaces" -o prompt.json`,
	RunE: runPrompt,
}

func init() {
	rootCmd.AddCommand(promptCmd)
	promptCmd.Flags().StringVarP(&promptQuery, "query", "q", "", "question to ask (required)")
	promptCmd.Flags().StringVarP(&promptOutput, "output", "o", "", "output file (default: stdout)")
	promptCmd.MarkFlagRequired("query")
}

func runPrompt(cmd *cobra.Command, args []string) error {
	a, err := openApp(presenter.Discard)
	if err != nil {
		return err
	}
	defer a.Close()

	session, err := ensureAndQuery(cmd, a.Pipeline, promptQuery, true)
	if err != nil {
		return err
	}

	return writeJSON(cmd.OutOrStdout(), promptOutput, session.Prompt)
}
