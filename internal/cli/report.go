package cli

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"text/template"

	"github.com/spf13/cobra"
	"ragtour/internal/domain"
)

//go:embed templates/*.tmpl
var reportTemplates embed.FS

var (
	reportSession string
	reportOutput  string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render a saved query session as Markdown",
	Long: `Render a query session saved with "query --json -o" as a Markdown report
covering retrieval, reranking, the prompt and the answer.

Examples:
  ragtour query -q "What is TypeScript?" --json -o session.json
  ragtour report --session session.json -o report.md`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVar(&reportSession, "session", "", "path to query session JSON file (required)")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "output file (default: stdout)")
	reportCmd.MarkFlagRequired("session")
}

// ReportData is the template input.
type ReportData struct {
	domain.QuerySession
	TopKLen int
}

func runReport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(reportSession)
	if err != nil {
		return fmt.Errorf("failed to read session file: %w", err)
	}

	var session domain.QuerySession
	if err := json.Unmarshal(data, &session); err != nil {
		return fmt.Errorf("failed to parse session file: %w", err)
	}

	rendered, err := RenderReport(&session)
	if err != nil {
		return err
	}

	if reportOutput != "" {
		if err := os.WriteFile(reportOutput, rendered, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Written to %s\n", reportOutput)
		return nil
	}

	_, err = cmd.OutOrStdout().Write(rendered)
	return err
}

// RenderReport executes the Markdown report template for session.
func RenderReport(session *domain.QuerySession) ([]byte, error) {
	tmpl, err := template.New("report.md.tmpl").
		Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
		ParseFS(reportTemplates, "templates/report.md.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ReportData{QuerySession: *session, TopKLen: len(session.TopK)}); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}
