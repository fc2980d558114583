package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"ragtour/internal/adapter/fixture"
)

var fixtureSuggestions bool

var fixtureCmd = &cobra.Command{
	Use:   "fixture",
	Short: "Print the resolved fixture",
	Long: `Print the fixture the pipeline would run on as YAML. Use it as a starting
point for a custom fixture referenced by fixture.path in ragtour.yaml.

Examples:
  ragtour fixture > my-fixture.yaml
  ragtour fixture --suggestions`,
	RunE: runFixture,
}

func init() {
	rootCmd.AddCommand(fixtureCmd)
	fixtureCmd.Flags().BoolVar(&fixtureSuggestions, "suggestions", false, "print only the suggested questions")
}

func runFixture(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	out := cmd.OutOrStdout()

	f, err := fixture.Resolve(GetRootDir(), cfg.Fixture.Path, cfg.Fixture.Pattern)
	if err != nil {
		return fmt.Errorf("failed to load fixture: %w", err)
	}

	if fixtureSuggestions {
		for _, s := range f.Suggestions {
			fmt.Fprintln(out, s)
		}
		return nil
	}

	data, err := f.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode fixture: %w", err)
	}
	_, err = out.Write(data)
	return err
}
