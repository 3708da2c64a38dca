package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harmonia-labs/resonance/internal/app"
)

var (
	chartInitExample bool
)

var chartCmd = &cobra.Command{
	Use:   "chart [chart-file]",
	Short: "Validate or scaffold a natal chart document",
	Long: `Validate a natal chart document, reporting how many aspects survived
normalization, or write an example chart to start from.

Aspects may be plain strings ("Sun trine Moon (orb 2.1)") or structured
objects; malformed entries are dropped during normalization.

Examples:
  # Validate a chart file
  resonance chart natal.yaml

  # Write an example chart
  resonance chart --init-example natal.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runChart,
}

func init() {
	rootCmd.AddCommand(chartCmd)

	chartCmd.Flags().BoolVar(&chartInitExample, "init-example", false,
		"write an example chart document and exit")
}

func runChart(cmd *cobra.Command, args []string) error {
	chartFile := args[0]

	if chartInitExample {
		return app.GenerateExampleChart(chartFile)
	}

	if err := app.ValidateChart(chartFile); err != nil {
		return fmt.Errorf("chart check failed: %w", err)
	}
	return nil
}
