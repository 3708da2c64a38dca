package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/latency-benchmark-common/output"

	"github.com/harmonia-labs/resonance/pkg/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the planetary reference catalog",
	Long: `Print the built-in planetary reference catalog: orbital periods,
octave-shifted base frequencies, harmonic series and nearest musical notes.

Examples:
  # Human-readable table
  resonance catalog -o table

  # Machine-readable JSON
  resonance catalog -o json`,
	RunE: runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	entries := catalog.New().Entries()

	rows := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, map[string]any{
			"name":             entry.Name,
			"base_period_days": entry.BasePeriodDays,
			"base_frequency":   entry.BaseFrequency,
			"harmonic_series":  entry.HarmonicSeries,
			"nearest_note":     entry.NearestNote,
			"tags":             entry.Tags,
		})
	}

	var formatter output.Formatter
	switch outputFormat {
	case "yaml":
		formatter = &output.YAMLFormatter{}
	case "csv":
		formatter = &output.CSVFormatter{}
	case "table":
		formatter = &output.TableFormatter{}
	default:
		formatter = &output.JSONFormatter{}
	}

	data, err := formatter.Format(map[string]any{"reference_catalog": rows}, true)
	if err != nil {
		return fmt.Errorf("failed to format catalog: %w", err)
	}

	_, err = os.Stdout.Write(data)
	return err
}
