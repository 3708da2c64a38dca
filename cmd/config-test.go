package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harmonia-labs/resonance/configs"
)

const (
	ColorGreen = "\033[32m"
	ColorReset = "\033[0m"
)

// configTestCmd represents the config test command
var configTestCmd = &cobra.Command{
	Use:   "config-test",
	Short: "Test and display all configuration values",
	Long: `Test configuration loading and display all values to verify proper parsing.

This command loads the configuration and displays all values in a structured format
to help verify that your YAML configuration is being parsed correctly.

Examples:
  # Test with default config file
  resonance config-test

  # Test with specific config file
  resonance --config /path/to/config.yaml config-test`,
	RunE: runConfigTest,
}

func init() {
	rootCmd.AddCommand(configTestCmd)
}

func runConfigTest(cmd *cobra.Command, args []string) error {
	fmt.Println("RESONANCE CONFIGURATION TEST")
	fmt.Println(strings.Repeat("=", 80))

	config, err := configs.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	printSection("APPLICATION SETTINGS")
	printKeyValue("Verbose", fmt.Sprintf("%t", config.Verbose))
	printKeyValue("Log Level", config.LogLevel)
	printKeyValue("Output Format", config.OutputFormat)
	printKeyValue("Config Directory", config.ConfigDir)
	printKeyValue("Data Directory", config.DataDir)

	printSection("ANALYSIS CONFIGURATION")
	printKeyValue("Sample Rate", fmt.Sprintf("%d Hz", config.Analysis.SampleRate))
	printKeyValue("Window Size", fmt.Sprintf("%d", config.Analysis.WindowSize))
	printKeyValue("Hop Size", fmt.Sprintf("%d", config.Analysis.HopSize))
	printKeyValue("Max Harmonics", fmt.Sprintf("%d", config.Analysis.MaxHarmonics))
	printKeyValue("Min Harmonic Level", fmt.Sprintf("%.3f", config.Analysis.MinHarmonicLevel))
	printKeyValue("Fundamental Band", fmt.Sprintf("%.1f - %.1f Hz",
		config.Analysis.MinFundamentalHz, config.Analysis.MaxFundamentalHz))
	printKeyValue("Feature Provenance", config.Analysis.FeatureProvenance)
	printKeyValue("Disable Audio Fetch", fmt.Sprintf("%t", config.Analysis.DisableAudioFetch))

	printSection("MATCHING CONFIGURATION")
	printKeyValue("Tolerance Threshold", fmt.Sprintf("%.3f", config.Matching.ToleranceThreshold))
	printKeyValue("Min Strength", fmt.Sprintf("%.3f", config.Matching.MinStrength))
	printKeyValue("Max Matches Per Item", fmt.Sprintf("%d", config.Matching.MaxMatchesPerItem))
	printKeyValue("Weight By Importance", fmt.Sprintf("%t", config.Matching.WeightByImportance))

	printSection("BATCH CONFIGURATION")
	printKeyValue("Batch Size", fmt.Sprintf("%d", config.Batch.BatchSize))
	printKeyValue("Batch Pause", config.Batch.BatchPause.String())
	printKeyValue("Timeout", config.Batch.Timeout.String())

	printSection("FETCH CONFIGURATION")
	printKeyValue("User Agent", config.Fetch.UserAgent)
	printKeyValue("Timeout", config.Fetch.Timeout.String())
	printKeyValue("Max Preview Bytes", fmt.Sprintf("%d bytes", config.Fetch.MaxPreviewBytes))

	printSection("OUTPUT CONFIGURATION")
	printKeyValue("Precision", fmt.Sprintf("%d", config.Output.Precision))
	printKeyValue("Include Metadata", fmt.Sprintf("%t", config.Output.IncludeMetadata))
	printKeyValue("Timestamps", fmt.Sprintf("%t", config.Output.Timestamps))
	printKeyValue("Colors", fmt.Sprintf("%t", config.Output.Colors))

	fmt.Println()
	fmt.Println(ColorGreen + strings.Repeat("-", 80))
	fmt.Println("CONFIGURATION TEST COMPLETED SUCCESSFULLY")
	fmt.Printf("Config file: %s\n", getConfigFilePath())
	fmt.Println(strings.Repeat("=", 80) + ColorReset)

	return nil
}

func printSection(title string) {
	fmt.Printf("\n%s\n", title)
	fmt.Println(strings.Repeat("-", len(title)))
}

func printKeyValue(key, value string) {
	if value == "" {
		fmt.Printf("%-35s\n", key)
	} else {
		fmt.Printf("%-35s %s\n", key+":", value)
	}
}

func getConfigFilePath() string {
	homeDir, _ := os.UserHomeDir()
	return fmt.Sprintf("%s/.config/resonance/config.yaml", homeDir)
}
