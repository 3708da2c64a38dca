package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harmonia-labs/resonance/internal/app"
)

var (
	playlistChartFile   string
	playlistOutputFile  string
	playlistBatchSize   int
	playlistBatchPause  time.Duration
	playlistTimeout     time.Duration
	playlistTolerance   float64
	playlistEmitMetrics bool
	playlistInitExample bool
	playlistValidate    bool
)

// playlistCmd represents the playlist command
var playlistCmd = &cobra.Command{
	Use:   "playlist [playlist-file]",
	Short: "Analyze a full playlist against a natal chart",
	Long: `Run harmonic resonance analysis for every track in a playlist document
and aggregate the per-track scores into a playlist score.

Tracks are processed in fixed-size concurrent batches with a pause between
batches. Each track falls down the extraction tier chain (audio, features,
simulated) as needed; a track whose every recovery path fails is reported
chart-only and excluded from the playlist average.

Examples:
  # Analyze a playlist
  resonance playlist --chart natal.yaml playlist.yaml

  # Larger batches, custom tolerance, results to file
  resonance playlist --chart natal.yaml --batch-size 10 --tolerance 0.03 \
    --output-file results.json playlist.yaml

  # Generate starter documents
  resonance playlist --init-example playlist.yaml

  # Validate a playlist document without running analysis
  resonance playlist --validate playlist.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runPlaylist,
}

func init() {
	rootCmd.AddCommand(playlistCmd)

	playlistCmd.Flags().StringVarP(&playlistChartFile, "chart", "c", "",
		"natal chart file (YAML or JSON)")
	playlistCmd.Flags().StringVarP(&playlistOutputFile, "output-file", "f", "",
		"write results to file instead of stdout")
	playlistCmd.Flags().IntVarP(&playlistBatchSize, "batch-size", "b", 0,
		"tracks per concurrent batch (default 5)")
	playlistCmd.Flags().DurationVar(&playlistBatchPause, "batch-pause", 0,
		"pause between batches (default 500ms)")
	playlistCmd.Flags().DurationVarP(&playlistTimeout, "timeout", "T", 0,
		"overall playlist timeout (default 10m)")
	playlistCmd.Flags().Float64Var(&playlistTolerance, "tolerance", 0,
		"ratio match tolerance (default 0.05)")
	playlistCmd.Flags().BoolVar(&playlistEmitMetrics, "emit-metrics", false,
		"send scores to the metrics collector")
	playlistCmd.Flags().BoolVar(&playlistInitExample, "init-example", false,
		"write an example playlist document and exit")
	playlistCmd.Flags().BoolVar(&playlistValidate, "validate", false,
		"validate the playlist document and exit")
}

func runPlaylist(cmd *cobra.Command, args []string) error {
	playlistFile := args[0]

	if playlistInitExample {
		return app.GenerateExamplePlaylist(playlistFile)
	}
	if playlistValidate {
		return app.ValidatePlaylist(playlistFile)
	}

	if playlistChartFile == "" {
		return fmt.Errorf("--chart is required")
	}

	appCtx := &app.Context{
		ConfigFile:   configFile,
		PlaylistFile: playlistFile,
		ChartFile:    playlistChartFile,
		OutputFile:   playlistOutputFile,
		OutputFormat: outputFormat,
		Timeout:      playlistTimeout,
		BatchSize:    playlistBatchSize,
		BatchPause:   playlistBatchPause,
		Tolerance:    playlistTolerance,
		Verbose:      verbose,
		EmitMetrics:  playlistEmitMetrics,
	}

	resonanceApp, err := app.NewResonanceApp(appCtx)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return resonanceApp.RunPlaylist(context.Background())
}
