package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harmonia-labs/resonance/internal/app"
	"github.com/harmonia-labs/resonance/internal/pipeline"
	"github.com/harmonia-labs/resonance/pkg/audio/harmonics"
)

var (
	analyzeChartFile  string
	analyzeOutputFile string
	analyzeTrackID    string
	analyzeTitle      string
	analyzeArtist     string
	analyzePreviewURL string
	analyzeAudioPath  string
	analyzeTimeout    time.Duration
	analyzeTolerance  float64

	// Feature-estimate inputs for tracks without audio
	analyzeEnergy       float64
	analyzeValence      float64
	analyzeDanceability float64
	analyzeAcousticness float64
	analyzeKey          int
	analyzeMode         int
	analyzeTempo        float64
	analyzeLoudness     float64
	analyzeProvenance   string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [flags]",
	Short: "Analyze a single track against a natal chart",
	Long: `Run harmonic resonance analysis for one track.

The track source follows the extraction tier chain: a local audio file or
preview URL is decoded and analyzed when available, a supplied feature
vector backs a deterministic estimate otherwise, and a seeded simulated
spectrum is the final fallback so analysis always produces a result.

Examples:
  # Analyze a local WAV file
  resonance analyze --chart natal.yaml --id track-001 --audio-path song.wav

  # Analyze a remote preview
  resonance analyze --chart natal.yaml --id track-002 \
    --preview-url https://previews.example.com/track-002.wav

  # Analyze from features only
  resonance analyze --chart natal.yaml --id track-003 \
    --energy 0.7 --valence 0.5 --key 7 --mode 1 --tempo 120 --loudness -8 \
    --provenance measured`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeChartFile, "chart", "c", "",
		"natal chart file (YAML or JSON)")
	analyzeCmd.Flags().StringVarP(&analyzeOutputFile, "output-file", "f", "",
		"write results to file instead of stdout")
	analyzeCmd.Flags().StringVar(&analyzeTrackID, "id", "",
		"track identifier")
	analyzeCmd.Flags().StringVar(&analyzeTitle, "title", "",
		"track title")
	analyzeCmd.Flags().StringVar(&analyzeArtist, "artist", "",
		"track artist")
	analyzeCmd.Flags().StringVar(&analyzePreviewURL, "preview-url", "",
		"preview audio URL")
	analyzeCmd.Flags().StringVar(&analyzeAudioPath, "audio-path", "",
		"local audio file path (WAV)")
	analyzeCmd.Flags().DurationVarP(&analyzeTimeout, "timeout", "T", 0,
		"analysis timeout (default 10m)")
	analyzeCmd.Flags().Float64Var(&analyzeTolerance, "tolerance", 0,
		"ratio match tolerance (default 0.05)")

	analyzeCmd.Flags().Float64Var(&analyzeEnergy, "energy", -1, "track energy [0,1]")
	analyzeCmd.Flags().Float64Var(&analyzeValence, "valence", 0, "track valence [0,1]")
	analyzeCmd.Flags().Float64Var(&analyzeDanceability, "danceability", 0, "track danceability [0,1]")
	analyzeCmd.Flags().Float64Var(&analyzeAcousticness, "acousticness", 0, "track acousticness [0,1]")
	analyzeCmd.Flags().IntVar(&analyzeKey, "key", -1, "pitch class 0-11")
	analyzeCmd.Flags().IntVar(&analyzeMode, "mode", 1, "mode (1 major, 0 minor)")
	analyzeCmd.Flags().Float64Var(&analyzeTempo, "tempo", 0, "tempo in BPM")
	analyzeCmd.Flags().Float64Var(&analyzeLoudness, "loudness", 0, "loudness in dBFS")
	analyzeCmd.Flags().StringVar(&analyzeProvenance, "provenance", "unknown",
		"feature provenance (measured, derived, unknown)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analyzeChartFile == "" {
		return fmt.Errorf("--chart is required")
	}
	if analyzeTrackID == "" {
		return fmt.Errorf("--id is required")
	}

	appCtx := &app.Context{
		ConfigFile:   configFile,
		ChartFile:    analyzeChartFile,
		OutputFile:   analyzeOutputFile,
		OutputFormat: outputFormat,
		Timeout:      analyzeTimeout,
		Tolerance:    analyzeTolerance,
		Verbose:      verbose,
	}

	resonanceApp, err := app.NewResonanceApp(appCtx)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	track := pipeline.Track{
		ID:                analyzeTrackID,
		Title:             analyzeTitle,
		Artist:            analyzeArtist,
		PreviewURL:        analyzePreviewURL,
		AudioPath:         analyzeAudioPath,
		FeatureProvenance: harmonics.FeatureProvenance(analyzeProvenance),
	}

	// A negative energy flag means no feature vector was supplied
	if analyzeEnergy >= 0 {
		track.Features = &harmonics.FeatureVector{
			Energy:       analyzeEnergy,
			Valence:      analyzeValence,
			Danceability: analyzeDanceability,
			Acousticness: analyzeAcousticness,
			Key:          analyzeKey,
			Mode:         analyzeMode,
			Tempo:        analyzeTempo,
			Loudness:     analyzeLoudness,
		}
	}

	return resonanceApp.RunTrack(context.Background(), track)
}
