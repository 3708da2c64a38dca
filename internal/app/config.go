package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harmonia-labs/resonance/configs"
	"github.com/harmonia-labs/resonance/internal/pipeline"
	"github.com/harmonia-labs/resonance/pkg/astro"
	"github.com/harmonia-labs/resonance/pkg/audio/harmonics"
)

// PlaylistFile is the on-disk playlist document
type PlaylistFile struct {
	Name        string      `yaml:"name" json:"name"`
	Description string      `yaml:"description" json:"description"`
	Tracks      []TrackSpec `yaml:"tracks" json:"tracks"`
}

// TrackSpec is one playlist entry. Features are optional; when present
// they back the feature-estimate tier if no audio can be obtained.
type TrackSpec struct {
	ID                string       `yaml:"id" json:"id"`
	Title             string       `yaml:"title" json:"title"`
	Artist            string       `yaml:"artist" json:"artist"`
	PreviewURL        string       `yaml:"preview_url" json:"preview_url"`
	AudioPath         string       `yaml:"audio_path" json:"audio_path"`
	Features          *FeatureSpec `yaml:"features" json:"features"`
	FeatureProvenance string       `yaml:"feature_provenance" json:"feature_provenance"`
}

// FeatureSpec mirrors the track feature vector with file-friendly tags
type FeatureSpec struct {
	Energy       float64 `yaml:"energy" json:"energy"`
	Valence      float64 `yaml:"valence" json:"valence"`
	Danceability float64 `yaml:"danceability" json:"danceability"`
	Acousticness float64 `yaml:"acousticness" json:"acousticness"`
	Key          int     `yaml:"key" json:"key"`
	Mode         int     `yaml:"mode" json:"mode"`
	Tempo        float64 `yaml:"tempo" json:"tempo"`
	Loudness     float64 `yaml:"loudness" json:"loudness"`
}

// ChartFile is the on-disk natal chart document. Aspects may be plain
// strings ("Sun trine Moon (orb 2.1)") or structured objects; both shapes
// are normalized on load.
type ChartFile struct {
	Name    string `yaml:"name" json:"name"`
	Aspects []any  `yaml:"aspects" json:"aspects"`
}

// loadPlaylistFromFile loads a playlist document from a YAML or JSON file
func loadPlaylistFromFile(filePath string) (*PlaylistFile, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("playlist file does not exist: %s", filePath)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read playlist file: %w", err)
	}

	var playlist PlaylistFile
	switch filepath.Ext(filePath) {
	case ".json":
		if err := json.Unmarshal(data, &playlist); err != nil {
			return nil, fmt.Errorf("failed to parse JSON playlist: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &playlist); err != nil {
			return nil, fmt.Errorf("failed to parse YAML playlist: %w", err)
		}
	}

	if len(playlist.Tracks) == 0 {
		return nil, fmt.Errorf("playlist contains no tracks: %s", filePath)
	}

	for i, track := range playlist.Tracks {
		if track.ID == "" {
			return nil, fmt.Errorf("playlist track %d is missing an id", i)
		}
	}

	return &playlist, nil
}

// loadChartFromFile loads and normalizes a natal chart from a YAML or JSON
// file. Malformed aspects are dropped during normalization, not errors.
func loadChartFromFile(filePath string) (*astro.Chart, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("chart file does not exist: %s", filePath)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read chart file: %w", err)
	}

	var chartFile ChartFile
	switch filepath.Ext(filePath) {
	case ".json":
		if err := json.Unmarshal(data, &chartFile); err != nil {
			return nil, fmt.Errorf("failed to parse JSON chart: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &chartFile); err != nil {
			return nil, fmt.Errorf("failed to parse YAML chart: %w", err)
		}
	}

	return astro.ParseChart(chartFile.Aspects), nil
}

// PipelineTracks converts the playlist document into pipeline work items
func (p *PlaylistFile) PipelineTracks() []pipeline.Track {
	tracks := make([]pipeline.Track, 0, len(p.Tracks))
	for _, spec := range p.Tracks {
		track := pipeline.Track{
			ID:                spec.ID,
			Title:             spec.Title,
			Artist:            spec.Artist,
			PreviewURL:        spec.PreviewURL,
			AudioPath:         spec.AudioPath,
			FeatureProvenance: harmonics.FeatureProvenance(spec.FeatureProvenance),
		}
		if spec.Features != nil {
			track.Features = &harmonics.FeatureVector{
				Energy:       spec.Features.Energy,
				Valence:      spec.Features.Valence,
				Danceability: spec.Features.Danceability,
				Acousticness: spec.Features.Acousticness,
				Key:          spec.Features.Key,
				Mode:         spec.Features.Mode,
				Tempo:        spec.Features.Tempo,
				Loudness:     spec.Features.Loudness,
			}
		}
		tracks = append(tracks, track)
	}
	return tracks
}

// mergeConfig merges base config and CLI flags
func mergeConfig(baseConfig *configs.Config, ctx *Context) *configs.Config {
	if ctx.OutputFormat != "" {
		baseConfig.OutputFormat = ctx.OutputFormat
	}
	if ctx.BatchSize > 0 {
		baseConfig.Batch.BatchSize = ctx.BatchSize
	}
	if ctx.BatchPause > 0 {
		baseConfig.Batch.BatchPause = ctx.BatchPause
	}
	if ctx.Timeout > 0 {
		baseConfig.Batch.Timeout = ctx.Timeout
	}
	if ctx.Tolerance > 0 {
		baseConfig.Matching.ToleranceThreshold = ctx.Tolerance
	}
	if ctx.Verbose {
		baseConfig.Verbose = true
	}
	return baseConfig
}

// GenerateExamplePlaylist writes a starter playlist document
func GenerateExamplePlaylist(outputFile string) error {
	example := &PlaylistFile{
		Name:        "Evening Listening",
		Description: "Example playlist for harmonic resonance analysis",
		Tracks: []TrackSpec{
			{
				ID:         "track-001",
				Title:      "Ambient Opener",
				Artist:     "Example Artist",
				PreviewURL: "https://previews.example.com/track-001.wav",
			},
			{
				ID:        "track-002",
				Title:     "Local Recording",
				Artist:    "Example Artist",
				AudioPath: "/data/audio/track-002.wav",
			},
			{
				ID:     "track-003",
				Title:  "Features Only",
				Artist: "Example Artist",
				Features: &FeatureSpec{
					Energy:       0.72,
					Valence:      0.55,
					Danceability: 0.61,
					Acousticness: 0.12,
					Key:          7,
					Mode:         1,
					Tempo:        122,
					Loudness:     -7.5,
				},
				FeatureProvenance: "measured",
			},
		},
	}

	data, err := yaml.Marshal(example)
	if err != nil {
		return fmt.Errorf("failed to marshal example playlist: %w", err)
	}

	dir := filepath.Dir(outputFile)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(outputFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write playlist file: %w", err)
	}

	fmt.Printf("✅ Example playlist written to: %s\n", outputFile)
	return nil
}

// GenerateExampleChart writes a starter natal chart document
func GenerateExampleChart(outputFile string) error {
	example := &ChartFile{
		Name: "Example Natal Chart",
		Aspects: []any{
			"Sun trine Moon (orb 1.2)",
			"Venus conjunction Mars (orb 0.8)",
			map[string]any{
				"planet1": "Mercury",
				"planet2": "Jupiter",
				"aspect":  "sextile",
				"orb":     3.4,
			},
		},
	}

	data, err := yaml.Marshal(example)
	if err != nil {
		return fmt.Errorf("failed to marshal example chart: %w", err)
	}

	dir := filepath.Dir(outputFile)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(outputFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write chart file: %w", err)
	}

	fmt.Printf("✅ Example chart written to: %s\n", outputFile)
	return nil
}

// ValidatePlaylist validates a playlist file
func ValidatePlaylist(filePath string) error {
	playlist, err := loadPlaylistFromFile(filePath)
	if err != nil {
		return fmt.Errorf("playlist validation failed: %w", err)
	}

	fmt.Printf("✅ Playlist is valid: %s\n", filePath)
	fmt.Printf("   - %d tracks found\n", len(playlist.Tracks))
	return nil
}

// ValidateChart validates a chart file and reports what survived
// normalization
func ValidateChart(filePath string) error {
	chart, err := loadChartFromFile(filePath)
	if err != nil {
		return fmt.Errorf("chart validation failed: %w", err)
	}

	fmt.Printf("✅ Chart is valid: %s\n", filePath)
	fmt.Printf("   - %d aspects recognized\n", chart.Complexity())
	fmt.Printf("   - Dominant planet: %s\n", chart.DominantPlanet())
	return nil
}

// applyBatchDefaults fills zero batch settings
func applyBatchDefaults(cfg *configs.Config) {
	if cfg.Batch.BatchSize == 0 {
		cfg.Batch.BatchSize = 5
	}
	if cfg.Batch.BatchPause == 0 {
		cfg.Batch.BatchPause = 500 * time.Millisecond
	}
	if cfg.Batch.Timeout == 0 {
		cfg.Batch.Timeout = 10 * time.Minute
	}
}
