package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harmonia-labs/resonance/configs"
	"github.com/harmonia-labs/resonance/pkg/audio/harmonics"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadPlaylistFromYAML(t *testing.T) {
	path := writeTempFile(t, "playlist.yaml", `
name: Test Playlist
tracks:
  - id: t1
    title: First
    artist: Someone
    preview_url: https://previews.example.com/t1.wav
  - id: t2
    features:
      energy: 0.8
      valence: 0.6
      key: 9
      mode: 1
      tempo: 120
      loudness: -8
    feature_provenance: measured
`)

	playlist, err := loadPlaylistFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "Test Playlist", playlist.Name)
	require.Len(t, playlist.Tracks, 2)
	assert.Equal(t, "t1", playlist.Tracks[0].ID)
	require.NotNil(t, playlist.Tracks[1].Features)
	assert.InDelta(t, 0.8, playlist.Tracks[1].Features.Energy, 1e-9)
}

func TestLoadPlaylistFromJSON(t *testing.T) {
	path := writeTempFile(t, "playlist.json", `{
  "name": "JSON Playlist",
  "tracks": [{"id": "j1", "title": "Only"}]
}`)

	playlist, err := loadPlaylistFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "JSON Playlist", playlist.Name)
	require.Len(t, playlist.Tracks, 1)
}

func TestLoadPlaylistErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := loadPlaylistFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorContains(t, err, "does not exist")
	})

	t.Run("no tracks", func(t *testing.T) {
		path := writeTempFile(t, "empty.yaml", "name: Empty\ntracks: []\n")
		_, err := loadPlaylistFromFile(path)
		assert.ErrorContains(t, err, "no tracks")
	})

	t.Run("track missing id", func(t *testing.T) {
		path := writeTempFile(t, "noid.yaml", "tracks:\n  - title: Untitled\n")
		_, err := loadPlaylistFromFile(path)
		assert.ErrorContains(t, err, "missing an id")
	})

	t.Run("bad yaml", func(t *testing.T) {
		path := writeTempFile(t, "bad.yaml", "tracks: [unclosed\n")
		_, err := loadPlaylistFromFile(path)
		assert.ErrorContains(t, err, "parse YAML")
	})
}

func TestLoadChartFromFile(t *testing.T) {
	path := writeTempFile(t, "chart.yaml", `
name: Mixed Chart
aspects:
  - "Sun trine Moon (orb 1.2)"
  - planet1: Mercury
    planet2: Jupiter
    aspect: sextile
    orb: 3.4
  - "not an aspect at all"
`)

	chart, err := loadChartFromFile(path)
	require.NoError(t, err)

	// The malformed third entry is dropped, not an error.
	assert.Equal(t, 2, chart.Complexity())
	assert.Equal(t, "Sun", chart.Aspects[0].Planet1)
	assert.Equal(t, "Moon", chart.Aspects[0].Planet2)
	assert.InDelta(t, 1.2, chart.Aspects[0].Orb, 1e-9)
	assert.Equal(t, "sextile", chart.Aspects[1].Name)
}

func TestPipelineTracks(t *testing.T) {
	playlist := &PlaylistFile{
		Tracks: []TrackSpec{
			{
				ID:                "t1",
				Title:             "Title",
				Artist:            "Artist",
				AudioPath:         "/audio/t1.wav",
				FeatureProvenance: "measured",
				Features: &FeatureSpec{
					Energy: 0.5,
					Key:    4,
					Mode:   1,
					Tempo:  100,
				},
			},
			{ID: "t2"},
		},
	}

	tracks := playlist.PipelineTracks()
	require.Len(t, tracks, 2)

	assert.Equal(t, "t1", tracks[0].ID)
	assert.Equal(t, "/audio/t1.wav", tracks[0].AudioPath)
	assert.Equal(t, harmonics.ProvenanceMeasured, tracks[0].FeatureProvenance)
	require.NotNil(t, tracks[0].Features)
	assert.InDelta(t, 0.5, tracks[0].Features.Energy, 1e-9)
	assert.Equal(t, 4, tracks[0].Features.Key)

	assert.Nil(t, tracks[1].Features)
}

func TestMergeConfig(t *testing.T) {
	base := configs.GetDefaultConfig()
	ctx := &Context{
		OutputFormat: "yaml",
		BatchSize:    8,
		BatchPause:   time.Second,
		Timeout:      5 * time.Minute,
		Tolerance:    0.08,
		Verbose:      true,
	}

	merged := mergeConfig(base, ctx)

	assert.Equal(t, "yaml", merged.OutputFormat)
	assert.Equal(t, 8, merged.Batch.BatchSize)
	assert.Equal(t, time.Second, merged.Batch.BatchPause)
	assert.Equal(t, 5*time.Minute, merged.Batch.Timeout)
	assert.InDelta(t, 0.08, merged.Matching.ToleranceThreshold, 1e-9)
	assert.True(t, merged.Verbose)
}

func TestMergeConfigKeepsBaseWhenUnset(t *testing.T) {
	base := configs.GetDefaultConfig()
	merged := mergeConfig(base, &Context{})

	assert.Equal(t, "json", merged.OutputFormat)
	assert.Equal(t, 5, merged.Batch.BatchSize)
	assert.InDelta(t, 0.05, merged.Matching.ToleranceThreshold, 1e-9)
	assert.False(t, merged.Verbose)
}

func TestApplyBatchDefaults(t *testing.T) {
	cfg := &configs.Config{}
	applyBatchDefaults(cfg)

	assert.Equal(t, 5, cfg.Batch.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.Batch.BatchPause)
	assert.Equal(t, 10*time.Minute, cfg.Batch.Timeout)
}

func TestGenerateExampleFilesRoundTrip(t *testing.T) {
	dir := t.TempDir()

	playlistPath := filepath.Join(dir, "playlist.yaml")
	require.NoError(t, GenerateExamplePlaylist(playlistPath))
	playlist, err := loadPlaylistFromFile(playlistPath)
	require.NoError(t, err)
	assert.Len(t, playlist.Tracks, 3)

	chartPath := filepath.Join(dir, "chart.yaml")
	require.NoError(t, GenerateExampleChart(chartPath))
	chart, err := loadChartFromFile(chartPath)
	require.NoError(t, err)
	assert.Equal(t, 3, chart.Complexity())
}
