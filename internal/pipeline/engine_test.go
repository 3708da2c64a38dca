package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harmonia-labs/resonance/pkg/astro"
	"github.com/harmonia-labs/resonance/pkg/audio/harmonics"
	"github.com/harmonia-labs/resonance/pkg/catalog"
	"github.com/harmonia-labs/resonance/pkg/resonance"
)

func testEngine() *Engine {
	return NewEngine(&EngineConfig{
		MatchConfig: resonance.DefaultMatchConfig(),
	}, catalog.New())
}

func testChart() *astro.Chart {
	return astro.ParseChart([]any{
		"Sun trine Moon (orb 1.2)",
		"Venus square Mars (orb 3.5)",
	})
}

func TestAnalyzeTrackFromFeatures(t *testing.T) {
	engine := testEngine()
	track := Track{
		ID:    "feat-1",
		Title: "Features Only",
		Features: &harmonics.FeatureVector{
			Energy:       0.8,
			Valence:      0.6,
			Danceability: 0.7,
			Acousticness: 0.2,
			Key:          9,
			Mode:         1,
			Tempo:        120,
			Loudness:     -8,
		},
		FeatureProvenance: harmonics.ProvenanceMeasured,
	}

	result := engine.AnalyzeTrack(context.Background(), track, testChart())
	require.NotNil(t, result)

	assert.True(t, result.Succeeded())
	assert.False(t, result.ChartOnly)
	assert.GreaterOrEqual(t, result.OverallScore, 0.0)
	assert.LessOrEqual(t, result.OverallScore, 1.0)

	require.NotNil(t, result.Analysis)
	assert.Equal(t, harmonics.SourceFeatureEstimate, result.Analysis.Source)
	assert.InDelta(t, 0.7, result.Analysis.Confidence, 1e-9)

	require.NotNil(t, result.FeatureSnapshot)
	assert.Equal(t, result.Analysis.FundamentalHz, result.FeatureSnapshot.FundamentalHz)
	assert.Equal(t, string(harmonics.SourceFeatureEstimate), result.FeatureSnapshot.Source)

	require.NotNil(t, result.Reference)
	assert.NotEmpty(t, result.Reference.Resonances)
	assert.Positive(t, result.ProcessingTime)
}

func TestAnalyzeTrackBareMetadata(t *testing.T) {
	// Nothing but an ID still produces a scored result through the
	// simulated tier.
	engine := testEngine()
	result := engine.AnalyzeTrack(context.Background(), Track{ID: "bare-1"}, testChart())

	require.NotNil(t, result)
	assert.True(t, result.Succeeded())
	require.NotNil(t, result.Analysis)
	assert.Equal(t, harmonics.SourceSimulated, result.Analysis.Source)
	assert.InDelta(t, 0.25, result.Analysis.Confidence, 1e-9)
}

func TestAnalyzeTrackDeterministic(t *testing.T) {
	engine := testEngine()
	chart := testChart()
	track := Track{ID: "det-1"}

	a := engine.AnalyzeTrack(context.Background(), track, chart)
	b := engine.AnalyzeTrack(context.Background(), track, chart)

	assert.Equal(t, a.OverallScore, b.OverallScore)
	assert.Equal(t, a.Analysis.FundamentalHz, b.Analysis.FundamentalHz)
}

func TestResolveInputPrefersLocalAudio(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.wav")
	require.NoError(t, os.WriteFile(path, []byte("not-really-audio"), 0o644))

	engine := testEngine()
	input := engine.resolveInput(context.Background(), Track{
		ID:         "pref-1",
		AudioPath:  path,
		PreviewURL: "http://127.0.0.1:1/unused.wav",
	})

	assert.Equal(t, []byte("not-really-audio"), input.AudioBytes)
	assert.Empty(t, input.Note)
}

func TestResolveInputDisabledFetchSkipsPreview(t *testing.T) {
	engine := NewEngine(&EngineConfig{
		MatchConfig:       resonance.DefaultMatchConfig(),
		DisableAudioFetch: true,
	}, catalog.New())

	input := engine.resolveInput(context.Background(), Track{
		ID:         "off-1",
		PreviewURL: "http://127.0.0.1:1/unused.wav",
	})
	assert.Nil(t, input.AudioBytes)
	assert.Equal(t, "preview fetch disabled", input.Note)

	// Local files are still read when the remote fetch is off.
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.wav")
	require.NoError(t, os.WriteFile(path, []byte("local-bytes"), 0o644))

	input = engine.resolveInput(context.Background(), Track{ID: "off-2", AudioPath: path})
	assert.Equal(t, []byte("local-bytes"), input.AudioBytes)
}

func TestResolveInputMissingFileLeavesNote(t *testing.T) {
	engine := testEngine()
	input := engine.resolveInput(context.Background(), Track{
		ID:        "note-1",
		AudioPath: "/nonexistent/clip.wav",
	})

	assert.Nil(t, input.AudioBytes)
	assert.Contains(t, input.Note, "local read failed")
}

func TestTopMatches(t *testing.T) {
	matches := []resonance.RatioMatch{
		{Target: astro.TargetRatio{Name: "a"}, Strength: 0.9},
		{Target: astro.TargetRatio{Name: "b"}, Strength: 0.8},
		{Target: astro.TargetRatio{Name: "c"}, Strength: 0.5},
		{Target: astro.TargetRatio{Name: "d"}, Strength: 0.4},
		{Target: astro.TargetRatio{Name: "e"}, Strength: 0.2},
	}

	top := topMatches(matches, 0.3)
	require.Len(t, top, 3)
	assert.Equal(t, "a", top[0].Target.Name)
	assert.Equal(t, "b", top[1].Target.Name)
	assert.Equal(t, "c", top[2].Target.Name)

	// Zero floor keeps everything, still capped at 3.
	assert.Len(t, topMatches(matches, 0), 3)
	assert.Empty(t, topMatches(nil, 0.3))
}

func TestStrongResonances(t *testing.T) {
	result := &catalog.MatchResult{
		Resonances: []catalog.ReferenceResonance{
			{Strength: 0.9},
			{Strength: 0.61},
			{Strength: 0.6},
			{Strength: 0.1},
		},
	}
	assert.Equal(t, 2, strongResonances(result))
}

func TestTrackResultSucceeded(t *testing.T) {
	var nilResult *TrackResult
	assert.False(t, nilResult.Succeeded())
	assert.False(t, (&TrackResult{ChartOnly: true}).Succeeded())
	assert.False(t, (&TrackResult{Err: os.ErrInvalid}).Succeeded())
	assert.True(t, (&TrackResult{OverallScore: 0.5}).Succeeded())
}
