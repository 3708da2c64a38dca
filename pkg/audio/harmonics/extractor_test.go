package harmonics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractorNeverFails(t *testing.T) {
	extractor := NewExtractor(nil)

	tests := []struct {
		name  string
		input *Input
	}{
		{"nil input", nil},
		{"empty input", &Input{}},
		{"garbage audio", &Input{TrackID: "t1", AudioBytes: []byte("not a wav file")}},
		{"invalid features", &Input{TrackID: "t2", Features: &FeatureVector{Energy: 5}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := extractor.Extract(context.Background(), tt.input)
			require.NotNil(t, analysis)
			assert.NotEmpty(t, analysis.Components)
			assert.Greater(t, analysis.Confidence, 0.0)
		})
	}
}

func TestExtractorDemotesToFeatureTier(t *testing.T) {
	extractor := NewExtractor(nil)

	analysis := extractor.Extract(context.Background(), &Input{
		TrackID:           "demote-1",
		AudioBytes:        []byte("truncated"),
		Features:          measuredFeatures(),
		FeatureProvenance: ProvenanceMeasured,
	})

	assert.Equal(t, SourceFeatureEstimate, analysis.Source)
	assert.InDelta(t, 0.7, analysis.Confidence, 1e-9)
	// The audio tier's failure is recorded on the surviving result.
	assert.Contains(t, analysis.Provenance, "full_audio")
}

func TestExtractorDemotesToSimulated(t *testing.T) {
	extractor := NewExtractor(nil)

	analysis := extractor.Extract(context.Background(), &Input{
		TrackID:    "demote-2",
		AudioBytes: []byte("truncated"),
		Features:   &FeatureVector{Energy: 2, Loudness: 1},
	})

	assert.Equal(t, SourceSimulated, analysis.Source)
	assert.InDelta(t, 0.25, analysis.Confidence, 1e-9)
	assert.Contains(t, analysis.Provenance, "full_audio")
	assert.Contains(t, analysis.Provenance, "feature_estimate")
	assert.Contains(t, analysis.Provenance, "simulated series")
}

func TestExtractorSkipsMissingTiersSilently(t *testing.T) {
	extractor := NewExtractor(nil)

	// No audio bytes at all: the audio tier demotes without a decode error
	// and the feature tier handles the input.
	analysis := extractor.Extract(context.Background(), &Input{
		TrackID:           "features-only",
		Features:          measuredFeatures(),
		FeatureProvenance: ProvenanceDerived,
	})

	assert.Equal(t, SourceFeatureEstimate, analysis.Source)
	assert.InDelta(t, 0.5, analysis.Confidence, 1e-9)
}

func TestDominantIndicesRanking(t *testing.T) {
	components := []HarmonicComponent{
		{Index: 1, Amplitude: 1.0},
		{Index: 2, Amplitude: 0.15}, // below significance floor
		{Index: 3, Amplitude: 0.6},
		{Index: 4, Amplitude: 0.6},
		{Index: 5, Amplitude: 0.9},
		{Index: 6, Amplitude: 0.3},
		{Index: 7, Amplitude: 0.25},
		{Index: 8, Amplitude: 0.24},
	}

	dominant := dominantIndices(components)
	require.Len(t, dominant, 5)
	assert.Equal(t, 1, dominant[0])
	assert.Equal(t, 5, dominant[1])
	// Ties keep ascending-index order.
	assert.Equal(t, 3, dominant[2])
	assert.Equal(t, 4, dominant[3])
	assert.Equal(t, 6, dominant[4])
}
