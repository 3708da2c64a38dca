package harmonics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedTierDeterministicPerTrack(t *testing.T) {
	tier := newSimulatedTier()

	first, err := tier.Extract(context.Background(), &Input{TrackID: "track-42"})
	require.NoError(t, err)
	second, err := tier.Extract(context.Background(), &Input{TrackID: "track-42"})
	require.NoError(t, err)

	assert.Equal(t, first, second)

	assert.NotEqual(t, trackSeed("track-42"), trackSeed("track-43"),
		"different tracks should seed differently")
}

func TestSimulatedTierStructure(t *testing.T) {
	tier := newSimulatedTier()

	analysis, err := tier.Extract(context.Background(), &Input{TrackID: "any"})
	require.NoError(t, err)

	require.Len(t, analysis.Components, 6)
	assert.InDelta(t, 1.0, analysis.Components[0].Amplitude, 1e-9)
	for i, c := range analysis.Components {
		assert.Equal(t, i+1, c.Index)
		assert.InDelta(t, analysis.FundamentalHz*float64(i+1), c.FrequencyHz, 1e-9)
		assert.GreaterOrEqual(t, c.Amplitude, 0.0)
		assert.LessOrEqual(t, c.Amplitude, 1.0)
	}

	assert.Equal(t, SourceSimulated, analysis.Source)
	assert.InDelta(t, 0.25, analysis.Confidence, 1e-9)
	assert.NotEmpty(t, analysis.MusicalKey)
	assert.Contains(t, analysis.Provenance, "simulated series")
	assert.Len(t, analysis.Chroma, 12)
	assert.Len(t, analysis.MFCC, 13)
}

func TestSimulatedTierCarriesDemotionNotes(t *testing.T) {
	tier := newSimulatedTier()

	analysis, err := tier.Extract(context.Background(), &Input{
		TrackID: "noted",
		Note:    "full_audio: decode failed",
	})
	require.NoError(t, err)

	assert.Contains(t, analysis.Provenance, "full_audio: decode failed")
	assert.Contains(t, analysis.Provenance, "simulated series")
}
