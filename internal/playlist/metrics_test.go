package playlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harmonia-labs/resonance/internal/pipeline"
	"github.com/harmonia-labs/resonance/pkg/audio/harmonics"
	"github.com/harmonia-labs/resonance/pkg/resonance"
)

func scoredResult(id string, score float64, source harmonics.Source, matches int) *pipeline.TrackResult {
	return &pipeline.TrackResult{
		Track:        pipeline.Track{ID: id},
		OverallScore: score,
		Matches:      make([]resonance.RatioMatch, matches),
		Analysis:     &harmonics.HarmonicAnalysis{Source: source},
	}
}

func TestComputeMetrics(t *testing.T) {
	summary := &Summary{
		TrackResults: []*pipeline.TrackResult{
			scoredResult("a", 0.2, harmonics.SourceFullAudio, 3),
			scoredResult("b", 0.6, harmonics.SourceFeatureEstimate, 2),
			scoredResult("c", 0.4, harmonics.SourceFeatureEstimate, 0),
			{Track: pipeline.Track{ID: "d"}, ChartOnly: true},
		},
	}

	metrics := ComputeMetrics(summary)
	require.NotNil(t, metrics)

	assert.InDelta(t, 0.4, metrics.Scores.Mean, 1e-9)
	assert.InDelta(t, 0.2, metrics.Scores.Min, 1e-9)
	assert.InDelta(t, 0.6, metrics.Scores.Max, 1e-9)
	assert.InDelta(t, 0.4, metrics.Scores.Median, 1e-9)
	assert.InDelta(t, 0.2, metrics.Scores.StdDev, 1e-9)

	assert.Equal(t, "b", metrics.TopTrack)
	assert.InDelta(t, 0.6, metrics.TopScore, 1e-9)
	assert.Equal(t, 5, metrics.TotalMatches)
	assert.Equal(t, 1, metrics.ChartOnlyTracks)
	assert.Equal(t, map[string]int{
		"full_audio":       1,
		"feature_estimate": 2,
	}, metrics.SourceBreakdown)
}

func TestComputeMetricsEmpty(t *testing.T) {
	metrics := ComputeMetrics(&Summary{})
	require.NotNil(t, metrics)
	assert.Zero(t, metrics.Scores.Mean)
	assert.Empty(t, metrics.TopTrack)
	assert.NotNil(t, metrics.SourceBreakdown)
}

func TestComputeMetricsSingleScoreNoStdDev(t *testing.T) {
	summary := &Summary{
		TrackResults: []*pipeline.TrackResult{
			scoredResult("solo", 0.7, harmonics.SourceSimulated, 1),
		},
	}

	metrics := ComputeMetrics(summary)
	assert.InDelta(t, 0.7, metrics.Scores.Mean, 1e-9)
	assert.InDelta(t, 0.7, metrics.Scores.Median, 1e-9)
	assert.Zero(t, metrics.Scores.StdDev)
}
