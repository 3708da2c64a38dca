package playlist

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ScoreStats summarizes the score distribution over successful tracks.
type ScoreStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
}

// Metrics is the operator-facing rollup attached to playlist output.
type Metrics struct {
	Scores          ScoreStats     `json:"scores"`
	SourceBreakdown map[string]int `json:"source_breakdown"`
	TopTrack        string         `json:"top_track,omitempty"`
	TopScore        float64        `json:"top_score,omitempty"`
	TotalMatches    int            `json:"total_matches"`
	ChartOnlyTracks int            `json:"chart_only_tracks"`
}

// ComputeMetrics derives the playlist rollup from a completed run.
func ComputeMetrics(summary *Summary) *Metrics {
	metrics := &Metrics{
		SourceBreakdown: make(map[string]int),
	}

	scores := make([]float64, 0, len(summary.TrackResults))
	for _, result := range summary.TrackResults {
		if result.ChartOnly {
			metrics.ChartOnlyTracks++
			continue
		}
		scores = append(scores, result.OverallScore)
		metrics.TotalMatches += len(result.Matches)

		if result.Analysis != nil {
			metrics.SourceBreakdown[string(result.Analysis.Source)]++
		}

		if result.OverallScore > metrics.TopScore {
			metrics.TopScore = result.OverallScore
			metrics.TopTrack = result.Track.ID
		}
	}

	if len(scores) == 0 {
		return metrics
	}

	sorted := append([]float64(nil), scores...)
	sort.Float64s(sorted)

	metrics.Scores = ScoreStats{
		Mean:   stat.Mean(scores, nil),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
	}
	if len(scores) > 1 {
		metrics.Scores.StdDev = stat.StdDev(scores, nil)
	}

	return metrics
}
