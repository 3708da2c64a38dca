package pipeline

import (
	"time"

	"github.com/harmonia-labs/resonance/pkg/audio/harmonics"
	"github.com/harmonia-labs/resonance/pkg/catalog"
	"github.com/harmonia-labs/resonance/pkg/resonance"
)

// Track describes one unit of analysis work. Exactly one of PreviewURL,
// AudioPath or Features is normally set; when several are present the
// engine prefers the highest-fidelity source and falls back down the tier
// chain.
type Track struct {
	ID         string `json:"id" yaml:"id"`
	Title      string `json:"title" yaml:"title"`
	Artist     string `json:"artist" yaml:"artist"`
	PreviewURL string `json:"preview_url" yaml:"preview_url"`
	AudioPath  string `json:"audio_path" yaml:"audio_path"`

	Features          *harmonics.FeatureVector    `json:"features" yaml:"features"`
	FeatureProvenance harmonics.FeatureProvenance `json:"feature_provenance" yaml:"feature_provenance"`
}

// FeatureSnapshot is the compact per-track feature echo carried in results
// for the presentation layer.
type FeatureSnapshot struct {
	FundamentalHz      float64 `json:"fundamental_hz"`
	SpectralCentroidHz float64 `json:"spectral_centroid_hz"`
	RMS                float64 `json:"rms"`
	MusicalKey         string  `json:"musical_key,omitempty"`
	TempoBPM           float64 `json:"tempo_bpm,omitempty"`
	Source             string  `json:"source"`
	Confidence         float64 `json:"confidence"`
}

// TrackResult is the aggregate outcome for one (track, chart) pair.
// ChartOnly results carry no analysis (every recovery path failed) and are
// excluded from playlist averages.
type TrackResult struct {
	Track           Track                       `json:"track"`
	OverallScore    float64                     `json:"overall_score"`
	Matches         []resonance.RatioMatch      `json:"matches"`
	TopMatches      []resonance.RatioMatch      `json:"top_matches"`
	Reference       *catalog.MatchResult        `json:"reference,omitempty"`
	FeatureSnapshot *FeatureSnapshot            `json:"feature_snapshot,omitempty"`
	Analysis        *harmonics.HarmonicAnalysis `json:"analysis,omitempty"`
	ChartOnly       bool                        `json:"chart_only"`
	ProcessingTime  time.Duration               `json:"processing_time"`
	Err             error                       `json:"-"`
}

// Succeeded reports whether this result carries a usable score.
func (r *TrackResult) Succeeded() bool {
	return r != nil && !r.ChartOnly && r.Err == nil
}
