package harmonics

import (
	"sort"
)

// Source identifies which fallback tier produced a HarmonicAnalysis
type Source string

const (
	SourceFullAudio       Source = "full_audio"
	SourceFeatureEstimate Source = "feature_estimate"
	SourceSimulated       Source = "simulated"
)

// FeatureProvenance records where a Tier-2 feature vector came from. It
// drives the confidence the estimate tier reports.
type FeatureProvenance string

const (
	// ProvenanceMeasured means the provider computed the features from the
	// actual recording.
	ProvenanceMeasured FeatureProvenance = "measured"
	// ProvenanceDerived means the features were inferred from metadata
	// (genre tags, editorial data) rather than signal analysis.
	ProvenanceDerived FeatureProvenance = "derived"
	// ProvenanceUnknown is the floor when the origin is not recorded.
	ProvenanceUnknown FeatureProvenance = "unknown"
)

// Confidence returns the Tier-2 confidence for this provenance. The bands
// stay inside the feature-estimate range of 0.3-0.75.
func (p FeatureProvenance) Confidence() float64 {
	switch p {
	case ProvenanceMeasured:
		return 0.7
	case ProvenanceDerived:
		return 0.5
	default:
		return 0.3
	}
}

// HarmonicComponent is a single overtone of the extracted series. Index 1 is
// always the fundamental at amplitude 1.0; components are ordered ascending
// by index.
type HarmonicComponent struct {
	Index       int     `json:"index"`
	FrequencyHz float64 `json:"frequency_hz"`
	Amplitude   float64 `json:"amplitude"` // relative to fundamental, [0,1]
	Ratio       float64 `json:"ratio"`     // frequency / fundamental, >= 1
	RatioLabel  string  `json:"ratio_label"`
}

// HarmonicAnalysis is the normalized harmonic description of one clip.
// Instances are created fresh per extraction and never mutated afterwards.
type HarmonicAnalysis struct {
	FundamentalHz      float64             `json:"fundamental_hz"`
	Components         []HarmonicComponent `json:"components"`
	DominantIndices    []int               `json:"dominant_indices"`
	SpectralCentroidHz float64             `json:"spectral_centroid_hz"`
	SpectralRolloffHz  float64             `json:"spectral_rolloff_hz"`
	MFCC               []float64           `json:"mfcc"`   // 13 coefficients
	Chroma             []float64           `json:"chroma"` // 12 pitch classes
	RMS                float64             `json:"rms"`
	ZCR                float64             `json:"zcr"`
	MusicalKey         string              `json:"musical_key,omitempty"`
	TempoBPM           float64             `json:"tempo_bpm,omitempty"`
	Source             Source              `json:"source"`
	Confidence         float64             `json:"confidence"`
	Provenance         string              `json:"provenance,omitempty"` // demotion notes
}

// FeatureVector is the coarse acoustic descriptor set the estimate tier
// consumes when no audio is available. All unit-interval fields are [0,1].
type FeatureVector struct {
	Energy       float64 `json:"energy" yaml:"energy"`
	Valence      float64 `json:"valence" yaml:"valence"`
	Danceability float64 `json:"danceability" yaml:"danceability"`
	Acousticness float64 `json:"acousticness" yaml:"acousticness"`
	Key          int     `json:"key" yaml:"key"`   // 0=C .. 11=B, -1 unknown
	Mode         int     `json:"mode" yaml:"mode"` // 1 major, 0 minor
	Tempo        float64 `json:"tempo" yaml:"tempo"`
	Loudness     float64 `json:"loudness" yaml:"loudness"` // dBFS, <= 0
}

// Input is everything a tier may draw on for one extraction. Higher tiers
// ignore the fields they do not need; the simulated tier only uses TrackID.
type Input struct {
	TrackID           string
	AudioBytes        []byte
	Features          *FeatureVector
	FeatureProvenance FeatureProvenance
	// Note accumulates provenance remarks (fetch failures, partial feature
	// vectors) added while the input was assembled.
	Note string
}

// dominantIndices returns up to five component indices ranked by amplitude,
// considering only components above the 0.2 significance floor.
func dominantIndices(components []HarmonicComponent) []int {
	significant := make([]HarmonicComponent, 0, len(components))
	for _, c := range components {
		if c.Amplitude > 0.2 {
			significant = append(significant, c)
		}
	}

	sort.SliceStable(significant, func(i, j int) bool {
		return significant[i].Amplitude > significant[j].Amplitude
	})

	limit := min(len(significant), 5)
	indices := make([]int, 0, limit)
	for _, c := range significant[:limit] {
		indices = append(indices, c.Index)
	}
	return indices
}
