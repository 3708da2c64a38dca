package harmonics

import (
	"context"
	"fmt"
	"math"
)

// acousticnessCutoff gates the upper harmonics: acoustic material rolls off
// faster, so harmonics 6-8 only appear below this threshold.
const acousticnessCutoff = 0.5

// featureTier deterministically synthesizes a harmonic series from a coarse
// feature vector. Identical feature vectors always produce identical output;
// there is deliberately no randomness anywhere in this tier.
type featureTier struct{}

func newFeatureTier() *featureTier {
	return &featureTier{}
}

func (t *featureTier) Name() string {
	return "feature_estimate"
}

func (t *featureTier) Extract(ctx context.Context, input *Input) (*HarmonicAnalysis, error) {
	if input.Features == nil {
		return nil, fmt.Errorf("no feature vector available")
	}
	if err := validateFeatures(input.Features); err != nil {
		return nil, fmt.Errorf("feature vector incomplete: %w", err)
	}

	f := input.Features
	fundamental := KeyFrequency(f.Key) * (0.9 + 0.2*f.Energy)

	components := t.synthesizeHarmonics(f, fundamental)

	brightness := f.Energy * (1 - 0.5*f.Acousticness)
	centroid := 500 + 3500*brightness
	loudnessLinear := math.Pow(10, f.Loudness/20)

	analysis := &HarmonicAnalysis{
		FundamentalHz:      fundamental,
		Components:         components,
		DominantIndices:    dominantIndices(components),
		SpectralCentroidHz: centroid,
		SpectralRolloffHz:  centroid * 2.2,
		MFCC:               t.synthesizeMFCC(f, loudnessLinear),
		Chroma:             t.synthesizeChroma(f),
		RMS:                clampUnit((0.2 + 0.8*f.Energy) * loudnessLinear),
		ZCR:                0.02 + 0.18*f.Energy*(1-f.Acousticness),
		MusicalKey:         t.keyName(f),
		TempoBPM:           f.Tempo,
		Source:             SourceFeatureEstimate,
		Confidence:         input.FeatureProvenance.Confidence(),
		Provenance:         input.Note,
	}

	return analysis, nil
}

// synthesizeHarmonics builds harmonics 1-8. The fundamental is always
// present at amplitude 1.0; each overtone's amplitude is a closed-form
// function of one or two features.
func (t *featureTier) synthesizeHarmonics(f *FeatureVector, fundamental float64) []HarmonicComponent {
	add := func(components []HarmonicComponent, index int, amplitude float64) []HarmonicComponent {
		ratio := float64(index)
		return append(components, HarmonicComponent{
			Index:       index,
			FrequencyHz: fundamental * ratio,
			Amplitude:   clampUnit(amplitude),
			Ratio:       ratio,
			RatioLabel:  RatioLabel(ratio),
		})
	}

	components := make([]HarmonicComponent, 0, 8)
	components = add(components, 1, 1.0)
	components = add(components, 2, 0.3+0.5*f.Energy)

	// The third harmonic carries the modal color: brighter in major keys
	// and with positive valence.
	thirdBase := 0.15 + 0.35*f.Valence
	if f.Mode == 1 {
		thirdBase += 0.1
	}
	components = add(components, 3, thirdBase)

	components = add(components, 4, 0.15+0.45*f.Danceability)
	components = add(components, 5, 0.1+0.4*f.Valence)

	if f.Acousticness < acousticnessCutoff {
		for index := 6; index <= 8; index++ {
			components = add(components, index, 2*(1-f.Acousticness)/float64(index))
		}
	}

	return components
}

// majorScale and minorScale mark the in-scale semitones for chroma
// synthesis.
var (
	majorScale = [12]float64{1.0, 0, 0.5, 0, 0.6, 0.55, 0, 0.8, 0, 0.6, 0, 0.45}
	minorScale = [12]float64{1.0, 0, 0.5, 0.6, 0, 0.55, 0, 0.8, 0.6, 0, 0.45, 0}
)

// synthesizeChroma rotates the scale template to the track's key and scales
// every non-root degree by valence.
func (t *featureTier) synthesizeChroma(f *FeatureVector) []float64 {
	template := majorScale
	if f.Mode != 1 {
		template = minorScale
	}

	key := f.Key
	if key < 0 || key > 11 {
		key = 9 // A, matching the fallback fundamental
	}

	chroma := make([]float64, 12)
	for degree, value := range template {
		target := (degree + key) % 12
		if degree == 0 {
			chroma[target] = value
		} else {
			chroma[target] = value * (0.6 + 0.4*f.Valence)
		}
	}
	return chroma
}

// synthesizeMFCC produces a deterministic cepstral sketch: the first
// coefficient tracks loudness, the rest decay with alternating sign shaped
// by brightness.
func (t *featureTier) synthesizeMFCC(f *FeatureVector, loudnessLinear float64) []float64 {
	mfcc := make([]float64, 13)
	mfcc[0] = 10 * loudnessLinear
	brightness := f.Energy*(1-f.Acousticness)*2 - 0.5
	for k := 1; k < len(mfcc); k++ {
		sign := 1.0
		if k%2 == 0 {
			sign = -1.0
		}
		mfcc[k] = sign * brightness / float64(k+1)
	}
	return mfcc
}

func (t *featureTier) keyName(f *FeatureVector) string {
	note := NoteName(f.Key)
	if note == "" {
		return ""
	}
	if f.Mode == 1 {
		return note + " major"
	}
	return note + " minor"
}

// validateFeatures rejects partial or out-of-range vectors so the chain can
// demote to the simulated tier with a provenance note.
func validateFeatures(f *FeatureVector) error {
	unitFields := map[string]float64{
		"energy":       f.Energy,
		"valence":      f.Valence,
		"danceability": f.Danceability,
		"acousticness": f.Acousticness,
	}
	for name, value := range unitFields {
		if value < 0 || value > 1 || math.IsNaN(value) {
			return fmt.Errorf("%s out of range: %v", name, value)
		}
	}
	if f.Key < -1 || f.Key > 11 {
		return fmt.Errorf("key index out of range: %d", f.Key)
	}
	if f.Tempo < 0 || math.IsNaN(f.Tempo) {
		return fmt.Errorf("tempo out of range: %v", f.Tempo)
	}
	if f.Loudness > 0 || math.IsNaN(f.Loudness) {
		return fmt.Errorf("loudness must be dBFS (<= 0): %v", f.Loudness)
	}
	return nil
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
