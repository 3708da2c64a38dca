package resonance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/harmonia-labs/resonance/pkg/audio/harmonics"
)

func matchesWithStrengths(strengths ...float64) []RatioMatch {
	matches := make([]RatioMatch, 0, len(strengths))
	for _, s := range strengths {
		matches = append(matches, RatioMatch{Strength: s})
	}
	return matches
}

func TestAggregateScoreEmptyMatches(t *testing.T) {
	analysis := analysisWith(
		harmonics.HarmonicComponent{Index: 1, FrequencyHz: 220, Amplitude: 1.0, Ratio: 1.0},
	)
	assert.Zero(t, AggregateScore(nil, 3, analysis, nil))
	assert.Zero(t, AggregateScore([]RatioMatch{}, 3, analysis, &ReferenceSummary{CosmicAlignment: 1, StrongCount: 5, Confidence: 1}))
}

func TestAggregateScoreBaseFormula(t *testing.T) {
	// Mean strength 0.5, no strong matches, perfect complexity alignment:
	// 0.5*0.6 + 0 + 1.0*0.2 = 0.5
	matches := matchesWithStrengths(0.5, 0.5)
	analysis := analysisWith(
		harmonics.HarmonicComponent{Index: 1, FrequencyHz: 220, Amplitude: 1.0, Ratio: 1.0},
		harmonics.HarmonicComponent{Index: 2, FrequencyHz: 440, Amplitude: 0.5, Ratio: 2.0},
		harmonics.HarmonicComponent{Index: 3, FrequencyHz: 660, Amplitude: 0.3, Ratio: 3.0},
	)

	score := AggregateScore(matches, 3, analysis, nil)
	assert.InDelta(t, 0.5, score, 1e-9)
}

func TestAggregateScoreStrongBonus(t *testing.T) {
	// Two strengths above 0.7 add 0.1 each; a nil analysis against a busy
	// chart zeroes the complexity bonus.
	matches := matchesWithStrengths(0.8, 0.8)
	score := AggregateScore(matches, 5, nil, nil)
	assert.InDelta(t, 0.8*0.6+0.2, score, 1e-9)
}

func TestAggregateScoreStrongBonusCap(t *testing.T) {
	matches := matchesWithStrengths(0.9, 0.9, 0.9, 0.9, 0.9)
	score := AggregateScore(matches, 5, nil, nil)
	// Five strong matches would add 0.5 uncapped; the bonus stops at 0.3.
	assert.InDelta(t, 0.9*0.6+0.3, score, 1e-9)
}

func TestAggregateScoreComplexityMismatch(t *testing.T) {
	matches := matchesWithStrengths(0.5)
	dense := analysisWith(
		harmonics.HarmonicComponent{Index: 1, FrequencyHz: 220, Amplitude: 1.0, Ratio: 1.0},
		harmonics.HarmonicComponent{Index: 2, FrequencyHz: 440, Amplitude: 0.9, Ratio: 2.0},
		harmonics.HarmonicComponent{Index: 3, FrequencyHz: 660, Amplitude: 0.8, Ratio: 3.0},
		harmonics.HarmonicComponent{Index: 4, FrequencyHz: 880, Amplitude: 0.7, Ratio: 4.0},
	)

	// Chart complexity 1 against music complexity 4: 1 - 3/4 = 0.25
	score := AggregateScore(matches, 1, dense, nil)
	assert.InDelta(t, 0.5*0.6+0.25*0.2, score, 1e-9)

	// Components at or below the significance floor do not count.
	sparse := analysisWith(
		harmonics.HarmonicComponent{Index: 1, FrequencyHz: 220, Amplitude: 1.0, Ratio: 1.0},
		harmonics.HarmonicComponent{Index: 2, FrequencyHz: 440, Amplitude: 0.2, Ratio: 2.0},
		harmonics.HarmonicComponent{Index: 3, FrequencyHz: 660, Amplitude: 0.1, Ratio: 3.0},
	)
	score = AggregateScore(matches, 1, sparse, nil)
	assert.InDelta(t, 0.5*0.6+1.0*0.2, score, 1e-9)
}

func TestAggregateScoreReferenceEnhancement(t *testing.T) {
	matches := matchesWithStrengths(0.5, 0.5)
	analysis := analysisWith(
		harmonics.HarmonicComponent{Index: 1, FrequencyHz: 220, Amplitude: 1.0, Ratio: 1.0},
		harmonics.HarmonicComponent{Index: 2, FrequencyHz: 440, Amplitude: 0.5, Ratio: 2.0},
		harmonics.HarmonicComponent{Index: 3, FrequencyHz: 660, Amplitude: 0.3, Ratio: 3.0},
	)

	base := AggregateScore(matches, 3, analysis, nil)

	ref := &ReferenceSummary{CosmicAlignment: 0.5, StrongCount: 2, Confidence: 1.0}
	enhanced := AggregateScore(matches, 3, analysis, ref)
	assert.InDelta(t, base+(0.5*0.2+0.1), enhanced, 1e-9)

	// Confidence scales the whole enhancement.
	halfRef := &ReferenceSummary{CosmicAlignment: 0.5, StrongCount: 2, Confidence: 0.5}
	halfEnhanced := AggregateScore(matches, 3, analysis, halfRef)
	assert.InDelta(t, base+(0.5*0.2+0.1)*0.5, halfEnhanced, 1e-9)
}

func TestAggregateScoreReferenceStrongCountCap(t *testing.T) {
	matches := matchesWithStrengths(0.5)
	ref := &ReferenceSummary{CosmicAlignment: 0, StrongCount: 10, Confidence: 1.0}

	base := AggregateScore(matches, 5, nil, nil)
	enhanced := AggregateScore(matches, 5, nil, ref)
	assert.InDelta(t, base+0.15, enhanced, 1e-9)
}

func TestAggregateScoreBounded(t *testing.T) {
	matches := matchesWithStrengths(1.0, 1.0, 1.0, 1.0, 1.0, 1.0)
	analysis := analysisWith(
		harmonics.HarmonicComponent{Index: 1, FrequencyHz: 220, Amplitude: 1.0, Ratio: 1.0},
	)
	ref := &ReferenceSummary{CosmicAlignment: 1.0, StrongCount: 10, Confidence: 1.0}

	score := AggregateScore(matches, 1, analysis, ref)
	assert.LessOrEqual(t, score, 1.0)
	assert.Greater(t, score, 0.0)
}
