package harmonics

import (
	"context"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
)

// Strategy is one extraction tier. A tier either produces a complete
// analysis or returns an error to hand the input to the next tier; it never
// returns a partial result.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, input *Input) (*HarmonicAnalysis, error)
}

// ExtractorConfig contains tuning for the full-audio tier
type ExtractorConfig struct {
	SampleRate       int     // assumed when decode does not override
	WindowSize       int     // STFT window
	HopSize          int     // STFT hop
	MaxHarmonics     int     // highest harmonic index searched
	MinHarmonicLevel float64 // keep harmonics at this fraction of the fundamental
	FundamentalMinHz float64 // plausible fundamental band
	FundamentalMaxHz float64
	Logger           logging.Logger
}

// DefaultExtractorConfig returns the extraction defaults
func DefaultExtractorConfig() *ExtractorConfig {
	return &ExtractorConfig{
		SampleRate:       44100,
		WindowSize:       2048,
		HopSize:          1024,
		MaxHarmonics:     16,
		MinHarmonicLevel: 0.1,
		FundamentalMinHz: 80,
		FundamentalMaxHz: 1000,
	}
}

// Extractor runs the ordered tier chain: full audio, feature estimate,
// simulated. Extract never fails; the simulated tier is total.
type Extractor struct {
	strategies []Strategy
	logger     logging.Logger
}

// NewExtractor creates an extractor with the standard three-tier chain.
func NewExtractor(config *ExtractorConfig) *Extractor {
	if config == nil {
		config = DefaultExtractorConfig()
	}
	logger := config.Logger
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	return &Extractor{
		strategies: []Strategy{
			newAudioTier(config),
			newFeatureTier(),
			newSimulatedTier(),
		},
		logger: logger,
	}
}

// Extract runs the tier chain over the input and returns the first tier's
// result that succeeds. Failures demote to the next tier and are reflected
// only through the result's source, confidence and provenance fields.
func (e *Extractor) Extract(ctx context.Context, input *Input) *HarmonicAnalysis {
	if input == nil {
		input = &Input{}
	}

	note := input.Note
	for _, strategy := range e.strategies {
		tierInput := *input
		tierInput.Note = note

		analysis, err := strategy.Extract(ctx, &tierInput)
		if err == nil {
			e.logger.Debug("Harmonic extraction completed", logging.Fields{
				"track_id":   input.TrackID,
				"tier":       strategy.Name(),
				"source":     string(analysis.Source),
				"confidence": analysis.Confidence,
				"components": len(analysis.Components),
			})
			return analysis
		}

		e.logger.Debug("Extraction tier demoted", logging.Fields{
			"track_id": input.TrackID,
			"tier":     strategy.Name(),
			"reason":   err.Error(),
		})
		note = appendNote(note, strategy.Name()+": "+err.Error())
	}

	// The simulated tier cannot fail, so this is unreachable; keep a
	// structurally valid result anyway.
	analysis, _ := newSimulatedTier().Extract(ctx, &Input{TrackID: input.TrackID, Note: note})
	return analysis
}

func appendNote(existing, addition string) string {
	if existing == "" {
		return addition
	}
	return existing + "; " + addition
}
