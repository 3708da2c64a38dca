package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/RyanBlaney/latency-benchmark-common/logging"

	"github.com/harmonia-labs/resonance/pkg/astro"
	"github.com/harmonia-labs/resonance/pkg/audio/harmonics"
	"github.com/harmonia-labs/resonance/pkg/catalog"
	"github.com/harmonia-labs/resonance/pkg/resonance"
	"github.com/harmonia-labs/resonance/pkg/source"
)

// EngineConfig contains configuration for the analysis engine
type EngineConfig struct {
	MatchConfig     resonance.MatchConfig
	ExtractorConfig *harmonics.ExtractorConfig
	UserAgent       string
	FetchTimeout    time.Duration
	MaxPreviewBytes int64
	// DisableAudioFetch skips remote preview downloads; local files and
	// the lower extraction tiers still apply.
	DisableAudioFetch bool
	Logger            logging.Logger
}

// Engine runs the full per-track pipeline: resolve the audio source,
// extract harmonics, correlate against the chart's target ratios, match the
// reference catalog, and aggregate everything into one bounded score.
//
// The engine is stateless across calls apart from its immutable
// configuration and the injected catalog, so one instance serves concurrent
// batches.
type Engine struct {
	matchConfig       resonance.MatchConfig
	extractor         *harmonics.Extractor
	fetcher           *source.Fetcher
	refMatcher        *catalog.Matcher
	disableAudioFetch bool
	logger            logging.Logger
}

// NewEngine creates an analysis engine over the given reference catalog.
func NewEngine(config *EngineConfig, cat *catalog.Catalog) *Engine {
	logger := config.Logger
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	extractorConfig := config.ExtractorConfig
	if extractorConfig == nil {
		extractorConfig = harmonics.DefaultExtractorConfig()
	}
	extractorConfig.Logger = logger

	return &Engine{
		matchConfig: config.MatchConfig,
		extractor:   harmonics.NewExtractor(extractorConfig),
		fetcher: source.NewFetcherWithConfig(source.FetcherConfig{
			UserAgent:       config.UserAgent,
			Timeout:         config.FetchTimeout,
			MaxPreviewBytes: config.MaxPreviewBytes,
		}),
		refMatcher:        catalog.NewMatcher(cat, logger),
		disableAudioFetch: config.DisableAudioFetch,
		logger:            logger,
	}
}

// AnalyzeTrack runs the pipeline for one track. It never lets a failure
// escape: extraction demotes through its tiers internally, and any residual
// panic resolves to a chart-only result so a batch is never aborted by one
// track.
func (e *Engine) AnalyzeTrack(ctx context.Context, track Track, chart *astro.Chart) (result *TrackResult) {
	start := time.Now()
	result = &TrackResult{Track: track}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error(fmt.Errorf("panic: %v", r), "Track analysis panicked", logging.Fields{
				"track_id": track.ID,
			})
			result = &TrackResult{
				Track:          track,
				ChartOnly:      true,
				Err:            fmt.Errorf("track analysis panicked: %v", r),
				ProcessingTime: time.Since(start),
			}
		}
	}()

	e.logger.Debug("Starting track analysis", logging.Fields{
		"track_id":     track.ID,
		"title":        track.Title,
		"has_preview":  track.PreviewURL != "",
		"has_features": track.Features != nil,
	})

	input := e.resolveInput(ctx, track)
	analysis := e.extractor.Extract(ctx, input)

	matches := resonance.Correlate(chart.TargetRatios(), analysis, e.matchConfig)
	reference := e.refMatcher.Match(analysis)

	score := resonance.AggregateScore(matches, chart.Complexity(), analysis, &resonance.ReferenceSummary{
		CosmicAlignment: reference.CosmicAlignment,
		StrongCount:     strongResonances(reference),
		Confidence:      analysis.Confidence,
	})

	result.OverallScore = score
	result.Matches = matches
	result.TopMatches = topMatches(matches, e.matchConfig.MinStrength)
	result.Reference = reference
	result.Analysis = analysis
	result.FeatureSnapshot = snapshot(analysis)
	result.ProcessingTime = time.Since(start)

	e.logger.Debug("Track analysis completed", logging.Fields{
		"track_id":      track.ID,
		"overall_score": score,
		"matches":       len(matches),
		"source":        string(analysis.Source),
		"processing_ms": result.ProcessingTime.Milliseconds(),
	})

	return result
}

// resolveInput assembles the extractor input from whatever sources the
// track offers. Fetch and read failures only leave provenance notes; the
// tier chain handles the rest.
func (e *Engine) resolveInput(ctx context.Context, track Track) *harmonics.Input {
	input := &harmonics.Input{
		TrackID:           track.ID,
		Features:          track.Features,
		FeatureProvenance: track.FeatureProvenance,
	}

	switch {
	case track.AudioPath != "":
		data, err := e.fetcher.ReadLocal(track.AudioPath)
		if err != nil {
			input.Note = "local read failed: " + err.Error()
		} else {
			input.AudioBytes = data
		}
	case track.PreviewURL != "":
		if e.disableAudioFetch {
			input.Note = "preview fetch disabled"
			break
		}
		data, err := e.fetcher.FetchPreview(ctx, track.PreviewURL)
		if err != nil {
			input.Note = "preview fetch failed: " + err.Error()
		} else {
			input.AudioBytes = data
		}
	}

	return input
}

// topMatches returns the best 3 matches above the strength floor. Matches
// arrive already ranked.
func topMatches(matches []resonance.RatioMatch, minStrength float64) []resonance.RatioMatch {
	top := make([]resonance.RatioMatch, 0, 3)
	for _, m := range matches {
		if m.Strength <= minStrength && minStrength > 0 {
			continue
		}
		top = append(top, m)
		if len(top) == 3 {
			break
		}
	}
	return top
}

func strongResonances(result *catalog.MatchResult) int {
	count := 0
	for _, r := range result.Resonances {
		if r.Strength > 0.6 {
			count++
		}
	}
	return count
}

func snapshot(analysis *harmonics.HarmonicAnalysis) *FeatureSnapshot {
	return &FeatureSnapshot{
		FundamentalHz:      analysis.FundamentalHz,
		SpectralCentroidHz: analysis.SpectralCentroidHz,
		RMS:                analysis.RMS,
		MusicalKey:         analysis.MusicalKey,
		TempoBPM:           analysis.TempoBPM,
		Source:             string(analysis.Source),
		Confidence:         analysis.Confidence,
	}
}
