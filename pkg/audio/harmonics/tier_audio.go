package harmonics

import (
	"context"
	"fmt"

	"github.com/RyanBlaney/sonido-sonar/algorithms/chroma"
	"github.com/RyanBlaney/sonido-sonar/algorithms/tonal"

	"github.com/harmonia-labs/resonance/pkg/audio/analyzers"
	"github.com/harmonia-labs/resonance/pkg/source"
)

const fullAudioConfidence = 0.9

// audioTier is the full-fidelity extraction path: decode the clip, run STFT
// analysis over overlapping frames, average every feature across frames, and
// read the harmonic series out of the averaged spectrum.
type audioTier struct {
	config *ExtractorConfig
}

func newAudioTier(config *ExtractorConfig) *audioTier {
	return &audioTier{config: config}
}

func (t *audioTier) Name() string {
	return "full_audio"
}

func (t *audioTier) Extract(ctx context.Context, input *Input) (*HarmonicAnalysis, error) {
	if len(input.AudioBytes) == 0 {
		return nil, fmt.Errorf("no audio bytes available")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	decoded, err := source.DecodeWAV(input.AudioBytes)
	if err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}

	analyzer := analyzers.NewSpectralAnalyzer(decoded.SampleRate)
	spectrogram, err := analyzer.Spectrogram(decoded.Samples, t.config.WindowSize, t.config.HopSize)
	if err != nil {
		return nil, fmt.Errorf("spectral analysis failed: %w", err)
	}

	freqs := analyzer.FrequencyBins(spectrogram)
	mfccAnalyzer := analyzers.NewMFCCAnalyzer(decoded.SampleRate)
	chromaAnalyzer := analyzers.NewChromaAnalyzer()

	// Per-frame features, then arithmetic means across all frames
	// (element-wise for the vectors).
	var (
		centroidSum, rolloffSum, rmsSum, zcrSum float64
		mfccSum                                 = make([]float64, 13)
		chromaFrames                            = make([][]float64, 0, spectrogram.TimeFrames)
		energies                                = make([]float64, 0, spectrogram.TimeFrames)
	)

	for frame := range spectrogram.TimeFrames {
		magnitude := spectrogram.Magnitude[frame]

		start := frame * spectrogram.HopSize
		end := min(start+spectrogram.WindowSize, len(decoded.Samples))
		pcmFrame := decoded.Samples[start:end]

		features := analyzer.ExtractFrameFeatures(magnitude, freqs, pcmFrame)
		centroidSum += features.SpectralCentroid
		rolloffSum += features.SpectralRolloff
		rmsSum += features.RMS
		zcrSum += features.ZeroCrossingRate
		energies = append(energies, features.RMS)

		for i, coeff := range mfccAnalyzer.Compute(magnitude) {
			mfccSum[i] += coeff
		}
		chromaFrames = append(chromaFrames, chromaAnalyzer.Compute(magnitude, freqs))
	}

	frameCount := float64(spectrogram.TimeFrames)
	for i := range mfccSum {
		mfccSum[i] /= frameCount
	}
	avgChroma := chromaAnalyzer.Average(chromaFrames)
	avgMagnitude := analyzer.AverageMagnitude(spectrogram)

	fundamental, components := t.extractHarmonicSeries(avgMagnitude, freqs)
	if fundamental <= 0 {
		return nil, fmt.Errorf("no plausible fundamental in %v-%v Hz band",
			t.config.FundamentalMinHz, t.config.FundamentalMaxHz)
	}

	analysis := &HarmonicAnalysis{
		FundamentalHz:      fundamental,
		Components:         components,
		DominantIndices:    dominantIndices(components),
		SpectralCentroidHz: centroidSum / frameCount,
		SpectralRolloffHz:  rolloffSum / frameCount,
		MFCC:               mfccSum,
		Chroma:             avgChroma,
		RMS:                rmsSum / frameCount,
		ZCR:                zcrSum / frameCount,
		MusicalKey:         t.estimateKey(avgChroma, decoded.SampleRate),
		TempoBPM:           t.estimateTempo(energies, decoded.SampleRate),
		Source:             SourceFullAudio,
		Confidence:         fullAudioConfidence,
		Provenance:         input.Note,
	}

	return analysis, nil
}

// extractHarmonicSeries locates the fundamental as the strongest bin inside
// the plausible-fundamental band, then searches a small bin window around
// each expected integer multiple for harmonics 2..MaxHarmonics. Harmonics
// below MinHarmonicLevel of the fundamental are dropped.
func (t *audioTier) extractHarmonicSeries(magnitude, freqs []float64) (float64, []HarmonicComponent) {
	fundamentalBin := -1
	fundamentalMag := 0.0
	for i, freq := range freqs {
		if freq < t.config.FundamentalMinHz || freq > t.config.FundamentalMaxHz {
			continue
		}
		if magnitude[i] > fundamentalMag {
			fundamentalMag = magnitude[i]
			fundamentalBin = i
		}
	}
	if fundamentalBin < 0 || fundamentalMag <= 0 {
		return 0, nil
	}

	fundamental := freqs[fundamentalBin]
	components := []HarmonicComponent{{
		Index:       1,
		FrequencyHz: fundamental,
		Amplitude:   1.0,
		Ratio:       1.0,
		RatioLabel:  RatioLabel(1.0),
	}}

	const searchWindow = 2 // bins either side of the expected multiple

	for harmonic := 2; harmonic <= t.config.MaxHarmonics; harmonic++ {
		expectedBin := fundamentalBin * harmonic
		if expectedBin >= len(magnitude) {
			break
		}

		peakBin := -1
		peakMag := 0.0
		for bin := expectedBin - searchWindow; bin <= expectedBin+searchWindow; bin++ {
			if bin < 0 || bin >= len(magnitude) {
				continue
			}
			if magnitude[bin] > peakMag {
				peakMag = magnitude[bin]
				peakBin = bin
			}
		}

		if peakBin < 0 || peakMag < t.config.MinHarmonicLevel*fundamentalMag {
			continue
		}

		ratio := freqs[peakBin] / fundamental
		components = append(components, HarmonicComponent{
			Index:       harmonic,
			FrequencyHz: freqs[peakBin],
			Amplitude:   peakMag / fundamentalMag,
			Ratio:       ratio,
			RatioLabel:  RatioLabel(ratio),
		})
	}

	return fundamental, components
}

// estimateKey runs the averaged pitch-class profile through the sonido-sonar
// key estimator.
func (t *audioTier) estimateKey(avgChroma []float64, sampleRate int) string {
	if len(avgChroma) != 12 {
		return ""
	}
	sum := 0.0
	for _, v := range avgChroma {
		sum += v
	}
	if sum == 0 {
		return ""
	}

	estimator := tonal.NewKeyEstimator(sampleRate)
	result := estimator.EstimateKey(chroma.ChromaVector{
		Values:     avgChroma,
		Size:       len(avgChroma),
		Normalized: true,
	})
	return result.KeyName
}

// estimateTempo is a best-effort BPM hint from onset density. Outside the
// plausible musical range it reports 0 (unset).
func (t *audioTier) estimateTempo(energies []float64, sampleRate int) float64 {
	analyzer := analyzers.NewSpectralAnalyzer(sampleRate)
	frameRate := float64(sampleRate) / float64(t.config.HopSize)
	bpm := analyzer.OnsetDensity(energies, frameRate) * 60

	if bpm < 40 || bpm > 220 {
		return 0
	}
	return bpm
}
