package analyzers

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"github.com/mjibson/go-dsp/fft"
)

// SpectralAnalyzer provides core STFT and spectral analysis functionality
type SpectralAnalyzer struct {
	windowGenerator *WindowGenerator
	sampleRate      int
	logger          logging.Logger
}

// SpectrogramResult holds the result of STFT analysis
type SpectrogramResult struct {
	Magnitude      [][]float64 `json:"magnitude"`       // Time x Frequency magnitude matrix
	TimeFrames     int         `json:"time_frames"`     // Number of time frames
	FreqBins       int         `json:"freq_bins"`       // Number of frequency bins
	SampleRate     int         `json:"sample_rate"`     // Sample rate
	WindowSize     int         `json:"window_size"`     // FFT window size
	HopSize        int         `json:"hop_size"`        // Hop size between frames
	FreqResolution float64     `json:"freq_resolution"` // Frequency resolution (Hz/bin)
}

// FrameFeatures holds the per-frame scalar features the harmonic extractor
// averages across a clip
type FrameFeatures struct {
	SpectralCentroid float64 `json:"spectral_centroid"`
	SpectralRolloff  float64 `json:"spectral_rolloff"`
	RMS              float64 `json:"rms"`
	ZeroCrossingRate float64 `json:"zero_crossing_rate"`
}

// NewSpectralAnalyzer creates a new spectral analyzer
func NewSpectralAnalyzer(sampleRate int) *SpectralAnalyzer {
	return &SpectralAnalyzer{
		windowGenerator: NewWindowGenerator(),
		sampleRate:      sampleRate,
		logger: logging.WithFields(logging.Fields{
			"component":   "spectral_analyzer",
			"sample_rate": sampleRate,
		}),
	}
}

// SampleRate returns the sample rate the analyzer was built for.
func (sa *SpectralAnalyzer) SampleRate() int {
	return sa.sampleRate
}

// FFT computes the Fast Fourier Transform using mjibson/go-dsp
func (sa *SpectralAnalyzer) FFT(x []float64) []complex128 {
	return fft.FFTReal(x)
}

// Spectrogram computes the magnitude spectrogram of the signal using
// fixed-size overlapping Hann-windowed frames.
func (sa *SpectralAnalyzer) Spectrogram(signal []float64, windowSize, hopSize int) (*SpectrogramResult, error) {
	if len(signal) == 0 {
		return nil, fmt.Errorf("empty signal")
	}
	if windowSize <= 0 || hopSize <= 0 {
		return nil, fmt.Errorf("invalid STFT parameters: window=%d hop=%d", windowSize, hopSize)
	}
	if len(signal) < windowSize {
		return nil, fmt.Errorf("signal shorter than one analysis window (%d < %d)", len(signal), windowSize)
	}

	logger := sa.logger.WithFields(logging.Fields{
		"function":      "Spectrogram",
		"signal_length": len(signal),
		"window_size":   windowSize,
		"hop_size":      hopSize,
	})

	timeFrames := (len(signal)-windowSize)/hopSize + 1
	freqBins := windowSize/2 + 1

	magnitude := make([][]float64, timeFrames)
	for t := range timeFrames {
		start := t * hopSize
		frame := sa.windowGenerator.Apply(signal[start:start+windowSize], WindowHann)
		spectrum := fft.FFTReal(frame)

		magnitude[t] = make([]float64, freqBins)
		for i := range freqBins {
			magnitude[t][i] = cmplx.Abs(spectrum[i])
		}
	}

	result := &SpectrogramResult{
		Magnitude:      magnitude,
		TimeFrames:     timeFrames,
		FreqBins:       freqBins,
		SampleRate:     sa.sampleRate,
		WindowSize:     windowSize,
		HopSize:        hopSize,
		FreqResolution: float64(sa.sampleRate) / float64(windowSize),
	}

	logger.Debug("Spectrogram computed", logging.Fields{
		"time_frames": timeFrames,
		"freq_bins":   freqBins,
	})

	return result, nil
}

// FrequencyBins returns the center frequency of each spectrogram bin.
func (sa *SpectralAnalyzer) FrequencyBins(result *SpectrogramResult) []float64 {
	freqs := make([]float64, result.FreqBins)
	for i := range result.FreqBins {
		freqs[i] = float64(i) * result.FreqResolution
	}
	return freqs
}

// AverageMagnitude computes the element-wise mean magnitude spectrum across
// all frames.
func (sa *SpectralAnalyzer) AverageMagnitude(result *SpectrogramResult) []float64 {
	avg := make([]float64, result.FreqBins)
	if result.TimeFrames == 0 {
		return avg
	}
	for _, frame := range result.Magnitude {
		for i, mag := range frame {
			avg[i] += mag
		}
	}
	for i := range avg {
		avg[i] /= float64(result.TimeFrames)
	}
	return avg
}

// ExtractFrameFeatures computes the scalar features for a single frame: the
// spectral ones from the magnitude spectrum, RMS and ZCR from the
// corresponding PCM slice.
func (sa *SpectralAnalyzer) ExtractFrameFeatures(magnitude, freqs, pcmFrame []float64) *FrameFeatures {
	return &FrameFeatures{
		SpectralCentroid: sa.SpectralCentroid(magnitude, freqs),
		SpectralRolloff:  sa.SpectralRolloff(magnitude, freqs, 0.85),
		RMS:              sa.RMS(pcmFrame),
		ZeroCrossingRate: sa.ZeroCrossingRate(pcmFrame),
	}
}

// SpectralCentroid computes the magnitude-weighted mean frequency
func (sa *SpectralAnalyzer) SpectralCentroid(magnitude, freqs []float64) float64 {
	numerator := 0.0
	denominator := 0.0
	for i := 0; i < len(magnitude) && i < len(freqs); i++ {
		numerator += freqs[i] * magnitude[i]
		denominator += magnitude[i]
	}
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

// SpectralRolloff returns the frequency below which the given fraction of
// spectral energy is contained
func (sa *SpectralAnalyzer) SpectralRolloff(magnitude, freqs []float64, threshold float64) float64 {
	totalEnergy := 0.0
	for _, mag := range magnitude {
		totalEnergy += mag * mag
	}
	if totalEnergy == 0 {
		return 0
	}

	targetEnergy := threshold * totalEnergy
	cumulativeEnergy := 0.0
	for i := 0; i < len(magnitude) && i < len(freqs); i++ {
		cumulativeEnergy += magnitude[i] * magnitude[i]
		if cumulativeEnergy >= targetEnergy {
			return freqs[i]
		}
	}

	if len(freqs) > 0 {
		return freqs[len(freqs)-1]
	}
	return 0
}

// RMS computes root-mean-square energy of a PCM frame
func (sa *SpectralAnalyzer) RMS(pcm []float64) float64 {
	if len(pcm) == 0 {
		return 0
	}
	sum := 0.0
	for _, sample := range pcm {
		sum += sample * sample
	}
	return math.Sqrt(sum / float64(len(pcm)))
}

// ZeroCrossingRate computes the fraction of adjacent sample pairs that
// change sign
func (sa *SpectralAnalyzer) ZeroCrossingRate(pcm []float64) float64 {
	if len(pcm) < 2 {
		return 0
	}
	crossings := 0
	for i := 1; i < len(pcm); i++ {
		if (pcm[i] >= 0) != (pcm[i-1] >= 0) {
			crossings++
		}
	}
	return float64(crossings) / float64(len(pcm)-1)
}

// OnsetDensity estimates onsets per second from a sequence of per-frame RMS
// energies using adaptive thresholding. Used for best-effort tempo hints.
func (sa *SpectralAnalyzer) OnsetDensity(energies []float64, frameRate float64) float64 {
	if len(energies) <= 1 || frameRate <= 0 {
		return 0
	}

	onsets := 0
	threshold := 1.5
	windowSize := 5

	for i := windowSize; i < len(energies)-1; i++ {
		localAvg := 0.0
		for j := i - windowSize; j < i; j++ {
			localAvg += energies[j]
		}
		localAvg /= float64(windowSize)

		if energies[i] > localAvg*threshold && energies[i+1] < energies[i] {
			onsets++
		}
	}

	duration := float64(len(energies)) / frameRate
	if duration == 0 {
		return 0
	}
	return float64(onsets) / duration
}
