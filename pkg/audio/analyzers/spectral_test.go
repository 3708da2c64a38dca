package analyzers

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sineWave(freq float64, sampleRate, samples int, amplitude float64) []float64 {
	signal := make([]float64, samples)
	for i := range signal {
		signal[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return signal
}

func TestSpectrogramPeakAtSineFrequency(t *testing.T) {
	const (
		sampleRate = 44100
		windowSize = 2048
		hopSize    = 1024
	)

	analyzer := NewSpectralAnalyzer(sampleRate)
	signal := sineWave(440, sampleRate, sampleRate, 0.5) // one second

	result, err := analyzer.Spectrogram(signal, windowSize, hopSize)
	require.NoError(t, err)

	assert.Equal(t, windowSize/2+1, result.FreqBins)
	assert.Equal(t, (len(signal)-windowSize)/hopSize+1, result.TimeFrames)
	assert.InDelta(t, float64(sampleRate)/windowSize, result.FreqResolution, 1e-9)

	freqs := analyzer.FrequencyBins(result)
	avg := analyzer.AverageMagnitude(result)

	peakBin := 0
	for i, mag := range avg {
		if mag > avg[peakBin] {
			peakBin = i
		}
	}

	// The peak lands within one bin of 440 Hz.
	assert.InDelta(t, 440, freqs[peakBin], result.FreqResolution+1e-9)
}

func TestSpectrogramInputValidation(t *testing.T) {
	analyzer := NewSpectralAnalyzer(44100)

	_, err := analyzer.Spectrogram(nil, 2048, 1024)
	assert.Error(t, err)

	_, err = analyzer.Spectrogram(make([]float64, 100), 2048, 1024)
	assert.Error(t, err, "signal shorter than one window")

	_, err = analyzer.Spectrogram(make([]float64, 4096), 0, 1024)
	assert.Error(t, err)
}

func TestFrameFeaturesOfSine(t *testing.T) {
	const sampleRate = 44100
	analyzer := NewSpectralAnalyzer(sampleRate)
	signal := sineWave(440, sampleRate, 2048, 0.5)

	result, err := analyzer.Spectrogram(signal, 2048, 1024)
	require.NoError(t, err)

	freqs := analyzer.FrequencyBins(result)
	features := analyzer.ExtractFrameFeatures(result.Magnitude[0], freqs, signal)

	// Leakage spreads a little energy, but the centroid stays near the tone.
	assert.InDelta(t, 440, features.SpectralCentroid, 100)
	assert.InDelta(t, 440, features.SpectralRolloff, 100)

	// RMS of a 0.5-amplitude sine is 0.5/sqrt(2).
	assert.InDelta(t, 0.5/math.Sqrt2, features.RMS, 0.01)

	// A 440 Hz tone crosses zero about 880 times per second.
	assert.InDelta(t, 2*440.0/sampleRate, features.ZeroCrossingRate, 0.005)
}

func TestSpectralCentroidDegenerate(t *testing.T) {
	analyzer := NewSpectralAnalyzer(44100)

	assert.Zero(t, analyzer.SpectralCentroid([]float64{0, 0, 0}, []float64{0, 10, 20}))
	assert.Zero(t, analyzer.RMS(nil))
	assert.Zero(t, analyzer.ZeroCrossingRate([]float64{1}))
}

func TestOnsetDensityFlatSignal(t *testing.T) {
	analyzer := NewSpectralAnalyzer(44100)

	flat := make([]float64, 100)
	for i := range flat {
		flat[i] = 0.5
	}
	assert.Zero(t, analyzer.OnsetDensity(flat, 43.0))
}

func TestWindowGeneratorHann(t *testing.T) {
	gen := NewWindowGenerator()

	window := gen.Generate(WindowHann, 8)
	require.Len(t, window, 8)

	// Hann endpoints are zero, the shape is symmetric.
	assert.InDelta(t, 0, window[0], 1e-12)
	for i := range window {
		assert.InDelta(t, window[i], window[len(window)-1-i], 1e-12)
	}

	// The generator caches: same parameters return equal contents.
	assert.Equal(t, window, gen.Generate(WindowHann, 8))
}
