package analyzers

import "math"

// ChromaAnalyzer folds magnitude spectra into a 12-bin pitch class profile.
// Frequencies map to MIDI note numbers relative to A4=440Hz and octave-fold
// onto semitone classes; only the musically useful 80-8000 Hz band
// contributes.
type ChromaAnalyzer struct {
	chromaBins int
	minFreq    float64
	maxFreq    float64
	tuningFreq float64
}

// NewChromaAnalyzer creates a standard 12-semitone chroma analyzer.
func NewChromaAnalyzer() *ChromaAnalyzer {
	return &ChromaAnalyzer{
		chromaBins: 12,
		minFreq:    80,
		maxFreq:    8000,
		tuningFreq: 440.0,
	}
}

// Compute folds one magnitude spectrum into a normalized chroma vector.
func (ca *ChromaAnalyzer) Compute(magnitude, freqs []float64) []float64 {
	chroma := make([]float64, ca.chromaBins)

	for i := 0; i < len(magnitude) && i < len(freqs); i++ {
		freq := freqs[i]
		if freq < ca.minFreq || freq > ca.maxFreq {
			continue
		}

		// MIDI note = 12 * log2(freq/440) + 69
		midiNote := 12*math.Log2(freq/ca.tuningFreq) + 69
		if midiNote < 0 {
			continue
		}

		chromaClass := int(math.Round(midiNote)) % ca.chromaBins
		if chromaClass >= 0 && chromaClass < ca.chromaBins {
			chroma[chromaClass] += magnitude[i]
		}
	}

	// Peak-normalize
	maxVal := 0.0
	for _, v := range chroma {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal > 0 {
		for i := range chroma {
			chroma[i] /= maxVal
		}
	}

	return chroma
}

// Average computes the element-wise mean of a chroma sequence and
// re-normalizes to peak 1.
func (ca *ChromaAnalyzer) Average(sequence [][]float64) []float64 {
	avg := make([]float64, ca.chromaBins)
	if len(sequence) == 0 {
		return avg
	}

	for _, vec := range sequence {
		for i := 0; i < len(vec) && i < ca.chromaBins; i++ {
			avg[i] += vec[i]
		}
	}
	for i := range avg {
		avg[i] /= float64(len(sequence))
	}

	maxVal := 0.0
	for _, v := range avg {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal > 0 {
		for i := range avg {
			avg[i] /= maxVal
		}
	}

	return avg
}
