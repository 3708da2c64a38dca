package analyzers

import "math"

// MFCCAnalyzer computes mel-frequency cepstral coefficients from magnitude
// spectra. The filter bank is built once per (spectrum size) and reused.
type MFCCAnalyzer struct {
	sampleRate    int
	numCoeffs     int
	numMelFilters int
	filterBank    [][]float64
	filterBankLen int
}

// NewMFCCAnalyzer creates an MFCC analyzer with the standard 13 coefficients
// over a 26-filter mel bank.
func NewMFCCAnalyzer(sampleRate int) *MFCCAnalyzer {
	return &MFCCAnalyzer{
		sampleRate:    sampleRate,
		numCoeffs:     13,
		numMelFilters: 26,
	}
}

// Compute derives MFCCs for a single magnitude spectrum.
func (ma *MFCCAnalyzer) Compute(magnitude []float64) []float64 {
	if len(magnitude) == 0 {
		return make([]float64, ma.numCoeffs)
	}

	if ma.filterBank == nil || ma.filterBankLen != len(magnitude) {
		ma.filterBank = ma.createMelFilterBank(80, float64(ma.sampleRate)/2, len(magnitude))
		ma.filterBankLen = len(magnitude)
	}

	melSpectrum := ma.applyMelFilters(magnitude)

	logMelSpectrum := make([]float64, len(melSpectrum))
	for i, val := range melSpectrum {
		if val > 1e-10 {
			logMelSpectrum[i] = math.Log(val)
		} else {
			logMelSpectrum[i] = math.Log(1e-10) // floor
		}
	}

	return ma.applyDCT(logMelSpectrum)
}

func (ma *MFCCAnalyzer) createMelFilterBank(lowFreq, highFreq float64, freqBins int) [][]float64 {
	lowMel := 2595.0 * math.Log10(1.0+lowFreq/700.0)
	highMel := 2595.0 * math.Log10(1.0+highFreq/700.0)

	melPoints := make([]float64, ma.numMelFilters+2)
	melStep := (highMel - lowMel) / float64(ma.numMelFilters+1)
	for i := range melPoints {
		melPoints[i] = lowMel + float64(i)*melStep
	}

	freqPoints := make([]float64, len(melPoints))
	for i, mel := range melPoints {
		freqPoints[i] = 700.0 * (math.Pow(10, mel/2595.0) - 1.0)
	}

	filterBank := make([][]float64, ma.numMelFilters)
	for i := range ma.numMelFilters {
		filter := make([]float64, freqBins)

		leftFreq := freqPoints[i]
		centerFreq := freqPoints[i+1]
		rightFreq := freqPoints[i+2]

		for j := range freqBins {
			freq := float64(j) * highFreq / float64(freqBins-1)

			if freq >= leftFreq && freq <= rightFreq {
				if freq <= centerFreq {
					if centerFreq > leftFreq {
						filter[j] = (freq - leftFreq) / (centerFreq - leftFreq)
					}
				} else {
					if rightFreq > centerFreq {
						filter[j] = (rightFreq - freq) / (rightFreq - centerFreq)
					}
				}
			}
		}

		filterBank[i] = filter
	}

	return filterBank
}

func (ma *MFCCAnalyzer) applyMelFilters(magnitude []float64) []float64 {
	melSpectrum := make([]float64, len(ma.filterBank))
	for i, filter := range ma.filterBank {
		sum := 0.0
		for j, coeff := range filter {
			if j < len(magnitude) {
				sum += magnitude[j] * coeff
			}
		}
		melSpectrum[i] = sum
	}
	return melSpectrum
}

func (ma *MFCCAnalyzer) applyDCT(logMelSpectrum []float64) []float64 {
	mfcc := make([]float64, ma.numCoeffs)
	n := float64(len(logMelSpectrum))

	for k := range ma.numCoeffs {
		sum := 0.0
		for i, val := range logMelSpectrum {
			sum += val * math.Cos(math.Pi*float64(k)*(float64(i)+0.5)/n)
		}
		mfcc[k] = sum
	}
	return mfcc
}
