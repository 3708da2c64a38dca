package analyzers

import (
	"math"
	"strconv"
)

// WindowType identifies an analysis window function
type WindowType string

const (
	WindowHann        WindowType = "hann"
	WindowHamming     WindowType = "hamming"
	WindowRectangular WindowType = "rectangular"
)

// WindowGenerator creates and caches analysis window functions
type WindowGenerator struct {
	cache map[string][]float64
}

// NewWindowGenerator creates a new window generator
func NewWindowGenerator() *WindowGenerator {
	return &WindowGenerator{
		cache: make(map[string][]float64),
	}
}

// Generate returns the window coefficients for the given type and size.
// Windows are cached by (type, size) since frame sizes are fixed per run.
func (wg *WindowGenerator) Generate(windowType WindowType, size int) []float64 {
	key := string(windowType) + ":" + strconv.Itoa(size)
	if cached, ok := wg.cache[key]; ok {
		return cached
	}

	window := make([]float64, size)
	switch windowType {
	case WindowHamming:
		for i := range window {
			window[i] = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/float64(size-1))
		}
	case WindowRectangular:
		for i := range window {
			window[i] = 1.0
		}
	default: // Hann
		for i := range window {
			window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(size-1)))
		}
	}

	wg.cache[key] = window
	return window
}

// Apply multiplies the signal frame by the window in place-safe fashion,
// returning a new slice.
func (wg *WindowGenerator) Apply(frame []float64, windowType WindowType) []float64 {
	window := wg.Generate(windowType, len(frame))
	windowed := make([]float64, len(frame))
	for i := range frame {
		windowed[i] = frame[i] * window[i]
	}
	return windowed
}
