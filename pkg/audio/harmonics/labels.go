package harmonics

import (
	"fmt"
	"math"
)

// namedRatios are the common musical ratios that get a simplified label.
// Anything else falls back to a decimal label.
var namedRatios = []struct {
	value float64
	label string
}{
	{1.0, "1:1"},
	{2.0, "2:1"},
	{1.5, "3:2"},
	{1.333, "4:3"},
	{1.667, "5:3"},
	{1.875, "15:8"},
}

const ratioLabelTolerance = 0.02

// RatioLabel returns a simplified label for a harmonic ratio: integer
// multiples as n:1, common musical intervals by name, otherwise a decimal
// fallback.
func RatioLabel(ratio float64) string {
	for _, named := range namedRatios {
		if math.Abs(ratio-named.value) <= ratioLabelTolerance {
			return named.label
		}
	}

	if rounded := math.Round(ratio); rounded >= 1 && math.Abs(ratio-rounded) <= ratioLabelTolerance {
		return fmt.Sprintf("%d:1", int(rounded))
	}

	return fmt.Sprintf("%.2f:1", ratio)
}

// noteNames in semitone order starting from C.
var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteName returns the pitch-class name for a key index 0-11. Out-of-range
// indices return an empty string.
func NoteName(key int) string {
	if key < 0 || key > 11 {
		return ""
	}
	return noteNames[key]
}

// keyFrequencies maps each pitch class to a reference fundamental in the
// third octave (C3..B3), the register most fundamentals of popular music
// sit in.
var keyFrequencies = [12]float64{
	130.81, // C3
	138.59, // C#3
	146.83, // D3
	155.56, // D#3
	164.81, // E3
	174.61, // F3
	185.00, // F#3
	196.00, // G3
	207.65, // G#3
	220.00, // A3
	233.08, // A#3
	246.94, // B3
}

// KeyFrequency returns the reference fundamental for a pitch class,
// defaulting to A3 when the key is unknown.
func KeyFrequency(key int) float64 {
	if key < 0 || key > 11 {
		return keyFrequencies[9] // A3
	}
	return keyFrequencies[key]
}
