package astro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAspectString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Aspect
		wantErr  bool
	}{
		{
			name:     "simple trine",
			input:    "Sun trine Moon",
			expected: Aspect{Planet1: "Sun", Planet2: "Moon", Name: "trine"},
		},
		{
			name:     "with orb annotation",
			input:    "Venus square Mars (orb 2.1)",
			expected: Aspect{Planet1: "Venus", Planet2: "Mars", Name: "square", Orb: 2.1},
		},
		{
			name:     "multi word planet",
			input:    "True North Node sextile Jupiter",
			expected: Aspect{Planet1: "True North Node", Planet2: "Jupiter", Name: "sextile"},
		},
		{
			name:     "mixed case aspect",
			input:    "Sun Opposition Saturn",
			expected: Aspect{Planet1: "Sun", Planet2: "Saturn", Name: "opposition"},
		},
		{
			name:    "no aspect name",
			input:   "Sun versus Moon",
			wantErr: true,
		},
		{
			name:    "too short",
			input:   "Sun trine",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			aspect, err := ParseAspect(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, aspect)
		})
	}
}

func TestParseAspectMap(t *testing.T) {
	aspect, err := ParseAspect(map[string]any{
		"planet1":  "Sun",
		"planet2":  "Moon",
		"aspect":   "Trine",
		"orb":      1.4,
		"applying": true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Sun", aspect.Planet1)
	assert.Equal(t, "trine", aspect.Name)
	assert.Equal(t, 1.4, aspect.Orb)
	assert.True(t, aspect.Applying)

	// Alternate key names used by the upstream engine
	aspect, err = ParseAspect(map[string]any{
		"active":  "Mars",
		"passive": "Venus",
		"name":    "square",
	})
	require.NoError(t, err)
	assert.Equal(t, "Mars", aspect.Planet1)
	assert.Equal(t, "Venus", aspect.Planet2)

	_, err = ParseAspect(map[string]any{"planet1": "Sun"})
	assert.Error(t, err)
}

func TestParseChartSkipsMalformed(t *testing.T) {
	chart := ParseChart([]any{
		"Sun trine Moon",
		"garbage entry",
		map[string]any{"planet1": "Mars", "planet2": "Venus", "aspect": "square", "orb": 3.0},
		42,
	})

	require.Len(t, chart.Aspects, 2)
	assert.Equal(t, "trine", chart.Aspects[0].Name)
	assert.Equal(t, "square", chart.Aspects[1].Name)
	assert.Equal(t, 2, chart.Complexity())
}

func TestTargetRatios(t *testing.T) {
	chart := &Chart{Aspects: []Aspect{
		{Planet1: "Sun", Planet2: "Moon", Name: "trine", Orb: 1.0},
		{Planet1: "Mars", Planet2: "Venus", Name: "opposition", Orb: 5.0},
		{Planet1: "Pluto", Planet2: "Sun", Name: "parallel"}, // unmapped
	}}

	ratios := chart.TargetRatios()
	require.Len(t, ratios, 2)

	assert.Equal(t, "Sun Trine Moon", ratios[0].Name)
	assert.Equal(t, 1.5, ratios[0].Ratio)
	assert.Equal(t, "3:2", ratios[0].Label)
	assert.Equal(t, "perfect fifth", ratios[0].IntervalName)
	assert.Equal(t, OrbStrong, ratios[0].Band)

	assert.Equal(t, 2.0, ratios[1].Ratio)
	assert.Equal(t, OrbWeak, ratios[1].Band)
}

func TestImportanceWeightRanking(t *testing.T) {
	// Symmetric aspects carry full weight, moderate in 0.8-0.9, weak below.
	assert.Equal(t, 1.0, ImportanceWeight("conjunction"))
	assert.Equal(t, 1.0, ImportanceWeight("opposition"))
	assert.InDelta(t, 0.8, ImportanceWeight("trine"), 1e-9)
	assert.InDelta(t, 0.9, ImportanceWeight("square"), 1e-9)
	assert.Less(t, ImportanceWeight("sextile"), 0.8)
	assert.Less(t, ImportanceWeight("quincunx"), ImportanceWeight("sextile"))
	assert.Equal(t, 0.5, ImportanceWeight("unknown-thing"))
}

func TestDominantPlanet(t *testing.T) {
	chart := &Chart{Aspects: []Aspect{
		{Planet1: "Sun", Planet2: "Moon", Name: "trine", Orb: 1.0},     // strong: 3 each
		{Planet1: "Moon", Planet2: "Venus", Name: "square", Orb: 3.0},  // moderate: 2 each
		{Planet1: "Mars", Planet2: "Saturn", Name: "sextile", Orb: 6.0}, // weak: 1 each
	}}
	assert.Equal(t, "Moon", chart.DominantPlanet())

	empty := &Chart{}
	assert.Equal(t, "Sun", empty.DominantPlanet())
}
