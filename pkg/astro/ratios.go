package astro

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// aspectInterval maps each supported aspect to its musical interval. The
// angular symmetry of the aspect picks the interval: the conjunction is a
// unison, the opposition (180 degrees) an octave, the trine (120) a perfect
// fifth, and so on down to the quincunx as a major seventh.
type aspectInterval struct {
	ratio    float64
	label    string
	interval string
}

var aspectIntervals = map[string]aspectInterval{
	"conjunction": {1.0, "1:1", "unison"},
	"opposition":  {2.0, "2:1", "octave"},
	"trine":       {1.5, "3:2", "perfect fifth"},
	"square":      {1.333, "4:3", "perfect fourth"},
	"sextile":     {1.667, "5:3", "major sixth"},
	"quincunx":    {1.875, "15:8", "major seventh"},
}

// importanceWeights ranks aspect qualities for match weighting. Symmetric
// aspects carry full weight, soft and hard moderate aspects sit in the
// 0.8-0.9 range, minor aspects below.
var importanceWeights = map[string]float64{
	"conjunction": 1.0,
	"opposition":  1.0,
	"trine":       0.8,
	"square":      0.9,
	"sextile":     0.6,
	"quincunx":    0.4,
}

const defaultImportance = 0.5

var titleCaser = cases.Title(language.English)

// ImportanceWeight returns the match weight for an aspect quality tag.
// Unknown qualities get a neutral mid weight.
func ImportanceWeight(quality string) float64 {
	if w, ok := importanceWeights[strings.ToLower(quality)]; ok {
		return w
	}
	return defaultImportance
}

// TargetRatios converts the chart's aspects into the symbolic ratio set the
// correlator consumes. Aspects with no interval mapping are skipped.
func (c *Chart) TargetRatios() []TargetRatio {
	ratios := make([]TargetRatio, 0, len(c.Aspects))
	for _, a := range c.Aspects {
		quality := strings.ToLower(a.Name)
		mapping, ok := aspectIntervals[quality]
		if !ok {
			continue
		}

		name := titleCaser.String(a.Planet1) + " " +
			titleCaser.String(quality) + " " +
			titleCaser.String(a.Planet2)

		ratios = append(ratios, TargetRatio{
			Name:         name,
			Ratio:        mapping.ratio,
			Label:        mapping.label,
			IntervalName: mapping.interval,
			Quality:      quality,
			Band:         a.Band(),
		})
	}
	return ratios
}
