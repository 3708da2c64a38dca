package astro

// Aspect is the canonical, parsed form of a single chart aspect. The chart
// converter upstream emits aspects in two shapes (a plain string like
// "Sun trine Moon" or a structured object with orb data); both are funneled
// through the adapter in this package so the rest of the engine only ever
// sees this one shape.
type Aspect struct {
	Planet1  string  `json:"planet1" yaml:"planet1"`
	Planet2  string  `json:"planet2" yaml:"planet2"`
	Name     string  `json:"aspect" yaml:"aspect"` // conjunction, trine, ...
	Orb      float64 `json:"orb" yaml:"orb"`
	Applying bool    `json:"applying" yaml:"applying"`
}

// OrbBand classifies aspect tightness the same way the chart engine does:
// orbs within 2 degrees are strong, within 4 moderate, anything wider weak.
type OrbBand string

const (
	OrbStrong   OrbBand = "strong"
	OrbModerate OrbBand = "moderate"
	OrbWeak     OrbBand = "weak"
)

// Band returns the orb band for this aspect.
func (a Aspect) Band() OrbBand {
	switch {
	case a.Orb <= 2:
		return OrbStrong
	case a.Orb <= 4:
		return OrbModerate
	default:
		return OrbWeak
	}
}

// TargetRatio is one symbolic relationship the engine tries to match against
// extracted harmonics. Ratios are always >= 1.
type TargetRatio struct {
	Name         string  `json:"name"`          // e.g. "Sun Trine Moon"
	Ratio        float64 `json:"target_ratio"`  // e.g. 1.5
	Label        string  `json:"label"`         // e.g. "3:2"
	IntervalName string  `json:"interval_name"` // e.g. "perfect fifth"
	Quality      string  `json:"quality"`       // aspect name, lowercased
	Band         OrbBand `json:"band"`          // orb tightness, explanation only
}

// Chart is the read-only slice of chart data the engine consumes. Everything
// else about the natal chart (houses, signs, element balance) stays upstream.
type Chart struct {
	Aspects []Aspect `json:"aspects" yaml:"aspects"`
}

// Complexity is the number of distinct aspects in the chart. The aggregator
// compares it against the number of significant harmonics in the music.
func (c *Chart) Complexity() int {
	return len(c.Aspects)
}

// DominantPlanet scores every planet by its aspect participation (strong
// aspects count 3, moderate 2, weak 1) and returns the highest scorer.
// Falls back to the Sun for aspect-free charts.
func (c *Chart) DominantPlanet() string {
	scores := make(map[string]int)
	for _, a := range c.Aspects {
		score := 1
		switch a.Band() {
		case OrbStrong:
			score = 3
		case OrbModerate:
			score = 2
		}
		scores[a.Planet1] += score
		scores[a.Planet2] += score
	}

	dominant := "Sun"
	best := 0
	for _, a := range c.Aspects {
		for _, planet := range []string{a.Planet1, a.Planet2} {
			if scores[planet] > best {
				best = scores[planet]
				dominant = planet
			}
		}
	}
	return dominant
}
