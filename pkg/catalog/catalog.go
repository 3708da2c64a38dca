package catalog

// ReferenceEntry is one reference body: an orbital (or rotational) period
// folded up into the audible range, with its first four harmonics
// precomputed. The table is a fixed constant set; no ephemeris computation
// happens here.
type ReferenceEntry struct {
	Name           string     `json:"name" yaml:"name"`
	BasePeriodDays float64    `json:"base_period_days" yaml:"base_period_days"`
	BaseFrequency  float64    `json:"base_frequency_hz" yaml:"base_frequency_hz"`
	HarmonicSeries [4]float64 `json:"harmonic_series" yaml:"harmonic_series"`
	NearestNote    string     `json:"nearest_note" yaml:"nearest_note"`
	Tags           []string   `json:"tags" yaml:"tags"`
}

// Catalog is the immutable reference table. Build it once at startup with
// New and pass it by reference into the matcher; it holds no mutable state.
type Catalog struct {
	entries []ReferenceEntry
}

// referenceBodies lists the octave-transposed period tones. Base
// frequencies follow the standard period-to-pitch folding (1/period raised
// by whole octaves into the audible range); the Sun uses its rotational
// period, the Moon its synodic month.
var referenceBodies = []ReferenceEntry{
	{Name: "Sun", BasePeriodDays: 25.38, BaseFrequency: 126.22, NearestNote: "B", Tags: []string{"luminary", "vitality"}},
	{Name: "Moon", BasePeriodDays: 29.53, BaseFrequency: 210.42, NearestNote: "G#", Tags: []string{"luminary", "emotion"}},
	{Name: "Mercury", BasePeriodDays: 87.97, BaseFrequency: 141.27, NearestNote: "C#", Tags: []string{"personal", "communication"}},
	{Name: "Venus", BasePeriodDays: 224.70, BaseFrequency: 221.23, NearestNote: "A", Tags: []string{"personal", "harmony"}},
	{Name: "Earth", BasePeriodDays: 365.26, BaseFrequency: 136.10, NearestNote: "C#", Tags: []string{"home", "grounding"}},
	{Name: "Mars", BasePeriodDays: 686.98, BaseFrequency: 144.72, NearestNote: "D", Tags: []string{"personal", "drive"}},
	{Name: "Jupiter", BasePeriodDays: 4332.59, BaseFrequency: 183.58, NearestNote: "F#", Tags: []string{"social", "expansion"}},
	{Name: "Saturn", BasePeriodDays: 10759.22, BaseFrequency: 147.85, NearestNote: "D", Tags: []string{"social", "structure"}},
	{Name: "Uranus", BasePeriodDays: 30688.5, BaseFrequency: 207.36, NearestNote: "G#", Tags: []string{"outer", "change"}},
	{Name: "Neptune", BasePeriodDays: 60182, BaseFrequency: 211.44, NearestNote: "G#", Tags: []string{"outer", "dream"}},
	{Name: "Pluto", BasePeriodDays: 90560, BaseFrequency: 140.25, NearestNote: "C#", Tags: []string{"outer", "transformation"}},
}

// New builds the reference catalog, filling in each body's 4-term harmonic
// series from its base frequency.
func New() *Catalog {
	entries := make([]ReferenceEntry, len(referenceBodies))
	copy(entries, referenceBodies)

	for i := range entries {
		for harmonic := range 4 {
			entries[i].HarmonicSeries[harmonic] = entries[i].BaseFrequency * float64(harmonic+1)
		}
	}

	return &Catalog{entries: entries}
}

// Entries returns a copy of the catalog entries.
func (c *Catalog) Entries() []ReferenceEntry {
	out := make([]ReferenceEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of reference bodies.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// ByName looks up an entry by body name.
func (c *Catalog) ByName(name string) (ReferenceEntry, bool) {
	for _, entry := range c.entries {
		if entry.Name == name {
			return entry, true
		}
	}
	return ReferenceEntry{}, false
}
