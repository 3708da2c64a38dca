package astro

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ParseAspect accepts the two aspect shapes the chart converter is known to
// emit and normalizes both into an Aspect:
//
//   - a plain string: "Sun trine Moon" or "Sun trine Moon (orb 2.1)"
//   - a structured object: {"planet1": ..., "planet2": ..., "aspect": ...,
//     "orb": ..., "applying": ...}
//
// Raw JSON messages should go through ParseAspectJSON instead.
func ParseAspect(raw any) (Aspect, error) {
	switch v := raw.(type) {
	case string:
		return parseAspectString(v)
	case map[string]any:
		return parseAspectMap(v)
	case Aspect:
		return v, nil
	default:
		return Aspect{}, fmt.Errorf("unsupported aspect shape %T", raw)
	}
}

// ParseAspectJSON parses a single raw JSON aspect value, string or object.
func ParseAspectJSON(data []byte) (Aspect, error) {
	var probe any
	if err := json.Unmarshal(data, &probe); err != nil {
		return Aspect{}, fmt.Errorf("invalid aspect JSON: %w", err)
	}
	return ParseAspect(probe)
}

// ParseChart normalizes a heterogeneous aspect list into a Chart. Malformed
// entries are dropped rather than failing the whole chart, matching the
// upstream engine's skip-on-error handling of individual aspects.
func ParseChart(rawAspects []any) *Chart {
	chart := &Chart{Aspects: make([]Aspect, 0, len(rawAspects))}
	for _, raw := range rawAspects {
		aspect, err := ParseAspect(raw)
		if err != nil {
			continue
		}
		chart.Aspects = append(chart.Aspects, aspect)
	}
	return chart
}

func parseAspectString(s string) (Aspect, error) {
	s = strings.TrimSpace(s)

	// Optional trailing orb annotation: "... (orb 2.1)"
	orb := 0.0
	if idx := strings.Index(s, "(orb "); idx >= 0 {
		annotation := strings.TrimSuffix(s[idx+len("(orb "):], ")")
		if v, err := strconv.ParseFloat(strings.TrimSpace(annotation), 64); err == nil {
			orb = v
		}
		s = strings.TrimSpace(s[:idx])
	}

	fields := strings.Fields(s)
	if len(fields) < 3 {
		return Aspect{}, fmt.Errorf("aspect string %q: want <planet> <aspect> <planet>", s)
	}

	// The aspect name is the single field whose lowercase form is a known
	// aspect; planet names on either side may be multi-word ("True North
	// Node trine Sun").
	for i := 1; i < len(fields)-1; i++ {
		if _, ok := aspectIntervals[strings.ToLower(fields[i])]; ok {
			return Aspect{
				Planet1: strings.Join(fields[:i], " "),
				Planet2: strings.Join(fields[i+1:], " "),
				Name:    strings.ToLower(fields[i]),
				Orb:     orb,
			}, nil
		}
	}
	return Aspect{}, fmt.Errorf("aspect string %q: no recognized aspect name", s)
}

func parseAspectMap(m map[string]any) (Aspect, error) {
	aspect := Aspect{}

	str := func(keys ...string) string {
		for _, k := range keys {
			if v, ok := m[k].(string); ok {
				return v
			}
		}
		return ""
	}

	aspect.Planet1 = str("planet1", "active")
	aspect.Planet2 = str("planet2", "passive")
	aspect.Name = strings.ToLower(str("aspect", "name", "type"))

	if v, ok := m["orb"].(float64); ok {
		aspect.Orb = v
	}
	if v, ok := m["applying"].(bool); ok {
		aspect.Applying = v
	}

	if aspect.Planet1 == "" || aspect.Planet2 == "" || aspect.Name == "" {
		return Aspect{}, fmt.Errorf("aspect object missing planet or aspect name")
	}
	return aspect, nil
}
