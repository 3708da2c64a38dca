package resonance

// MatchConfig tunes the ratio-matching correlator. Constructed once per
// engine instance and treated as immutable afterwards.
type MatchConfig struct {
	// ToleranceThreshold is the maximum absolute ratio difference accepted
	// as a match. The comparison is inclusive: a pair sitting exactly on
	// the threshold matches with zero raw strength.
	ToleranceThreshold float64 `mapstructure:"tolerance_threshold" json:"tolerance_threshold"`
	// MinStrength discards matches below this final weighted strength.
	MinStrength float64 `mapstructure:"min_strength" json:"min_strength"`
	// MaxMatchesPerItem caps the ranked result set.
	MaxMatchesPerItem int `mapstructure:"max_matches_per_item" json:"max_matches_per_item"`
	// WeightByImportance applies the aspect-quality importance weights.
	WeightByImportance bool `mapstructure:"weight_by_importance" json:"weight_by_importance"`
}

// DefaultMatchConfig returns the standard correlator settings.
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		ToleranceThreshold: 0.05,
		MinStrength:        0.3,
		MaxMatchesPerItem:  10,
		WeightByImportance: true,
	}
}
