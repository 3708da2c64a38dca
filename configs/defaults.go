package configs

import (
	"time"

	"github.com/spf13/viper"
)

// SetDefaults sets default configuration values for all components
func SetDefaults(v *viper.Viper) {
	// Application defaults
	v.SetDefault("verbose", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("output_format", "json")

	// Harmonic analysis defaults
	v.SetDefault("analysis.sample_rate", 44100)
	v.SetDefault("analysis.window_size", 2048)
	v.SetDefault("analysis.hop_size", 1024)
	v.SetDefault("analysis.max_harmonics", 16)
	v.SetDefault("analysis.min_harmonic_level", 0.1)
	v.SetDefault("analysis.min_fundamental_hz", 80.0)
	v.SetDefault("analysis.max_fundamental_hz", 1000.0)
	v.SetDefault("analysis.feature_provenance", "unknown")
	v.SetDefault("analysis.disable_audio_fetch", false)

	// Matching defaults
	v.SetDefault("matching.tolerance_threshold", 0.05)
	v.SetDefault("matching.min_strength", 0.3)
	v.SetDefault("matching.max_matches_per_item", 10)
	v.SetDefault("matching.weight_by_importance", true)

	// Batch defaults
	v.SetDefault("batch.batch_size", 5)
	v.SetDefault("batch.batch_pause", "500ms")
	v.SetDefault("batch.timeout", "10m")

	// Fetch defaults
	v.SetDefault("fetch.user_agent", "resonance/1.0")
	v.SetDefault("fetch.timeout", "15s")
	v.SetDefault("fetch.max_preview_bytes", 16*1024*1024)

	// Output defaults
	v.SetDefault("output.precision", 3)
	v.SetDefault("output.include_metadata", true)
	v.SetDefault("output.timestamps", true)
	v.SetDefault("output.colors", false)
}

// GetDefaultConfig returns a Config struct with all default values set
func GetDefaultConfig() *Config {
	return &Config{
		Verbose:      false,
		LogLevel:     "info",
		OutputFormat: "json",
		Analysis:     GetDefaultAnalysisConfig(),
		Matching:     GetDefaultMatchingConfig(),
		Batch:        GetDefaultBatchConfig(),
		Fetch:        GetDefaultFetchConfig(),
		Output:       GetDefaultOutputConfig(),
	}
}

// GetDefaultAnalysisConfig returns default harmonic analysis settings
func GetDefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		SampleRate:        44100,
		WindowSize:        2048,
		HopSize:           1024,
		MaxHarmonics:      16,
		MinHarmonicLevel:  0.1,
		MinFundamentalHz:  80.0,
		MaxFundamentalHz:  1000.0,
		FeatureProvenance: "unknown",
	}
}

// GetDefaultMatchingConfig returns default ratio matching settings
func GetDefaultMatchingConfig() MatchingConfig {
	return MatchingConfig{
		ToleranceThreshold: 0.05,
		MinStrength:        0.3,
		MaxMatchesPerItem:  10,
		WeightByImportance: true,
	}
}

// GetDefaultBatchConfig returns default playlist batching settings
func GetDefaultBatchConfig() BatchConfig {
	return BatchConfig{
		BatchSize:  5,
		BatchPause: 500 * time.Millisecond,
		Timeout:    10 * time.Minute,
	}
}

// GetDefaultFetchConfig returns default preview download settings
func GetDefaultFetchConfig() FetchConfig {
	return FetchConfig{
		UserAgent:       "resonance/1.0",
		Timeout:         15 * time.Second,
		MaxPreviewBytes: 16 * 1024 * 1024,
	}
}

// GetDefaultOutputConfig returns default output formatting settings
func GetDefaultOutputConfig() OutputConfig {
	return OutputConfig{
		Precision:       3,
		IncludeMetadata: true,
		Timestamps:      true,
	}
}
