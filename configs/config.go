package configs

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	// Application settings
	Verbose      bool   `mapstructure:"verbose"`
	LogLevel     string `mapstructure:"log_level"`
	OutputFormat string `mapstructure:"output_format"`
	ConfigDir    string `mapstructure:"config_dir"`
	DataDir      string `mapstructure:"data_dir"`

	// Harmonic analysis configuration
	Analysis AnalysisConfig `mapstructure:"analysis"`

	// Ratio matching configuration
	Matching MatchingConfig `mapstructure:"matching"`

	// Playlist batching configuration
	Batch BatchConfig `mapstructure:"batch"`

	// Preview fetch configuration
	Fetch FetchConfig `mapstructure:"fetch"`

	// Output configuration
	Output OutputConfig `mapstructure:"output"`
}

// AnalysisConfig contains harmonic spectrum extraction settings
type AnalysisConfig struct {
	SampleRate        int     `mapstructure:"sample_rate"`
	WindowSize        int     `mapstructure:"window_size"`
	HopSize           int     `mapstructure:"hop_size"`
	MaxHarmonics      int     `mapstructure:"max_harmonics"`
	MinHarmonicLevel  float64 `mapstructure:"min_harmonic_level"`
	MinFundamentalHz  float64 `mapstructure:"min_fundamental_hz"`
	MaxFundamentalHz  float64 `mapstructure:"max_fundamental_hz"`
	FeatureProvenance string  `mapstructure:"feature_provenance"`
	DisableAudioFetch bool    `mapstructure:"disable_audio_fetch"`
}

// MatchingConfig contains ratio correlation settings
type MatchingConfig struct {
	ToleranceThreshold float64 `mapstructure:"tolerance_threshold"`
	MinStrength        float64 `mapstructure:"min_strength"`
	MaxMatchesPerItem  int     `mapstructure:"max_matches_per_item"`
	WeightByImportance bool    `mapstructure:"weight_by_importance"`
}

// BatchConfig contains playlist batching settings
type BatchConfig struct {
	BatchSize  int           `mapstructure:"batch_size"`
	BatchPause time.Duration `mapstructure:"batch_pause"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// FetchConfig contains preview download settings
type FetchConfig struct {
	UserAgent       string        `mapstructure:"user_agent"`
	Timeout         time.Duration `mapstructure:"timeout"`
	MaxPreviewBytes int64         `mapstructure:"max_preview_bytes"`
}

// OutputConfig contains output formatting settings
type OutputConfig struct {
	Precision       int  `mapstructure:"precision"`
	IncludeMetadata bool `mapstructure:"include_metadata"`
	Timestamps      bool `mapstructure:"timestamps"`
	Colors          bool `mapstructure:"colors"`
}

// LoadConfig loads configuration from viper
func LoadConfig() (*Config, error) {
	config := &Config{}

	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	return config, nil
}

// ValidateConfig validates the configuration
func ValidateConfig(config *Config) error {
	if config.Analysis.SampleRate <= 0 {
		return fmt.Errorf("analysis sample rate must be positive")
	}

	if config.Analysis.WindowSize <= 0 || config.Analysis.WindowSize&(config.Analysis.WindowSize-1) != 0 {
		return fmt.Errorf("analysis window size must be a positive power of two")
	}

	if config.Analysis.HopSize <= 0 {
		return fmt.Errorf("analysis hop size must be positive")
	}

	if config.Analysis.MaxHarmonics < 1 {
		return fmt.Errorf("max harmonics must be at least 1")
	}

	if config.Analysis.MinFundamentalHz <= 0 || config.Analysis.MaxFundamentalHz <= config.Analysis.MinFundamentalHz {
		return fmt.Errorf("fundamental search band is invalid")
	}

	if config.Matching.ToleranceThreshold <= 0 {
		return fmt.Errorf("matching tolerance must be positive")
	}

	if config.Matching.MinStrength < 0 || config.Matching.MinStrength > 1 {
		return fmt.Errorf("minimum match strength must be between 0 and 1")
	}

	if config.Matching.MaxMatchesPerItem < 1 {
		return fmt.Errorf("max matches per item must be at least 1")
	}

	if config.Batch.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive")
	}

	if config.Batch.BatchPause < 0 {
		return fmt.Errorf("batch pause cannot be negative")
	}

	return nil
}
