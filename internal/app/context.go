package app

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"syscall"
	"time"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"github.com/RyanBlaney/latency-benchmark-common/output"
	"github.com/tunein/go-logging/v7/pkg/logger"
	"github.com/tunein/go-logging/v7/pkg/logger/logtypes"
	"github.com/tunein/go-logging/v7/pkg/rootcollector"
	"github.com/tunein/go-logging/v7/pkg/rootlogger"

	"github.com/harmonia-labs/resonance/configs"
	"github.com/harmonia-labs/resonance/internal/pipeline"
	"github.com/harmonia-labs/resonance/internal/playlist"
	"github.com/harmonia-labs/resonance/pkg/astro"
	"github.com/harmonia-labs/resonance/pkg/audio/harmonics"
	"github.com/harmonia-labs/resonance/pkg/catalog"
	"github.com/harmonia-labs/resonance/pkg/resonance"
)

// Context holds the application context and configuration
type Context struct {
	// CLI arguments
	ConfigFile   string // Application configuration file (optional)
	PlaylistFile string // Playlist document (required for playlist runs)
	ChartFile    string // Natal chart document (required)
	OutputFile   string
	OutputFormat string
	Timeout      time.Duration
	BatchSize    int
	BatchPause   time.Duration
	Tolerance    float64
	Verbose      bool
	Quiet        bool
	EmitMetrics  bool

	// Runtime context
	Logger logging.Logger
	Config *configs.Config
	Chart  *astro.Chart
}

// ResonanceApp handles the analysis application lifecycle
type ResonanceApp struct {
	ctx    *Context
	config *configs.Config
	chart  *astro.Chart
	logger logging.Logger
}

// NewResonanceApp creates a new analysis application
func NewResonanceApp(ctx *Context) (*ResonanceApp, error) {
	logger := logging.NewDefaultLogger()
	ctx.Logger = logger

	config, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	config = mergeConfig(config, ctx)
	applyBatchDefaults(config)

	if err := configs.ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	ctx.Config = config

	if ctx.ChartFile == "" {
		return nil, fmt.Errorf("chart file is required")
	}
	chart, err := loadChartFromFile(ctx.ChartFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load chart: %w", err)
	}
	ctx.Chart = chart

	logger.Debug("Analysis application initialized", logging.Fields{
		"app_config_file": ctx.ConfigFile,
		"playlist_file":   ctx.PlaylistFile,
		"chart_file":      ctx.ChartFile,
		"output_format":   ctx.OutputFormat,
		"chart_aspects":   chart.Complexity(),
		"dominant_planet": chart.DominantPlanet(),
	})

	return &ResonanceApp{
		ctx:    ctx,
		config: config,
		chart:  chart,
		logger: logger,
	}, nil
}

// newEngine assembles the per-track pipeline from the merged configuration
func (app *ResonanceApp) newEngine() *pipeline.Engine {
	matchConfig := resonance.MatchConfig{
		ToleranceThreshold: app.config.Matching.ToleranceThreshold,
		MinStrength:        app.config.Matching.MinStrength,
		MaxMatchesPerItem:  app.config.Matching.MaxMatchesPerItem,
		WeightByImportance: app.config.Matching.WeightByImportance,
	}
	extractorConfig := &harmonics.ExtractorConfig{
		SampleRate:       app.config.Analysis.SampleRate,
		WindowSize:       app.config.Analysis.WindowSize,
		HopSize:          app.config.Analysis.HopSize,
		MaxHarmonics:     app.config.Analysis.MaxHarmonics,
		MinHarmonicLevel: app.config.Analysis.MinHarmonicLevel,
		FundamentalMinHz: app.config.Analysis.MinFundamentalHz,
		FundamentalMaxHz: app.config.Analysis.MaxFundamentalHz,
		Logger:           app.logger,
	}

	return pipeline.NewEngine(&pipeline.EngineConfig{
		MatchConfig:       matchConfig,
		ExtractorConfig:   extractorConfig,
		UserAgent:         app.config.Fetch.UserAgent,
		FetchTimeout:      app.config.Fetch.Timeout,
		MaxPreviewBytes:   app.config.Fetch.MaxPreviewBytes,
		DisableAudioFetch: app.config.Analysis.DisableAudioFetch,
		Logger:            app.logger,
	}, catalog.New())
}

// RunPlaylist executes a full playlist analysis
func (app *ResonanceApp) RunPlaylist(ctx context.Context) error {
	playlistFile, err := loadPlaylistFromFile(app.ctx.PlaylistFile)
	if err != nil {
		return fmt.Errorf("failed to load playlist: %w", err)
	}

	app.logger.Debug("Starting playlist run", logging.Fields{
		"playlist": playlistFile.Name,
		"tracks":   len(playlistFile.Tracks),
	})

	if app.config.Batch.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, app.config.Batch.Timeout)
		defer cancel()
	}

	orchestrator := playlist.NewOrchestrator(
		app.newEngine(),
		app.config.Batch.BatchSize,
		app.config.Batch.BatchPause,
		app.logger,
	)

	summary := orchestrator.RunPlaylist(ctx, playlistFile.PipelineTracks(), app.chart)
	metrics := playlist.ComputeMetrics(summary)

	if err := app.outputPlaylistResults(playlistFile, summary, metrics); err != nil {
		return fmt.Errorf("failed to output results: %w", err)
	}

	if app.ctx.EmitMetrics {
		app.collectResonanceMetrics(summary)
	}

	if summary.SuccessfulTracks == 0 && summary.FailedTracks > 0 {
		return fmt.Errorf("all track analyses failed")
	}

	return nil
}

// RunTrack executes a single-track analysis
func (app *ResonanceApp) RunTrack(ctx context.Context, track pipeline.Track) error {
	app.logger.Debug("Starting single-track run", logging.Fields{
		"track_id": track.ID,
	})

	if app.config.Batch.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, app.config.Batch.Timeout)
		defer cancel()
	}

	result := app.newEngine().AnalyzeTrack(ctx, track, app.chart)

	outputData := map[string]any{
		"track_result": cleanTrackResult(result, app.config.Verbose),
		"timestamp":    time.Now(),
		"chart": map[string]any{
			"aspects":         app.chart.Complexity(),
			"dominant_planet": app.chart.DominantPlanet(),
		},
	}

	return app.writeOutput(outputData)
}

// outputPlaylistResults handles all playlist result output
func (app *ResonanceApp) outputPlaylistResults(playlistFile *PlaylistFile, summary *playlist.Summary, metrics *playlist.Metrics) error {
	outputData := map[string]any{
		"playlist_summary": cleanPlaylistSummary(playlistFile, summary, app.config.Verbose),
		"metrics":          metrics,
		"timestamp":        time.Now(),
		"configuration": map[string]any{
			"batch_size":           app.config.Batch.BatchSize,
			"batch_pause":          app.config.Batch.BatchPause.Seconds(),
			"tolerance_threshold":  app.config.Matching.ToleranceThreshold,
			"weight_by_importance": app.config.Matching.WeightByImportance,
		},
	}

	return app.writeOutput(outputData)
}

// writeOutput formats data per the selected formatter and writes it to the
// output file or stdout
func (app *ResonanceApp) writeOutput(outputData map[string]any) error {
	var formatter output.Formatter
	switch app.ctx.OutputFormat {
	case "json":
		formatter = &output.JSONFormatter{}
	case "yaml":
		formatter = &output.YAMLFormatter{}
	case "csv":
		formatter = &output.CSVFormatter{}
	case "table":
		formatter = &output.TableFormatter{}
	default:
		formatter = &output.JSONFormatter{}
	}

	formattedData, err := formatter.Format(outputData, true)
	if err != nil {
		// JSON cannot carry Inf/NaN; scrub and retry
		if strings.Contains(err.Error(), "unsupported value") {
			sanitizedData := sanitizeForJSON(outputData)
			formattedData, err = formatter.Format(sanitizedData, true)
		}
		if err != nil {
			return fmt.Errorf("failed to format output data: %w", err)
		}
	}

	if app.ctx.OutputFile != "" {
		return app.writeToFile(formattedData)
	}

	_, err = os.Stdout.Write(formattedData)
	return err
}

// collectResonanceMetrics sends per-track and playlist scores to
// rootcollector
func (app *ResonanceApp) collectResonanceMetrics(summary *playlist.Summary) {
	if summary == nil {
		return
	}

	err := rootlogger.Configure(logger.LogOptions{
		Out:          "/tmp/resonance.log",
		ReopenSignal: syscall.SIGHUP,
		Level:        logtypes.InfoLevel,
	})
	if err != nil {
		logging.Error(err, "Failed configuring log writer")
	}

	for _, result := range summary.TrackResults {
		tags := []string{
			"track:" + result.Track.ID,
		}
		if result.Analysis != nil {
			tags = append(tags, "source:"+string(result.Analysis.Source))
		}
		if result.ChartOnly {
			tags = append(tags, "status:chart_only")
		} else {
			tags = append(tags, "status:scored")
		}

		// Scores are [0,1]; scale to millis because the collector wants int64
		scoreMillis := int64(result.OverallScore * 1000)
		rootcollector.Metric("resonance.track.score.millis", scoreMillis, tags)

		if result.ProcessingTime > 0 {
			rootcollector.Metric("resonance.track.duration.milliseconds", result.ProcessingTime.Milliseconds(), tags)
		}
	}

	playlistTags := []string{
		fmt.Sprintf("tracks:%d", len(summary.TrackResults)),
	}
	rootcollector.Metric("resonance.playlist.score.millis", int64(summary.PlaylistScore*1000), playlistTags)
	rootcollector.Metric("resonance.playlist.duration.milliseconds", summary.TotalDuration.Milliseconds(), playlistTags)
}

// cleanPlaylistSummary shapes the summary for output, dropping bulky
// analysis internals unless verbose
func cleanPlaylistSummary(playlistFile *PlaylistFile, summary *playlist.Summary, verbose bool) map[string]any {
	cleanSummary := map[string]any{
		"playlist_name":     playlistFile.Name,
		"start_time":        summary.StartTime,
		"end_time":          summary.EndTime,
		"total_duration":    summary.TotalDuration.Seconds(),
		"playlist_score":    summary.PlaylistScore,
		"successful_tracks": summary.SuccessfulTracks,
		"failed_tracks":     summary.FailedTracks,
	}

	trackResults := make([]map[string]any, 0, len(summary.TrackResults))
	for _, result := range summary.TrackResults {
		trackResults = append(trackResults, cleanTrackResult(result, verbose))
	}
	cleanSummary["track_results"] = trackResults

	return cleanSummary
}

// cleanTrackResult shapes one track result for output
func cleanTrackResult(result *pipeline.TrackResult, verbose bool) map[string]any {
	clean := map[string]any{
		"track_id":        result.Track.ID,
		"title":           result.Track.Title,
		"artist":          result.Track.Artist,
		"overall_score":   result.OverallScore,
		"chart_only":      result.ChartOnly,
		"processing_time": result.ProcessingTime.Seconds(),
	}

	if result.FeatureSnapshot != nil {
		clean["feature_snapshot"] = result.FeatureSnapshot
	}

	if len(result.TopMatches) > 0 {
		topMatches := make([]map[string]any, 0, len(result.TopMatches))
		for _, match := range result.TopMatches {
			topMatches = append(topMatches, map[string]any{
				"aspect":      match.Target.Name,
				"interval":    match.Target.IntervalName,
				"harmonic":    match.Component.Index,
				"strength":    match.Strength,
				"class":       match.Class,
				"explanation": match.Explanation,
			})
		}
		clean["top_matches"] = topMatches
	}

	if result.Reference != nil {
		clean["cosmic_alignment"] = result.Reference.CosmicAlignment
		clean["dominant_reference"] = result.Reference.Dominant
		if verbose {
			clean["reference_resonances"] = result.Reference.Resonances
			clean["cross_relationships"] = result.Reference.CrossRelationships
		}
	}

	if verbose {
		clean["matches"] = result.Matches
		if result.Analysis != nil {
			clean["analysis"] = result.Analysis
		}
	}

	if result.Err != nil {
		clean["error"] = result.Err.Error()
	}

	return clean
}

// writeToFile writes data to the specified output file
func (app *ResonanceApp) writeToFile(data []byte) error {
	dir := filepath.Dir(app.ctx.OutputFile)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(app.ctx.OutputFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	app.logger.Debug("Results written to file", logging.Fields{
		"output_file": app.ctx.OutputFile,
		"size_bytes":  len(data),
	})

	return nil
}

// sanitizeForJSON recursively cleans infinite and NaN values from any data structure
func sanitizeForJSON(data any) any {
	switch v := data.(type) {
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return 0.0
		}
		return v
	case float32:
		if math.IsInf(float64(v), 0) || math.IsNaN(float64(v)) {
			return float32(0.0)
		}
		return v
	case map[string]any:
		result := make(map[string]any)
		for k, val := range v {
			result[k] = sanitizeForJSON(val)
		}
		return result
	case []any:
		result := make([]any, len(v))
		for i, val := range v {
			result[i] = sanitizeForJSON(val)
		}
		return result
	case []float64:
		result := make([]float64, len(v))
		for i, val := range v {
			if math.IsInf(val, 0) || math.IsNaN(val) {
				result[i] = 0.0
			} else {
				result[i] = val
			}
		}
		return result
	default:
		// Use reflection to handle structs and other complex types
		return sanitizeWithReflection(data)
	}
}

// sanitizeWithReflection uses reflection to sanitize struct fields
func sanitizeWithReflection(data any) any {
	if data == nil {
		return nil
	}

	val := reflect.ValueOf(data)
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	}

	switch val.Kind() {
	case reflect.Struct:
		result := make(map[string]any)
		typ := val.Type()
		for i := 0; i < val.NumField(); i++ {
			field := val.Field(i)
			fieldType := typ.Field(i)

			// Skip unexported fields
			if !field.CanInterface() {
				continue
			}

			// Get JSON tag name or use field name
			jsonTag := fieldType.Tag.Get("json")
			fieldName := fieldType.Name
			if jsonTag != "" && jsonTag != "-" {
				// Parse JSON tag (handle omitempty, etc.)
				parts := strings.Split(jsonTag, ",")
				if parts[0] != "" {
					fieldName = parts[0]
				}
			}

			result[fieldName] = sanitizeForJSON(field.Interface())
		}
		return result
	case reflect.Slice:
		result := make([]any, val.Len())
		for i := 0; i < val.Len(); i++ {
			result[i] = sanitizeForJSON(val.Index(i).Interface())
		}
		return result
	case reflect.Map:
		result := make(map[string]any)
		for _, key := range val.MapKeys() {
			keyStr := fmt.Sprintf("%v", key.Interface())
			result[keyStr] = sanitizeForJSON(val.MapIndex(key).Interface())
		}
		return result
	case reflect.Float64:
		f := val.Float()
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return 0.0
		}
		return f
	case reflect.Float32:
		f := val.Float()
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return float32(0.0)
		}
		return float32(f)
	default:
		return val.Interface()
	}
}
