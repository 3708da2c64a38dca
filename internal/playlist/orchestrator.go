package playlist

import (
	"context"
	"sync"
	"time"

	"github.com/RyanBlaney/latency-benchmark-common/logging"

	"github.com/harmonia-labs/resonance/internal/pipeline"
	"github.com/harmonia-labs/resonance/pkg/astro"
)

const (
	defaultBatchSize  = 5
	defaultBatchPause = 500 * time.Millisecond
)

// TrackAnalyzer runs the per-track pipeline. Implemented by
// pipeline.Engine; abstracted for testing.
type TrackAnalyzer interface {
	AnalyzeTrack(ctx context.Context, track pipeline.Track, chart *astro.Chart) *pipeline.TrackResult
}

// Summary is the playlist-level outcome
type Summary struct {
	PlaylistScore    float64                 `json:"playlist_score"`
	TrackResults     []*pipeline.TrackResult `json:"track_results"`
	SuccessfulTracks int                     `json:"successful_tracks"`
	FailedTracks     int                     `json:"failed_tracks"`
	StartTime        time.Time               `json:"start_time"`
	EndTime          time.Time               `json:"end_time"`
	TotalDuration    time.Duration           `json:"total_duration"`
}

// Orchestrator fans the per-track pipeline out over a playlist in
// fixed-size concurrent batches. Batches run to completion before the next
// starts, with a short pause in between to respect upstream provider rate
// limits. One failing track never aborts its batch.
type Orchestrator struct {
	analyzer   TrackAnalyzer
	batchSize  int
	batchPause time.Duration
	logger     logging.Logger
}

// NewOrchestrator creates a playlist orchestrator. Zero batch parameters
// take the defaults (5 tracks per batch, 500ms pause).
func NewOrchestrator(analyzer TrackAnalyzer, batchSize int, batchPause time.Duration, logger logging.Logger) *Orchestrator {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if batchPause <= 0 {
		batchPause = defaultBatchPause
	}

	return &Orchestrator{
		analyzer:   analyzer,
		batchSize:  batchSize,
		batchPause: batchPause,
		logger:     logger,
	}
}

// RunPlaylist analyzes every track against the chart and folds the results
// into a playlist summary. The playlist score is the mean over successful
// tracks only; chart-only fallbacks are counted but excluded from the mean.
//
// Stopping early is the caller's concern: cancel the context and the
// orchestrator stops scheduling further batches.
func (o *Orchestrator) RunPlaylist(ctx context.Context, tracks []pipeline.Track, chart *astro.Chart) *Summary {
	startTime := time.Now()

	o.logger.Debug("Starting playlist analysis", logging.Fields{
		"tracks":      len(tracks),
		"batch_size":  o.batchSize,
		"batch_pause": o.batchPause.String(),
		"aspects":     chart.Complexity(),
	})

	results := make([]*pipeline.TrackResult, len(tracks))

	for batchStart := 0; batchStart < len(tracks); batchStart += o.batchSize {
		if ctx.Err() != nil {
			o.logger.Debug("Playlist analysis canceled", logging.Fields{
				"completed_tracks": batchStart,
			})
			break
		}

		batchEnd := min(batchStart+o.batchSize, len(tracks))

		var wg sync.WaitGroup
		for i := batchStart; i < batchEnd; i++ {
			wg.Add(1)
			go func(index int) {
				defer wg.Done()
				results[index] = o.analyzer.AnalyzeTrack(ctx, tracks[index], chart)
			}(i)
		}
		wg.Wait()

		o.logger.Debug("Batch completed", logging.Fields{
			"batch_start": batchStart,
			"batch_end":   batchEnd,
		})

		if batchEnd < len(tracks) {
			select {
			case <-ctx.Done():
			case <-time.After(o.batchPause):
			}
		}
	}

	endTime := time.Now()
	summary := &Summary{
		TrackResults:  compact(results),
		StartTime:     startTime,
		EndTime:       endTime,
		TotalDuration: endTime.Sub(startTime),
	}
	o.foldScores(summary)

	o.logger.Debug("Playlist analysis completed", logging.Fields{
		"playlist_score":    summary.PlaylistScore,
		"successful_tracks": summary.SuccessfulTracks,
		"failed_tracks":     summary.FailedTracks,
		"total_duration_s":  summary.TotalDuration.Seconds(),
	})

	return summary
}

// foldScores computes the playlist score as the mean over successful
// tracks.
func (o *Orchestrator) foldScores(summary *Summary) {
	sum := 0.0
	for _, result := range summary.TrackResults {
		if result.Succeeded() {
			summary.SuccessfulTracks++
			sum += result.OverallScore
		} else {
			summary.FailedTracks++
		}
	}
	if summary.SuccessfulTracks > 0 {
		summary.PlaylistScore = sum / float64(summary.SuccessfulTracks)
	}
}

// compact drops nil slots left by a canceled run.
func compact(results []*pipeline.TrackResult) []*pipeline.TrackResult {
	out := make([]*pipeline.TrackResult, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}
