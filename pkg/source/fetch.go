package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
)

const (
	defaultFetchTimeout = 15 * time.Second
	maxPreviewBytes     = 16 << 20 // previews are short clips; cap the body read
)

// FetcherConfig tunes the preview downloader. Zero values take the defaults
// above.
type FetcherConfig struct {
	UserAgent       string
	Timeout         time.Duration
	MaxPreviewBytes int64
}

// Fetcher downloads short preview clips over HTTP and reads local audio
// files. All failures come back as *SourceError so the extractor can demote
// tiers instead of surfacing them.
type Fetcher struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
	logger    logging.Logger
}

// NewFetcher creates a fetcher with the given user agent and default limits.
func NewFetcher(userAgent string) *Fetcher {
	return NewFetcherWithConfig(FetcherConfig{UserAgent: userAgent})
}

// NewFetcherWithConfig creates a fetcher with explicit limits. The request
// timeout applies on top of the caller's context.
func NewFetcherWithConfig(cfg FetcherConfig) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultFetchTimeout
	}
	if cfg.MaxPreviewBytes <= 0 {
		cfg.MaxPreviewBytes = maxPreviewBytes
	}

	return &Fetcher{
		client:    &http.Client{Timeout: cfg.Timeout},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxPreviewBytes,
		logger: logging.WithFields(logging.Fields{
			"component": "source_fetcher",
		}),
	}
}

// FetchPreview downloads the preview clip at the given URL.
func (f *Fetcher) FetchPreview(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, NewSourceError(url, ErrCodeUnavailable, "no preview URL", nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewSourceError(url, ErrCodeFetch, "failed to build request", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, NewSourceError(url, ErrCodeFetch, "preview fetch failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, NewSourceError(url, ErrCodeFetch,
			fmt.Sprintf("preview fetch returned status %d", resp.StatusCode), nil)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, NewSourceError(url, ErrCodeFetch, "failed to read preview body", err)
	}

	f.logger.Debug("Preview fetched", logging.Fields{
		"url":      url,
		"bytes":    len(data),
		"fetch_ms": time.Since(start).Milliseconds(),
	})

	return data, nil
}

// ReadLocal reads an audio file from disk.
func (f *Fetcher) ReadLocal(path string) ([]byte, error) {
	if path == "" {
		return nil, NewSourceError("", ErrCodeUnavailable, "no audio path", nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewSourceError(path, ErrCodeFetch, "failed to read audio file", err)
	}
	return data, nil
}
