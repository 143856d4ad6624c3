// Package slog provides logging decorators for secondbrain interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	secondbrain "github.com/rizkyilhampra/second-brain"
)

// Ensure LoggingFetcher implements secondbrain.Fetcher.
var _ secondbrain.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with debug logging of every fetch.
type LoggingFetcher struct {
	next   secondbrain.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next secondbrain.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the outcome.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (*secondbrain.Resource, error) {
	begin := time.Now()
	res, err := f.next.Fetch(ctx, url)
	if err != nil {
		f.logger.Warn("fetch failed",
			"url", url,
			"duration", time.Since(begin),
			"error", err,
		)
		return nil, err
	}
	f.logger.Debug("fetch",
		"url", url,
		"contentType", res.ContentType,
		"bytes", len(res.Body),
		"duration", time.Since(begin),
	)
	return res, nil
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
