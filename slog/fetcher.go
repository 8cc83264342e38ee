// Package slog provides logging decorators for ss2wp services.
package slog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/ss2wp"
)

// Ensure LoggingFetcher implements ss2wp.Fetcher.
var _ ss2wp.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with debug logging.
type LoggingFetcher struct {
	next   ss2wp.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next ss2wp.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the URL being fetched and delegates to the wrapped fetcher.
// The checksum makes it easy to tell whether two runs saw the same page.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		f.logger.Info("fetch",
			"url", url,
			"bytes", len(html),
			"checksum", checksum([]byte(html)),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}

// Ensure LoggingImageFetcher implements ss2wp.ImageFetcher.
var _ ss2wp.ImageFetcher = (*LoggingImageFetcher)(nil)

// LoggingImageFetcher wraps an ImageFetcher with debug logging.
type LoggingImageFetcher struct {
	next   ss2wp.ImageFetcher
	logger *slog.Logger
}

// NewLoggingImageFetcher creates a new LoggingImageFetcher.
func NewLoggingImageFetcher(next ss2wp.ImageFetcher, logger *slog.Logger) *LoggingImageFetcher {
	return &LoggingImageFetcher{next: next, logger: logger}
}

// FetchBytes logs the image download and delegates to the wrapped fetcher.
func (f *LoggingImageFetcher) FetchBytes(ctx context.Context, url string) (data []byte, err error) {
	defer func(begin time.Time) {
		f.logger.Info("image",
			"url", url,
			"bytes", len(data),
			"checksum", checksum(data),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.FetchBytes(ctx, url)
}

func checksum(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}
