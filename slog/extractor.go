package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/ss2wp"
)

// Ensure LoggingExtractor implements ss2wp.Extractor.
var _ ss2wp.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with debug logging.
type LoggingExtractor struct {
	next   ss2wp.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next ss2wp.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract logs what was found in the page and delegates to the wrapped extractor.
func (e *LoggingExtractor) Extract(html string) (post *ss2wp.Post, err error) {
	defer func(begin time.Time) {
		attrs := []any{"duration", time.Since(begin)}
		if post != nil {
			attrs = append(attrs,
				"title", post.Title,
				"nodes", len(post.Nodes),
				"images", len(post.Images()),
			)
		}
		if err != nil {
			attrs = append(attrs, "err", err)
		}
		e.logger.Info("extract", attrs...)
	}(time.Now())
	return e.next.Extract(html)
}

// Ensure LoggingRenderer implements ss2wp.Renderer.
var _ ss2wp.Renderer = (*LoggingRenderer)(nil)

// LoggingRenderer wraps a Renderer with debug logging.
type LoggingRenderer struct {
	next   ss2wp.Renderer
	logger *slog.Logger
}

// NewLoggingRenderer creates a new LoggingRenderer.
func NewLoggingRenderer(next ss2wp.Renderer, logger *slog.Logger) *LoggingRenderer {
	return &LoggingRenderer{next: next, logger: logger}
}

// Render logs every image filename decision and delegates to the wrapped renderer.
func (r *LoggingRenderer) Render(post *ss2wp.Post) (*ss2wp.Artifact, error) {
	artifact, err := r.next.Render(post)
	if err != nil {
		r.logger.Info("render", "err", err)
		return nil, err
	}
	for _, a := range artifact.Assets {
		r.logger.Debug("image name",
			"ordinal", a.Ordinal,
			"url", a.OriginalURL,
			"file", a.LocalFilename,
		)
	}
	r.logger.Info("render",
		"bytes", len(artifact.HTML),
		"assets", len(artifact.Assets),
	)
	return artifact, nil
}
