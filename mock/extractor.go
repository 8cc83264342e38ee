package mock

import "github.com/fwojciec/ss2wp"

var _ ss2wp.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of ss2wp.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*ss2wp.Post, error)
}

func (e *Extractor) Extract(html string) (*ss2wp.Post, error) {
	return e.ExtractFn(html)
}

var _ ss2wp.Renderer = (*Renderer)(nil)

// Renderer is a mock implementation of ss2wp.Renderer.
type Renderer struct {
	RenderFn func(post *ss2wp.Post) (*ss2wp.Artifact, error)
}

func (r *Renderer) Render(post *ss2wp.Post) (*ss2wp.Artifact, error) {
	return r.RenderFn(post)
}
