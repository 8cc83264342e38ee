package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/ss2wp"
)

// Ensure Extractor implements ss2wp.Extractor at compile time.
var _ ss2wp.Extractor = (*Extractor)(nil)

// Extractor locates a post in a Squarespace page and transforms its
// article body into content nodes.
type Extractor struct {
	opts TransformOptions
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithSuppressFirstImage omits the first image of the article, leaving the
// lead image to be inserted by hand.
func WithSuppressFirstImage(suppress bool) Option {
	return func(e *Extractor) {
		e.opts.SuppressFirstImage = suppress
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract parses raw HTML and returns the post's title and content nodes.
func (e *Extractor) Extract(rawHTML string) (*ss2wp.Post, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, ss2wp.Errorf(ss2wp.EEXTRACT, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, ss2wp.WrapError(ss2wp.EEXTRACT, err, "failed to parse HTML")
	}

	loc, err := Locate(doc)
	if err != nil {
		return nil, err
	}

	return &ss2wp.Post{
		Title: loc.Title,
		Nodes: Transform(loc, e.opts),
	}, nil
}
