// Package render serializes extracted posts into paste-ready HTML and
// decides the local filename of every image.
package render

import (
	"html"
	"path"
	"strings"

	"github.com/fwojciec/ss2wp"
)

// Placeholder marks where an image goes when images are inserted by hand.
const Placeholder = "<p>[[[ IMAGE ]]]</p>"

// Ensure Renderer implements ss2wp.Renderer at compile time.
var _ ss2wp.Renderer = (*Renderer)(nil)

// Renderer renders posts as plain HTML blocks separated by newlines.
// The post title is not rendered; the target editor has its own title field.
type Renderer struct {
	namer       Namer
	placeholder bool
	imageDir    string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithPlaceholders renders images as a marker paragraph instead of <img>.
func WithPlaceholders(placeholder bool) Option {
	return func(r *Renderer) {
		r.placeholder = placeholder
	}
}

// WithImageDir sets the directory prefix of <img> sources.
// Defaults to ss2wp.DefaultImageDir.
func WithImageDir(dir string) Option {
	return func(r *Renderer) {
		r.imageDir = dir
	}
}

// NewRenderer creates a new Renderer that names images with namer.
func NewRenderer(namer Namer, opts ...Option) *Renderer {
	r := &Renderer{
		namer:    namer,
		imageDir: ss2wp.DefaultImageDir,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewRendererFromOptions creates a Renderer configured by opts.
func NewRendererFromOptions(opts ss2wp.Options) (*Renderer, error) {
	namer, err := NewNamer(opts.FilenameScheme, opts.PrefixLength)
	if err != nil {
		return nil, err
	}
	return NewRenderer(namer,
		WithPlaceholders(opts.PlaceholderImages),
		WithImageDir(opts.ImageDir),
	), nil
}

// Render produces the output HTML and the image assets in ordinal order.
// Returns EINTERNAL if two images resolve to the same filename.
func (r *Renderer) Render(post *ss2wp.Post) (*ss2wp.Artifact, error) {
	if err := post.Validate(); err != nil {
		return nil, err
	}

	var (
		blocks = make([]string, 0, len(post.Nodes))
		assets []ss2wp.ImageAsset
		owners = make(map[string]int)
	)
	for _, n := range post.Nodes {
		switch n.Kind {
		case ss2wp.NodeText, ss2wp.NodeGalleryDescription:
			blocks = append(blocks, n.HTML)
		case ss2wp.NodeImage:
			name := r.namer.Name(post.Title, n)
			if owner, ok := owners[name]; ok {
				return nil, ss2wp.Errorf(ss2wp.EINTERNAL, "images %d and %d both resolve to %q", owner, n.Ordinal, name)
			}
			owners[name] = n.Ordinal
			assets = append(assets, ss2wp.ImageAsset{
				Ordinal:       n.Ordinal,
				OriginalURL:   n.URL,
				LocalFilename: name,
			})
			blocks = append(blocks, r.image(name))
		}
	}

	return &ss2wp.Artifact{
		Title:  post.Title,
		HTML:   strings.Join(blocks, "\n"),
		Assets: assets,
	}, nil
}

func (r *Renderer) image(name string) string {
	if r.placeholder {
		return Placeholder
	}
	return `<img src="` + html.EscapeString(path.Join(r.imageDir, name)) + `" alt="">`
}
