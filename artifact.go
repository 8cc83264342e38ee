package ss2wp

import "context"

// ImageAsset maps one image in the post to its local file.
type ImageAsset struct {
	Ordinal       int
	OriginalURL   string
	LocalFilename string
}

// Artifact is the terminal product of a conversion: the rendered HTML and
// the images it refers to, ordered by ordinal.
type Artifact struct {
	Title  string
	HTML   string
	Assets []ImageAsset
}

// Renderer serializes a post into an Artifact.
type Renderer interface {
	// Render produces the output HTML and decides the local filename for
	// every image. It performs no I/O.
	Render(post *Post) (*Artifact, error)
}

// PostStore persists a conversion's output with atomic semantics.
// Images and HTML are written to a pending location; Commit makes them
// permanent, Abort discards them.
type PostStore interface {
	SaveImage(ctx context.Context, filename string, data []byte) error
	SaveHTML(ctx context.Context, html string) error
	Commit() error
	Abort() error
}

// ImageProgress reports progress while downloading images.
type ImageProgress struct {
	Asset ImageAsset
	// ResolvedURL is the absolute URL the image was requested from. Empty
	// when the asset has no usable source.
	ResolvedURL string
	Completed   int
	Total       int
	Error       error
}

// ImageProgressFunc is called as images are processed.
type ImageProgressFunc func(ImageProgress)
