package ss2wp

// NodeKind identifies the variant of a ContentNode.
type NodeKind int

// ContentNode variants.
const (
	NodeText NodeKind = iota
	NodeImage
	NodeGalleryDescription
)

// String returns the kind name used in logs.
func (k NodeKind) String() string {
	switch k {
	case NodeText:
		return "text"
	case NodeImage:
		return "image"
	case NodeGalleryDescription:
		return "gallery-description"
	default:
		return "unknown"
	}
}

// ContentNode is one normalized unit of article content.
//
// Text and gallery description nodes carry an HTML fragment in HTML.
// Image nodes carry the source URL and the image's 0-based position among
// all images in the article; an image without a usable source has an
// empty URL but still holds its ordinal.
type ContentNode struct {
	Kind    NodeKind
	HTML    string
	URL     string
	Ordinal int
}

// TextBlock returns a paragraph or heading node.
func TextBlock(html string) ContentNode {
	return ContentNode{Kind: NodeText, HTML: html}
}

// ImageRef returns an image reference node.
func ImageRef(ordinal int, url string) ContentNode {
	return ContentNode{Kind: NodeImage, URL: url, Ordinal: ordinal}
}

// GalleryDescription returns a trailing gallery description node.
func GalleryDescription(html string) ContentNode {
	return ContentNode{Kind: NodeGalleryDescription, HTML: html}
}

// Post is the extracted content of a single blog post.
type Post struct {
	Title string
	Nodes []ContentNode
}

// Validate returns an error if the post contains invalid fields.
func (p *Post) Validate() error {
	if p.Title == "" {
		return Errorf(EINVALID, "post title required")
	}
	last := -1
	for _, n := range p.Nodes {
		if n.Kind != NodeImage {
			continue
		}
		if n.Ordinal <= last {
			return Errorf(EINVALID, "image ordinal %d out of order", n.Ordinal)
		}
		last = n.Ordinal
	}
	return nil
}

// Images returns the image nodes in sequence order.
func (p *Post) Images() []ContentNode {
	var images []ContentNode
	for _, n := range p.Nodes {
		if n.Kind == NodeImage {
			images = append(images, n)
		}
	}
	return images
}

// Extractor locates and normalizes post content in a raw page.
type Extractor interface {
	// Extract parses raw HTML and returns the post title and its content
	// nodes in document order.
	// Returns EEXTRACT if the title or article body cannot be located.
	Extract(html string) (*Post, error)
}
