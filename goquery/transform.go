package goquery

import (
	"bytes"
	"strings"
	"unicode"

	"github.com/fwojciec/ss2wp"
	"golang.org/x/net/html"
)

// TransformOptions configures Transform.
type TransformOptions struct {
	// SuppressFirstImage omits the image with ordinal 0 from the output.
	// The image still consumes its ordinal.
	SuppressFirstImage bool
}

var (
	// skipped subtrees never contribute content.
	skipped = setOf("script", "style", "noscript", "iframe", "video", "audio",
		"object", "embed", "button", "form", "input", "select", "svg", "template")

	headings = setOf("h1", "h2", "h3", "h4", "h5", "h6")

	// atomic blocks are passed through whole; images inside them are
	// emitted right after the block.
	atomic = setOf("ul", "ol", "pre", "table", "blockquote", "dl")

	inline = setOf("a", "abbr", "b", "bdi", "bdo", "br", "cite", "code", "data",
		"del", "dfn", "em", "i", "ins", "kbd", "mark", "q", "s", "samp", "small",
		"span", "strong", "sub", "sup", "time", "u", "var", "wbr")

	// blockLevel elements lose their presentational attributes.
	blockLevel = setOf("p", "h1", "h2", "h3", "h4", "h5", "h6", "ul", "ol", "li",
		"pre", "table", "thead", "tbody", "tfoot", "tr", "td", "th", "caption",
		"blockquote", "dl", "dt", "dd", "div", "section", "figure", "figcaption", "hr")
)

func setOf(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// Transform walks the located article in document order and returns its
// normalized content nodes, followed by the gallery description if the
// page has a non-empty one. The parsed tree is not modified.
func Transform(loc *Located, opts TransformOptions) []ss2wp.ContentNode {
	v := &visitor{
		title:         loc.Title,
		suppressFirst: opts.SuppressFirstImage,
	}
	v.container(loc.Article)
	v.flush()

	if loc.Description != nil {
		if frag := describe(loc.Description); frag != "" {
			v.nodes = append(v.nodes, ss2wp.GalleryDescription(frag))
		}
	}
	return v.nodes
}

// describe renders the gallery description region as HTML blocks.
// Images inside the region are dropped.
func describe(region *html.Node) string {
	v := &visitor{dropImages: true}
	v.container(region)
	v.flush()

	parts := make([]string, 0, len(v.nodes))
	for _, n := range v.nodes {
		parts = append(parts, n.HTML)
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// visitor is the traversal accumulator. ordinal counts every image seen,
// emitted or not.
type visitor struct {
	title         string
	suppressFirst bool
	dropImages    bool

	ordinal int
	nodes   []ss2wp.ContentNode

	// pending holds loose inline content of a container, to be wrapped
	// in a paragraph at the next block boundary.
	pending []*html.Node
}

func (v *visitor) container(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		v.visit(c)
	}
}

func (v *visitor) visit(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		v.pending = append(v.pending, clone(n))
		return
	case html.ElementNode:
	default:
		return
	}

	switch tag := n.Data; {
	case skipped[tag]:
	case tag == "img":
		v.flush()
		v.image(n)
	case headings[tag]:
		v.flush()
		if v.title != "" && textContent(n) == v.title {
			return
		}
		v.block(n)
	case tag == "p":
		v.flush()
		v.block(n)
	case atomic[tag]:
		v.flush()
		v.atomic(n)
	case inline[tag] && !containsImage(n) && !containsBlock(n):
		v.pending = append(v.pending, clone(n))
	case inline[tag] && containsBlock(n):
		v.container(n)
	case inline[tag]:
		v.splitInline(n)
	default:
		v.flush()
		v.container(n)
		v.flush()
	}
}

func (v *visitor) image(n *html.Node) {
	ordinal := v.ordinal
	v.ordinal++
	if v.dropImages || (v.suppressFirst && ordinal == 0) {
		return
	}
	v.nodes = append(v.nodes, ss2wp.ImageRef(ordinal, imageSource(n)))
}

// flush wraps pending inline content in a paragraph.
func (v *visitor) flush() {
	if len(v.pending) == 0 {
		return
	}
	p := &html.Node{Type: html.ElementNode, Data: "p"}
	for _, c := range v.pending {
		p.AppendChild(c)
	}
	v.pending = nil
	v.emitText(p)
}

// block emits a paragraph or heading. Images inside split it: the content
// before the image, the image, and the content after it become separate
// nodes.
func (v *visitor) block(n *html.Node) {
	s := v.newSplitter(func() *html.Node {
		return &html.Node{Type: html.ElementNode, Data: n.Data, DataAtom: n.DataAtom, Attr: stripAttrs(n.Attr)}
	})
	s.walk(n)
	v.emitText(s.run)
}

// splitInline splits loose inline content holding an image. The pending
// content joins the run before the image and whatever follows the image
// stays pending.
func (v *visitor) splitInline(n *html.Node) {
	s := v.newSplitter(func() *html.Node {
		return &html.Node{Type: html.ElementNode, Data: "p"}
	})
	for _, c := range v.pending {
		s.run.AppendChild(c)
	}
	v.pending = nil

	s.enter(n)
	s.walk(n)
	s.leave()

	for c := s.run.FirstChild; c != nil; c = s.run.FirstChild {
		s.run.RemoveChild(c)
		v.pending = append(v.pending, c)
	}
}

// splitter builds the text runs of a block split around its images. Each
// run reopens the inline wrappers the split happened in, so formatting
// carries over to both sides of the image.
type splitter struct {
	v     *visitor
	shell func() *html.Node

	run *html.Node
	cur *html.Node
	// open holds the source inline elements enclosing cur.
	open []*html.Node
}

func (v *visitor) newSplitter(shell func() *html.Node) *splitter {
	run := shell()
	return &splitter{v: v, shell: shell, run: run, cur: run}
}

func (s *splitter) walk(parent *html.Node) {
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.CommentNode:
		case c.Type == html.ElementNode && skipped[c.Data]:
		case c.Type == html.ElementNode && c.Data == "img":
			s.split()
			s.v.image(c)
		case c.Type == html.ElementNode && containsImage(c):
			s.enter(c)
			s.walk(c)
			s.leave()
		default:
			s.cur.AppendChild(clone(c))
		}
	}
}

func (s *splitter) enter(n *html.Node) {
	w := shallow(n)
	s.cur.AppendChild(w)
	s.cur = w
	s.open = append(s.open, n)
}

func (s *splitter) leave() {
	s.open = s.open[:len(s.open)-1]
	s.cur = s.cur.Parent
}

// split emits the current run and starts a new one inside fresh copies of
// the open wrappers. Wrappers left empty on either side, such as a link
// holding only the image, are trimmed away by emitText.
func (s *splitter) split() {
	s.v.emitText(s.run)
	s.run = s.shell()
	s.cur = s.run
	for _, n := range s.open {
		w := shallow(n)
		s.cur.AppendChild(w)
		s.cur = w
	}
}

// atomic emits a list, table, quote or preformatted block whole.
func (v *visitor) atomic(n *html.Node) {
	v.emitText(clone(n))

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode || skipped[c.Data] {
				continue
			}
			if c.Data == "img" {
				v.image(c)
				continue
			}
			walk(c)
		}
	}
	walk(n)
}

// emitText strips a trailing "Read More" link from block and appends it as
// a text node unless nothing is left.
func (v *visitor) emitText(block *html.Node) {
	stripReadMore(block)
	if block.Data != "pre" {
		trimEdges(block)
	}
	if textContent(block) == "" {
		return
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, block); err != nil {
		return
	}
	v.nodes = append(v.nodes, ss2wp.TextBlock(buf.String()))
}

// trimEdges removes whitespace at the start and end of block, left behind
// when a block is split around an image. It descends into inline wrappers
// at either edge and drops the ones it empties.
func trimEdges(block *html.Node) {
	trimLeading(block)
	trimTrailing(block)
}

// trimLeading reports whether n still has content after trimming.
func trimLeading(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		switch {
		case c.Type == html.TextNode:
			if c.Data = strings.TrimLeftFunc(c.Data, unicode.IsSpace); c.Data != "" {
				return true
			}
		case trimmable(c):
			if trimLeading(c) {
				return true
			}
		default:
			return true
		}
		n.RemoveChild(c)
	}
	return false
}

// trimTrailing reports whether n still has content after trimming.
func trimTrailing(n *html.Node) bool {
	for c := n.LastChild; c != nil; c = n.LastChild {
		switch {
		case c.Type == html.TextNode:
			if c.Data = strings.TrimRightFunc(c.Data, unicode.IsSpace); c.Data != "" {
				return true
			}
		case trimmable(c):
			if trimTrailing(c) {
				return true
			}
		default:
			return true
		}
		n.RemoveChild(c)
	}
	return false
}

func trimmable(n *html.Node) bool {
	return n.Type == html.ElementNode && inline[n.Data] && n.Data != "br" && n.Data != "wbr"
}

// clone deep-copies n, dropping comments, images and skipped subtrees.
// Block-level elements lose their presentational attributes; inline
// elements keep theirs verbatim.
func clone(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if n.Type == html.ElementNode {
		if blockLevel[n.Data] {
			c.Attr = stripAttrs(n.Attr)
		} else {
			c.Attr = append([]html.Attribute(nil), n.Attr...)
		}
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type == html.CommentNode {
			continue
		}
		if ch.Type == html.ElementNode && (skipped[ch.Data] || ch.Data == "img") {
			continue
		}
		c.AppendChild(clone(ch))
	}
	return c
}

// shallow copies n without its children.
func shallow(n *html.Node) *html.Node {
	c := &html.Node{Type: n.Type, DataAtom: n.DataAtom, Data: n.Data, Namespace: n.Namespace}
	if blockLevel[n.Data] {
		c.Attr = stripAttrs(n.Attr)
	} else {
		c.Attr = append([]html.Attribute(nil), n.Attr...)
	}
	return c
}

// stripAttrs drops class, id, style and data-* attributes.
func stripAttrs(attrs []html.Attribute) []html.Attribute {
	var kept []html.Attribute
	for _, a := range attrs {
		switch {
		case a.Key == "class", a.Key == "id", a.Key == "style":
		case strings.HasPrefix(a.Key, "data-"):
		default:
			kept = append(kept, a)
		}
	}
	return kept
}

// imageSource returns the URL an image should be downloaded from.
// Squarespace lazy-loads images, so data-src and data-image are consulted
// when src is missing or an inline placeholder.
func imageSource(n *html.Node) string {
	for _, key := range []string{"src", "data-src", "data-image"} {
		val := strings.TrimSpace(attr(n, key))
		if val != "" && !strings.HasPrefix(strings.ToLower(val), "data:") {
			return val
		}
	}
	return ""
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func containsImage(n *html.Node) bool {
	return findFirst(n, func(c *html.Node) bool {
		return c.Type == html.ElementNode && c.Data == "img" && !hasSkippedAncestor(c, n)
	}) != nil
}

func containsBlock(n *html.Node) bool {
	return findFirst(n, func(c *html.Node) bool {
		return c != n && c.Type == html.ElementNode && blockLevel[c.Data]
	}) != nil
}

// hasSkippedAncestor reports whether an ancestor of n below top is skipped.
func hasSkippedAncestor(n, top *html.Node) bool {
	for p := n.Parent; p != nil && p != top; p = p.Parent {
		if p.Type == html.ElementNode && skipped[p.Data] {
			return true
		}
	}
	return false
}
