// Package goquery implements ss2wp.Extractor for Squarespace post pages.
// It locates the post title and article body by structural markers and
// walks the article tree to produce normalized content nodes.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/ss2wp"
	"golang.org/x/net/html"
)

// Predicate reports whether a node carries a structural marker.
type Predicate func(n *html.Node) bool

// Matches returns a Predicate that reports whether a node matches any of
// the CSS selectors. Selectors are compiled once; an invalid selector panics.
func Matches(selectors ...string) Predicate {
	sels := make([]cascadia.Selector, 0, len(selectors))
	for _, s := range selectors {
		sels = append(sels, cascadia.MustCompile(s))
	}
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		for _, sel := range sels {
			if sel.Match(n) {
				return true
			}
		}
		return false
	}
}

// Markers are tried in order; the first marker that matches wins, even if a
// later marker matches an element earlier in the document.
var (
	titleMarkers = []Predicate{
		Matches("h1.entry-title"),
		Matches(".blog-item-title h1", ".BlogItem-title"),
		Matches(`[data-content-field="title"]`),
		Matches("article h1"),
	}

	articleSelectors = [][]string{
		{`[data-content-field="main-content"]`},
		{".blog-item-content", ".entry-content"},
		{"article .sqs-layout"},
		{`[itemprop="articleBody"]`},
	}
	articleMarkers = markers(articleSelectors)

	descriptionMarkers = []Predicate{
		Matches(".gallery-description"),
		Matches(".sqs-gallery-meta-container .meta-description"),
		Matches(`[data-content-field="description"]`),
	}
)

func markers(groups [][]string) []Predicate {
	preds := make([]Predicate, 0, len(groups))
	for _, g := range groups {
		preds = append(preds, Matches(g...))
	}
	return preds
}

// ArticleSelector returns a CSS selector list matching any article body
// marker. Browser fetchers wait for it before reading a page.
func ArticleSelector() string {
	var all []string
	for _, g := range articleSelectors {
		all = append(all, g...)
	}
	return strings.Join(all, ", ")
}

// Located holds the regions of a post page that the transformer works on.
type Located struct {
	Title   string
	Article *html.Node

	// Description is the gallery description region, or nil if the page
	// has none outside the article body.
	Description *html.Node
}

// Locate finds the post title, the article root and the gallery description
// in doc. Returns EEXTRACT if the title or article root is missing.
func Locate(doc *goquery.Document) (*Located, error) {
	if len(doc.Nodes) == 0 {
		return nil, ss2wp.Errorf(ss2wp.EEXTRACT, "empty document")
	}
	root := doc.Nodes[0]

	title := locateTitle(doc, root)
	if title == "" {
		return nil, ss2wp.Errorf(ss2wp.EEXTRACT, "post title not found")
	}

	var article *html.Node
	for _, marker := range articleMarkers {
		if article = findFirst(root, marker); article != nil {
			break
		}
	}
	if article == nil {
		return nil, ss2wp.Errorf(ss2wp.EEXTRACT, "article body not found")
	}

	// Only the first description outside the article counts.
	var description *html.Node
	for _, marker := range descriptionMarkers {
		description = findFirst(root, func(n *html.Node) bool {
			return marker(n) && !isWithin(n, article) && !isWithin(article, n)
		})
		if description != nil {
			break
		}
	}

	return &Located{
		Title:       title,
		Article:     article,
		Description: description,
	}, nil
}

func locateTitle(doc *goquery.Document, root *html.Node) string {
	for _, marker := range titleMarkers {
		n := findFirst(root, func(n *html.Node) bool {
			return marker(n) && textContent(n) != ""
		})
		if n != nil {
			return textContent(n)
		}
	}

	// The og:title often carries a site suffix, so it is only a fallback.
	if content, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		return strings.TrimSpace(content)
	}
	return ""
}

// findFirst returns the first node in document order, root included,
// for which pred holds.
func findFirst(root *html.Node, pred Predicate) *html.Node {
	if pred(root) {
		return root
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if n := findFirst(c, pred); n != nil {
			return n
		}
	}
	return nil
}

// isWithin reports whether n is ancestor or n itself.
func isWithin(n, ancestor *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n == ancestor {
			return true
		}
	}
	return false
}

// textContent returns the trimmed text of n and its descendants.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}
