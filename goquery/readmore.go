package goquery

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

var readMorePattern = regexp.MustCompile(`(?i)^read more ?(\.\.\.|…)?$`)

// separators may precede a "Read More" link and go with it.
const separators = "-–—|:·•»>"

// stripReadMore removes a "Read More" link when it is the last inline
// content of block, along with the separator punctuation before it.
// Reports whether a link was removed. block is modified in place, so it
// must not be part of the source tree.
func stripReadMore(block *html.Node) bool {
	link := lastInline(block)
	if link == nil || link.Data != "a" || !isReadMore(textContent(link)) {
		return false
	}
	link.Parent.RemoveChild(link)
	trimTail(block)
	return true
}

// isReadMore matches link text with any run of Unicode spaces, such as
// the non-breaking space, collapsed to a single space.
func isReadMore(text string) bool {
	return readMorePattern.MatchString(strings.Join(strings.Fields(text), " "))
}

// lastInline returns the last element of n, descending into trailing inline
// wrappers, or nil if n ends in text.
func lastInline(n *html.Node) *html.Node {
	for c := n.LastChild; c != nil; c = c.PrevSibling {
		switch c.Type {
		case html.TextNode:
			if strings.TrimSpace(c.Data) != "" {
				return nil
			}
		case html.ElementNode:
			if c.Data == "a" || !inline[c.Data] {
				return c
			}
			if c.Data == "br" {
				continue
			}
			if last := lastInline(c); last != nil {
				return last
			}
			if textContent(c) != "" {
				return nil
			}
		}
	}
	return nil
}

// trimTail removes trailing whitespace, separators, line breaks and emptied
// inline wrappers from the end of n.
func trimTail(n *html.Node) {
	for c := n.LastChild; c != nil; c = n.LastChild {
		switch c.Type {
		case html.TextNode:
			t := strings.TrimRightFunc(c.Data, unicode.IsSpace)
			t = strings.TrimRight(t, separators)
			t = strings.TrimRightFunc(t, unicode.IsSpace)
			if t != "" {
				c.Data = t
				return
			}
		case html.ElementNode:
			if !inline[c.Data] || c.Data == "a" {
				return
			}
			if c.Data != "br" {
				trimTail(c)
				if c.FirstChild != nil {
					return
				}
			}
		case html.CommentNode:
		default:
			return
		}
		n.RemoveChild(c)
	}
}
