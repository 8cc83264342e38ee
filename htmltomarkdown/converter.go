// Package htmltomarkdown renders converted post HTML as Markdown for a
// quick terminal preview.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/ss2wp"
)

// Ensure Converter implements ss2wp.MarkdownConverter at compile time.
var _ ss2wp.MarkdownConverter = (*Converter)(nil)

// DefaultImageMarker stands in for an image placeholder in the preview.
const DefaultImageMarker = "> *[ image ]*"

// placeholderToken survives conversion unescaped.
const placeholderToken = "SS2WPIMAGEPLACEHOLDER"

// Converter renders post HTML as Markdown.
type Converter struct {
	conv *converter.Converter

	placeholder string
	marker      string
}

// Option configures a Converter.
type Option func(*Converter)

// WithImagePlaceholder renders every occurrence of the placeholder block
// as marker. Markdown punctuation in marker is kept as written.
func WithImagePlaceholder(placeholder, marker string) Option {
	return func(c *Converter) {
		c.placeholder = placeholder
		c.marker = marker
	}
}

// NewConverter creates a new Converter.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
		marker: DefaultImageMarker,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert transforms post HTML into Markdown.
// Returns EINVALID if html holds no content.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", ss2wp.Errorf(ss2wp.EINVALID, "empty HTML input")
	}

	marked := c.placeholder != "" && strings.Contains(html, c.placeholder)
	if marked {
		html = strings.ReplaceAll(html, c.placeholder, "<p>"+placeholderToken+"</p>")
	}

	result, err := c.conv.ConvertString(html)
	if err != nil {
		return "", ss2wp.WrapError(ss2wp.EINTERNAL, err, "failed to convert HTML to Markdown")
	}

	if marked {
		result = strings.ReplaceAll(result, placeholderToken, c.marker)
	}
	return result, nil
}
