package mock

import "github.com/fwojciec/ss2wp"

var _ ss2wp.MarkdownConverter = (*MarkdownConverter)(nil)

// MarkdownConverter is a mock implementation of ss2wp.MarkdownConverter.
type MarkdownConverter struct {
	ConvertFn func(html string) (string, error)
}

func (c *MarkdownConverter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
