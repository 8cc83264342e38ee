package ss2wp

// MarkdownConverter converts rendered HTML to Markdown for previews.
type MarkdownConverter interface {
	Convert(html string) (string, error)
}
