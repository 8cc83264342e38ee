package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fwojciec/ss2wp"
	"github.com/fwojciec/ss2wp/convert"
	"github.com/fwojciec/ss2wp/fs"
	"github.com/fwojciec/ss2wp/render"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	// Converter has every collaborator set except Store, which depends on
	// the post title and is created by ConvertCmd.
	Converter *convert.Converter
	Markdown  ss2wp.MarkdownConverter
}

// ConvertCmd converts one post.
type ConvertCmd struct {
	URL     string
	BaseDir string
	Options ss2wp.Options
	Preview bool
}

// Run executes the convert command.
func (c *ConvertCmd) Run(deps *Dependencies) error {
	post, err := deps.Converter.Extract(deps.Ctx, c.URL)
	if err != nil {
		return report(deps.Stderr, err)
	}

	if c.Preview {
		return c.runPreview(deps, post)
	}
	return c.runConvert(deps, post)
}

func (c *ConvertCmd) runPreview(deps *Dependencies, post *ss2wp.Post) error {
	artifact, err := deps.Converter.Renderer.Render(post)
	if err != nil {
		return report(deps.Stderr, err)
	}

	fmt.Fprintf(deps.Stdout, "# %s\n\n", post.Title)
	if artifact.HTML == "" {
		return nil
	}
	md, err := deps.Markdown.Convert(artifact.HTML)
	if err != nil {
		return report(deps.Stderr, err)
	}
	fmt.Fprintln(deps.Stdout, md)

	for _, a := range artifact.Assets {
		fmt.Fprintf(deps.Stderr, "image %d: %s -> %s\n", a.Ordinal, a.OriginalURL, a.LocalFilename)
	}
	return nil
}

func (c *ConvertCmd) runConvert(deps *Dependencies, post *ss2wp.Post) error {
	storeOpts := []fs.Option{fs.WithImageDir(c.Options.ImageDir)}
	// Status lines go to stderr when stdout carries the HTML.
	status := deps.Stdout
	if c.Options.OutputTarget == ss2wp.TargetStdout {
		storeOpts = append(storeOpts, fs.WithHTMLWriter(deps.Stdout))
		status = deps.Stderr
	}
	store := fs.NewFileStore(c.BaseDir, render.FolderName(post.Title, c.Options.FolderLength), storeOpts...)
	deps.Converter.Store = store

	failed := 0
	progress := func(p ss2wp.ImageProgress) {
		if p.Error == nil {
			return
		}
		failed++
		fmt.Fprintf(deps.Stderr, "Failed to download %s: %s\n", assetLabel(p), cause(p.Error))
	}

	artifact, err := deps.Converter.Publish(deps.Ctx, c.URL, post, progress)
	if err != nil {
		return report(deps.Stderr, err)
	}

	if path := store.HTMLPath(); path != "" {
		fmt.Fprintf(status, "Wrote %s\n", path)
	}
	if n := len(artifact.Assets); n > 0 {
		fmt.Fprintf(status, "Saved %d of %d images to %s\n", n-failed, n, store.Dir())
	}
	return nil
}

func assetLabel(p ss2wp.ImageProgress) string {
	switch {
	case p.ResolvedURL != "":
		return p.ResolvedURL
	case p.Asset.OriginalURL != "":
		return p.Asset.OriginalURL
	default:
		return fmt.Sprintf("image %d", p.Asset.Ordinal)
	}
}

// cause returns the text of the innermost useful error so download failures
// read "Failed to download <url>: <reason>".
func cause(err error) string {
	var e *ss2wp.Error
	if errors.As(err, &e) && e.Err != nil {
		return e.Err.Error()
	}
	return ss2wp.ErrorMessage(err)
}

// reportedError is an error already shown to the user.
type reportedError struct {
	error
}

func (e reportedError) Unwrap() error { return e.error }

// report prints err's message once and marks it as reported.
func report(w io.Writer, err error) error {
	fmt.Fprintf(w, "error: %s\n", ss2wp.ErrorMessage(err))
	return reportedError{err}
}
