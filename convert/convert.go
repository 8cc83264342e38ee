// Package convert runs the conversion pipeline: it fetches a post page,
// extracts and renders its content, and materializes the images through
// the injected collaborators.
package convert

import (
	"context"
	"net/url"
	"sync"

	"github.com/fwojciec/ss2wp"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of images downloaded at once.
const DefaultConcurrency = 4

// Converter converts a single post. Fetcher, ImageFetcher, Extractor,
// Renderer and Store are required; RateLimiter is optional.
type Converter struct {
	Fetcher      ss2wp.Fetcher
	ImageFetcher ss2wp.ImageFetcher
	Extractor    ss2wp.Extractor
	Renderer     ss2wp.Renderer
	Store        ss2wp.PostStore
	RateLimiter  ss2wp.DomainLimiter

	// Concurrency bounds parallel image downloads.
	// Defaults to DefaultConcurrency if not positive.
	Concurrency int
}

// Extract fetches the page at pageURL and extracts its post.
// Returns EINVALID for a malformed URL and EFETCH if the page cannot be
// retrieved.
func (c *Converter) Extract(ctx context.Context, pageURL string) (*ss2wp.Post, error) {
	if _, err := parsePageURL(pageURL); err != nil {
		return nil, err
	}
	html, err := c.Fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, ss2wp.WrapError(ss2wp.EFETCH, err, "failed to fetch %s", pageURL)
	}
	return c.Extractor.Extract(html)
}

// Convert fetches, extracts and publishes the post at pageURL.
func (c *Converter) Convert(ctx context.Context, pageURL string, progress ss2wp.ImageProgressFunc) (*ss2wp.Artifact, error) {
	post, err := c.Extract(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return c.Publish(ctx, pageURL, post, progress)
}

// Publish renders post, downloads its images into the store, then saves the
// HTML and commits the store. Relative image URLs resolve against pageURL.
//
// A failed image download is reported through progress and skipped; the
// rendered HTML still refers to its filename. Any other failure aborts the
// store so no partial output remains.
func (c *Converter) Publish(ctx context.Context, pageURL string, post *ss2wp.Post, progress ss2wp.ImageProgressFunc) (*ss2wp.Artifact, error) {
	base, err := parsePageURL(pageURL)
	if err != nil {
		return nil, err
	}

	artifact, err := c.Renderer.Render(post)
	if err != nil {
		return nil, err
	}

	if err := c.materialize(ctx, base, artifact.Assets, progress); err != nil {
		_ = c.Store.Abort()
		return nil, err
	}

	if err := c.Store.SaveHTML(ctx, artifact.HTML); err != nil {
		_ = c.Store.Abort()
		return nil, ss2wp.WrapError(ss2wp.EFILESYSTEM, err, "failed to save HTML")
	}
	if err := c.Store.Commit(); err != nil {
		_ = c.Store.Abort()
		return nil, ss2wp.WrapError(ss2wp.EFILESYSTEM, err, "failed to commit output")
	}

	return artifact, nil
}

func parsePageURL(pageURL string) (*url.URL, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, ss2wp.WrapError(ss2wp.EINVALID, err, "invalid post URL")
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ss2wp.Errorf(ss2wp.EINVALID, "invalid post URL %q: must be absolute http(s)", pageURL)
	}
	return u, nil
}

// materialize downloads every asset and saves it under its local filename.
// Only store failures and context cancellation are returned.
func (c *Converter) materialize(ctx context.Context, base *url.URL, assets []ss2wp.ImageAsset, progress ss2wp.ImageProgressFunc) error {
	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	var (
		mu        sync.Mutex
		completed int
	)
	report := func(asset ss2wp.ImageAsset, resolved string, err error) {
		mu.Lock()
		defer mu.Unlock()
		completed++
		if progress != nil {
			progress(ss2wp.ImageProgress{
				Asset:       asset,
				ResolvedURL: resolved,
				Completed:   completed,
				Total:       len(assets),
				Error:       err,
			})
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, asset := range assets {
		g.Go(func() error {
			resolved, err := resolveImage(base, asset)
			if err != nil {
				report(asset, "", err)
				return nil
			}
			data, err := c.download(ctx, resolved)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				report(asset, resolved.String(), err)
				return nil
			}
			if err := c.Store.SaveImage(ctx, asset.LocalFilename, data); err != nil {
				return ss2wp.WrapError(ss2wp.EFILESYSTEM, err, "failed to save image %s", asset.LocalFilename)
			}
			report(asset, resolved.String(), nil)
			return nil
		})
	}
	return g.Wait()
}

// resolveImage resolves the asset's source against the post URL.
func resolveImage(base *url.URL, asset ss2wp.ImageAsset) (*url.URL, error) {
	if asset.OriginalURL == "" {
		return nil, ss2wp.Errorf(ss2wp.EFETCH, "image %d has no source", asset.Ordinal)
	}
	ref, err := url.Parse(asset.OriginalURL)
	if err != nil {
		return nil, ss2wp.WrapError(ss2wp.EFETCH, err, "invalid image URL")
	}
	return base.ResolveReference(ref), nil
}

func (c *Converter) download(ctx context.Context, resolved *url.URL) ([]byte, error) {
	if c.RateLimiter != nil {
		if err := c.RateLimiter.Wait(ctx, resolved.Host); err != nil {
			return nil, err
		}
	}

	data, err := c.ImageFetcher.FetchBytes(ctx, resolved.String())
	if err != nil {
		return nil, ss2wp.WrapError(ss2wp.EFETCH, err, "failed to download %s", resolved)
	}
	return data, nil
}
