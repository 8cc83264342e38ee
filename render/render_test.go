package render_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/ss2wp"
	"github.com/fwojciec/ss2wp/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Renderer implements ss2wp.Renderer at compile time.
var _ ss2wp.Renderer = (*render.Renderer)(nil)

func referencePost() *ss2wp.Post {
	return &ss2wp.Post{
		Title: "My Trip",
		Nodes: []ss2wp.ContentNode{
			ss2wp.TextBlock("<p>Intro text.</p>"),
			ss2wp.ImageRef(0, "a.jpg"),
			ss2wp.TextBlock("<p>More text.</p>"),
		},
	}
}

func titleRenderer(t *testing.T, opts ...render.Option) *render.Renderer {
	t.Helper()
	namer, err := render.NewNamer(ss2wp.SchemeTitle, 10)
	require.NoError(t, err)
	return render.NewRenderer(namer, opts...)
}

func TestRenderer_Render(t *testing.T) {
	t.Parallel()

	t.Run("renders placeholders for images", func(t *testing.T) {
		t.Parallel()

		r := titleRenderer(t, render.WithPlaceholders(true))

		artifact, err := r.Render(referencePost())

		require.NoError(t, err)
		assert.Equal(t, "<p>Intro text.</p>\n<p>[[[ IMAGE ]]]</p>\n<p>More text.</p>", artifact.HTML)
		assert.Equal(t, 1, strings.Count(artifact.HTML, render.Placeholder))
		assert.NotContains(t, artifact.HTML, "<h1>")
		assert.Equal(t, []ss2wp.ImageAsset{
			{Ordinal: 0, OriginalURL: "a.jpg", LocalFilename: "my_trip_0.jpg"},
		}, artifact.Assets)
	})

	t.Run("renders img tags pointing at local files", func(t *testing.T) {
		t.Parallel()

		r := titleRenderer(t)

		artifact, err := r.Render(referencePost())

		require.NoError(t, err)
		assert.Equal(t, "<p>Intro text.</p>\n<img src=\"images/my_trip_0.jpg\" alt=\"\">\n<p>More text.</p>", artifact.HTML)
	})

	t.Run("uses the configured image directory", func(t *testing.T) {
		t.Parallel()

		r := titleRenderer(t, render.WithImageDir("media"))

		artifact, err := r.Render(referencePost())

		require.NoError(t, err)
		assert.Contains(t, artifact.HTML, `<img src="media/my_trip_0.jpg" alt="">`)
	})

	t.Run("renders gallery description last", func(t *testing.T) {
		t.Parallel()

		post := &ss2wp.Post{
			Title: "Harbour",
			Nodes: []ss2wp.ContentNode{
				ss2wp.ImageRef(0, "1.jpg"),
				ss2wp.GalleryDescription("<p>Boats.</p>"),
			},
		}

		artifact, err := titleRenderer(t, render.WithPlaceholders(true)).Render(post)

		require.NoError(t, err)
		assert.Equal(t, "<p>[[[ IMAGE ]]]</p>\n<p>Boats.</p>", artifact.HTML)
	})

	t.Run("keeps image references in ordinal order", func(t *testing.T) {
		t.Parallel()

		post := &ss2wp.Post{Title: "Walk"}
		for i, u := range []string{"a.png", "b.png", "c.png", "d.png"} {
			post.Nodes = append(post.Nodes, ss2wp.TextBlock("<p>x</p>"), ss2wp.ImageRef(i, u))
		}

		artifact, err := titleRenderer(t).Render(post)

		require.NoError(t, err)
		require.Len(t, artifact.Assets, 4)
		last := -1
		for _, a := range artifact.Assets {
			assert.Greater(t, a.Ordinal, last)
			last = a.Ordinal
			assert.Contains(t, artifact.HTML, a.LocalFilename)
		}
		assert.Equal(t, 4, strings.Count(artifact.HTML, "<img "))
	})

	t.Run("renders no images for a post without images", func(t *testing.T) {
		t.Parallel()

		post := &ss2wp.Post{Title: "Words", Nodes: []ss2wp.ContentNode{ss2wp.TextBlock("<p>Only words.</p>")}}

		artifact, err := titleRenderer(t).Render(post)

		require.NoError(t, err)
		assert.Empty(t, artifact.Assets)
		assert.Equal(t, "<p>Only words.</p>", artifact.HTML)
	})

	t.Run("rejects out of order images", func(t *testing.T) {
		t.Parallel()

		post := &ss2wp.Post{Title: "Bad", Nodes: []ss2wp.ContentNode{
			ss2wp.ImageRef(1, "b.jpg"),
			ss2wp.ImageRef(0, "a.jpg"),
		}}

		_, err := titleRenderer(t).Render(post)

		require.Error(t, err)
		assert.Equal(t, ss2wp.EINVALID, ss2wp.ErrorCode(err))
	})

	t.Run("rejects filename collisions", func(t *testing.T) {
		t.Parallel()

		constant := render.NamerFunc(func(string, ss2wp.ContentNode) string { return "same.jpg" })
		post := &ss2wp.Post{Title: "Twice", Nodes: []ss2wp.ContentNode{
			ss2wp.ImageRef(0, "a.jpg"),
			ss2wp.ImageRef(1, "b.jpg"),
		}}

		_, err := render.NewRenderer(constant).Render(post)

		require.Error(t, err)
		assert.Equal(t, ss2wp.EINTERNAL, ss2wp.ErrorCode(err))
	})

	t.Run("names images identically across runs", func(t *testing.T) {
		t.Parallel()

		for _, scheme := range []ss2wp.FilenameScheme{ss2wp.SchemeUniqueID, ss2wp.SchemeHash, ss2wp.SchemeTitle} {
			opts := ss2wp.DefaultOptions()
			opts.FilenameScheme = scheme

			first, err := render.NewRendererFromOptions(opts)
			require.NoError(t, err)
			second, err := render.NewRendererFromOptions(opts)
			require.NoError(t, err)

			a, err := first.Render(referencePost())
			require.NoError(t, err)
			b, err := second.Render(referencePost())
			require.NoError(t, err)

			assert.Equal(t, a.Assets, b.Assets, "scheme %s", scheme)
			assert.Equal(t, a.HTML, b.HTML, "scheme %s", scheme)
		}
	})
}

func TestNewRendererFromOptions_UnknownScheme(t *testing.T) {
	t.Parallel()

	opts := ss2wp.DefaultOptions()
	opts.FilenameScheme = "random"

	_, err := render.NewRendererFromOptions(opts)

	require.Error(t, err)
	assert.Equal(t, ss2wp.EINVALID, ss2wp.ErrorCode(err))
}
