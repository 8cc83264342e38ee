package goquery_test

import (
	"testing"

	"github.com/fwojciec/ss2wp"
	"github.com/fwojciec/ss2wp/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extractNodes(t *testing.T, body string) []ss2wp.ContentNode {
	t.Helper()
	post, err := goquery.NewExtractor().Extract(postPage(body))
	require.NoError(t, err)
	return post.Nodes
}

func TestTransform_Headings(t *testing.T) {
	t.Parallel()

	t.Run("drops a heading equal to the title", func(t *testing.T) {
		t.Parallel()

		nodes := extractNodes(t, `<h1 class="heading">My Trip</h1><h2>My Trip</h2><p>Body</p>`)

		assert.Equal(t, []ss2wp.ContentNode{
			ss2wp.TextBlock("<p>Body</p>"),
		}, nodes)
	})

	t.Run("keeps a heading that differs by one character", func(t *testing.T) {
		t.Parallel()

		nodes := extractNodes(t, `<h1>My Trip!</h1><h2 id="day-1">My Trap</h2>`)

		assert.Equal(t, []ss2wp.ContentNode{
			ss2wp.TextBlock("<h1>My Trip!</h1>"),
			ss2wp.TextBlock("<h2>My Trap</h2>"),
		}, nodes)
	})

	t.Run("keeps a title heading nested in a quote", func(t *testing.T) {
		t.Parallel()

		nodes := extractNodes(t, `<blockquote><h3>My Trip</h3></blockquote>`)

		assert.Equal(t, []ss2wp.ContentNode{
			ss2wp.TextBlock("<blockquote><h3>My Trip</h3></blockquote>"),
		}, nodes)
	})
}

func TestTransform_Images(t *testing.T) {
	t.Parallel()

	t.Run("yields no image refs for a post without images", func(t *testing.T) {
		t.Parallel()

		nodes := extractNodes(t, `<p>One</p><p>Two</p>`)

		for _, n := range nodes {
			assert.NotEqual(t, ss2wp.NodeImage, n.Kind)
		}
		assert.Len(t, nodes, 2)
	})

	t.Run("numbers images in document order", func(t *testing.T) {
		t.Parallel()

		nodes := extractNodes(t, `
<div class="sqs-block image-block"><img src="https://cdn.example.com/1.jpg"></div>
<p>Between</p>
<div class="sqs-block gallery-block">
	<figure><img src="https://cdn.example.com/2.png"></figure>
	<figure><img src="https://cdn.example.com/3.png"></figure>
</div>`)

		assert.Equal(t, []ss2wp.ContentNode{
			ss2wp.ImageRef(0, "https://cdn.example.com/1.jpg"),
			ss2wp.TextBlock("<p>Between</p>"),
			ss2wp.ImageRef(1, "https://cdn.example.com/2.png"),
			ss2wp.ImageRef(2, "https://cdn.example.com/3.png"),
		}, nodes)
	})

	t.Run("splits a paragraph around an inline image", func(t *testing.T) {
		t.Parallel()

		nodes := extractNodes(t, `<p>Before <img src="x.png"> after</p>`)

		assert.Equal(t, []ss2wp.ContentNode{
			ss2wp.TextBlock("<p>Before</p>"),
			ss2wp.ImageRef(0, "x.png"),
			ss2wp.TextBlock("<p>after</p>"),
		}, nodes)
	})

	t.Run("unwraps linked images", func(t *testing.T) {
		t.Parallel()

		nodes := extractNodes(t, `<p><a href="full.jpg"><img src="thumb.jpg"></a></p>`)

		assert.Equal(t, []ss2wp.ContentNode{
			ss2wp.ImageRef(0, "thumb.jpg"),
		}, nodes)
	})

	t.Run("keeps inline formatting on both sides of a split", func(t *testing.T) {
		t.Parallel()

		nodes := extractNodes(t, `<p><strong>Bold lead <img src="a.jpg"> bold tail</strong> plain</p>`)

		assert.Equal(t, []ss2wp.ContentNode{
			ss2wp.TextBlock("<p><strong>Bold lead</strong></p>"),
			ss2wp.ImageRef(0, "a.jpg"),
			ss2wp.TextBlock("<p><strong>bold tail</strong> plain</p>"),
		}, nodes)
	})

	t.Run("reopens nested wrappers with their attributes", func(t *testing.T) {
		t.Parallel()

		nodes := extractNodes(t, `<p>See <a href="/gallery" title="All"><em>the view <img src="v.jpg"> from here</em></a>.</p>`)

		assert.Equal(t, []ss2wp.ContentNode{
			ss2wp.TextBlock(`<p>See <a href="/gallery" title="All"><em>the view</em></a></p>`),
			ss2wp.ImageRef(0, "v.jpg"),
			ss2wp.TextBlock(`<p><a href="/gallery" title="All"><em>from here</em></a>.</p>`),
		}, nodes)
	})

	t.Run("keeps formatting of loose inline text around an image", func(t *testing.T) {
		t.Parallel()

		nodes := extractNodes(t, `<div class="sqs-block-content">Intro <em>lead <img src="i.jpg"> tail</em> after</div>`)

		assert.Equal(t, []ss2wp.ContentNode{
			ss2wp.TextBlock("<p>Intro <em>lead</em></p>"),
			ss2wp.ImageRef(0, "i.jpg"),
			ss2wp.TextBlock("<p><em>tail</em> after</p>"),
		}, nodes)
	})

	t.Run("keeps a link that holds text besides the image", func(t *testing.T) {
		t.Parallel()

		nodes := extractNodes(t, `<p><a href="/map">Map <img src="m.jpg"></a></p>`)

		assert.Equal(t, []ss2wp.ContentNode{
			ss2wp.TextBlock(`<p><a href="/map">Map</a></p>`),
			ss2wp.ImageRef(0, "m.jpg"),
		}, nodes)
	})

	t.Run("prefers lazy-load source over inline placeholder", func(t *testing.T) {
		t.Parallel()

		nodes := extractNodes(t, `<img src="data:image/gif;base64,R0lGOD" data-src="https://cdn.example.com/lazy.jpg">`)

		assert.Equal(t, []ss2wp.ContentNode{
			ss2wp.ImageRef(0, "https://cdn.example.com/lazy.jpg"),
		}, nodes)
	})

	t.Run("counts images without a source", func(t *testing.T) {
		t.Parallel()

		nodes := extractNodes(t, `<img alt="broken"><img src="b.jpg">`)

		assert.Equal(t, []ss2wp.ContentNode{
			ss2wp.ImageRef(0, ""),
			ss2wp.ImageRef(1, "b.jpg"),
		}, nodes)
	})

	t.Run("emits images from a list after the list", func(t *testing.T) {
		t.Parallel()

		nodes := extractNodes(t, `<ul class="list"><li>One</li><li>Two <img src="l.jpg"></li></ul><p>After</p>`)

		assert.Equal(t, []ss2wp.ContentNode{
			ss2wp.TextBlock("<ul><li>One</li><li>Two </li></ul>"),
			ss2wp.ImageRef(0, "l.jpg"),
			ss2wp.TextBlock("<p>After</p>"),
		}, nodes)
	})

	t.Run("ignores images in noscript fallbacks", func(t *testing.T) {
		t.Parallel()

		nodes := extractNodes(t, `<noscript><img src="fallback.jpg"></noscript><img src="real.jpg">`)

		assert.Equal(t, []ss2wp.ContentNode{
			ss2wp.ImageRef(0, "real.jpg"),
		}, nodes)
	})
}

func TestTransform_Passthrough(t *testing.T) {
	t.Parallel()

	t.Run("strips block attributes and keeps inline formatting", func(t *testing.T) {
		t.Parallel()

		nodes := extractNodes(t, `<p class="x" id="y" style="color:red" data-rte-preserve-empty="true">Hi <a href="https://example.com" target="_blank">there</a>, <strong>bold</strong> and <em>italic</em></p>`)

		assert.Equal(t, []ss2wp.ContentNode{
			ss2wp.TextBlock(`<p>Hi <a href="https://example.com" target="_blank">there</a>, <strong>bold</strong> and <em>italic</em></p>`),
		}, nodes)
	})

	t.Run("wraps loose text in a paragraph", func(t *testing.T) {
		t.Parallel()

		nodes := extractNodes(t, `<div class="sqs-block-content">Loose <em>text</em></div><p>After</p>`)

		assert.Equal(t, []ss2wp.ContentNode{
			ss2wp.TextBlock("<p>Loose <em>text</em></p>"),
			ss2wp.TextBlock("<p>After</p>"),
		}, nodes)
	})

	t.Run("skips scripts, embeds and empty paragraphs", func(t *testing.T) {
		t.Parallel()

		nodes := extractNodes(t, `<script>var x = 1;</script><iframe src="https://video.example.com"></iframe><p>&nbsp;</p><p><br></p><p>Text</p>`)

		assert.Equal(t, []ss2wp.ContentNode{
			ss2wp.TextBlock("<p>Text</p>"),
		}, nodes)
	})
}

func TestTransform_ReadMore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want []ss2wp.ContentNode
	}{
		{
			name: "title case",
			body: `<p>Text. <a href="/p">Read More</a></p>`,
			want: []ss2wp.ContentNode{ss2wp.TextBlock("<p>Text.</p>")},
		},
		{
			name: "lower case with ellipsis",
			body: `<p>Text. <a href="/p">Read more...</a></p>`,
			want: []ss2wp.ContentNode{ss2wp.TextBlock("<p>Text.</p>")},
		},
		{
			name: "upper case",
			body: `<p>Text. <a href="/p">READ MORE</a></p>`,
			want: []ss2wp.ContentNode{ss2wp.TextBlock("<p>Text.</p>")},
		},
		{
			name: "unicode ellipsis",
			body: `<p>Text. <a href="/p">Read More…</a></p>`,
			want: []ss2wp.ContentNode{ss2wp.TextBlock("<p>Text.</p>")},
		},
		{
			name: "non-breaking space",
			body: `<p>More text. <a href="/x">Read&nbsp;More</a></p>`,
			want: []ss2wp.ContentNode{ss2wp.TextBlock("<p>More text.</p>")},
		},
		{
			name: "removes separator before link",
			body: `<p>Some text | <a href="/p">Read More</a></p>`,
			want: []ss2wp.ContentNode{ss2wp.TextBlock("<p>Some text</p>")},
		},
		{
			name: "removes dash separator before link",
			body: `<p>Some text — <a href="/p">Read More</a></p>`,
			want: []ss2wp.ContentNode{ss2wp.TextBlock("<p>Some text</p>")},
		},
		{
			name: "removes link inside inline wrapper",
			body: `<p>Text <strong><a href="/p">Read more</a></strong></p>`,
			want: []ss2wp.ContentNode{ss2wp.TextBlock("<p>Text</p>")},
		},
		{
			name: "drops paragraph holding only the link",
			body: `<p>Text</p><p><a href="/p">Read More</a></p>`,
			want: []ss2wp.ContentNode{ss2wp.TextBlock("<p>Text</p>")},
		},
		{
			name: "keeps link in the middle of a paragraph",
			body: `<p>See <a href="/x">Read More</a> for details.</p>`,
			want: []ss2wp.ContentNode{ss2wp.TextBlock(`<p>See <a href="/x">Read More</a> for details.</p>`)},
		},
		{
			name: "keeps other trailing links",
			body: `<p>Visit <a href="/shop">the shop</a></p>`,
			want: []ss2wp.ContentNode{ss2wp.TextBlock(`<p>Visit <a href="/shop">the shop</a></p>`)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, extractNodes(t, tt.body))
		})
	}
}

func TestTransform_GalleryDescription(t *testing.T) {
	t.Parallel()

	galleryPage := func(description string) string {
		return `<html><body>
<h1 class="entry-title">Harbour</h1>
<div class="blog-item-content"><img src="1.jpg"><img src="2.jpg"></div>
<div class="sqs-gallery-meta-container"><div class="meta-description">` + description + `</div></div>
</body></html>`
	}

	t.Run("appends the description after all other nodes", func(t *testing.T) {
		t.Parallel()

		post, err := goquery.NewExtractor().Extract(galleryPage(`<p class="d">Boats at dusk. <a href="/harbour">Read More</a></p>`))

		require.NoError(t, err)
		assert.Equal(t, []ss2wp.ContentNode{
			ss2wp.ImageRef(0, "1.jpg"),
			ss2wp.ImageRef(1, "2.jpg"),
			ss2wp.GalleryDescription("<p>Boats at dusk.</p>"),
		}, post.Nodes)
	})

	t.Run("strips a separated read more link from the description", func(t *testing.T) {
		t.Parallel()

		post, err := goquery.NewExtractor().Extract(galleryPage(`<p>Boats at dusk | <a href="/harbour">Read More...</a></p>`))

		require.NoError(t, err)
		require.NotEmpty(t, post.Nodes)
		assert.Equal(t, ss2wp.GalleryDescription("<p>Boats at dusk</p>"), post.Nodes[len(post.Nodes)-1])
	})

	t.Run("skips a description holding only a read more link", func(t *testing.T) {
		t.Parallel()

		post, err := goquery.NewExtractor().Extract(galleryPage(`<p><a href="/harbour">Read More...</a></p>`))

		require.NoError(t, err)
		assert.Equal(t, []ss2wp.ContentNode{
			ss2wp.ImageRef(0, "1.jpg"),
			ss2wp.ImageRef(1, "2.jpg"),
		}, post.Nodes)
	})

	t.Run("wraps plain description text", func(t *testing.T) {
		t.Parallel()

		post, err := goquery.NewExtractor().Extract(galleryPage(`  Boats at dusk.  `))

		require.NoError(t, err)
		require.NotEmpty(t, post.Nodes)
		assert.Equal(t, ss2wp.GalleryDescription("<p>Boats at dusk.</p>"), post.Nodes[len(post.Nodes)-1])
	})

	t.Run("skips an empty description", func(t *testing.T) {
		t.Parallel()

		post, err := goquery.NewExtractor().Extract(galleryPage(" \n <p>&nbsp;</p> "))

		require.NoError(t, err)
		for _, n := range post.Nodes {
			assert.NotEqual(t, ss2wp.NodeGalleryDescription, n.Kind)
		}
	})

	t.Run("drops images from the description", func(t *testing.T) {
		t.Parallel()

		post, err := goquery.NewExtractor().Extract(galleryPage(`<p>Caption</p><img src="3.jpg">`))

		require.NoError(t, err)
		assert.Len(t, post.Images(), 2)
		assert.Equal(t, ss2wp.GalleryDescription("<p>Caption</p>"), post.Nodes[len(post.Nodes)-1])
	})
}
