package render

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/ss2wp"
	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// imageNamespace scopes the UUIDs of the unique-id scheme.
var imageNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/fwojciec/ss2wp/image"))

// DefaultExtension is used when the image URL has no known extension.
const DefaultExtension = ".jpg"

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
	".svg": true, ".avif": true, ".bmp": true, ".tif": true, ".tiff": true,
}

// Namer maps an image to its local filename. Implementations must be
// deterministic: the same title and image always produce the same name.
type Namer interface {
	Name(title string, img ss2wp.ContentNode) string
}

// NamerFunc adapts a function to the Namer interface.
type NamerFunc func(title string, img ss2wp.ContentNode) string

// Name calls f.
func (f NamerFunc) Name(title string, img ss2wp.ContentNode) string {
	return f(title, img)
}

// NewNamer returns the Namer for a filename scheme. prefixLength bounds the
// title prefix of title-derived names; zero means no truncation.
func NewNamer(scheme ss2wp.FilenameScheme, prefixLength int) (Namer, error) {
	switch scheme {
	case ss2wp.SchemeUniqueID:
		return NamerFunc(uniqueIDName), nil
	case ss2wp.SchemeHash:
		return NamerFunc(hashName), nil
	case ss2wp.SchemeTitle:
		return NamerFunc(func(title string, img ss2wp.ContentNode) string {
			return fmt.Sprintf("%s_%d%s", ImagePrefix(title, prefixLength), img.Ordinal, Extension(img.URL))
		}), nil
	default:
		return nil, ss2wp.Errorf(ss2wp.EINVALID, "unknown filename scheme %q", scheme)
	}
}

// The ordinal is part of the key so the same URL appearing twice in a post
// still yields two files.
func imageKey(img ss2wp.ContentNode) string {
	return fmt.Sprintf("%d:%s", img.Ordinal, img.URL)
}

func uniqueIDName(_ string, img ss2wp.ContentNode) string {
	return uuid.NewSHA1(imageNamespace, []byte(imageKey(img))).String() + Extension(img.URL)
}

func hashName(_ string, img ss2wp.ContentNode) string {
	return fmt.Sprintf("%016x%s", xxhash.Sum64String(imageKey(img)), Extension(img.URL))
}

// Extension returns the lowercased image extension of rawURL's path, or
// DefaultExtension if it has none that is recognized. Squarespace appends
// query parameters such as ?format=1500w, which are ignored.
func Extension(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	ext := strings.ToLower(path.Ext(p))
	if imageExtensions[ext] {
		return ext
	}
	return DefaultExtension
}

var (
	foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folderChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)
	prefixChars = regexp.MustCompile(`[^a-z0-9_]`)
)

// sanitize folds accents, replaces spaces with underscores, drops
// everything unsafe matches and truncates to maxLen (0 = unlimited).
func sanitize(title string, unsafe *regexp.Regexp, maxLen int) string {
	name, _, err := transform.String(foldAccents, strings.TrimSpace(title))
	if err != nil {
		name = strings.TrimSpace(title)
	}
	name = strings.Join(strings.Fields(name), "_")
	name = unsafe.ReplaceAllString(name, "")
	if maxLen > 0 && len(name) > maxLen {
		name = name[:maxLen]
	}
	return name
}

// ImagePrefix returns the title prefix used for title-derived image names,
// limited to [a-z0-9_]. Falls back to "image" if nothing usable remains.
func ImagePrefix(title string, maxLen int) string {
	if prefix := sanitize(strings.ToLower(title), prefixChars, maxLen); prefix != "" {
		return prefix
	}
	return "image"
}

// FolderName returns a filesystem-friendly name derived from the post
// title, keeping case and hyphens. Falls back to "post" if nothing usable
// remains.
func FolderName(title string, maxLen int) string {
	if name := sanitize(title, folderChars, maxLen); name != "" {
		return name
	}
	return "post"
}
