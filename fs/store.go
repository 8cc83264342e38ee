// Package fs provides file-based storage for converted posts.
package fs

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/fwojciec/ss2wp"
)

// Ensure FileStore implements ss2wp.PostStore at compile time.
var _ ss2wp.PostStore = (*FileStore)(nil)

// FileStore implements ss2wp.PostStore with atomic update semantics.
// Files are saved to a temporary directory, then moved into place on Commit.
//
// The layout of a committed post is:
//
//	baseDir/name/name.html
//	baseDir/name/<imageDir>/<image files>
type FileStore struct {
	baseDir  string
	name     string
	imageDir string
	htmlOut  io.Writer

	mu      sync.Mutex
	pending *string
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithImageDir sets the image subdirectory.
// Defaults to ss2wp.DefaultImageDir.
func WithImageDir(dir string) Option {
	return func(s *FileStore) {
		s.imageDir = dir
	}
}

// WithHTMLWriter sends the HTML to w on Commit instead of writing an HTML
// file. Images are still written to disk.
func WithHTMLWriter(w io.Writer) Option {
	return func(s *FileStore) {
		s.htmlOut = w
	}
}

// NewFileStore creates a new FileStore.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewFileStore(baseDir, name string, opts ...Option) *FileStore {
	s := &FileStore{
		baseDir:  baseDir,
		name:     name,
		imageDir: ss2wp.DefaultImageDir,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the directory the post is committed to.
func (s *FileStore) Dir() string {
	return filepath.Join(s.baseDir, s.name)
}

// HTMLPath returns the path of the committed HTML file.
// It is empty when the HTML goes to a writer.
func (s *FileStore) HTMLPath() string {
	if s.htmlOut != nil {
		return ""
	}
	return filepath.Join(s.Dir(), s.name+".html")
}

func (s *FileStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

// SaveImage writes data to the image directory under filename.
func (s *FileStore) SaveImage(ctx context.Context, filename string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkFilename(filename); err != nil {
		return err
	}

	dir := filepath.Join(s.tempDir(), s.imageDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, filename), data, 0644)
}

// SaveHTML stores the rendered HTML of the post.
func (s *FileStore) SaveHTML(ctx context.Context, html string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.htmlOut != nil {
		s.mu.Lock()
		s.pending = &html
		s.mu.Unlock()
		return nil
	}

	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.tempDir(), s.name+".html"), []byte(html), 0644)
}

// Commit replaces any previous output with the saved files and writes
// buffered HTML to the configured writer.
func (s *FileStore) Commit() error {
	if _, err := os.Stat(s.tempDir()); err == nil {
		// Remove existing final directory if present
		if err := os.RemoveAll(s.Dir()); err != nil {
			return err
		}
		if err := os.Rename(s.tempDir(), s.Dir()); err != nil {
			return err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if s.htmlOut == nil {
		return nil
	}
	s.mu.Lock()
	html := s.pending
	s.pending = nil
	s.mu.Unlock()
	if html == nil {
		return nil
	}
	_, err := io.WriteString(s.htmlOut, *html+"\n")
	return err
}

// Abort discards everything saved since the store was created.
func (s *FileStore) Abort() error {
	s.mu.Lock()
	s.pending = nil
	s.mu.Unlock()
	return os.RemoveAll(s.tempDir())
}
