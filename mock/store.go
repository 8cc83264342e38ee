package mock

import (
	"context"
	"sync"

	"github.com/fwojciec/ss2wp"
)

var _ ss2wp.PostStore = (*PostStore)(nil)

// PostStore is a mock implementation of ss2wp.PostStore.
type PostStore struct {
	SaveImageFn func(ctx context.Context, filename string, data []byte) error
	SaveHTMLFn  func(ctx context.Context, html string) error
	CommitFn    func() error
	AbortFn     func() error
}

func (s *PostStore) SaveImage(ctx context.Context, filename string, data []byte) error {
	return s.SaveImageFn(ctx, filename, data)
}

func (s *PostStore) SaveHTML(ctx context.Context, html string) error {
	return s.SaveHTMLFn(ctx, html)
}

func (s *PostStore) Commit() error {
	return s.CommitFn()
}

func (s *PostStore) Abort() error {
	return s.AbortFn()
}

var _ ss2wp.PostStore = (*MemoryStore)(nil)

// MemoryStore is an in-memory ss2wp.PostStore that records what was saved.
// It is safe for concurrent use.
type MemoryStore struct {
	mu        sync.Mutex
	Images    map[string][]byte
	HTML      string
	Committed bool
	Aborted   bool
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{Images: make(map[string][]byte)}
}

func (s *MemoryStore) SaveImage(_ context.Context, filename string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Images[filename] = data
	return nil
}

func (s *MemoryStore) SaveHTML(_ context.Context, html string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.HTML = html
	return nil
}

func (s *MemoryStore) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Committed = true
	return nil
}

func (s *MemoryStore) Abort() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Aborted = true
	return nil
}
