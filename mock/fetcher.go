package mock

import (
	"context"

	"github.com/fwojciec/ss2wp"
)

var _ ss2wp.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of ss2wp.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ ss2wp.ImageFetcher = (*ImageFetcher)(nil)

// ImageFetcher is a mock implementation of ss2wp.ImageFetcher.
type ImageFetcher struct {
	FetchBytesFn func(ctx context.Context, url string) ([]byte, error)
}

func (f *ImageFetcher) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	return f.FetchBytesFn(ctx, url)
}

var _ ss2wp.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of ss2wp.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
