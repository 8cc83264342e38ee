package convert_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/ss2wp"
	"github.com/fwojciec/ss2wp/convert"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ss2wp.DomainLimiter = (*convert.HostLimiter)(nil)

func TestHostLimiter(t *testing.T) {
	t.Parallel()

	t.Run("allows a burst without waiting", func(t *testing.T) {
		t.Parallel()

		limiter := convert.NewHostLimiter(1, 3)

		start := time.Now()
		for range 3 {
			require.NoError(t, limiter.Wait(context.Background(), "images.example.com"))
		}

		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("spaces requests to the same host", func(t *testing.T) {
		t.Parallel()

		limiter := convert.NewHostLimiter(10, 1)
		require.NoError(t, limiter.Wait(context.Background(), "images.example.com"))

		start := time.Now()
		err := limiter.Wait(context.Background(), "images.example.com")

		require.NoError(t, err)
		assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
	})

	t.Run("limits hosts independently", func(t *testing.T) {
		t.Parallel()

		limiter := convert.NewHostLimiter(1, 1)
		require.NoError(t, limiter.Wait(context.Background(), "www.example.com"))

		start := time.Now()
		err := limiter.Wait(context.Background(), "images.example.com")

		require.NoError(t, err)
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("gives up when the context ends", func(t *testing.T) {
		t.Parallel()

		limiter := convert.NewHostLimiter(1, 0)
		require.NoError(t, limiter.Wait(context.Background(), "images.example.com"))

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		assert.Error(t, limiter.Wait(ctx, "images.example.com"))
	})
}
