package check_test

import (
	"context"
	"testing"
	"time"

	"github.com/rizkyilhampra/second-brain/check"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainLimiter(t *testing.T) {
	t.Parallel()

	t.Run("first_request_passes_immediately", func(t *testing.T) {
		t.Parallel()

		limiter := check.NewDomainLimiter(1)

		start := time.Now()
		require.NoError(t, limiter.Wait(context.Background(), "kb.example"))
		assert.Less(t, time.Since(start), 100*time.Millisecond)
	})

	t.Run("second_request_waits_for_the_bucket", func(t *testing.T) {
		t.Parallel()

		limiter := check.NewDomainLimiter(20) // 50ms between requests

		require.NoError(t, limiter.Wait(context.Background(), "kb.example"))
		start := time.Now()
		require.NoError(t, limiter.Wait(context.Background(), "kb.example"))

		assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
	})

	t.Run("domains_do_not_share_buckets", func(t *testing.T) {
		t.Parallel()

		limiter := check.NewDomainLimiter(1)

		require.NoError(t, limiter.Wait(context.Background(), "a.example"))
		start := time.Now()
		require.NoError(t, limiter.Wait(context.Background(), "b.example"))

		assert.Less(t, time.Since(start), 100*time.Millisecond)
	})

	t.Run("canceled_context_aborts_the_wait", func(t *testing.T) {
		t.Parallel()

		limiter := check.NewDomainLimiter(0.001)
		require.NoError(t, limiter.Wait(context.Background(), "kb.example"))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		err := limiter.Wait(ctx, "kb.example")
		require.Error(t, err)
	})
}
