package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDenied = errors.New("permission denied")

func TestDo(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds first time", func(t *testing.T) {
		calls := 0
		err := Do(ctx, func(context.Context) error {
			calls++
			return nil
		}, WithDelay(time.Millisecond))
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries transient errors with linear waits", func(t *testing.T) {
		calls := 0
		var waits []time.Duration
		var attempts []int
		err := Do(ctx, func(context.Context) error {
			calls++
			if calls < 3 {
				return errors.New("timeout")
			}
			return nil
		},
			WithDelay(2*time.Millisecond),
			WithNotify(func(attempt int, err error, wait time.Duration) {
				attempts = append(attempts, attempt)
				waits = append(waits, wait)
			}),
		)
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
		assert.Equal(t, []int{1, 2}, attempts)
		assert.Equal(t, []time.Duration{2 * time.Millisecond, 4 * time.Millisecond}, waits)
	})

	t.Run("returns the last error after exhausting attempts", func(t *testing.T) {
		calls := 0
		err := Do(ctx, func(context.Context) error {
			calls++
			return errors.New("attempt " + string(rune('0'+calls)))
		}, WithAttempts(4), WithDelay(time.Millisecond))
		require.Error(t, err)
		assert.Equal(t, 4, calls)
		assert.Equal(t, "attempt 4", err.Error())
	})

	t.Run("does not retry permanent errors", func(t *testing.T) {
		calls := 0
		wrapped := errors.Join(errors.New("query failed"), errDenied)
		err := Do(ctx, func(context.Context) error {
			calls++
			return wrapped
		},
			WithDelay(time.Millisecond),
			WithPermanent(func(err error) bool { return errors.Is(err, errDenied) }),
		)
		assert.Equal(t, 1, calls)
		assert.ErrorIs(t, err, errDenied)
		assert.Same(t, wrapped, err)
	})

	t.Run("operation can mark an error permanent", func(t *testing.T) {
		calls := 0
		err := Do(ctx, func(context.Context) error {
			calls++
			return Permanent(errDenied)
		}, WithDelay(time.Millisecond))
		assert.Equal(t, 1, calls)
		assert.ErrorIs(t, err, errDenied)
	})

	t.Run("stops when the context is cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		calls := 0
		err := Do(cctx, func(context.Context) error {
			calls++
			cancel()
			return errors.New("unavailable")
		}, WithAttempts(5), WithDelay(time.Hour))
		assert.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("zero attempts still runs once", func(t *testing.T) {
		calls := 0
		_ = Do(ctx, func(context.Context) error {
			calls++
			return errors.New("boom")
		}, WithAttempts(0), WithDelay(time.Millisecond))
		assert.Equal(t, 1, calls)
	})
}

func TestDoValue(t *testing.T) {
	calls := 0
	v, err := DoValue(context.Background(), func(context.Context) ([]string, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("flaky")
		}
		return []string{"a"}, nil
	}, WithDelay(time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, v)
	assert.Equal(t, 2, calls)
}
