package sources_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fwojciec/lexcov/sources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastDelays = []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond}

func TestFetchWithRetry(t *testing.T) {
	t.Parallel()

	t.Run("returns the first successful body", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(ctx context.Context, url string) (string, error) {
			calls++
			if calls < 3 {
				return "", errors.New("temporary")
			}
			return "able\nabout\n", nil
		}
		var logged []string
		logf := func(format string, args ...any) { logged = append(logged, fmt.Sprintf(format, args...)) }

		got, err := sources.FetchWithRetry(context.Background(), "https://example.com/list.txt", fetch, logf, fastDelays)

		require.NoError(t, err)
		assert.Equal(t, "able\nabout\n", got)
		assert.Equal(t, 3, calls)
		require.Len(t, logged, 2)
		assert.Contains(t, logged[0], "attempt 2")
		assert.Contains(t, logged[1], "attempt 3")
	})

	t.Run("gives up after every delay is used", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(ctx context.Context, url string) (string, error) {
			calls++
			return "", fmt.Errorf("failure %d", calls)
		}

		_, err := sources.FetchWithRetry(context.Background(), "https://example.com", fetch, nil, fastDelays)

		require.EqualError(t, err, "failure 4")
		assert.Equal(t, 4, calls)
	})

	t.Run("stops when the context is cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		fetch := func(ctx context.Context, url string) (string, error) {
			calls++
			cancel()
			return "", errors.New("temporary")
		}

		_, err := sources.FetchWithRetry(ctx, "https://example.com", fetch, nil, []time.Duration{time.Hour})

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})

	t.Run("uses 1s 2s 4s by default", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, sources.DefaultRetryDelays())
	})
}
