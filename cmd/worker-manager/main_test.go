// cmd/worker-manager/main_test.go
package main

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRetryWithBackoff(t *testing.T) {
	log := zap.NewNop()

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := retryWithBackoff(func() error {
			calls++
			if calls < 3 {
				return errors.New("connection refused")
			}
			return nil
		}, 5, time.Millisecond, log, "dial")
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		calls := 0
		err := retryWithBackoff(func() error {
			calls++
			return errors.New("connection refused")
		}, 3, time.Millisecond, log, "dial")
		require.Error(t, err)
		assert.Equal(t, 3, calls)
		assert.Contains(t, err.Error(), "dial failed after 3 attempts")
	})

	t.Run("stops on permanent error", func(t *testing.T) {
		cause := errors.New("permission denied")
		calls := 0
		err := retryWithBackoff(func() error {
			calls++
			return permanent{cause}
		}, 5, time.Millisecond, log, "dial")
		require.Error(t, err)
		assert.Equal(t, 1, calls)
		assert.ErrorIs(t, err, cause)
	})
}
