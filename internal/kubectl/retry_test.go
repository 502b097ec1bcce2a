package kubectl

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/util/wait"
)

func TestRetryCapDoesNotShortenBudget(t *testing.T) {
	backoff := wait.Backoff{Duration: time.Millisecond, Factor: 2, Cap: time.Millisecond}

	var tries []int
	made, err := Retry(context.Background(), backoff, DefaultAttempts, func(attempt int) bool {
		tries = append(tries, attempt)
		return false
	})

	assert.ErrorIs(t, err, ErrAttemptsExhausted)
	assert.Equal(t, DefaultAttempts, made)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, tries)
}

func TestRetryStopsOnSuccess(t *testing.T) {
	made, err := Retry(context.Background(), wait.Backoff{Duration: time.Millisecond}, 5, func(attempt int) bool {
		return attempt == 2
	})

	require.NoError(t, err)
	assert.Equal(t, 2, made)
}

func TestRetrySingleAttemptForNonPositiveBudget(t *testing.T) {
	calls := 0
	made, err := Retry(context.Background(), wait.Backoff{Duration: time.Hour}, 0, func(int) bool {
		calls++
		return false
	})

	assert.ErrorIs(t, err, ErrAttemptsExhausted)
	assert.Equal(t, 1, made)
	assert.Equal(t, 1, calls)
}

func TestRetryStopsWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	made, err := Retry(ctx, wait.Backoff{Duration: time.Hour}, 5, func(int) bool {
		cancel()
		return false
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, made)
}
