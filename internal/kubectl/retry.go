package kubectl

import (
	"context"
	"errors"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
)

// ErrAttemptsExhausted is returned by Retry when every attempt failed.
var ErrAttemptsExhausted = errors.New("attempts exhausted")

// Retry calls try until it reports success or n attempts were made, sleeping
// backoff.Step() between attempts. Once the delay reaches backoff.Cap it stays
// there; the cap never shortens the attempt budget. Retry returns the number
// of attempts made.
func Retry(ctx context.Context, backoff wait.Backoff, n int, try func(attempt int) bool) (int, error) {
	n = attempts(n)
	backoff.Steps = n

	for attempt := 1; ; attempt++ {
		if try(attempt) {
			return attempt, nil
		}
		if attempt >= n {
			return attempt, ErrAttemptsExhausted
		}

		timer := time.NewTimer(backoff.Step())
		select {
		case <-ctx.Done():
			timer.Stop()
			return attempt, ctx.Err()
		case <-timer.C:
		}
	}
}
