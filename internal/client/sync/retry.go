package sync

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

// Thin aliases so engine.go reads without the library's full call chains.

func backoffFib(base time.Duration, maxTries uint64) retry.Backoff {
	return retry.WithMaxRetries(maxTries, retry.NewFibonacci(base))
}

func retryDo(ctx context.Context, b retry.Backoff, fn func(ctx context.Context) error) error {
	return retry.Do(ctx, b, fn)
}

func retryable(err error) error {
	return retry.RetryableError(err)
}
