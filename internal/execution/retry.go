package execution

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
)

type retryingEngine struct {
	Engine
	maxRetries      int
	initialInterval time.Duration
}

// RetryOption tunes WithRetry.
type RetryOption func(*retryingEngine)

// RetryInitialInterval sets the first backoff delay.
func RetryInitialInterval(d time.Duration) RetryOption {
	return func(r *retryingEngine) { r.initialInterval = d }
}

// WithRetry retries failed calls up to maxRetries times with exponential
// backoff. Client errors other than 408 and 429, missing credentials and
// context cancellation are not retried. maxRetries <= 0 returns engine as is.
func WithRetry(engine Engine, maxRetries int, opts ...RetryOption) Engine {
	if maxRetries <= 0 {
		return engine
	}
	r := &retryingEngine{
		Engine:          engine,
		maxRetries:      maxRetries,
		initialInterval: backoff.DefaultInitialInterval,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *retryingEngine) Execute(ctx context.Context, req *ExecutionRequest) (*ExecutionResponse, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialInterval

	attempt := 0
	return backoff.Retry(ctx, func() (*ExecutionResponse, error) {
		attempt++
		resp, err := r.Engine.Execute(ctx, req)
		if err != nil && !retryable(err) {
			return nil, backoff.Permanent(err)
		}
		return resp, err
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(r.maxRetries+1)),
		backoff.WithNotify(func(err error, next time.Duration) {
			slog.Debug("Retrying model call", "sample", req.SampleID, "prompt", req.PromptVersion, "attempt", attempt, "wait", next, "error", err)
		}),
	)
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrMissingAPIKey) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.Code == http.StatusTooManyRequests, statusErr.Code == http.StatusRequestTimeout:
			return true
		case statusErr.Code >= 400 && statusErr.Code < 500:
			return false
		}
	}
	return true
}
