package lingotray

import (
	"context"
	"time"
)

// RetryConfig holds configuration for retry behavior.
type RetryConfig struct {
	MaxRetries int           // Maximum number of retry attempts
	BaseDelay  time.Duration // Initial delay between retries
	MaxDelay   time.Duration // Maximum delay between retries
}

// DefaultRetryConfig returns sensible defaults for retry behavior.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
	}
}

// RetryFunc is a function that can be retried.
type RetryFunc[T any] func() (T, error)

// WithRetry executes fn with backoff. Retryability and waits come from the
// error classification: a non-retryable kind aborts immediately, an
// upstream retry-after hint overrides the exponential delay.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn RetryFunc[T]) (T, error) {
	var lastErr error
	var zero T

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		classified := Classify(err)
		if !classified.Retryable {
			return zero, err
		}

		if attempt < cfg.MaxRetries {
			delay := cfg.BaseDelay * time.Duration(1<<attempt)
			if classified.RetryAfter > delay {
				delay = classified.RetryAfter
			}
			if delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}

			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return zero, lastErr
}

// RetryingProvider wraps a StreamingProvider with retry logic for the
// initial call. Failures inside an already-open stream are not retried;
// those reach the caller as classified Failed events, and retrying them is
// the caller's decision. The engine itself never retries — wrapping the
// provider is an explicit opt-in.
type RetryingProvider struct {
	provider StreamingProvider
	config   RetryConfig
}

// NewRetryingProvider creates a provider that retries failed connection
// attempts.
func NewRetryingProvider(provider StreamingProvider, cfg RetryConfig) *RetryingProvider {
	return &RetryingProvider{provider: provider, config: cfg}
}

// TranslateStream implements StreamingProvider with retry logic.
func (p *RetryingProvider) TranslateStream(ctx context.Context, req TranslateRequest) (EventStream, error) {
	return WithRetry(ctx, p.config, func() (EventStream, error) {
		return p.provider.TranslateStream(ctx, req)
	})
}

// Verify RetryingProvider implements StreamingProvider
var _ StreamingProvider = (*RetryingProvider)(nil)
