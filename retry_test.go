package lingotray

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWithRetrySucceedsAfterTransientFailures(t *testing.T) {
	cfg := RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: 10 * time.Millisecond}

	attempts := 0
	result, err := WithRetry(context.Background(), cfg, func() (string, error) {
		attempts++
		if attempts < 3 {
			return "", &APIError{StatusCode: 503, Message: "busy"}
		}
		return "ok", nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "ok" {
		t.Errorf("result = %q", result)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d", attempts)
	}
}

func TestWithRetryNonRetryableAborts(t *testing.T) {
	cfg := RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: 10 * time.Millisecond}

	attempts := 0
	_, err := WithRetry(context.Background(), cfg, func() (string, error) {
		attempts++
		return "", &APIError{StatusCode: 401, Message: "bad key"}
	})

	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, non-retryable failures must not retry", attempts)
	}
}

func TestWithRetryExhaustsAttempts(t *testing.T) {
	cfg := RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}

	attempts := 0
	_, err := WithRetry(context.Background(), cfg, func() (int, error) {
		attempts++
		return 0, &APIError{StatusCode: 500, Message: "boom"}
	})

	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3 (1 initial + 2 retries)", attempts)
	}
}

func TestWithRetryContextCancelled(t *testing.T) {
	cfg := RetryConfig{MaxRetries: 5, BaseDelay: time.Hour, MaxDelay: time.Hour}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := WithRetry(ctx, cfg, func() (int, error) {
		return 0, &APIError{StatusCode: 503}
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRetryingProviderRetriesConnection(t *testing.T) {
	attempts := 0
	inner := providerFunc(func(ctx context.Context, req TranslateRequest) (EventStream, error) {
		attempts++
		if attempts < 2 {
			return nil, &APIError{StatusCode: 529, Message: "overloaded"}
		}
		return &scriptedStream{events: []StreamEvent{{Type: EventCompleted}}}, nil
	})

	p := NewRetryingProvider(inner, RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond})
	stream, err := p.TranslateStream(context.Background(), TranslateRequest{Text: "hi"})
	if err != nil {
		t.Fatalf("TranslateStream: %v", err)
	}
	stream.Close()

	if attempts != 2 {
		t.Errorf("attempts = %d", attempts)
	}
}

// providerFunc adapts a function to StreamingProvider.
type providerFunc func(ctx context.Context, req TranslateRequest) (EventStream, error)

func (f providerFunc) TranslateStream(ctx context.Context, req TranslateRequest) (EventStream, error) {
	return f(ctx, req)
}
