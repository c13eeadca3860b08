package lingotray

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiterBurst(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{RequestsPerMinute: 60, BurstSize: 3})

	for i := 0; i < 3; i++ {
		if !limiter.TryAcquire() {
			t.Fatalf("acquire %d should succeed within burst", i)
		}
	}
	if limiter.TryAcquire() {
		t.Error("acquire beyond burst should fail")
	}
}

func TestRateLimiterRefill(t *testing.T) {
	// 600 rpm = 10 tokens/second.
	limiter := NewRateLimiter(RateLimitConfig{RequestsPerMinute: 600, BurstSize: 1})

	if !limiter.TryAcquire() {
		t.Fatal("first acquire should succeed")
	}
	if limiter.TryAcquire() {
		t.Fatal("bucket should be empty")
	}

	time.Sleep(150 * time.Millisecond)
	if !limiter.TryAcquire() {
		t.Error("token should have refilled")
	}
}

func TestRateLimiterWaitCancelled(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{RequestsPerMinute: 1, BurstSize: 1})
	limiter.TryAcquire() // drain

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx); err == nil {
		t.Error("Wait should fail when the context expires")
	}
}

func TestRateLimitedProvider(t *testing.T) {
	calls := 0
	inner := providerFunc(func(ctx context.Context, req TranslateRequest) (EventStream, error) {
		calls++
		return &scriptedStream{events: []StreamEvent{{Type: EventCompleted}}}, nil
	})

	p := NewRateLimitedProvider(inner, RateLimitConfig{RequestsPerMinute: 600, BurstSize: 2})

	for i := 0; i < 2; i++ {
		stream, err := p.TranslateStream(context.Background(), TranslateRequest{Text: "hi"})
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		stream.Close()
	}
	if calls != 2 {
		t.Errorf("calls = %d", calls)
	}
	if p.Limiter().Available() >= 1 {
		t.Errorf("bucket should be nearly drained, available = %v", p.Limiter().Available())
	}
}
