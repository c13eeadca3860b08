package lingotray

import (
	"context"
	"testing"
	"time"

	"github.com/sony/gobreaker"
)

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	inner := providerFunc(func(ctx context.Context, req TranslateRequest) (EventStream, error) {
		return nil, &APIError{StatusCode: 503, Message: "down"}
	})

	p := NewBreakerProvider(inner, BreakerConfig{ConsecutiveFailures: 3, OpenTimeout: time.Minute})

	for i := 0; i < 3; i++ {
		if _, err := p.TranslateStream(context.Background(), TranslateRequest{Text: "hi"}); err == nil {
			t.Fatalf("call %d should fail", i)
		}
	}

	if p.State() != gobreaker.StateOpen {
		t.Fatalf("state = %v, want open", p.State())
	}

	// Refusals classify as Overloaded.
	_, err := p.TranslateStream(context.Background(), TranslateRequest{Text: "hi"})
	cerr := Classify(err)
	if cerr.Kind != KindOverloaded {
		t.Errorf("kind = %v, want overloaded", cerr.Kind)
	}
}

func TestBreakerIgnoresCallerMistakes(t *testing.T) {
	inner := providerFunc(func(ctx context.Context, req TranslateRequest) (EventStream, error) {
		return nil, &APIError{StatusCode: 401, Message: "bad key"}
	})

	p := NewBreakerProvider(inner, BreakerConfig{ConsecutiveFailures: 2, OpenTimeout: time.Minute})

	for i := 0; i < 5; i++ {
		p.TranslateStream(context.Background(), TranslateRequest{Text: "hi"})
	}

	if p.State() != gobreaker.StateClosed {
		t.Errorf("state = %v, non-retryable failures must not trip the breaker", p.State())
	}
}

func TestBreakerPassesSuccess(t *testing.T) {
	inner := providerFunc(func(ctx context.Context, req TranslateRequest) (EventStream, error) {
		return &scriptedStream{events: []StreamEvent{{Type: EventCompleted}}}, nil
	})

	p := NewBreakerProvider(inner, BreakerConfig{})
	stream, err := p.TranslateStream(context.Background(), TranslateRequest{Text: "hi"})
	if err != nil {
		t.Fatalf("TranslateStream: %v", err)
	}
	defer stream.Close()

	ev, err := stream.Recv()
	if err != nil || ev.Type != EventCompleted {
		t.Fatalf("Recv = %+v, %v", ev, err)
	}
}
