package lingotray

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerConfig configures the circuit-breaker provider wrapper.
type BreakerConfig struct {
	// ConsecutiveFailures before the breaker opens (default 5).
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open before probing again
	// (default 30s).
	OpenTimeout time.Duration
}

// BreakerProvider wraps a StreamingProvider with a circuit breaker so a
// persistently failing upstream is refused locally instead of hammered.
// Refusals classify as Overloaded.
type BreakerProvider struct {
	provider StreamingProvider
	cb       *gobreaker.CircuitBreaker
}

// NewBreakerProvider creates a circuit-broken provider.
func NewBreakerProvider(provider StreamingProvider, cfg BreakerConfig) *BreakerProvider {
	failures := cfg.ConsecutiveFailures
	if failures == 0 {
		failures = 5
	}
	timeout := cfg.OpenTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "translate",
		Timeout: timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			// Caller mistakes (bad key, empty input) must not trip the
			// breaker; only transient upstream failures count.
			return err == nil || !IsRetryable(err)
		},
	})

	return &BreakerProvider{provider: provider, cb: cb}
}

// TranslateStream implements StreamingProvider behind the breaker.
func (p *BreakerProvider) TranslateStream(ctx context.Context, req TranslateRequest) (EventStream, error) {
	result, err := p.cb.Execute(func() (interface{}, error) {
		return p.provider.TranslateStream(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return result.(EventStream), nil
}

// State returns the breaker's current state for inspection.
func (p *BreakerProvider) State() gobreaker.State {
	return p.cb.State()
}

// Verify BreakerProvider implements StreamingProvider
var _ StreamingProvider = (*BreakerProvider)(nil)
