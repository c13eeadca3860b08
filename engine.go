package lingotray

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ZaguanLabs/lingotray/cache"
)

// DefaultRequestTimeout bounds one streaming translation call.
const DefaultRequestTimeout = 60 * time.Second

// Request is one translation trigger.
type Request struct {
	Text    string
	Model   string // empty = DefaultModel
	Surface string // empty = DefaultSurface
}

// Engine drives translations: it validates input, fences overlapping
// requests per surface, serves cache hits without touching the network, and
// streams provider output back to the caller as tagged events.
type Engine struct {
	provider StreamingProvider
	cache    cache.Store
	sessions *SessionCoordinator
	pricing  PricingTable
	history  *ErrorHistory
	logger   zerolog.Logger
	timeout  time.Duration
	sanitize bool
}

// EngineOption is a functional option for configuring the Engine.
type EngineOption func(*Engine)

// WithCache sets the translation cache. Without one, every request goes to
// the provider.
func WithCache(store cache.Store) EngineOption {
	return func(e *Engine) {
		e.cache = store
	}
}

// WithPricing overrides the per-model pricing table used for cost estimates.
func WithPricing(table PricingTable) EngineOption {
	return func(e *Engine) {
		e.pricing = table
	}
}

// WithLogger sets the engine's logger. The default discards everything.
func WithLogger(logger zerolog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithRequestTimeout bounds each streaming call. Zero disables the timeout.
func WithRequestTimeout(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.timeout = d
	}
}

// WithSanitization controls whether input is run through PrepareInput before
// the network call. Enabled by default.
func WithSanitization(enabled bool) EngineOption {
	return func(e *Engine) {
		e.sanitize = enabled
	}
}

// NewEngine creates an Engine for the given provider.
func NewEngine(provider StreamingProvider, opts ...EngineOption) *Engine {
	e := &Engine{
		provider: provider,
		sessions: NewSessionCoordinator(),
		pricing:  DefaultPricing(),
		history:  NewErrorHistory(DefaultHistoryLimit),
		logger:   zerolog.Nop(),
		timeout:  DefaultRequestTimeout,
		sanitize: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Translate starts one translation session and returns its ordered event
// stream. Every event is tagged with the session id. The channel is closed
// after the terminal event, or silently once the session is superseded by a
// newer Translate call on the same surface.
//
// Empty or whitespace-only text is rejected with ErrEmptyInput before a
// session is created; no network call or cache access happens.
func (e *Engine) Translate(ctx context.Context, req Request) (<-chan StreamEvent, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrEmptyInput
	}
	if req.Model == "" {
		req.Model = DefaultModel
	}

	sess := e.sessions.Begin(req.Surface)
	events := make(chan StreamEvent, 16)
	go e.run(ctx, sess, req, events)
	return events, nil
}

// run drives one session to completion. It keeps draining the provider even
// after the session is superseded so the final result can still populate the
// cache; superseded sessions just stop emitting.
func (e *Engine) run(ctx context.Context, sess Session, req Request, events chan<- StreamEvent) {
	defer close(events)
	defer e.sessions.End(sess.Surface, sess.ID)

	emit := func(ev StreamEvent) {
		if !e.sessions.IsCurrent(sess.Surface, sess.ID) {
			return
		}
		ev.Session = sess.ID
		select {
		case events <- ev:
		case <-ctx.Done():
		}
	}

	if e.cache != nil {
		if entry, ok := e.cache.Lookup(req.Text, req.Model); ok {
			e.logger.Debug().
				Str("session", string(sess.ID)).
				Str("model", req.Model).
				Msg("cache hit")
			emit(StreamEvent{Type: EventDelta, Text: entry.TranslatedText})
			emit(StreamEvent{Type: EventUsage, Usage: &UsageInfo{Cached: true}})
			emit(StreamEvent{Type: EventCompleted})
			return
		}
	}

	text := req.Text
	if e.sanitize {
		text = PrepareInput(text)
	}

	callCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	stream, err := e.provider.TranslateStream(callCtx, TranslateRequest{
		Text:  text,
		Model: req.Model,
	})
	if err != nil {
		cerr := Classify(err)
		e.history.Record(cerr, len(req.Text), req.Model)
		e.logger.Warn().
			Str("session", string(sess.ID)).
			Str("kind", string(cerr.Kind)).
			Err(err).
			Msg("translation request failed")
		emit(StreamEvent{Type: EventFailed, Err: cerr})
		return
	}
	defer stream.Close()

	var full strings.Builder
	terminal := false

	for !terminal {
		ev, err := stream.Recv()
		if err != nil {
			// io.EOF before a terminal event falls through to the
			// incomplete-stream path below; anything else is a transport
			// failure with its own classification.
			if !errors.Is(err, io.EOF) {
				terminal = true
				cerr := Classify(err)
				e.history.Record(cerr, len(req.Text), req.Model)
				e.logger.Warn().
					Str("session", string(sess.ID)).
					Str("kind", string(cerr.Kind)).
					Err(err).
					Msg("translation stream failed")
				emit(StreamEvent{Type: EventFailed, Err: cerr})
			}
			break
		}

		switch ev.Type {
		case EventDelta:
			full.WriteString(ev.Text)
			emit(ev)
		case EventUsage:
			if ev.Usage != nil {
				ev.Usage.EstimatedCost = e.pricing.Estimate(req.Model, ev.Usage.InputTokens, ev.Usage.OutputTokens)
			}
			emit(ev)
		case EventCompleted:
			terminal = true
			// Superseded sessions still write the cache: the work is
			// done, a later identical request can reuse it.
			if e.cache != nil {
				_ = e.cache.Insert(req.Text, req.Model, full.String())
			}
			emit(ev)
		case EventFailed:
			terminal = true
			e.history.Record(ev.Err, len(req.Text), req.Model)
			e.logger.Warn().
				Str("session", string(sess.ID)).
				Str("kind", string(ev.Err.Kind)).
				Msg("translation stream failed")
			emit(ev)
		}
	}

	if !terminal {
		cerr := Classify(ErrIncompleteStream)
		e.history.Record(cerr, len(req.Text), req.Model)
		emit(StreamEvent{Type: EventFailed, Err: cerr})
	}
}

// TranslateOnce is a non-streaming convenience: it runs a full translation
// and returns the concatenated text and usage. When req.Surface is empty it
// runs on a private surface so concurrent streaming sessions cannot
// supersede it.
func (e *Engine) TranslateOnce(ctx context.Context, req Request) (string, *UsageInfo, error) {
	if req.Surface == "" {
		req.Surface = "once:" + uuid.NewString()
	}

	events, err := e.Translate(ctx, req)
	if err != nil {
		return "", nil, err
	}

	var full strings.Builder
	var usage *UsageInfo
	completed := false
	for ev := range events {
		switch ev.Type {
		case EventDelta:
			full.WriteString(ev.Text)
		case EventUsage:
			usage = ev.Usage
		case EventCompleted:
			completed = true
		case EventFailed:
			return "", nil, ev.Err
		}
	}
	if !completed {
		return "", nil, Classify(ErrIncompleteStream)
	}
	return full.String(), usage, nil
}

// ClearCache empties the cache. No-op without one.
func (e *Engine) ClearCache() error {
	if e.cache == nil {
		return nil
	}
	return e.cache.Clear()
}

// SetCacheEnabled toggles the cache without discarding entries.
func (e *Engine) SetCacheEnabled(enabled bool) {
	if e.cache != nil {
		e.cache.SetEnabled(enabled)
	}
}

// CacheLen returns the number of cached entries.
func (e *Engine) CacheLen() int {
	if e.cache == nil {
		return 0
	}
	return e.cache.Len()
}

// CacheStats returns cache hit/miss counters.
func (e *Engine) CacheStats() cache.Stats {
	if e.cache == nil {
		return cache.Stats{}
	}
	return e.cache.Stats()
}

// History returns the engine's error history.
func (e *Engine) History() *ErrorHistory {
	return e.history
}
