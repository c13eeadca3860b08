package lingotray

import "context"

// EventType discriminates the members of the StreamEvent union.
type EventType string

const (
	// EventDelta carries an incremental fragment of translated text.
	EventDelta EventType = "delta"
	// EventUsage carries token counts and estimated cost. Emitted at most
	// once per session, immediately before EventCompleted.
	EventUsage EventType = "usage"
	// EventCompleted marks a successful end of the stream.
	EventCompleted EventType = "completed"
	// EventFailed marks an unsuccessful end of the stream.
	EventFailed EventType = "failed"
)

// StreamEvent is one element of the ordered event sequence produced for a
// translation session. Completed or Failed is always the terminal event; no
// Delta follows either.
type StreamEvent struct {
	Type    EventType
	Session SessionID // set by the engine; empty on provider-level events
	Text    string    // delta text, only for EventDelta
	Usage   *UsageInfo
	Err     *ClassifiedError
}

// UsageInfo reports the token consumption of a finished translation.
type UsageInfo struct {
	InputTokens   int
	OutputTokens  int
	EstimatedCost float64 // USD, computed from the per-model pricing table
	Cached        bool    // true when the result was served from cache at zero cost
}

// TranslateRequest contains the parameters a provider needs for one
// streaming translation call.
type TranslateRequest struct {
	Text         string
	Model        string
	SystemPrompt string // optional override; providers fall back to their default prompt
	MaxTokens    int
	Temperature  float32
}

// EventStream is a lazy, finite, single-pass sequence of StreamEvents.
// Recv returns io.EOF after the terminal event has been delivered.
type EventStream interface {
	Recv() (StreamEvent, error)
	Close() error
}

// StreamingProvider is the interface for AI translation backends that stream
// their output incrementally.
type StreamingProvider interface {
	TranslateStream(ctx context.Context, req TranslateRequest) (EventStream, error)
}
