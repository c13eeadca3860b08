package provider

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/ZaguanLabs/lingotray"
)

// MockStreamProvider is a scripted streaming provider for testing. Known
// inputs stream their translation in small chunks followed by usage and a
// completion marker; unknown inputs stream the source text wrapped in
// brackets.
type MockStreamProvider struct {
	mu           sync.Mutex
	Translations map[string]string  // source text to translation
	Err          error              // returned from TranslateStream when set
	StreamErr    *lingotray.ClassifiedError // emitted as Failed mid-stream when set
	ChunkSize    int                // runes per delta (default 4)
	CallCount    int
	LastRequest  *TranslateRequest
}

// NewMockStreamProvider creates a mock with default translations.
func NewMockStreamProvider() *MockStreamProvider {
	return &MockStreamProvider{
		Translations: map[string]string{
			"hello":        "こんにちは",
			"thank you":    "ありがとうございます",
			"good morning": "おはようございます",
			"こんにちは":        "hello",
		},
	}
}

// TranslateStream implements StreamingProvider with scripted events.
func (m *MockStreamProvider) TranslateStream(ctx context.Context, req TranslateRequest) (EventStream, error) {
	m.mu.Lock()
	m.CallCount++
	m.LastRequest = &req
	err := m.Err
	streamErr := m.StreamErr
	translation, ok := m.Translations[req.Text]
	chunkSize := m.ChunkSize
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if !ok {
		translation = "[" + req.Text + "]"
	}
	if chunkSize <= 0 {
		chunkSize = 4
	}

	events := chunkEvents(translation, chunkSize)
	if streamErr != nil {
		// Truncate mid-stream and fail.
		cut := len(events) / 2
		events = append(events[:cut], StreamEvent{
			Type: lingotray.EventFailed,
			Err:  streamErr,
		})
	} else {
		events = append(events,
			StreamEvent{Type: lingotray.EventUsage, Usage: &lingotray.UsageInfo{
				InputTokens:  len(req.Text),
				OutputTokens: len(translation),
			}},
			StreamEvent{Type: lingotray.EventCompleted},
		)
	}

	return &mockStream{events: events}, nil
}

// Reset clears the call count and last request.
func (m *MockStreamProvider) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallCount = 0
	m.LastRequest = nil
}

// Calls returns the number of TranslateStream invocations.
func (m *MockStreamProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CallCount
}

// chunkEvents splits text into delta events of at most size runes.
func chunkEvents(text string, size int) []StreamEvent {
	var events []StreamEvent
	runes := []rune(text)
	for len(runes) > 0 {
		n := size
		if n > len(runes) {
			n = len(runes)
		}
		events = append(events, StreamEvent{
			Type: lingotray.EventDelta,
			Text: string(runes[:n]),
		})
		runes = runes[n:]
	}
	if len(events) == 0 {
		events = append(events, StreamEvent{Type: lingotray.EventDelta, Text: strings.TrimSpace(text)})
	}
	return events
}

// mockStream replays a fixed event sequence.
type mockStream struct {
	events []StreamEvent
	pos    int
	closed bool
}

func (s *mockStream) Recv() (StreamEvent, error) {
	if s.pos >= len(s.events) {
		return StreamEvent{}, io.EOF
	}
	ev := s.events[s.pos]
	s.pos++
	return ev, nil
}

func (s *mockStream) Close() error {
	s.closed = true
	return nil
}

// Verify MockStreamProvider implements StreamingProvider
var _ StreamingProvider = (*MockStreamProvider)(nil)
