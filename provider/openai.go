package provider

import (
	"context"
	"errors"
	"io"

	"github.com/sashabaranov/go-openai"

	"github.com/ZaguanLabs/lingotray"
)

// defaultOpenAIModel is used when the request names no model.
const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIConfig holds configuration for the OpenAI provider.
type OpenAIConfig struct {
	APIKey       string // required
	BaseURL      string // custom base URL (optional)
	SystemPrompt string // default: DefaultSystemPrompt
	MaxTokens    int    // default: 4096
	Temperature  float64
}

// OpenAIProvider streams translations from the OpenAI chat completions API.
type OpenAIProvider struct {
	client       *openai.Client
	apiKey       string
	systemPrompt string
	maxTokens    int
	temperature  float64
}

// NewOpenAIProvider creates an OpenAI provider. The API key is checked lazily
// on the first call so construction never fails.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	systemPrompt := cfg.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = defaultTemperature
	}

	return &OpenAIProvider{
		client:       openai.NewClientWithConfig(config),
		apiKey:       cfg.APIKey,
		systemPrompt: systemPrompt,
		maxTokens:    maxTokens,
		temperature:  temperature,
	}
}

// TranslateStream implements StreamingProvider using the chat completions
// streaming endpoint with usage reporting enabled.
func (p *OpenAIProvider) TranslateStream(ctx context.Context, req TranslateRequest) (EventStream, error) {
	if p.apiKey == "" {
		return nil, lingotray.ErrCredentialMissing
	}

	model := req.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	system := req.SystemPrompt
	if system == "" {
		system = p.systemPrompt
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = p.maxTokens
	}
	temperature := float64(req.Temperature)
	if temperature == 0 {
		temperature = p.temperature
	}

	stream, err := p.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: req.Text},
		},
		MaxTokens:   maxTokens,
		Temperature: float32(temperature),
		Stream:      true,
		StreamOptions: &openai.StreamOptions{
			IncludeUsage: true,
		},
	})
	if err != nil {
		return nil, translateOpenAIError(err)
	}

	return &openaiStream{stream: stream}, nil
}

// translateOpenAIError maps client library errors to the shapes the
// classifier understands.
func translateOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &lingotray.APIError{
			StatusCode: apiErr.HTTPStatusCode,
			Message:    apiErr.Message,
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		msg := reqErr.Error()
		if reqErr.Err != nil {
			msg = reqErr.Err.Error()
		}
		return &lingotray.APIError{
			StatusCode: reqErr.HTTPStatusCode,
			Message:    msg,
		}
	}
	return err
}

// openaiStream adapts go-openai's chunk stream to EventStream. It tracks the
// finish reason so an early-closed connection is reported as incomplete, and
// queues Usage before Completed so the event order matches the other
// providers.
type openaiStream struct {
	stream   *openai.ChatCompletionStream
	usage    *lingotray.UsageInfo
	pending  []StreamEvent
	finished bool
	done     bool
}

func (s *openaiStream) Recv() (StreamEvent, error) {
	if len(s.pending) > 0 {
		ev := s.pending[0]
		s.pending = s.pending[1:]
		return ev, nil
	}
	if s.done {
		return StreamEvent{}, io.EOF
	}

	for {
		resp, err := s.stream.Recv()
		if errors.Is(err, io.EOF) {
			s.done = true
			if !s.finished {
				return StreamEvent{
					Type: lingotray.EventFailed,
					Err:  lingotray.Classify(lingotray.ErrIncompleteStream),
				}, nil
			}
			if s.usage != nil {
				s.pending = append(s.pending, StreamEvent{Type: lingotray.EventCompleted})
				return StreamEvent{Type: lingotray.EventUsage, Usage: s.usage}, nil
			}
			return StreamEvent{Type: lingotray.EventCompleted}, nil
		}
		if err != nil {
			s.done = true
			return StreamEvent{
				Type: lingotray.EventFailed,
				Err:  lingotray.Classify(translateOpenAIError(err)),
			}, nil
		}

		if resp.Usage != nil {
			s.usage = &lingotray.UsageInfo{
				InputTokens:  resp.Usage.PromptTokens,
				OutputTokens: resp.Usage.CompletionTokens,
			}
		}
		if len(resp.Choices) == 0 {
			continue
		}
		choice := resp.Choices[0]
		if choice.FinishReason != "" && choice.FinishReason != openai.FinishReasonNull {
			s.finished = true
		}
		if choice.Delta.Content != "" {
			return StreamEvent{Type: lingotray.EventDelta, Text: choice.Delta.Content}, nil
		}
	}
}

func (s *openaiStream) Close() error {
	if s.stream == nil {
		return nil
	}
	return s.stream.Close()
}

// Verify OpenAIProvider implements StreamingProvider
var _ StreamingProvider = (*OpenAIProvider)(nil)
