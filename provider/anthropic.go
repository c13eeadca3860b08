package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/ZaguanLabs/lingotray"
)

const (
	defaultAnthropicBaseURL = "https://api.anthropic.com"
	anthropicVersion        = "2023-06-01"

	defaultMaxTokens   = 4096
	defaultTemperature = 0.3
)

// AnthropicConfig holds configuration for the Anthropic provider.
type AnthropicConfig struct {
	APIKey       string        // required
	BaseURL      string        // default: https://api.anthropic.com
	SystemPrompt string        // default: DefaultSystemPrompt
	MaxTokens    int           // default: 4096
	Temperature  float64       // default: 0.3
	HTTPClient   *http.Client  // default: http.DefaultClient
	Timeout      time.Duration // per-request timeout when HTTPClient is nil
}

// AnthropicProvider streams translations from the Anthropic Messages API.
type AnthropicProvider struct {
	apiKey       string
	baseURL      string
	systemPrompt string
	maxTokens    int
	temperature  float64
	client       *http.Client
}

// NewAnthropicProvider creates an Anthropic provider. The API key is checked
// lazily on the first call so construction never fails.
func NewAnthropicProvider(cfg AnthropicConfig) *AnthropicProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultAnthropicBaseURL
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
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &AnthropicProvider{
		apiKey:       cfg.APIKey,
		baseURL:      baseURL,
		systemPrompt: systemPrompt,
		maxTokens:    maxTokens,
		temperature:  temperature,
		client:       client,
	}
}

// anthropicMessage is one turn in the Messages API conversation.
type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// anthropicRequest is the Messages API request body.
type anthropicRequest struct {
	Model       string             `json:"model"`
	Messages    []anthropicMessage `json:"messages"`
	MaxTokens   int                `json:"max_tokens"`
	Stream      bool               `json:"stream"`
	System      string             `json:"system"`
	Temperature float64            `json:"temperature"`
}

// anthropicErrorBody is the JSON shape of a non-2xx response.
type anthropicErrorBody struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// TranslateStream implements StreamingProvider against the Anthropic
// Messages API with stream=true.
func (p *AnthropicProvider) TranslateStream(ctx context.Context, req TranslateRequest) (EventStream, error) {
	if p.apiKey == "" {
		return nil, lingotray.ErrCredentialMissing
	}

	model := req.Model
	if model == "" {
		model = lingotray.DefaultModel
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

	body, err := json.Marshal(anthropicRequest{
		Model:       model,
		Messages:    []anthropicMessage{{Role: "user", Content: req.Text}},
		MaxTokens:   maxTokens,
		Stream:      true,
		System:      system,
		Temperature: temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("x-api-key", p.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("User-Agent", lingotray.UserAgent())

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, apiErrorFromResponse(resp)
	}

	return &anthropicStream{
		decoder: lingotray.NewStreamDecoder(resp.Body),
		body:    resp.Body,
	}, nil
}

// apiErrorFromResponse reads a non-2xx response into an APIError, pulling the
// message out of the error JSON when present and honoring Retry-After.
func apiErrorFromResponse(resp *http.Response) *lingotray.APIError {
	apiErr := &lingotray.APIError{
		StatusCode: resp.StatusCode,
		Message:    resp.Status,
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err == nil && len(data) > 0 {
		var body anthropicErrorBody
		if json.Unmarshal(data, &body) == nil && body.Error.Message != "" {
			apiErr.Message = body.Error.Message
		} else {
			apiErr.Message = string(data)
		}
	}

	if ra := resp.Header.Get("Retry-After"); ra != "" {
		if secs, err := strconv.Atoi(ra); err == nil && secs > 0 {
			apiErr.RetryAfter = time.Duration(secs) * time.Second
		}
	}

	return apiErr
}

// anthropicStream adapts the response body SSE stream to EventStream.
type anthropicStream struct {
	decoder *lingotray.StreamDecoder
	body    io.ReadCloser
}

func (s *anthropicStream) Recv() (StreamEvent, error) {
	return s.decoder.Recv()
}

func (s *anthropicStream) Close() error {
	return s.body.Close()
}

// Verify AnthropicProvider implements StreamingProvider
var _ StreamingProvider = (*AnthropicProvider)(nil)
