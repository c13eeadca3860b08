package lingotray

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
)

// wireEvent is the JSON payload of one upstream SSE data frame.
type wireEvent struct {
	Type  string `json:"type"`
	Index *int   `json:"index,omitempty"`
	Delta *struct {
		Type string `json:"type,omitempty"`
		Text string `json:"text,omitempty"`
	} `json:"delta,omitempty"`
	Usage   *wireUsage `json:"usage,omitempty"`
	Message *struct {
		Usage *wireUsage `json:"usage,omitempty"`
	} `json:"message,omitempty"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type wireUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// StreamDecoder parses an incremental SSE byte stream into an ordered
// sequence of StreamEvents. It buffers partial frames across reads, skips
// keep-alive and non-data frames, and guarantees that Completed or Failed is
// the terminal event. A stream that ends without the upstream's explicit
// completion marker yields Failed(IncompleteResponse), never Completed.
type StreamDecoder struct {
	scanner *bufio.Scanner
	pending []StreamEvent
	usage   *UsageInfo
	done    bool
}

// NewStreamDecoder creates a decoder reading raw SSE bytes from r.
func NewStreamDecoder(r io.Reader) *StreamDecoder {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &StreamDecoder{scanner: scanner}
}

// Recv returns the next decoded event. After the terminal event has been
// delivered it returns io.EOF.
func (d *StreamDecoder) Recv() (StreamEvent, error) {
	if len(d.pending) > 0 {
		ev := d.pending[0]
		d.pending = d.pending[1:]
		return ev, nil
	}
	if d.done {
		return StreamEvent{}, io.EOF
	}

	for d.scanner.Scan() {
		line := strings.TrimSpace(d.scanner.Text())

		// Blank lines separate SSE events; "event:" lines duplicate the
		// type discriminator inside the data payload; ":" lines are
		// comments used as keep-alives.
		if line == "" || strings.HasPrefix(line, "event:") || strings.HasPrefix(line, ":") {
			continue
		}
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" {
			continue
		}

		var ev wireEvent
		if err := json.Unmarshal([]byte(data), &ev); err != nil {
			return d.terminate(&malformedFrameError{frame: data, cause: err}), nil
		}

		switch ev.Type {
		case "content_block_delta":
			// Only the first content block carries the translation.
			if ev.Index != nil && *ev.Index != 0 {
				continue
			}
			if ev.Delta != nil && ev.Delta.Text != "" {
				return StreamEvent{Type: EventDelta, Text: ev.Delta.Text}, nil
			}
		case "message_start":
			if ev.Message != nil && ev.Message.Usage != nil {
				d.mergeUsage(ev.Message.Usage)
			}
		case "message_delta":
			if ev.Usage != nil {
				d.mergeUsage(ev.Usage)
			}
		case "message_stop":
			d.done = true
			if d.usage != nil {
				d.pending = append(d.pending, StreamEvent{Type: EventCompleted})
				return StreamEvent{Type: EventUsage, Usage: d.usage}, nil
			}
			return StreamEvent{Type: EventCompleted}, nil
		case "error":
			msg := "upstream error"
			status := 500
			if ev.Error != nil {
				msg = ev.Error.Message
				status = errorTypeStatus(ev.Error.Type)
			}
			return d.terminate(&APIError{StatusCode: status, Message: msg}), nil
		default:
			// ping, content_block_start, content_block_stop, and any
			// frame types added upstream later.
		}
	}

	d.done = true
	if err := d.scanner.Err(); err != nil {
		return StreamEvent{Type: EventFailed, Err: Classify(err)}, nil
	}
	return StreamEvent{Type: EventFailed, Err: Classify(ErrIncompleteStream)}, nil
}

// mergeUsage folds partial usage reports into one. message_start carries
// input tokens, message_delta carries the final output count.
func (d *StreamDecoder) mergeUsage(u *wireUsage) {
	if d.usage == nil {
		d.usage = &UsageInfo{}
	}
	if u.InputTokens > 0 {
		d.usage.InputTokens = u.InputTokens
	}
	if u.OutputTokens > 0 {
		d.usage.OutputTokens = u.OutputTokens
	}
}

// terminate marks the decoder done and builds the Failed event for err.
func (d *StreamDecoder) terminate(err error) StreamEvent {
	d.done = true
	return StreamEvent{Type: EventFailed, Err: Classify(err)}
}

// errorTypeStatus maps upstream error discriminators to HTTP status codes so
// in-stream errors classify the same way as non-2xx responses.
func errorTypeStatus(errorType string) int {
	switch errorType {
	case "authentication_error":
		return 401
	case "permission_error":
		return 403
	case "rate_limit_error":
		return 429
	case "overloaded_error":
		return 529
	case "invalid_request_error":
		return 400
	default:
		return 500
	}
}
