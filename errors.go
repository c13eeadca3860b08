package lingotray

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
)

// ErrorKind identifies one member of the closed failure taxonomy. Every raw
// failure from the network/API boundary maps to exactly one kind.
type ErrorKind string

const (
	// KindCredentialMissing means no API credential is configured.
	KindCredentialMissing ErrorKind = "credential_missing"
	// KindAuthenticationFailed means the upstream rejected the credential.
	KindAuthenticationFailed ErrorKind = "authentication_failed"
	// KindRateLimited means the upstream quota was exceeded.
	KindRateLimited ErrorKind = "rate_limited"
	// KindOverloaded means the upstream has no capacity right now.
	KindOverloaded ErrorKind = "overloaded"
	// KindTimeout means the request exceeded its deadline.
	KindTimeout ErrorKind = "timeout"
	// KindNetworkError means the transport/connection failed.
	KindNetworkError ErrorKind = "network_error"
	// KindAPIError means the upstream returned some other non-2xx response.
	KindAPIError ErrorKind = "api_error"
	// KindParseError means the response body was malformed.
	KindParseError ErrorKind = "parse_error"
	// KindIncompleteResponse means the stream closed without a terminal marker.
	KindIncompleteResponse ErrorKind = "incomplete_response"
	// KindUnknown is the catch-all for unrecognized failures.
	KindUnknown ErrorKind = "unknown"
)

// ClassifiedError is a raw failure mapped into the taxonomy, with retry
// metadata for the caller. The engine never retries on its own.
type ClassifiedError struct {
	Kind       ErrorKind
	Message    string
	Retryable  bool
	RetryAfter time.Duration // suggested wait before retrying; 0 = immediately
	Cause      error
}

func (e *ClassifiedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ClassifiedError) Unwrap() error {
	return e.Cause
}

// UserMessage returns a message safe to show to an end user.
func (e *ClassifiedError) UserMessage() string {
	switch e.Kind {
	case KindCredentialMissing:
		return "API key not configured. Please add your API key in Settings."
	case KindAuthenticationFailed:
		return "Invalid API key. Please check your API key in Settings."
	case KindRateLimited:
		if e.RetryAfter > 0 {
			return fmt.Sprintf("Rate limit exceeded. Please wait %d seconds.", int(e.RetryAfter.Seconds()))
		}
		return "Rate limit exceeded. Please wait a moment and try again."
	case KindOverloaded:
		return "The translation service is currently overloaded. Please try again in a moment."
	case KindTimeout:
		return "Request timed out. Please try again."
	case KindNetworkError:
		return "Network error. Please check your internet connection."
	case KindAPIError:
		return fmt.Sprintf("API error: %s", e.Message)
	case KindParseError:
		return "Failed to parse the API response. Please try again."
	case KindIncompleteResponse:
		return "The response ended unexpectedly. Please try again."
	default:
		return fmt.Sprintf("An error occurred: %s", e.Message)
	}
}

// APIError is the raw shape of a non-2xx upstream response, produced by the
// provider layer before classification.
type APIError struct {
	StatusCode int
	Message    string
	RetryAfter time.Duration // from a Retry-After header, 0 if absent
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// ErrCredentialMissing is returned by providers when no API key is configured.
var ErrCredentialMissing = errors.New("no API credential configured")

// ErrEmptyInput is returned by the engine when the input text is empty or
// whitespace-only. No session is created and no network call is made.
var ErrEmptyInput = errors.New("input text is empty")

// malformedFrameError is produced by the stream decoder for frames it cannot
// parse.
type malformedFrameError struct {
	frame string
	cause error
}

func (e *malformedFrameError) Error() string {
	return fmt.Sprintf("malformed stream frame %q: %v", e.frame, e.cause)
}

func (e *malformedFrameError) Unwrap() error { return e.cause }

// ErrIncompleteStream is produced by the stream decoder (and providers with
// their own transports) when the connection closes before the upstream's
// terminal marker arrives.
var ErrIncompleteStream = errors.New("stream closed without completion marker")

// Default retry delays per kind when the upstream provides no hint.
const (
	defaultRateLimitDelay = 5 * time.Second
	defaultOverloadDelay  = 3 * time.Second
	defaultTimeoutDelay   = 1 * time.Second
	defaultNetworkDelay   = 2 * time.Second
)

// Classify maps a raw failure to exactly one taxonomy member. It is total:
// any non-nil error yields a ClassifiedError, unrecognized ones as
// KindUnknown. A nil error yields nil.
func Classify(err error) *ClassifiedError {
	if err == nil {
		return nil
	}

	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified
	}

	if errors.Is(err, ErrCredentialMissing) {
		return &ClassifiedError{
			Kind:    KindCredentialMissing,
			Message: "no API credential configured",
			Cause:   err,
		}
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return classifyAPIError(apiErr)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &ClassifiedError{
			Kind:       KindTimeout,
			Message:    "request exceeded deadline",
			Retryable:  true,
			RetryAfter: defaultTimeoutDelay,
			Cause:      err,
		}
	}

	// Circuit breaker refusals behave like an overloaded upstream: the
	// caller should back off and retry later.
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &ClassifiedError{
			Kind:       KindOverloaded,
			Message:    "circuit breaker open",
			Retryable:  true,
			RetryAfter: defaultOverloadDelay,
			Cause:      err,
		}
	}

	var malformed *malformedFrameError
	if errors.As(err, &malformed) {
		return &ClassifiedError{
			Kind:      KindParseError,
			Message:   "malformed response body",
			Retryable: true,
			Cause:     err,
		}
	}

	if errors.Is(err, ErrIncompleteStream) {
		return &ClassifiedError{
			Kind:      KindIncompleteResponse,
			Message:   "stream closed without terminal marker",
			Retryable: true,
			Cause:     err,
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &ClassifiedError{
			Kind:       KindTimeout,
			Message:    "request timed out",
			Retryable:  true,
			RetryAfter: defaultTimeoutDelay,
			Cause:      err,
		}
	}

	var opErr *net.OpError
	var urlErr *url.Error
	if errors.As(err, &opErr) || errors.As(err, &urlErr) {
		return &ClassifiedError{
			Kind:       KindNetworkError,
			Message:    "transport failure",
			Retryable:  true,
			RetryAfter: defaultNetworkDelay,
			Cause:      err,
		}
	}

	return &ClassifiedError{
		Kind:    KindUnknown,
		Message: err.Error(),
		Cause:   err,
	}
}

// classifyAPIError maps an upstream HTTP status to a taxonomy member.
func classifyAPIError(apiErr *APIError) *ClassifiedError {
	switch {
	case apiErr.StatusCode == 401 || apiErr.StatusCode == 403:
		return &ClassifiedError{
			Kind:    KindAuthenticationFailed,
			Message: apiErr.Message,
			Cause:   apiErr,
		}
	case apiErr.StatusCode == 429:
		delay := apiErr.RetryAfter
		if delay <= 0 {
			delay = defaultRateLimitDelay
		}
		return &ClassifiedError{
			Kind:       KindRateLimited,
			Message:    apiErr.Message,
			Retryable:  true,
			RetryAfter: delay,
			Cause:      apiErr,
		}
	case apiErr.StatusCode == 529 || apiErr.StatusCode == 503:
		return &ClassifiedError{
			Kind:       KindOverloaded,
			Message:    apiErr.Message,
			Retryable:  true,
			RetryAfter: defaultOverloadDelay,
			Cause:      apiErr,
		}
	default:
		// 5xx responses are transient; other 4xx are caller mistakes.
		return &ClassifiedError{
			Kind:      KindAPIError,
			Message:   apiErr.Message,
			Retryable: apiErr.StatusCode >= 500,
			Cause:     apiErr,
		}
	}
}

// IsRetryable reports whether a failure is worth retrying, after
// classification.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	return Classify(err).Retryable
}
