package streamnorm

import (
	"errors"
	"fmt"

	"github.com/streamnorm/streamnorm/internal/utils"
)

// ErrClosed is returned by reads on a Stream whose consumer called Close
// before a terminal state was reached. Use [errors.Is] to detect it.
var ErrClosed = errors.New("streamnorm: stream closed by consumer")

// FramingError reports that the response body was exhausted while carry-over
// bytes never completed a decodable logical event. It is fatal and moves the
// stream to StreamStateError.
type FramingError struct {
	Residual []byte // the undecodable carry-over bytes
	Err      error  // the parse failure for the residual, if any
}

func (e *FramingError) Error() string {
	return fmt.Sprintf("streamnorm: body ended with undecodable carry-over %q: %v",
		utils.TruncateStringDefault(string(e.Residual)), e.Err)
}

func (e *FramingError) Unwrap() error { return e.Err }

// ParseError reports a well-framed logical event whose payload could not be
// interpreted by the selected provider parser. It is fatal; the stream does
// not retry or skip the event.
type ParseError struct {
	Payload []byte // the offending event payload
	Err     error  // the underlying decode failure
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("streamnorm: cannot parse event %q: %v",
		utils.TruncateStringDefault(string(e.Payload)), e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ProviderError reports an explicit error event emitted by the backend itself
// (for example Anthropic's "error" SSE event or an OpenAI "error" object).
// The provider's payload is preserved so callers can inspect it.
type ProviderError struct {
	Provider string // backend name, e.g. "openai"
	Code     string // provider-specific error type/code, if present
	Message  string // provider-supplied description
	Payload  []byte // the raw event payload as received
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("streamnorm: %s reported %s: %s", e.Provider, e.Code, e.Message)
	}
	return fmt.Sprintf("streamnorm: %s reported error: %s", e.Provider, e.Message)
}

// CallbackError reports that a user-supplied lifecycle callback returned a
// non-nil error. The stream terminates rather than continuing in a possibly
// inconsistent state; fragments computed before the failure remain valid and
// are still delivered downstream.
type CallbackError struct {
	Hook string // which hook failed: "onStart", "onToken", "onCompletion", "onFinal"
	Err  error
}

func (e *CallbackError) Error() string {
	return fmt.Sprintf("streamnorm: %s callback failed: %v", e.Hook, e.Err)
}

func (e *CallbackError) Unwrap() error { return e.Err }
