// Package anthropic parses Anthropic Messages API streaming responses.
//
// Anthropic streams SSE events discriminated by a JSON "type" field:
//
//	message_start → content_block_start → content_block_delta(s) →
//	content_block_stop → message_delta → message_stop
//
// Only text_delta content is user-visible; everything else is lifecycle
// metadata. The finish reason arrives on message_delta (stop_reason) one
// event before message_stop terminates the stream, so the parser reports it
// on an ignorable fragment and lets the driver record it.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/streamnorm/streamnorm"
	"github.com/streamnorm/streamnorm/framing"
)

// ProviderName is the value used in observability attributes and errors.
const ProviderName = "anthropic"

// streamEvent is the top-level envelope for all Anthropic SSE events. The
// Type field discriminates which optional fields are populated.
type streamEvent struct {
	Type  string          `json:"type"`
	Delta *streamDelta    `json:"delta,omitempty"` // content_block_delta, message_delta
	Error *anthropicError `json:"error,omitempty"` // "error" events
}

// streamDelta carries the incremental payload of a delta event.
//   - "text_delta": Text is populated
//   - "thinking_delta" / "input_json_delta": not user-visible text
//   - (on message_delta): StopReason is populated
type streamDelta struct {
	Type       string `json:"type,omitempty"`
	Text       string `json:"text,omitempty"`
	StopReason string `json:"stop_reason,omitempty"`
}

type anthropicError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Messages returns a parser for the Messages API stream.
func Messages() streamnorm.ParseFunc {
	return func(payload []byte) (streamnorm.Fragment, error) {
		var event streamEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return streamnorm.Fragment{}, &streamnorm.ParseError{Payload: payload, Err: err}
		}
		if event.Type == "" {
			return streamnorm.Fragment{}, &streamnorm.ParseError{
				Payload: payload,
				Err:     fmt.Errorf("missing type field in stream event"),
			}
		}

		switch event.Type {
		case "error":
			message := "unknown error"
			code := ""
			if event.Error != nil {
				message = event.Error.Message
				code = event.Error.Type
			}
			return streamnorm.Fragment{}, &streamnorm.ProviderError{
				Provider: ProviderName,
				Code:     code,
				Message:  message,
				Payload:  payload,
			}

		case "content_block_delta":
			if event.Delta != nil && event.Delta.Type == "text_delta" && event.Delta.Text != "" {
				return streamnorm.Fragment{Type: streamnorm.FragmentText, Text: event.Delta.Text}, nil
			}
			// thinking_delta, input_json_delta, empty text: nothing visible.
			return streamnorm.Fragment{Type: streamnorm.FragmentIgnore}, nil

		case "message_delta":
			// Carries stop_reason ahead of message_stop; record it without
			// terminating yet.
			frag := streamnorm.Fragment{Type: streamnorm.FragmentIgnore}
			if event.Delta != nil {
				frag.FinishReason = event.Delta.StopReason
			}
			return frag, nil

		case "message_stop":
			return streamnorm.Fragment{Type: streamnorm.FragmentDone}, nil

		default:
			// message_start, content_block_start, content_block_stop, ping.
			return streamnorm.Fragment{Type: streamnorm.FragmentIgnore}, nil
		}
	}
}

// NewStream wraps an already-opened Messages API response body in a
// normalized stream. Anthropic has no [DONE] sentinel; message_stop ends the
// stream.
func NewStream(ctx context.Context, body io.Reader, opts ...streamnorm.Option) *streamnorm.Stream {
	opts = append([]streamnorm.Option{streamnorm.WithProviderName(ProviderName)}, opts...)
	return streamnorm.New(ctx, body, framing.NewSSEDecoder(), Messages(), opts...)
}
