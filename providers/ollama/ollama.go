// Package ollama parses Ollama streaming responses (newline-delimited JSON).
// Both the generate endpoint ("response" field) and the chat endpoint
// ("message.content" field) are handled by the same parser; the final record
// sets done together with an optional done_reason.
package ollama

import (
	"context"
	"encoding/json"
	"io"

	"github.com/streamnorm/streamnorm"
	"github.com/streamnorm/streamnorm/framing"
)

// ProviderName is the value used in observability attributes and errors.
const ProviderName = "ollama"

type record struct {
	Response   string   `json:"response,omitempty"` // generate endpoint
	Message    *message `json:"message,omitempty"`  // chat endpoint
	Done       bool     `json:"done"`
	DoneReason string   `json:"done_reason,omitempty"`
	Error      string   `json:"error,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Parser returns a parser covering both the generate and chat stream shapes.
func Parser() streamnorm.ParseFunc {
	return func(payload []byte) (streamnorm.Fragment, error) {
		var rec record
		if err := json.Unmarshal(payload, &rec); err != nil {
			return streamnorm.Fragment{}, &streamnorm.ParseError{Payload: payload, Err: err}
		}
		if rec.Error != "" {
			return streamnorm.Fragment{}, &streamnorm.ProviderError{
				Provider: ProviderName,
				Message:  rec.Error,
				Payload:  payload,
			}
		}

		text := rec.Response
		if text == "" && rec.Message != nil {
			text = rec.Message.Content
		}
		finishReason := ""
		if rec.Done {
			finishReason = rec.DoneReason
			if finishReason == "" {
				finishReason = "stop"
			}
		}
		if text != "" {
			return streamnorm.Fragment{
				Type:         streamnorm.FragmentText,
				Text:         text,
				FinishReason: finishReason,
			}, nil
		}
		if rec.Done {
			return streamnorm.Fragment{Type: streamnorm.FragmentDone, FinishReason: finishReason}, nil
		}
		return streamnorm.Fragment{Type: streamnorm.FragmentIgnore}, nil
	}
}

// NewStream wraps an already-opened Ollama response body in a normalized
// stream using newline-delimited framing.
func NewStream(ctx context.Context, body io.Reader, opts ...streamnorm.Option) *streamnorm.Stream {
	opts = append([]streamnorm.Option{streamnorm.WithProviderName(ProviderName)}, opts...)
	return streamnorm.New(ctx, body, framing.NewLineDecoder(), Parser(), opts...)
}
