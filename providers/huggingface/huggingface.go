// Package huggingface parses text-generation-inference streaming responses
// (the format served by Hugging Face Inference Endpoints). Events arrive as
// SSE frames; each carries one generated token, and the final event sets
// generated_text to the full output.
package huggingface

import (
	"context"
	"encoding/json"
	"io"

	"github.com/streamnorm/streamnorm"
	"github.com/streamnorm/streamnorm/framing"
)

// ProviderName is the value used in observability attributes and errors.
const ProviderName = "huggingface"

type streamRecord struct {
	Token         *token          `json:"token,omitempty"`
	GeneratedText *string         `json:"generated_text"` // non-null on the final event
	Details       json.RawMessage `json:"details,omitempty"`
	Error         string          `json:"error,omitempty"`
	ErrorType     string          `json:"error_type,omitempty"`
}

type token struct {
	Text    string `json:"text"`
	Special bool   `json:"special"`
}

// TextGeneration returns a parser for the text-generation-inference format.
//
// Special tokens (<s>, </s>, control markers) are not user-visible and map to
// ignorable fragments. A non-null generated_text marks the final event: its
// token is still emitted when visible, then the stream completes.
func TextGeneration() streamnorm.ParseFunc {
	return func(payload []byte) (streamnorm.Fragment, error) {
		var rec streamRecord
		if err := json.Unmarshal(payload, &rec); err != nil {
			return streamnorm.Fragment{}, &streamnorm.ParseError{Payload: payload, Err: err}
		}
		if rec.Error != "" {
			return streamnorm.Fragment{}, &streamnorm.ProviderError{
				Provider: ProviderName,
				Code:     rec.ErrorType,
				Message:  rec.Error,
				Payload:  payload,
			}
		}

		finishReason := ""
		if rec.GeneratedText != nil {
			finishReason = "eos_token"
		}
		if rec.Token != nil && !rec.Token.Special && rec.Token.Text != "" {
			return streamnorm.Fragment{
				Type:         streamnorm.FragmentText,
				Text:         rec.Token.Text,
				FinishReason: finishReason,
			}, nil
		}
		if rec.GeneratedText != nil {
			return streamnorm.Fragment{Type: streamnorm.FragmentDone, FinishReason: finishReason}, nil
		}
		return streamnorm.Fragment{Type: streamnorm.FragmentIgnore}, nil
	}
}

// NewStream wraps an already-opened text-generation-inference response body
// in a normalized stream using SSE framing.
func NewStream(ctx context.Context, body io.Reader, opts ...streamnorm.Option) *streamnorm.Stream {
	opts = append([]streamnorm.Option{streamnorm.WithProviderName(ProviderName)}, opts...)
	return streamnorm.New(ctx, body, framing.NewSSEDecoder(), TextGeneration(), opts...)
}
