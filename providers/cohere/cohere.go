// Package cohere parses Cohere generate-endpoint streaming responses, which
// arrive as newline-delimited JSON records rather than SSE. The final record
// sets is_finished together with a finish_reason, and may still carry a last
// piece of text.
package cohere

import (
	"context"
	"encoding/json"
	"io"

	"github.com/streamnorm/streamnorm"
	"github.com/streamnorm/streamnorm/framing"
)

// ProviderName is the value used in observability attributes and errors.
const ProviderName = "cohere"

type generation struct {
	Text         string `json:"text"`
	IsFinished   bool   `json:"is_finished"`
	FinishReason string `json:"finish_reason,omitempty"`
}

// Generate returns a parser for the generate streaming format.
func Generate() streamnorm.ParseFunc {
	return func(payload []byte) (streamnorm.Fragment, error) {
		var record generation
		if err := json.Unmarshal(payload, &record); err != nil {
			return streamnorm.Fragment{}, &streamnorm.ParseError{Payload: payload, Err: err}
		}
		if record.IsFinished && record.FinishReason == "ERROR" {
			return streamnorm.Fragment{}, &streamnorm.ProviderError{
				Provider: ProviderName,
				Code:     record.FinishReason,
				Message:  "generation ended with provider-side error",
				Payload:  payload,
			}
		}

		finishReason := ""
		if record.IsFinished {
			finishReason = record.FinishReason
			if finishReason == "" {
				finishReason = "COMPLETE"
			}
		}
		if record.Text != "" {
			return streamnorm.Fragment{
				Type:         streamnorm.FragmentText,
				Text:         record.Text,
				FinishReason: finishReason,
			}, nil
		}
		if record.IsFinished {
			return streamnorm.Fragment{Type: streamnorm.FragmentDone, FinishReason: finishReason}, nil
		}
		return streamnorm.Fragment{Type: streamnorm.FragmentIgnore}, nil
	}
}

// NewStream wraps an already-opened generate response body in a normalized
// stream using newline-delimited framing.
func NewStream(ctx context.Context, body io.Reader, opts ...streamnorm.Option) *streamnorm.Stream {
	opts = append([]streamnorm.Option{streamnorm.WithProviderName(ProviderName)}, opts...)
	return streamnorm.New(ctx, body, framing.NewLineDecoder(), Generate(), opts...)
}
