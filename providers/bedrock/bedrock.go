// Package bedrock parses Amazon Bedrock streaming responses. Bedrock wraps
// every model event in an envelope whose "bytes" field holds the
// base64-encoded inner payload; the inner JSON shape then depends on the
// model family. [Envelope] handles the outer decoding and composes with an
// inner parser, so further model families plug in without touching the
// envelope logic.
package bedrock

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"github.com/streamnorm/streamnorm"
	"github.com/streamnorm/streamnorm/framing"
)

// ProviderName is the value used in observability attributes and errors.
const ProviderName = "bedrock"

type envelope struct {
	Bytes string `json:"bytes"`
}

// Envelope returns a parser that unwraps the Bedrock base64 envelope and
// applies inner to the decoded payload. An envelope-level decode failure
// (bad outer JSON, missing bytes field, invalid base64) is a parse error.
func Envelope(inner streamnorm.ParseFunc) streamnorm.ParseFunc {
	return func(payload []byte) (streamnorm.Fragment, error) {
		var outer envelope
		if err := json.Unmarshal(payload, &outer); err != nil {
			return streamnorm.Fragment{}, &streamnorm.ParseError{Payload: payload, Err: err}
		}
		if outer.Bytes == "" {
			return streamnorm.Fragment{}, &streamnorm.ParseError{
				Payload: payload,
				Err:     fmt.Errorf("envelope missing bytes field"),
			}
		}
		decoded, err := base64.StdEncoding.DecodeString(outer.Bytes)
		if err != nil {
			return streamnorm.Fragment{}, &streamnorm.ParseError{
				Payload: payload,
				Err:     fmt.Errorf("envelope base64 decode: %w", err),
			}
		}
		return inner(decoded)
	}
}

type titanChunk struct {
	OutputText       string  `json:"outputText"`
	CompletionReason *string `json:"completionReason"`
}

// Titan returns an inner parser for Amazon Titan text models
// (outputText / completionReason).
func Titan() streamnorm.ParseFunc {
	return func(payload []byte) (streamnorm.Fragment, error) {
		var chunk titanChunk
		if err := json.Unmarshal(payload, &chunk); err != nil {
			return streamnorm.Fragment{}, &streamnorm.ParseError{Payload: payload, Err: err}
		}

		finishReason := ""
		if chunk.CompletionReason != nil {
			finishReason = *chunk.CompletionReason
		}
		if chunk.OutputText != "" {
			return streamnorm.Fragment{
				Type:         streamnorm.FragmentText,
				Text:         chunk.OutputText,
				FinishReason: finishReason,
			}, nil
		}
		if finishReason != "" {
			return streamnorm.Fragment{Type: streamnorm.FragmentDone, FinishReason: finishReason}, nil
		}
		return streamnorm.Fragment{Type: streamnorm.FragmentIgnore}, nil
	}
}

type claudeChunk struct {
	Completion string  `json:"completion"`
	StopReason *string `json:"stop_reason"`
}

// ClaudeCompletion returns an inner parser for Anthropic Claude completion
// models on Bedrock (completion / stop_reason).
func ClaudeCompletion() streamnorm.ParseFunc {
	return func(payload []byte) (streamnorm.Fragment, error) {
		var chunk claudeChunk
		if err := json.Unmarshal(payload, &chunk); err != nil {
			return streamnorm.Fragment{}, &streamnorm.ParseError{Payload: payload, Err: err}
		}

		finishReason := ""
		if chunk.StopReason != nil {
			finishReason = *chunk.StopReason
		}
		if chunk.Completion != "" {
			return streamnorm.Fragment{
				Type:         streamnorm.FragmentText,
				Text:         chunk.Completion,
				FinishReason: finishReason,
			}, nil
		}
		if finishReason != "" {
			return streamnorm.Fragment{Type: streamnorm.FragmentDone, FinishReason: finishReason}, nil
		}
		return streamnorm.Fragment{Type: streamnorm.FragmentIgnore}, nil
	}
}

// NewStream wraps an already-decoded Bedrock event stream (one envelope per
// line) in a normalized stream with the given inner model parser.
func NewStream(ctx context.Context, body io.Reader, inner streamnorm.ParseFunc, opts ...streamnorm.Option) *streamnorm.Stream {
	opts = append([]streamnorm.Option{streamnorm.WithProviderName(ProviderName)}, opts...)
	return streamnorm.New(ctx, body, framing.NewLineDecoder(), Envelope(inner), opts...)
}
