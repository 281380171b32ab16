// Package openai parses OpenAI-compatible streaming responses: the chat
// completions delta format and the legacy completions format. Both arrive as
// SSE frames terminated by a literal [DONE] sentinel, a convention shared by
// many OpenAI-compatible gateways (Azure OpenAI, OpenRouter, vLLM, ...).
package openai

import (
	"context"
	"encoding/json"
	"io"

	"github.com/streamnorm/streamnorm"
	"github.com/streamnorm/streamnorm/framing"
)

// ProviderName is the value used in observability attributes and errors.
const ProviderName = "openai"

// DoneSentinel is the literal SSE payload that ends an OpenAI stream.
const DoneSentinel = "[DONE]"

/*
	OPENAI SSE STREAMING - WIRE TYPES

	Chat chunks:   {"choices":[{"delta":{"role","content"},"finish_reason":null}]}
	Completion:    {"choices":[{"text":"...","finish_reason":null}]}
	Final frame:   data: [DONE]

	Usage-only chunks (stream_options.include_usage) have an empty choices
	array and carry no user-visible content.
*/

type chatChunk struct {
	Choices []chatChoice `json:"choices"`
	Error   *apiError    `json:"error,omitempty"`
}

type chatChoice struct {
	Delta        chatDelta `json:"delta"`
	FinishReason *string   `json:"finish_reason"`
}

type chatDelta struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

type completionChunk struct {
	Choices []completionChoice `json:"choices"`
	Error   *apiError          `json:"error,omitempty"`
}

type completionChoice struct {
	Text         string  `json:"text"`
	FinishReason *string `json:"finish_reason"`
}

// apiError is the error object OpenAI embeds in an event when the stream
// fails server-side (rate limits, content policy, upstream errors).
type apiError struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *apiError) toProviderError(payload []byte) error {
	code := e.Code
	if code == "" {
		code = e.Type
	}
	return &streamnorm.ProviderError{
		Provider: ProviderName,
		Code:     code,
		Message:  e.Message,
		Payload:  payload,
	}
}

// Chat returns a parser for the chat completions delta format.
//
// Rules: a non-empty delta.content is a text fragment; a delta carrying only
// a role (or nothing) is ignorable; a non-null finish_reason marks the stream
// done; an explicit error object takes precedence over any content.
func Chat() streamnorm.ParseFunc {
	return func(payload []byte) (streamnorm.Fragment, error) {
		var chunk chatChunk
		if err := json.Unmarshal(payload, &chunk); err != nil {
			return streamnorm.Fragment{}, &streamnorm.ParseError{Payload: payload, Err: err}
		}
		if chunk.Error != nil {
			return streamnorm.Fragment{}, chunk.Error.toProviderError(payload)
		}
		if len(chunk.Choices) == 0 {
			// Usage-only chunk.
			return streamnorm.Fragment{Type: streamnorm.FragmentIgnore}, nil
		}

		choice := chunk.Choices[0]
		finishReason := ""
		if choice.FinishReason != nil {
			finishReason = *choice.FinishReason
		}
		if choice.Delta.Content != "" {
			return streamnorm.Fragment{
				Type:         streamnorm.FragmentText,
				Text:         choice.Delta.Content,
				FinishReason: finishReason,
			}, nil
		}
		if finishReason != "" {
			return streamnorm.Fragment{Type: streamnorm.FragmentDone, FinishReason: finishReason}, nil
		}
		return streamnorm.Fragment{Type: streamnorm.FragmentIgnore}, nil
	}
}

// Completion returns a parser for the legacy completions format
// (choices[0].text), still used by many self-hosted OpenAI-compatible
// servers.
func Completion() streamnorm.ParseFunc {
	return func(payload []byte) (streamnorm.Fragment, error) {
		var chunk completionChunk
		if err := json.Unmarshal(payload, &chunk); err != nil {
			return streamnorm.Fragment{}, &streamnorm.ParseError{Payload: payload, Err: err}
		}
		if chunk.Error != nil {
			return streamnorm.Fragment{}, chunk.Error.toProviderError(payload)
		}
		if len(chunk.Choices) == 0 {
			return streamnorm.Fragment{Type: streamnorm.FragmentIgnore}, nil
		}

		choice := chunk.Choices[0]
		finishReason := ""
		if choice.FinishReason != nil {
			finishReason = *choice.FinishReason
		}
		if choice.Text != "" {
			return streamnorm.Fragment{
				Type:         streamnorm.FragmentText,
				Text:         choice.Text,
				FinishReason: finishReason,
			}, nil
		}
		if finishReason != "" {
			return streamnorm.Fragment{Type: streamnorm.FragmentDone, FinishReason: finishReason}, nil
		}
		return streamnorm.Fragment{Type: streamnorm.FragmentIgnore}, nil
	}
}

// NewChatStream wraps an already-opened chat completions response body in a
// normalized stream: SSE framing with the [DONE] sentinel, chat delta parsing.
func NewChatStream(ctx context.Context, body io.Reader, opts ...streamnorm.Option) *streamnorm.Stream {
	opts = append([]streamnorm.Option{streamnorm.WithProviderName(ProviderName)}, opts...)
	return streamnorm.New(ctx, body,
		framing.NewSSEDecoder(framing.WithSentinel(DoneSentinel)), Chat(), opts...)
}

// NewCompletionStream is NewChatStream for the legacy completions format.
func NewCompletionStream(ctx context.Context, body io.Reader, opts ...streamnorm.Option) *streamnorm.Stream {
	opts = append([]streamnorm.Option{streamnorm.WithProviderName(ProviderName)}, opts...)
	return streamnorm.New(ctx, body,
		framing.NewSSEDecoder(framing.WithSentinel(DoneSentinel)), Completion(), opts...)
}
