// Package streamnorm normalizes heterogeneous LLM streaming completion
// responses into a single uniform, incrementally-consumable text stream.
//
// Every supported backend delivers tokens over a different wire format:
// OpenAI-compatible APIs use Server-Sent Events with a [DONE] sentinel,
// Anthropic uses typed SSE envelopes, Cohere and Ollama use newline-delimited
// JSON, and Amazon Bedrock wraps model output in base64 envelopes. A [Stream]
// composes three pieces into one consistent abstraction over all of them:
//
//   - a [framing.Decoder] that reassembles transport chunks into complete
//     logical events, carrying partial bytes across chunk boundaries;
//   - a [ParseFunc] that maps one logical event to a [Fragment] (text delta,
//     done marker, or ignorable metadata);
//   - a [Callbacks] set whose lifecycle hooks fire as fragments are emitted.
//
// The provider subpackages (providers/openai, providers/anthropic, ...) supply
// ready-made decoder/parser pairings; [New] accepts any combination, so a new
// backend plugs in with a single parsing function.
//
// A Stream is consumed by exactly one reader, either as an io.ReadCloser or
// via [Stream.Iter] / [Stream.Collect]. All decoding, parsing, and callback
// dispatch happens synchronously on the consumer's goroutine, so emitted text
// order always matches wire arrival order.
package streamnorm
