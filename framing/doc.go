// Package framing reassembles raw transport chunks into complete logical
// events, independent of how the network happened to split the bytes.
//
// Two framings cover the streaming LLM backends in the wild: newline-delimited
// JSON records ([NewLineDecoder]) and Server-Sent-Events data frames
// ([NewSSEDecoder]). Both decoders are stateful across calls: bytes that do
// not yet complete an event are carried over and combined with the next
// chunk, so an event split mid-token or mid-JSON-object still comes out as
// exactly one event.
//
// Framing and parsing are deliberately separate layers: a decoder never
// inspects payloads as JSON, so a malformed payload is a parser problem and
// does not disturb the framing of subsequent events. The one exception is the
// end sentinel ([WithSentinel]): a payload exactly matching it is flagged on
// the returned event instead of being handed to a parser.
package framing
