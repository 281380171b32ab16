package framing

// Event is one complete framed unit of provider data. Payload holds the
// event's bytes with framing (delimiters, "data:" prefixes) stripped.
type Event struct {
	Payload []byte
	// Sentinel reports that the payload exactly matched the decoder's
	// configured end sentinel. Sentinel events carry no parseable content;
	// they signal graceful end-of-stream.
	Sentinel bool
}

// Decoder turns raw transport chunks into a sequence of complete events.
// Implementations are stateful and owned by a single stream; they must never
// emit an event before its framing terminator has been observed.
type Decoder interface {
	// Feed appends chunk to the carry-over buffer and returns every event the
	// chunk completed, in arrival order. A chunk completing zero events
	// returns an empty slice; the partial bytes stay buffered.
	Feed(chunk []byte) []Event

	// Finish flushes the decoder at end-of-body. It returns any events that
	// were complete in content but missing only their trailing terminator,
	// plus whatever residual bytes never framed into an event. After Finish,
	// the decoder must not be fed again.
	Finish() (events []Event, residual []byte)
}

type config struct {
	sentinel string
}

// Option configures a decoder.
type Option func(*config)

// WithSentinel sets the literal end-of-stream payload for the backend (for
// example "[DONE]" on OpenAI-compatible APIs). A payload exactly equal to the
// sentinel is emitted as a Sentinel event instead of a data event.
func WithSentinel(sentinel string) Option {
	return func(c *config) {
		c.sentinel = sentinel
	}
}

// event wraps a payload, flagging it when it matches the configured sentinel.
func (c *config) event(payload []byte) Event {
	if c.sentinel != "" && string(payload) == c.sentinel {
		return Event{Payload: payload, Sentinel: true}
	}
	return Event{Payload: payload}
}
