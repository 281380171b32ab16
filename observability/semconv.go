package observability

// Semantic conventions for observation attributes. These constants define the
// standard attribute names used by the stream driver and provider packages so
// that observations stay consistent across components.

const (
	// AttrStreamProvider is the backend whose wire format is being normalized
	// (e.g. "openai", "anthropic", "custom").
	AttrStreamProvider = "stream.provider"

	// AttrStreamFragments is the number of text fragments emitted so far.
	AttrStreamFragments = "stream.fragments"

	// AttrStreamChars is the total length in bytes of the accumulated text.
	AttrStreamChars = "stream.chars"

	// AttrStreamFinishReason is the provider-reported finish reason, if any.
	AttrStreamFinishReason = "stream.finish_reason"

	// AttrStreamState is a StreamState name ("streaming", "complete", ...).
	AttrStreamState = "stream.state"
)
