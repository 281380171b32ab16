package streamnorm

// FragmentType identifies the kind of payload carried by a Fragment.
type FragmentType string

const (
	// FragmentText indicates a user-visible text delta.
	FragmentText FragmentType = "text"
	// FragmentIgnore indicates an event with no user-visible content
	// (role-only delta, heartbeat, usage metadata). The stream stays open.
	FragmentIgnore FragmentType = "ignore"
	// FragmentDone signals graceful end-of-stream (a provider finish marker).
	FragmentDone FragmentType = "done"
)

// Fragment is the normalized result of parsing one logical event.
//
// FinishReason may be set on any fragment type: some backends attach the
// finish reason to their final content delta (Cohere, Ollama), others send it
// on a metadata event before the terminating one (Anthropic's message_delta).
// The driver records a non-empty FinishReason whenever it appears and
// completes the stream when it arrives on a FragmentText or FragmentDone
// fragment.
type Fragment struct {
	Type         FragmentType
	Text         string // populated for FragmentText
	FinishReason string // provider finish reason, when the event carried one
}

// ParseFunc maps one complete logical event payload to a Fragment.
//
// Implementations must be pure and stateless: the same payload always yields
// the same fragment, and no ordering state is kept between calls. Structural
// failures are reported as *ParseError; explicit error events from the backend
// as *ProviderError. End-of-stream sentinels (such as OpenAI's [DONE]) never
// reach the parser; the framing decoder intercepts them first.
type ParseFunc func(payload []byte) (Fragment, error)
