package streamnorm

// Option configures a Stream at construction time.
type Option func(*Stream)

// WithCallbacks attaches the lifecycle hooks invoked as fragments are emitted.
func WithCallbacks(callbacks Callbacks) Option {
	return func(stream *Stream) {
		stream.dispatch.callbacks = callbacks
	}
}

// WithRepairJSON enables lenient parsing: when the provider parser rejects an
// event payload as malformed JSON, the payload is run through jsonrepair and
// parsed once more before the stream fails with a *ParseError. Useful behind
// proxies and gateways that occasionally mangle event payloads.
func WithRepairJSON() Option {
	return func(stream *Stream) {
		stream.repairJSON = true
	}
}

// WithProviderName sets the backend name used in observability attributes and
// error messages. Provider subpackages set this on the streams they build.
func WithProviderName(name string) Option {
	return func(stream *Stream) {
		stream.provider = name
	}
}

// WithReadBufferSize overrides the size of the buffer used for single reads
// from the response body. The default is 4 KiB; values below 1 are ignored.
func WithReadBufferSize(size int) Option {
	return func(stream *Stream) {
		if size > 0 {
			stream.readSize = size
		}
	}
}
