package streamnorm

import (
	"bytes"
	"context"
	"errors"
	"io"
	"iter"

	"github.com/streamnorm/streamnorm/framing"
	"github.com/streamnorm/streamnorm/internal/utils"
	"github.com/streamnorm/streamnorm/observability"
)

// StreamState indicates the current state of a Stream.
type StreamState int

const (
	StreamStateNew       StreamState = iota // Before the first pull.
	StreamStateStreaming                    // Mid-stream, emitting fragments.
	StreamStateComplete                     // Terminal: graceful end of stream.
	StreamStateError                        // Terminal: fatal error surfaced.
	StreamStateClosed                       // Close() called before a terminal state.
)

// String returns a short human-readable name for the state.
func (s StreamState) String() string {
	switch s {
	case StreamStateNew:
		return "new"
	case StreamStateStreaming:
		return "streaming"
	case StreamStateComplete:
		return "complete"
	case StreamStateError:
		return "error"
	case StreamStateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

const defaultReadSize = 4 * 1024

// Stream drives one response body through a framing decoder and a provider
// parser, emitting the ordered text fragments and firing lifecycle callbacks
// along the way. It is the single owner of all per-request mutable state
// (decode carry-over, accumulated text, phase) and must be consumed by exactly
// one reader.
//
// A Stream is pull-based and fully synchronous: every pull reads at most what
// it needs from the body, and all parsing and callback dispatch happens on the
// consumer's goroutine before the pull returns. The only suspension point is
// the blocking read on the underlying body.
//
// Consume it either as an io.ReadCloser, or with [Stream.Iter] /
// [Stream.Collect]. Do not mix the two surfaces on one Stream.
type Stream struct {
	ctx      context.Context
	body     io.Reader
	decoder  framing.Decoder
	parse    ParseFunc
	observer observability.Observer

	dispatch   dispatcher
	provider   string
	repairJSON bool
	readSize   int

	state        StreamState
	err          error    // terminal error, set when state == StreamStateError
	finishReason string   // last provider finish reason observed
	pending      []string // fragments emitted but not yet pulled by the consumer
	leftover     []byte   // partial fragment handed out across Read calls
	readBuf      []byte
	bodyClosed   bool
}

var _ io.ReadCloser = (*Stream)(nil)

// New builds a Stream over an already-opened response body. The decoder
// reassembles transport chunks into logical events and the parser maps each
// event to a fragment. If body implements io.Closer it is closed when the
// stream reaches a terminal state or the consumer calls Close.
//
// ctx bounds the whole consumption: once it is cancelled, pulls stop reading
// the body and return the context error without firing completion callbacks.
func New(ctx context.Context, body io.Reader, decoder framing.Decoder, parse ParseFunc, opts ...Option) *Stream {
	if ctx == nil {
		ctx = context.Background()
	}
	stream := &Stream{
		ctx:      ctx,
		body:     body,
		decoder:  decoder,
		parse:    parse,
		observer: observability.ObserverFromContext(ctx),
		provider: "custom",
		readSize: defaultReadSize,
	}
	for _, opt := range opts {
		opt(stream)
	}
	stream.readBuf = make([]byte, stream.readSize)
	return stream
}

// State returns the current stream state.
func (s *Stream) State() StreamState { return s.state }

// Text returns the ordered concatenation of all text fragments emitted so
// far. After graceful completion it equals the full generated text; after a
// failure it holds whatever had accumulated before the error.
func (s *Stream) Text() string { return s.dispatch.text() }

// FinishReason returns the provider-reported finish reason, if one was
// observed before termination (e.g. "stop", "COMPLETE", "end_turn").
func (s *Stream) FinishReason() string { return s.finishReason }

// Iter returns the stream's text fragments as a range-over-func iterator.
// A mid-stream failure is yielded once as a non-nil error, after which
// iteration stops. Graceful completion simply ends the loop.
//
//	for token, err := range stream.Iter() {
//	    if err != nil { ... }
//	    fmt.Print(token)
//	}
func (s *Stream) Iter() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for {
			text, err := s.next()
			if err == io.EOF {
				return
			}
			if err != nil {
				yield("", err)
				return
			}
			if !yield(text, nil) {
				return
			}
		}
	}
}

// Collect drains the stream and returns the full concatenated text. On
// failure it returns the partial text accumulated before the error alongside
// the error itself.
func (s *Stream) Collect() (string, error) {
	for {
		_, err := s.next()
		if err == io.EOF {
			return s.dispatch.text(), nil
		}
		if err != nil {
			return s.dispatch.text(), err
		}
	}
}

// Read implements io.Reader over the emitted text fragments. It returns
// io.EOF after graceful completion and the terminal error after a failure.
// Partial text delivered before a failure is never retracted.
func (s *Stream) Read(p []byte) (int, error) {
	for len(s.leftover) == 0 {
		text, err := s.next()
		if err != nil {
			return 0, err
		}
		s.leftover = []byte(text)
	}
	n := copy(p, s.leftover)
	s.leftover = s.leftover[n:]
	return n, nil
}

// Close releases the underlying body. Called before a terminal state it marks
// the stream closed: no further bytes are pulled and completion callbacks are
// not fired. Close is idempotent and safe to call in any state.
func (s *Stream) Close() error {
	if s.state == StreamStateNew || s.state == StreamStateStreaming {
		s.state = StreamStateClosed
		if s.observer != nil {
			s.observer.Debug(s.ctx, "stream closed by consumer",
				observability.String(observability.AttrStreamProvider, s.provider),
				observability.Int(observability.AttrStreamFragments, s.dispatch.count()),
			)
		}
	}
	return s.closeBody()
}

// next returns the next emitted text fragment, pulling and decoding body
// chunks until one is available or the stream terminates. It returns io.EOF
// on graceful completion and the terminal error otherwise.
func (s *Stream) next() (string, error) {
	if len(s.pending) > 0 {
		return s.pop(), nil
	}

	switch s.state {
	case StreamStateComplete:
		return "", io.EOF
	case StreamStateError:
		return "", s.err
	case StreamStateClosed:
		return "", ErrClosed
	case StreamStateNew:
		s.state = StreamStateStreaming
		if s.observer != nil {
			s.observer.Debug(s.ctx, "stream opened",
				observability.String(observability.AttrStreamProvider, s.provider),
			)
		}
		if err := s.dispatch.start(); err != nil {
			return "", s.fail(err)
		}
	}

	for {
		if err := s.ctx.Err(); err != nil {
			return "", s.abort(err)
		}

		n, readErr := s.body.Read(s.readBuf)
		if n > 0 {
			s.handleEvents(s.decoder.Feed(s.readBuf[:n]))
			if len(s.pending) > 0 {
				return s.pop(), nil
			}
			if s.terminal() {
				return s.terminalResult()
			}
		}
		if readErr == nil {
			continue
		}
		if readErr != io.EOF {
			return "", s.fail(readErr)
		}

		// End of body: flush the decoder, treat parseable residual bytes as
		// an implicit final event, and complete if nothing terminated us yet.
		events, residual := s.decoder.Finish()
		s.handleEvents(events)
		if !s.terminal() && len(bytes.TrimSpace(residual)) > 0 {
			frag, err := s.parseEvent(residual)
			if err != nil {
				s.fail(&FramingError{Residual: residual, Err: err})
			} else {
				s.handleFragment(frag)
			}
		}
		if !s.terminal() {
			s.complete()
		}
		if len(s.pending) > 0 {
			return s.pop(), nil
		}
		return s.terminalResult()
	}
}

// handleEvents runs each decoded event through the parser and updates stream
// state. Processing stops as soon as a terminal state is reached; events
// after a done sentinel are dropped.
func (s *Stream) handleEvents(events []framing.Event) {
	for _, event := range events {
		if s.terminal() {
			return
		}
		if event.Sentinel {
			s.complete()
			return
		}
		frag, err := s.parseEvent(event.Payload)
		if err != nil {
			s.fail(err)
			return
		}
		s.handleFragment(frag)
	}
}

// handleFragment applies one parsed fragment to the stream state machine.
func (s *Stream) handleFragment(frag Fragment) {
	if frag.FinishReason != "" {
		s.finishReason = frag.FinishReason
	}
	switch frag.Type {
	case FragmentText:
		if err := s.dispatch.token(frag.Text); err != nil {
			// The fragment is still delivered downstream; the callback
			// failure surfaces on the pull after it is consumed.
			s.pending = append(s.pending, frag.Text)
			s.fail(err)
			return
		}
		s.pending = append(s.pending, frag.Text)
		if frag.FinishReason != "" {
			s.complete()
		}
	case FragmentDone:
		s.complete()
	case FragmentIgnore:
		// Heartbeats and metadata keep the stream open without output.
	}
}

// parseEvent invokes the provider parser, optionally retrying through
// jsonrepair when lenient parsing is enabled.
func (s *Stream) parseEvent(payload []byte) (Fragment, error) {
	frag, err := s.parse(payload)
	if err == nil || !s.repairJSON {
		return frag, err
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		return frag, err
	}
	repaired, repairErr := utils.RepairJSON(string(payload))
	if repairErr != nil {
		return frag, err
	}
	frag, retryErr := s.parse([]byte(repaired))
	if retryErr != nil {
		return frag, err
	}
	return frag, nil
}

// complete moves the stream to StreamStateComplete, firing OnCompletion then
// OnFinal. A callback failure turns the completion into a failure instead.
func (s *Stream) complete() {
	if err := s.dispatch.completion(); err != nil {
		s.fail(err)
		return
	}
	if err := s.dispatch.final(); err != nil {
		s.fail(err)
		return
	}
	s.state = StreamStateComplete
	s.closeBody()
	if s.observer != nil {
		s.observer.Info(s.ctx, "stream completed",
			observability.String(observability.AttrStreamProvider, s.provider),
			observability.Int(observability.AttrStreamFragments, s.dispatch.count()),
			observability.Int(observability.AttrStreamChars, len(s.dispatch.text())),
			observability.String(observability.AttrStreamFinishReason, s.finishReason),
		)
	}
}

// fail moves the stream to StreamStateError. OnCompletion still fires with
// the accumulated partial text (OnFinal does not); if it fails too, both
// errors are surfaced together.
func (s *Stream) fail(err error) error {
	if s.terminal() {
		return s.err
	}
	if cbErr := s.dispatch.completion(); cbErr != nil {
		err = errors.Join(err, cbErr)
	}
	s.state = StreamStateError
	s.err = err
	s.closeBody()
	if s.observer != nil {
		s.observer.Error(s.ctx, "stream failed",
			observability.String(observability.AttrStreamProvider, s.provider),
			observability.Int(observability.AttrStreamFragments, s.dispatch.count()),
			observability.Error(err),
		)
	}
	return err
}

// abort terminates a cancelled stream. Unlike fail, no completion callbacks
// fire: cancellation before completion must not look like a completion.
func (s *Stream) abort(cause error) error {
	if s.terminal() {
		return s.err
	}
	s.state = StreamStateError
	s.err = cause
	s.closeBody()
	if s.observer != nil {
		s.observer.Warn(s.ctx, "stream cancelled",
			observability.String(observability.AttrStreamProvider, s.provider),
			observability.Int(observability.AttrStreamFragments, s.dispatch.count()),
			observability.Error(cause),
		)
	}
	return cause
}

func (s *Stream) terminal() bool {
	return s.state == StreamStateComplete || s.state == StreamStateError
}

// terminalResult maps the terminal state to the value next() should return
// once all pending fragments have been drained.
func (s *Stream) terminalResult() (string, error) {
	if s.state == StreamStateError {
		return "", s.err
	}
	return "", io.EOF
}

func (s *Stream) pop() string {
	text := s.pending[0]
	s.pending = s.pending[1:]
	return text
}

func (s *Stream) closeBody() error {
	if s.bodyClosed {
		return nil
	}
	s.bodyClosed = true
	if closer, ok := s.body.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
