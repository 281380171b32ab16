package streamnorm

import "strings"

// Callbacks holds the optional lifecycle hooks invoked as a stream is
// consumed. Every slot is independently optional; a nil slot is a no-op.
//
// Ordering guarantees, per stream:
//
//   - OnStart fires exactly once, before the first OnToken. It fires even when
//     the stream ends up emitting zero fragments, as long as it was opened.
//   - OnToken fires once per emitted text fragment, synchronously and in
//     emission order, strictly before the fragment is handed downstream.
//   - OnCompletion fires exactly once at termination, graceful or failed, with
//     the ordered concatenation of all text emitted so far.
//   - OnFinal fires exactly once after OnCompletion, on graceful completion
//     only, with the same full text.
//
// A non-nil error returned from any hook terminates the stream with a
// *CallbackError. Hooks receive plain text; no provider structures leak
// through.
type Callbacks struct {
	OnStart      func() error
	OnToken      func(token string) error
	OnCompletion func(full string) error
	OnFinal      func(full string) error
}

// dispatcher enforces the exactly-once and ordering contracts of a Callbacks
// set and owns the running accumulation of emitted text. It is driven
// synchronously by one Stream, so no locking is needed.
type dispatcher struct {
	callbacks Callbacks
	full      strings.Builder
	tokens    int
	started   bool
	completed bool
	finalized bool
}

// start fires OnStart on the first call; later calls are no-ops.
func (d *dispatcher) start() error {
	if d.started {
		return nil
	}
	d.started = true
	if d.callbacks.OnStart == nil {
		return nil
	}
	if err := d.callbacks.OnStart(); err != nil {
		return &CallbackError{Hook: "onStart", Err: err}
	}
	return nil
}

// token records the fragment in the accumulation and fires OnToken. The text
// is accumulated before the hook runs so that a failing hook still leaves the
// fragment counted in the completion text.
func (d *dispatcher) token(text string) error {
	d.full.WriteString(text)
	d.tokens++
	if d.callbacks.OnToken == nil {
		return nil
	}
	if err := d.callbacks.OnToken(text); err != nil {
		return &CallbackError{Hook: "onToken", Err: err}
	}
	return nil
}

// completion fires OnCompletion on the first call; later calls are no-ops.
func (d *dispatcher) completion() error {
	if d.completed {
		return nil
	}
	d.completed = true
	if d.callbacks.OnCompletion == nil {
		return nil
	}
	if err := d.callbacks.OnCompletion(d.full.String()); err != nil {
		return &CallbackError{Hook: "onCompletion", Err: err}
	}
	return nil
}

// final fires OnFinal on the first call; later calls are no-ops.
func (d *dispatcher) final() error {
	if d.finalized {
		return nil
	}
	d.finalized = true
	if d.callbacks.OnFinal == nil {
		return nil
	}
	if err := d.callbacks.OnFinal(d.full.String()); err != nil {
		return &CallbackError{Hook: "onFinal", Err: err}
	}
	return nil
}

// text returns the ordered concatenation of all emitted fragments so far.
func (d *dispatcher) text() string { return d.full.String() }

// count returns how many text fragments have been emitted so far.
func (d *dispatcher) count() int { return d.tokens }
