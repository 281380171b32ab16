package framing

import (
	"bytes"
	"strings"
)

// SSEDecoder frames Server-Sent-Events streams: "data:" lines accumulate
// until a blank line terminates the event. Multi-line data fields are joined
// with newlines into a single payload, comment lines (leading ':') and other
// SSE fields (event:, id:, retry:) are skipped. Anthropic relies on the JSON
// "type" field rather than the SSE "event:" field to discriminate events, so
// dropping non-data fields loses nothing.
type SSEDecoder struct {
	config    config
	buf       []byte   // carry-over for a partial line
	dataLines []string // data lines of the event currently accumulating
}

// NewSSEDecoder builds a decoder for SSE framing.
func NewSSEDecoder(opts ...Option) *SSEDecoder {
	decoder := &SSEDecoder{}
	for _, opt := range opts {
		opt(&decoder.config)
	}
	return decoder
}

// Feed implements Decoder.
func (d *SSEDecoder) Feed(chunk []byte) []Event {
	d.buf = append(d.buf, chunk...)

	var events []Event
	for {
		newline := bytes.IndexByte(d.buf, '\n')
		if newline < 0 {
			return events
		}
		line := strings.TrimSuffix(string(d.buf[:newline]), "\r")
		d.buf = d.buf[newline+1:]
		if event, ok := d.consumeLine(line); ok {
			events = append(events, event)
		}
	}
}

// Finish implements Decoder. A final event whose terminating blank line never
// arrived is flushed as long as its data lines are complete; a trailing
// partial line is treated as complete at end-of-body first.
func (d *SSEDecoder) Finish() ([]Event, []byte) {
	var events []Event
	if len(d.buf) > 0 {
		line := strings.TrimSuffix(string(d.buf), "\r")
		d.buf = nil
		if event, ok := d.consumeLine(line); ok {
			events = append(events, event)
		}
	}
	if event, ok := d.flush(); ok {
		events = append(events, event)
	}
	return events, nil
}

// consumeLine feeds one complete line into the event accumulator. It returns
// an event when the line completed one (blank-line terminator, or a data line
// carrying the sentinel).
func (d *SSEDecoder) consumeLine(line string) (Event, bool) {
	if line == "" {
		return d.flush()
	}
	if strings.HasPrefix(line, ":") {
		return Event{}, false
	}
	if data, ok := strings.CutPrefix(line, "data:"); ok {
		d.dataLines = append(d.dataLines, strings.TrimSpace(data))
		return Event{}, false
	}
	// Other SSE fields (event:, id:, retry:) carry no payload.
	return Event{}, false
}

// flush emits the accumulated data lines as one event, if any.
func (d *SSEDecoder) flush() (Event, bool) {
	if len(d.dataLines) == 0 {
		return Event{}, false
	}
	payload := strings.Join(d.dataLines, "\n")
	d.dataLines = nil
	return d.config.event([]byte(payload)), true
}
