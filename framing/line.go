package framing

import "bytes"

// LineDecoder frames newline-delimited records (NDJSON-style streams such as
// Cohere's generate API, Ollama, and Bedrock envelope dumps). Each complete
// line is one event; the trailing partial line is carried over to the next
// chunk. Blank lines are skipped.
type LineDecoder struct {
	config config
	buf    []byte
}

// NewLineDecoder builds a decoder for newline-delimited records.
func NewLineDecoder(opts ...Option) *LineDecoder {
	decoder := &LineDecoder{}
	for _, opt := range opts {
		opt(&decoder.config)
	}
	return decoder
}

// Feed implements Decoder.
func (d *LineDecoder) Feed(chunk []byte) []Event {
	d.buf = append(d.buf, chunk...)

	var events []Event
	for {
		newline := bytes.IndexByte(d.buf, '\n')
		if newline < 0 {
			return events
		}
		line := trimLine(d.buf[:newline])
		d.buf = d.buf[newline+1:]
		if len(line) == 0 {
			continue
		}
		events = append(events, d.config.event(line))
	}
}

// Finish implements Decoder. A trailing line that exactly matches the
// sentinel is still recognized; any other leftover bytes are returned as
// residual for the caller to judge.
func (d *LineDecoder) Finish() ([]Event, []byte) {
	line := trimLine(d.buf)
	d.buf = nil
	if len(line) == 0 {
		return nil, nil
	}
	event := d.config.event(line)
	if event.Sentinel {
		return []Event{event}, nil
	}
	return nil, line
}

// trimLine drops a trailing carriage return. Interior whitespace is left
// intact; only line terminator artifacts are removed.
func trimLine(line []byte) []byte {
	line = bytes.TrimSuffix(line, []byte("\r"))
	// Copy out: the caller's view must survive buffer reslicing.
	if len(line) == 0 {
		return nil
	}
	out := make([]byte, len(line))
	copy(out, line)
	return out
}
