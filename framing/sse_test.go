package framing

import "testing"

// TestSSEDecoder_SingleEvent verifies basic data-line framing with the
// blank-line terminator and "data:" prefix stripping.
func TestSSEDecoder_SingleEvent(t *testing.T) {
	decoder := NewSSEDecoder()

	events := feedString(decoder, "data: {\"delta\":{\"content\":\"Hi\"}}\n\n")
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if string(events[0].Payload) != `{"delta":{"content":"Hi"}}` {
		t.Errorf("unexpected payload: %q", events[0].Payload)
	}
}

// TestSSEDecoder_MultipleEventsOneChunk verifies that a chunk completing
// several events yields all of them in arrival order.
func TestSSEDecoder_MultipleEventsOneChunk(t *testing.T) {
	decoder := NewSSEDecoder()

	events := feedString(decoder, "data: one\n\ndata: two\n\ndata: three\n\n")
	got := payloads(events)
	want := []string{"one", "two", "three"}

	if len(got) != len(want) {
		t.Fatalf("expected %d events, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

// TestSSEDecoder_SplitMidEvent verifies that an event split across chunks,
// including mid-way through its JSON payload, still comes out as exactly one
// event.
func TestSSEDecoder_SplitMidEvent(t *testing.T) {
	decoder := NewSSEDecoder()

	if events := feedString(decoder, "data: {\"delta\":{\"con"); len(events) != 0 {
		t.Fatalf("expected no events mid-line, got %d", len(events))
	}
	if events := feedString(decoder, "tent\":\"Hi\"}}\n"); len(events) != 0 {
		t.Fatalf("expected no events before the blank-line terminator, got %d", len(events))
	}

	events := feedString(decoder, "\n")
	if len(events) != 1 || string(events[0].Payload) != `{"delta":{"content":"Hi"}}` {
		t.Fatalf("expected the reassembled event, got %v", payloads(events))
	}
}

// TestSSEDecoder_MultiLineData verifies that consecutive data lines of one
// event are joined with newlines.
func TestSSEDecoder_MultiLineData(t *testing.T) {
	decoder := NewSSEDecoder()

	events := feedString(decoder, "data: first\ndata: second\n\n")
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if string(events[0].Payload) != "first\nsecond" {
		t.Errorf("expected joined payload, got %q", events[0].Payload)
	}
}

// TestSSEDecoder_SkipsCommentsAndOtherFields verifies that comments and
// event:/id:/retry: fields never surface as events.
func TestSSEDecoder_SkipsCommentsAndOtherFields(t *testing.T) {
	decoder := NewSSEDecoder()

	events := feedString(decoder, ": heartbeat\n\nevent: message_start\nid: 7\nretry: 100\ndata: payload\n\n")
	if len(events) != 1 || string(events[0].Payload) != "payload" {
		t.Fatalf("expected only the data payload, got %v", payloads(events))
	}
}

// TestSSEDecoder_Sentinel verifies that a data payload exactly equal to the
// sentinel is flagged rather than surfaced as data.
func TestSSEDecoder_Sentinel(t *testing.T) {
	decoder := NewSSEDecoder(WithSentinel("[DONE]"))

	events := feedString(decoder, "data: {\"a\":1}\n\ndata: [DONE]\n\n")
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Sentinel || !events[1].Sentinel {
		t.Errorf("sentinel flags wrong: %+v", events)
	}
}

// TestSSEDecoder_CRLF verifies framing with \r\n line endings.
func TestSSEDecoder_CRLF(t *testing.T) {
	decoder := NewSSEDecoder()

	events := feedString(decoder, "data: hello\r\n\r\n")
	if len(events) != 1 || string(events[0].Payload) != "hello" {
		t.Fatalf("expected payload %q, got %v", "hello", payloads(events))
	}
}

// TestSSEDecoder_FinishFlushesPendingEvent verifies that a final event whose
// blank-line terminator never arrived is flushed at end-of-body, including
// when its last line is missing the trailing newline.
func TestSSEDecoder_FinishFlushesPendingEvent(t *testing.T) {
	decoder := NewSSEDecoder()
	feedString(decoder, "data: tail")

	events, residual := decoder.Finish()
	if len(events) != 1 || string(events[0].Payload) != "tail" {
		t.Fatalf("expected flushed event %q, got %v", "tail", payloads(events))
	}
	if residual != nil {
		t.Errorf("expected no residual, got %q", residual)
	}
}

// TestSSEDecoder_FinishEmpty verifies a clean finish on an exhausted stream.
func TestSSEDecoder_FinishEmpty(t *testing.T) {
	decoder := NewSSEDecoder()
	feedString(decoder, "data: a\n\n")

	events, residual := decoder.Finish()
	if len(events) != 0 || residual != nil {
		t.Errorf("expected clean finish, got events=%v residual=%q", events, residual)
	}
}
