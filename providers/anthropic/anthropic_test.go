package anthropic

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/streamnorm/streamnorm"
)

// TestMessages_TextDelta verifies that a text_delta maps to a text fragment.
func TestMessages_TextDelta(t *testing.T) {
	parse := Messages()

	frag, err := parse([]byte(`{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"Hi"}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if frag.Type != streamnorm.FragmentText || frag.Text != "Hi" {
		t.Errorf("expected text fragment %q, got %+v", "Hi", frag)
	}
}

// TestMessages_LifecycleEventsIgnored verifies that lifecycle events carry no
// user-visible content.
func TestMessages_LifecycleEventsIgnored(t *testing.T) {
	parse := Messages()

	for _, payload := range []string{
		`{"type":"message_start","message":{"id":"msg_1"}}`,
		`{"type":"content_block_start","index":0,"content_block":{"type":"text"}}`,
		`{"type":"content_block_stop","index":0}`,
		`{"type":"ping"}`,
		`{"type":"content_block_delta","index":0,"delta":{"type":"thinking_delta","thinking":"hmm"}}`,
	} {
		frag, err := parse([]byte(payload))
		if err != nil {
			t.Fatalf("payload %s: unexpected error: %v", payload, err)
		}
		if frag.Type != streamnorm.FragmentIgnore {
			t.Errorf("payload %s: expected ignore, got %+v", payload, frag)
		}
	}
}

// TestMessages_MessageDeltaCarriesStopReason verifies that the stop reason on
// message_delta is reported without terminating the stream.
func TestMessages_MessageDeltaCarriesStopReason(t *testing.T) {
	parse := Messages()

	frag, err := parse([]byte(`{"type":"message_delta","delta":{"stop_reason":"end_turn"}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if frag.Type != streamnorm.FragmentIgnore || frag.FinishReason != "end_turn" {
		t.Errorf("expected ignore fragment carrying end_turn, got %+v", frag)
	}
}

// TestMessages_MessageStop verifies that message_stop terminates gracefully.
func TestMessages_MessageStop(t *testing.T) {
	parse := Messages()

	frag, err := parse([]byte(`{"type":"message_stop"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if frag.Type != streamnorm.FragmentDone {
		t.Errorf("expected done fragment, got %+v", frag)
	}
}

// TestMessages_ErrorEvent verifies that an error event surfaces the
// provider's payload.
func TestMessages_ErrorEvent(t *testing.T) {
	parse := Messages()

	_, err := parse([]byte(`{"type":"error","error":{"type":"overloaded_error","message":"busy"}}`))
	var providerErr *streamnorm.ProviderError
	if !errors.As(err, &providerErr) {
		t.Fatalf("expected *ProviderError, got %v", err)
	}
	if providerErr.Code != "overloaded_error" || providerErr.Message != "busy" {
		t.Errorf("unexpected error fields: %+v", providerErr)
	}
}

// TestMessages_MissingType verifies that an envelope without a type field is
// a parse error.
func TestMessages_MissingType(t *testing.T) {
	parse := Messages()

	_, err := parse([]byte(`{"delta":{"text":"x"}}`))
	var parseErr *streamnorm.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
}

// TestNewStream_FullLifecycle verifies driving a complete Messages SSE
// exchange through the normalized stream.
func TestNewStream_FullLifecycle(t *testing.T) {
	body := strings.NewReader(
		"event: message_start\ndata: {\"type\":\"message_start\",\"message\":{\"id\":\"msg_1\"}}\n\n" +
			"event: content_block_delta\ndata: {\"type\":\"content_block_delta\",\"index\":0,\"delta\":{\"type\":\"text_delta\",\"text\":\"Hello\"}}\n\n" +
			"event: content_block_delta\ndata: {\"type\":\"content_block_delta\",\"index\":0,\"delta\":{\"type\":\"text_delta\",\"text\":\" Claude\"}}\n\n" +
			"event: message_delta\ndata: {\"type\":\"message_delta\",\"delta\":{\"stop_reason\":\"end_turn\"}}\n\n" +
			"event: message_stop\ndata: {\"type\":\"message_stop\"}\n\n")

	stream := NewStream(context.Background(), body)

	full, err := stream.Collect()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if full != "Hello Claude" {
		t.Errorf("expected %q, got %q", "Hello Claude", full)
	}
	if stream.State() != streamnorm.StreamStateComplete {
		t.Errorf("expected StreamStateComplete, got %v", stream.State())
	}
	if stream.FinishReason() != "end_turn" {
		t.Errorf("expected finish reason %q, got %q", "end_turn", stream.FinishReason())
	}
}
