package huggingface

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/streamnorm/streamnorm"
)

// TestTextGeneration_Token verifies that a visible token maps to a text
// fragment.
func TestTextGeneration_Token(t *testing.T) {
	parse := TextGeneration()

	frag, err := parse([]byte(`{"token":{"id":42,"text":"Hi","special":false},"generated_text":null}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if frag.Type != streamnorm.FragmentText || frag.Text != "Hi" {
		t.Errorf("expected text fragment %q, got %+v", "Hi", frag)
	}
}

// TestTextGeneration_SpecialTokenIgnored verifies that special tokens carry
// no user-visible content.
func TestTextGeneration_SpecialTokenIgnored(t *testing.T) {
	parse := TextGeneration()

	frag, err := parse([]byte(`{"token":{"id":2,"text":"</s>","special":true},"generated_text":null}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if frag.Type != streamnorm.FragmentIgnore {
		t.Errorf("expected ignore fragment, got %+v", frag)
	}
}

// TestTextGeneration_FinalEvent verifies that a non-null generated_text ends
// the stream while keeping a visible final token.
func TestTextGeneration_FinalEvent(t *testing.T) {
	parse := TextGeneration()

	frag, err := parse([]byte(`{"token":{"id":9,"text":"!","special":false},"generated_text":"Hello!","details":{"finish_reason":"eos_token"}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if frag.Type != streamnorm.FragmentText || frag.Text != "!" || frag.FinishReason == "" {
		t.Errorf("expected final text fragment, got %+v", frag)
	}
}

// TestTextGeneration_Error verifies the provider error path.
func TestTextGeneration_Error(t *testing.T) {
	parse := TextGeneration()

	_, err := parse([]byte(`{"error":"Model is overloaded","error_type":"overloaded"}`))
	var providerErr *streamnorm.ProviderError
	if !errors.As(err, &providerErr) {
		t.Fatalf("expected *ProviderError, got %v", err)
	}
	if providerErr.Code != "overloaded" {
		t.Errorf("unexpected code: %q", providerErr.Code)
	}
}

// TestNewStream_SSE verifies driving a text-generation-inference SSE stream
// end to end.
func TestNewStream_SSE(t *testing.T) {
	body := strings.NewReader(
		"data: {\"token\":{\"id\":1,\"text\":\"Hel\",\"special\":false},\"generated_text\":null}\n\n" +
			"data: {\"token\":{\"id\":2,\"text\":\"lo\",\"special\":false},\"generated_text\":null}\n\n" +
			"data: {\"token\":{\"id\":3,\"text\":\"</s>\",\"special\":true},\"generated_text\":\"Hello\"}\n\n")

	stream := NewStream(context.Background(), body)

	full, err := stream.Collect()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if full != "Hello" {
		t.Errorf("expected %q, got %q", "Hello", full)
	}
	if stream.State() != streamnorm.StreamStateComplete {
		t.Errorf("expected StreamStateComplete, got %v", stream.State())
	}
}
