package observability

import (
	"context"
	"testing"
)

type nopObserver struct{}

func (nopObserver) Trace(context.Context, string, ...Attribute) {}
func (nopObserver) Debug(context.Context, string, ...Attribute) {}
func (nopObserver) Info(context.Context, string, ...Attribute)  {}
func (nopObserver) Warn(context.Context, string, ...Attribute)  {}
func (nopObserver) Error(context.Context, string, ...Attribute) {}

// TestObserverRoundTrip verifies that the observer stored with
// ContextWithObserver is the exact instance returned by ObserverFromContext.
func TestObserverRoundTrip(t *testing.T) {
	observer := &nopObserver{}
	ctx := ContextWithObserver(context.Background(), observer)

	retrieved := ObserverFromContext(ctx)
	if retrieved == nil {
		t.Fatal("ObserverFromContext returned nil; expected the stored observer")
	}
	if retrieved != observer {
		t.Error("ObserverFromContext returned a different instance; pointer equality expected")
	}
}

// TestObserverFromContext_MissingKey ensures that a plain context with no
// observer yields nil rather than panicking.
func TestObserverFromContext_MissingKey(t *testing.T) {
	if observer := ObserverFromContext(context.Background()); observer != nil {
		t.Errorf("expected nil observer, got %v", observer)
	}
}

// TestObserverFromContext_NilContext ensures passing a nil context does not
// panic.
func TestObserverFromContext_NilContext(t *testing.T) {
	//nolint:staticcheck // deliberately exercising the nil-context path
	if observer := ObserverFromContext(nil); observer != nil {
		t.Errorf("expected nil observer, got %v", observer)
	}
}

// TestErrorAttribute verifies the nil-error convenience behavior.
func TestErrorAttribute(t *testing.T) {
	attr := Error(nil)
	if attr.Key != "error" || attr.Value != "" {
		t.Errorf("expected empty error attribute, got %+v", attr)
	}
}
