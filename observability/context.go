package observability

import "context"

// contextKey is a private type for context keys to avoid collisions.
type contextKey struct{}

var observerContextKey = contextKey{}

// ContextWithObserver returns a new context with the given observer attached.
func ContextWithObserver(ctx context.Context, observer Observer) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, observerContextKey, observer)
}

// ObserverFromContext extracts an Observer from the context.
// Returns nil if no observer is present.
func ObserverFromContext(ctx context.Context) Observer {
	if ctx == nil {
		return nil
	}
	observer, _ := ctx.Value(observerContextKey).(Observer)
	return observer
}
