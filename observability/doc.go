// Package observability defines the structured-logging surface used across
// the streamnorm library.
//
// The central type is [Observer], a levelled structured logger that callers
// attach to a [context.Context] with [ContextWithObserver]. The stream driver
// and provider packages retrieve it with [ObserverFromContext] and record
// lifecycle observations (stream opened, completed, failed) using the
// attribute-key constants in semconv.go, keeping attribute names consistent
// across components. With no observer in the context, observation is a no-op.
//
// The slogobs subpackage provides an Observer backed by log/slog.
package observability
