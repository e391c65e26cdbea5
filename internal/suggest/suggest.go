// Package suggest coordinates completion requests against an external
// completion engine: per-surface debouncing, request sequencing, stale
// response discard, and prefix caching.
package suggest

import (
	"context"
	"errors"
)

// Suggestion is a single ranked completion. Rank is a dense ascending
// integer assigned by the engine, 1 = best. Suggestions are immutable
// once received and lists keep engine order; they are never re-sorted
// client-side.
type Suggestion struct {
	Word string `json:"word"`
	Rank int    `json:"rank"`
}

// Request is a completion engine request.
type Request struct {
	Prefix string `json:"prefix"`
	Limit  int    `json:"limit"`
}

// Response is a completion engine response.
type Response struct {
	Suggestions []Suggestion `json:"suggestions"`
}

// Engine is the external completion engine. Implementations are opaque
// asynchronous services; the coordinator awaits Ready before the first
// Complete call and cancels superseded calls through the context.
type Engine interface {
	// Ready blocks until the engine can serve requests, or the context
	// is canceled.
	Ready(ctx context.Context) error

	// Complete returns ranked completions for a prefix.
	Complete(ctx context.Context, req Request) (Response, error)
}

// ErrEngineNotReady is returned when the engine never became ready.
var ErrEngineNotReady = errors.New("completion engine not ready")
