// Package ports defines the interfaces the application layer depends on.
// Implementations live in infrastructure/ and pkg/ and are wired by the DI
// container, which keeps the engine testable with in-memory doubles.
package ports

import (
	"context"

	"mapkeeper/domain/quote"
)

// QuoteStore is the read-only corpus: normalized quote records plus the
// precomputed neighbor adjacency.
type QuoteStore interface {
	// Get resolves a quote by id.
	Get(id string) (quote.Quote, bool)
	// All returns every quote in the snapshot.
	All() []quote.Quote
	// Neighbors returns the neighbor ids for a quote, closest first. Ids that
	// do not resolve against the current snapshot are advisory and must be
	// skipped by callers.
	Neighbors(id string) []string
	// Random returns an arbitrary quote for a seedless session start.
	Random() (quote.Quote, bool)
	// Len reports the snapshot size.
	Len() int
}

// ResponseCache is the time-boxed rationale cache shared by repeated requests
// for the same quote/prompt combination.
type ResponseCache interface {
	Get(key string) (quote.Rationale, bool)
	Set(key string, value quote.Rationale)
}

// RateLimiter bounds AI call volume per client identity. Allow records the
// request when it returns true.
type RateLimiter interface {
	Allow(key string) bool
}

// Message is one turn of a chat-style prompt.
type Message struct {
	Role    string
	Content string
}

// CompletionOptions tunes a single AI completion request.
type CompletionOptions struct {
	Model       string
	Temperature float64
	MaxTokens   int64
}

// AIClient performs exactly one chat completion request per call. Failures
// are typed through pkg/errors: UNAUTHORIZED, RATE_LIMIT, UPSTREAM, MALFORMED.
type AIClient interface {
	Complete(ctx context.Context, messages []Message, opts CompletionOptions) (string, error)
}
