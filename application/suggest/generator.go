package suggest

import (
	"mapkeeper/application/ports"
	"mapkeeper/domain/quote"
)

// minSharedTokens is how many long tokens two quotes must share before
// lexical overlap alone qualifies a candidate.
const minSharedTokens = 2

// Generate produces the deduplicated candidate set for a seed: graph
// neighbors resolved against the store, unioned with quotes sharing enough
// long tokens with the seed. The seed itself and recency-excluded ids never
// appear. An empty result means exploration is exhausted, not an error.
func Generate(seed quote.Quote, store ports.QuoteStore, recent *Recency) []quote.Quote {
	seen := make(map[string]struct{})
	var candidates []quote.Quote

	admit := func(q quote.Quote) {
		if q.ID == seed.ID || recent.Contains(q.ID) {
			return
		}
		if _, dup := seen[q.ID]; dup {
			return
		}
		seen[q.ID] = struct{}{}
		candidates = append(candidates, q)
	}

	// Graph neighbors first, in similarity order. Stale ids are advisory and
	// skipped silently.
	for _, id := range store.Neighbors(seed.ID) {
		if q, ok := store.Get(id); ok {
			admit(q)
		}
	}

	// Lexical overlap is computed independently of the graph.
	seedTokens := quote.TokenSet(seed.Text)
	for _, q := range store.All() {
		if q.ID == seed.ID {
			continue
		}
		if quote.SharedLongTokens(seedTokens, quote.TokenSet(q.Text)) >= minSharedTokens {
			admit(q)
		}
	}

	return candidates
}
