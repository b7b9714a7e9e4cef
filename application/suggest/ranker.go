package suggest

import (
	"math/rand"
	"sort"

	"mapkeeper/domain/quote"
)

// Ranking weights. All terms are additive.
const (
	graphWeight   = 0.5
	lexicalWeight = 0.3
	noveltyBonus  = 0.1
	jitterScale   = 0.1
)

// Ranker orders candidates by a weighted combination of graph proximity,
// lexical similarity, novelty, and a small exploration jitter.
type Ranker struct {
	jitter func() float64
}

// NewRanker creates a ranker. The jitter source returns values in [0, 1) and
// is scaled to [0, 0.1); pass a constant zero source for deterministic tests.
func NewRanker(jitter func() float64) *Ranker {
	if jitter == nil {
		jitter = rand.Float64
	}
	return &Ranker{jitter: jitter}
}

// Rank returns the candidates in descending score order. The output is a
// permutation of the input. Ties fall back to quote id ascending so a pinned
// jitter source yields a reproducible order.
func (r *Ranker) Rank(candidates []quote.Quote, seed quote.Quote, neighbors []string) []quote.Quote {
	position := make(map[string]int, len(neighbors))
	for i, id := range neighbors {
		position[id] = i
	}

	seedTokens := quote.TokenSet(seed.Text)

	type scored struct {
		q     quote.Quote
		score float64
	}
	ranked := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, scored{q: c, score: r.score(c, seed, seedTokens, position, len(neighbors))})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].q.ID < ranked[j].q.ID
	})

	out := make([]quote.Quote, len(ranked))
	for i, s := range ranked {
		out[i] = s.q
	}
	return out
}

func (r *Ranker) score(c, seed quote.Quote, seedTokens map[string]struct{}, position map[string]int, neighborCount int) float64 {
	var score float64

	if i, ok := position[c.ID]; ok && neighborCount > 0 {
		score += float64(neighborCount-i) / float64(neighborCount) * graphWeight
	}

	score += quote.Overlap(seedTokens, quote.TokenSet(c.Text)) * lexicalWeight

	if c.Author != seed.Author {
		score += noveltyBonus
	}
	if c.BookTitle != seed.BookTitle {
		score += noveltyBonus
	}

	score += r.jitter() * jitterScale
	return score
}
