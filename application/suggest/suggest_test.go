package suggest

import (
	"mapkeeper/domain/quote"
)

// stubStore is an in-memory ports.QuoteStore double for suggestion tests
type stubStore struct {
	quotes    []quote.Quote
	neighbors map[string][]string
}

func (s *stubStore) Get(id string) (quote.Quote, bool) {
	for _, q := range s.quotes {
		if q.ID == id {
			return q, true
		}
	}
	return quote.Quote{}, false
}

func (s *stubStore) All() []quote.Quote {
	return s.quotes
}

func (s *stubStore) Neighbors(id string) []string {
	return s.neighbors[id]
}

func (s *stubStore) Random() (quote.Quote, bool) {
	if len(s.quotes) == 0 {
		return quote.Quote{}, false
	}
	return s.quotes[0], true
}

func (s *stubStore) Len() int {
	return len(s.quotes)
}

// socratesCorpus is the shared fixture: q1 has graph neighbors q2 and q3,
// while q4 connects only through lexical overlap with q1's text.
func socratesCorpus() *stubStore {
	return &stubStore{
		quotes: []quote.Quote{
			{ID: "q1", Text: "the unexamined life is not worth living", Author: "Socrates"},
			{ID: "q2", Text: "entirely unrelated words about rivers and stones", Author: "Heraclitus"},
			{ID: "q3", Text: "different phrasing on another topic altogether", Author: "Epictetus"},
			{ID: "q4", Text: "a life well examined is worth living", Author: "Seneca", BookTitle: "Letters"},
		},
		neighbors: map[string][]string{
			"q1": {"q2", "q3"},
		},
	}
}

func zeroJitter() float64 {
	return 0
}
