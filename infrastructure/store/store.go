// Package store loads and serves the in-memory quote corpus.
package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"

	"go.uber.org/zap"

	"mapkeeper/domain/quote"
	pkgerrors "mapkeeper/pkg/errors"
)

// Store is the read-only corpus snapshot: quote records keyed by id plus the
// precomputed neighbor adjacency. It is never mutated after Load, so reads
// need no locking.
type Store struct {
	quotes    map[string]quote.Quote
	order     []string
	neighbors map[string][]string
}

// New builds a store from already-parsed records. Records failing validation
// or duplicating an id make the whole snapshot invalid: the store must never
// be partially populated.
func New(quotes []quote.Quote, neighbors map[string][]string) (*Store, error) {
	s := &Store{
		quotes:    make(map[string]quote.Quote, len(quotes)),
		order:     make([]string, 0, len(quotes)),
		neighbors: neighbors,
	}
	if s.neighbors == nil {
		s.neighbors = make(map[string][]string)
	}

	for _, q := range quotes {
		if err := q.Validate(); err != nil {
			return nil, err
		}
		if _, exists := s.quotes[q.ID]; exists {
			return nil, pkgerrors.NewValidationError(fmt.Sprintf("duplicate quote id %q", q.ID))
		}
		s.quotes[q.ID] = q
		s.order = append(s.order, q.ID)
	}

	return s, nil
}

// Load reads the corpus from a JSONL quotes file and a JSON neighbors file.
// A corpus failure is reported once and leaves the store empty. A neighbors
// failure is only logged: the adjacency is advisory and the engine still
// works from lexical overlap alone.
func Load(quotesPath, neighborsPath string, logger *zap.Logger) *Store {
	quotes, err := readQuotes(quotesPath)
	if err != nil {
		logger.Error("Failed to load quote corpus, starting empty",
			zap.String("path", quotesPath),
			zap.Error(err),
		)
		empty, _ := New(nil, nil)
		return empty
	}

	neighbors, err := readNeighbors(neighborsPath)
	if err != nil {
		logger.Warn("Failed to load neighbor mapping, continuing without graph",
			zap.String("path", neighborsPath),
			zap.Error(err),
		)
		neighbors = nil
	}

	s, err := New(quotes, neighbors)
	if err != nil {
		logger.Error("Invalid quote corpus, starting empty",
			zap.String("path", quotesPath),
			zap.Error(err),
		)
		empty, _ := New(nil, nil)
		return empty
	}

	logger.Info("Quote corpus loaded",
		zap.Int("quotes", s.Len()),
		zap.Int("neighborLists", len(s.neighbors)),
	)
	return s
}

// Get resolves a quote by id.
func (s *Store) Get(id string) (quote.Quote, bool) {
	q, ok := s.quotes[id]
	return q, ok
}

// All returns every quote in ingestion order.
func (s *Store) All() []quote.Quote {
	out := make([]quote.Quote, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.quotes[id])
	}
	return out
}

// Neighbors returns the neighbor ids for a quote, closest first. Ids absent
// from the snapshot may appear here; callers skip them.
func (s *Store) Neighbors(id string) []string {
	return s.neighbors[id]
}

// Random returns an arbitrary quote, used for seedless session starts.
func (s *Store) Random() (quote.Quote, bool) {
	if len(s.order) == 0 {
		return quote.Quote{}, false
	}
	return s.quotes[s.order[rand.Intn(len(s.order))]], true
}

// Len reports the snapshot size.
func (s *Store) Len() int {
	return len(s.order)
}

// readQuotes parses a JSONL file of quote records.
func readQuotes(path string) ([]quote.Quote, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var quotes []quote.Quote
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var q quote.Quote
		if err := json.Unmarshal(raw, &q); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		quotes = append(quotes, q)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return quotes, nil
}

// readNeighbors parses the id -> ordered neighbor ids mapping.
func readNeighbors(path string) (map[string][]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	neighbors := make(map[string][]string)
	if err := json.Unmarshal(raw, &neighbors); err != nil {
		return nil, err
	}
	return neighbors, nil
}
