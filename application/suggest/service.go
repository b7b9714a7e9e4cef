// Package suggest implements candidate discovery and ranking over the quote
// graph: the part of the engine that decides what to show next.
package suggest

import (
	"go.uber.org/zap"

	"mapkeeper/application/ports"
	"mapkeeper/domain/quote"
	pkgerrors "mapkeeper/pkg/errors"
)

// Service runs one suggestion flow: resolve the seed, generate candidates,
// rank them. It is stateless between calls; the recency exclusions arrive
// with each request because the path itself lives with the caller.
type Service struct {
	store      ports.QuoteStore
	ranker     *Ranker
	recencyCap int
	logger     *zap.Logger
}

// NewService creates a suggestion service.
func NewService(store ports.QuoteStore, ranker *Ranker, recencyCap int, logger *zap.Logger) *Service {
	if recencyCap <= 0 {
		recencyCap = DefaultRecencyCapacity
	}
	return &Service{
		store:      store,
		ranker:     ranker,
		recencyCap: recencyCap,
		logger:     logger,
	}
}

// Suggest resolves seedID (or picks a random seed when empty), excludes
// recentIDs, and returns the seed plus the full ranked order so callers can
// serve "show another" without recomputation. An empty ranked slice means
// exploration is exhausted for this seed.
func (s *Service) Suggest(seedID string, recentIDs []string) (quote.Quote, []quote.Quote, error) {
	var seed quote.Quote
	var ok bool

	if seedID == "" {
		seed, ok = s.store.Random()
		if !ok {
			return quote.Quote{}, nil, pkgerrors.NewNotFoundError("quote corpus")
		}
	} else {
		seed, ok = s.store.Get(seedID)
		if !ok {
			return quote.Quote{}, nil, pkgerrors.NewNotFoundError("seed quote")
		}
	}

	recent := NewRecency(s.recencyCap)
	for _, id := range recentIDs {
		recent.Add(id)
	}

	candidates := Generate(seed, s.store, recent)
	if len(candidates) == 0 {
		s.logger.Info("Exploration exhausted for seed", zap.String("seedID", seed.ID))
		return seed, nil, nil
	}

	ranked := s.ranker.Rank(candidates, seed, s.store.Neighbors(seed.ID))

	s.logger.Debug("Ranked suggestion candidates",
		zap.String("seedID", seed.ID),
		zap.Int("candidates", len(ranked)),
		zap.String("top", ranked[0].ID),
	)
	return seed, ranked, nil
}
