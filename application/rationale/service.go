// Package rationale produces connection explanations for suggested quotes,
// backed by an AI client with caching and rate-limiting discipline.
package rationale

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"mapkeeper/application/ports"
	"mapkeeper/domain/quote"
	"mapkeeper/pkg/hash"
)

// Service answers "why does this quote follow from that one". It never fails
// from the caller's point of view: every path through Explain ends in a
// non-null Rationale, degraded if necessary.
type Service struct {
	cache   ports.ResponseCache
	limiter ports.RateLimiter
	client  ports.AIClient
	logger  *zap.Logger
}

// NewService creates a rationale service.
func NewService(cache ports.ResponseCache, limiter ports.RateLimiter, client ports.AIClient, logger *zap.Logger) *Service {
	return &Service{
		cache:   cache,
		limiter: limiter,
		client:  client,
		logger:  logger,
	}
}

// cacheKey derives the deterministic key for a suggestion/prompt pair:
// quote:<id>:<hash32(systemPrompt)>. Identical prompts collapse to one cache
// partition; different prompts for the same quote cache independently.
func cacheKey(suggestionID, systemPrompt string) string {
	return fmt.Sprintf("quote:%s:%d", suggestionID, hash.Rolling32(systemPrompt))
}

// Explain returns the connection rationale for a seed/suggestion pair. The
// order is fixed and load-bearing: cache check, then rate limit, then the AI
// call. A cache hit skips the limiter entirely, and a rate-limited miss
// degrades without ever reaching the AI client.
func (s *Service) Explain(ctx context.Context, seed *quote.Quote, suggestion quote.Quote, cfg PromptConfig, clientID string) quote.Rationale {
	key := cacheKey(suggestion.ID, cfg.systemPrompt())

	if cached, ok := s.cache.Get(key); ok {
		s.logger.Debug("Rationale cache hit", zap.String("key", key))
		return cached
	}

	if !s.limiter.Allow(clientID) {
		s.logger.Info("Rationale request rate limited",
			zap.String("clientID", clientID),
			zap.String("suggestionID", suggestion.ID),
		)
		return degraded(suggestion)
	}

	messages := []ports.Message{
		{Role: "system", Content: cfg.systemPrompt()},
		{Role: "user", Content: connectionPrompt(seed, suggestion)},
	}

	content, err := s.client.Complete(ctx, messages, cfg.options())
	if err != nil {
		s.logger.Warn("AI completion failed, serving fallback rationale",
			zap.String("suggestionID", suggestion.ID),
			zap.Error(err),
		)
		return degradedFor(err, suggestion)
	}

	parsed, err := parseRationale(content)
	if err != nil {
		s.logger.Warn("AI completion unparseable, serving fallback rationale",
			zap.String("suggestionID", suggestion.ID),
			zap.Error(err),
		)
		return degradedFor(err, suggestion)
	}

	result := normalize(parsed, suggestion)
	s.cache.Set(key, result)
	return result
}

// Narrate produces a one-paragraph narration of an accepted path. Like
// Explain it degrades instead of failing; narrations are not cached because
// a growing path never repeats its request identity.
func (s *Service) Narrate(ctx context.Context, path []quote.Quote, cfg PromptConfig, clientID string) string {
	if !s.limiter.Allow(clientID) {
		s.logger.Info("Narration request rate limited", zap.String("clientID", clientID))
		return fallbackNarration(path)
	}

	messages := []ports.Message{
		{Role: "system", Content: cfg.systemPrompt()},
		{Role: "user", Content: narrationPrompt(path)},
	}

	content, err := s.client.Complete(ctx, messages, cfg.options())
	if err != nil {
		s.logger.Warn("Narration completion failed, serving fallback", zap.Error(err))
		return fallbackNarration(path)
	}

	narration := strings.TrimSpace(content)
	if narration == "" {
		return fallbackNarration(path)
	}
	return narration
}

// parseRationale decodes the structured JSON reply.
func parseRationale(content string) (quote.Rationale, error) {
	var r quote.Rationale
	if err := json.Unmarshal([]byte(content), &r); err != nil {
		return quote.Rationale{}, err
	}
	return r, nil
}

// normalize fills gaps in a parsed rationale: a blank title falls back to a
// derived one, unknown labels are dropped, and an empty label list defaults
// to adjacent. The 50-character title limit is intent, not enforcement.
func normalize(r quote.Rationale, suggestion quote.Quote) quote.Rationale {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		r.Title = fallbackTitle(suggestion)
	}
	r.Rationale = strings.TrimSpace(r.Rationale)

	labels := r.Labels[:0]
	for _, l := range r.Labels {
		l = strings.ToLower(strings.TrimSpace(l))
		if quote.ValidLabel(l) {
			labels = append(labels, l)
		}
	}
	if len(labels) == 0 {
		labels = []string{quote.LabelAdjacent}
	}
	r.Labels = labels

	return r
}
