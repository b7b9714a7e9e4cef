package di

import (
	"time"

	"go.uber.org/zap"

	"mapkeeper/application/ports"
	"mapkeeper/application/rationale"
	"mapkeeper/application/suggest"
	"mapkeeper/infrastructure/ai"
	"mapkeeper/infrastructure/cache"
	"mapkeeper/infrastructure/config"
	"mapkeeper/infrastructure/store"
	"mapkeeper/pkg/ratelimit"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideQuoteStore loads the corpus snapshot. A load failure leaves the
// store empty; the engine still serves health checks and validation errors.
func ProvideQuoteStore(cfg *config.Config, logger *zap.Logger) ports.QuoteStore {
	return store.Load(cfg.QuotesFile, cfg.NeighborsFile, logger)
}

// ProvideResponseCache creates the rationale cache
func ProvideResponseCache(cfg *config.Config) ports.ResponseCache {
	return cache.NewResponseCache(time.Duration(cfg.CacheTTLSeconds) * time.Second)
}

// ProvideRateLimiter creates the per-identity sliding window limiter
func ProvideRateLimiter(cfg *config.Config) ports.RateLimiter {
	return ratelimit.NewSlidingWindowLimiter(cfg.RateLimit, time.Duration(cfg.RateWindowSeconds)*time.Second)
}

// ProvideAIClient creates the chat completion client
func ProvideAIClient(cfg *config.Config) ports.AIClient {
	return ai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)
}

// ProvideRanker creates the candidate ranker with its default jitter source
func ProvideRanker() *suggest.Ranker {
	return suggest.NewRanker(nil)
}

// ProvideSuggestService creates the suggestion service
func ProvideSuggestService(
	quoteStore ports.QuoteStore,
	ranker *suggest.Ranker,
	cfg *config.Config,
	logger *zap.Logger,
) *suggest.Service {
	return suggest.NewService(quoteStore, ranker, cfg.RecentCapacity, logger)
}

// ProvideRationaleService creates the rationale service
func ProvideRationaleService(
	responseCache ports.ResponseCache,
	limiter ports.RateLimiter,
	client ports.AIClient,
	logger *zap.Logger,
) *rationale.Service {
	return rationale.NewService(responseCache, limiter, client, logger)
}
