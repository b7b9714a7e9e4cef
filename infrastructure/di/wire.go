//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"mapkeeper/application/ports"
	"mapkeeper/application/rationale"
	"mapkeeper/application/suggest"
	"mapkeeper/infrastructure/config"
)

// Container holds all application dependencies
type Container struct {
	Config           *config.Config
	Logger           *zap.Logger
	QuoteStore       ports.QuoteStore
	ResponseCache    ports.ResponseCache
	RateLimiter      ports.RateLimiter
	AIClient         ports.AIClient
	SuggestService   *suggest.Service
	RationaleService *rationale.Service
}

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideQuoteStore,
	ProvideResponseCache,
	ProvideRateLimiter,
	ProvideAIClient,
	ProvideRanker,
	ProvideSuggestService,
	ProvideRationaleService,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
