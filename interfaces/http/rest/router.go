package rest

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"mapkeeper/application/ports"
	"mapkeeper/application/rationale"
	"mapkeeper/application/suggest"
	"mapkeeper/infrastructure/config"
	"mapkeeper/interfaces/http/rest/handlers"
	"mapkeeper/interfaces/http/rest/middleware"
)

// Router creates and configures the HTTP router
type Router struct {
	config      *config.Config
	suggestions *suggest.Service
	rationales  *rationale.Service
	store       ports.QuoteStore
	logger      *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	suggestions *suggest.Service,
	rationales *rationale.Service,
	store ports.QuoteStore,
	logger *zap.Logger,
) *Router {
	return &Router{
		config:      cfg,
		suggestions: suggestions,
		rationales:  rationales,
		store:       store,
		logger:      logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	// API v1 routes
	router.Route("/api/v1", func(r chi.Router) {
		suggestionHandler := handlers.NewSuggestionHandler(rt.suggestions, rt.logger)
		r.Post("/suggestions", suggestionHandler.Suggest)

		rationaleHandler := handlers.NewRationaleHandler(rt.rationales, rt.config, rt.logger)
		r.Post("/rationale", rationaleHandler.Explain)
		r.Post("/narration", rationaleHandler.Narrate)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests. The engine is ready once
// the corpus snapshot holds at least one quote.
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	size := rt.store.Len()
	if size == 0 {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"not ready","reason":"quote corpus is empty"}`))
		return
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ready","quotes":%d}`, size)
}
