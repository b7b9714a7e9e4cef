package handlers

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"mapkeeper/application/rationale"
	"mapkeeper/domain/quote"
	"mapkeeper/infrastructure/config"
	"mapkeeper/pkg/utils"
)

// RationaleHandler handles rationale and narration HTTP requests
type RationaleHandler struct {
	rationales *rationale.Service
	config     *config.Config
	logger     *zap.Logger
}

// NewRationaleHandler creates a new rationale handler
func NewRationaleHandler(rationales *rationale.Service, cfg *config.Config, logger *zap.Logger) *RationaleHandler {
	return &RationaleHandler{
		rationales: rationales,
		config:     cfg,
		logger:     logger,
	}
}

// RationaleRequest represents the request body for explaining a suggestion.
// Seed is nil for an opening quote.
type RationaleRequest struct {
	Seed         *quote.Quote `json:"seed,omitempty"`
	Suggestion   quote.Quote  `json:"suggestion"`
	SystemPrompt string       `json:"systemPrompt,omitempty"`
	Model        string       `json:"model,omitempty"`
	Temperature  *float64     `json:"temperature,omitempty" validate:"omitempty,gte=0,lte=2"`
	MaxTokens    *int64       `json:"maxTokens,omitempty" validate:"omitempty,gt=0,lte=4096"`
}

// RationaleResponse represents the response for a rationale request
type RationaleResponse struct {
	Suggestion quote.Rationale `json:"suggestion"`
}

// NarrationRequest represents the request body for narrating an accepted path
type NarrationRequest struct {
	Path         []quote.Quote `json:"path"`
	SystemPrompt string        `json:"systemPrompt,omitempty"`
	Model        string        `json:"model,omitempty"`
	Temperature  *float64      `json:"temperature,omitempty" validate:"omitempty,gte=0,lte=2"`
	MaxTokens    *int64        `json:"maxTokens,omitempty" validate:"omitempty,gt=0,lte=4096"`
}

// NarrationResponse represents the response for a narration request
type NarrationResponse struct {
	Path      []string `json:"path"`
	Narration string   `json:"narration"`
}

// Explain handles POST /rationale
func (h *RationaleHandler) Explain(w http.ResponseWriter, r *http.Request) {
	var req RationaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if strings.TrimSpace(req.Suggestion.Text) == "" {
		h.respondError(w, http.StatusBadRequest, "Missing suggestion text.")
		return
	}

	cfg := h.promptConfig(req.SystemPrompt, req.Model, req.Temperature, req.MaxTokens)
	result := h.rationales.Explain(r.Context(), req.Seed, req.Suggestion, cfg, clientIdentity(r))

	h.respondJSON(w, http.StatusOK, RationaleResponse{Suggestion: result})
}

// Narrate handles POST /narration
func (h *RationaleHandler) Narrate(w http.ResponseWriter, r *http.Request) {
	var req NarrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if !validPath(req.Path) {
		h.respondError(w, http.StatusBadRequest, "Missing or invalid path.")
		return
	}

	cfg := h.promptConfig(req.SystemPrompt, req.Model, req.Temperature, req.MaxTokens)
	narration := h.rationales.Narrate(r.Context(), req.Path, cfg, clientIdentity(r))

	ids := make([]string, len(req.Path))
	for i, q := range req.Path {
		ids[i] = q.ID
	}

	h.respondJSON(w, http.StatusOK, NarrationResponse{Path: ids, Narration: narration})
}

// promptConfig overlays per-request overrides on the configured defaults.
func (h *RationaleHandler) promptConfig(systemPrompt, model string, temperature *float64, maxTokens *int64) rationale.PromptConfig {
	cfg := rationale.PromptConfig{
		SystemPrompt: systemPrompt,
		Model:        model,
		Temperature:  temperature,
		MaxTokens:    maxTokens,
	}
	if cfg.Model == "" {
		cfg.Model = h.config.AIModel
	}
	if cfg.Temperature == nil {
		t := h.config.AITemperature
		cfg.Temperature = &t
	}
	if cfg.MaxTokens == nil {
		m := int64(h.config.AIMaxTokens)
		cfg.MaxTokens = &m
	}
	return cfg
}

// validPath reports whether a narration path is usable: non-empty, with text
// on every waypoint.
func validPath(path []quote.Quote) bool {
	if len(path) == 0 {
		return false
	}
	for _, q := range path {
		if strings.TrimSpace(q.Text) == "" {
			return false
		}
	}
	return true
}

// clientIdentity derives the rate-limit identity for a request. RealIP
// middleware has already rewritten RemoteAddr from forwarding headers.
func clientIdentity(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (h *RationaleHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (h *RationaleHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]interface{}{
		"error":   true,
		"message": message,
		"code":    status,
	})
}
