package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"mapkeeper/application/suggest"
	"mapkeeper/domain/quote"
	pkgerrors "mapkeeper/pkg/errors"
	"mapkeeper/pkg/utils"
)

// SuggestionHandler handles suggestion-related HTTP requests
type SuggestionHandler struct {
	suggestions *suggest.Service
	logger      *zap.Logger
}

// NewSuggestionHandler creates a new suggestion handler
func NewSuggestionHandler(suggestions *suggest.Service, logger *zap.Logger) *SuggestionHandler {
	return &SuggestionHandler{
		suggestions: suggestions,
		logger:      logger,
	}
}

// SuggestRequest represents the request body for requesting suggestions
type SuggestRequest struct {
	SeedID    string   `json:"seed_id,omitempty"`
	RecentIDs []string `json:"recent_ids,omitempty" validate:"omitempty,max=100,dive,required"`
}

// SuggestResponse represents the response for a suggestion request
type SuggestResponse struct {
	Seed        quote.Quote   `json:"seed"`
	Suggestions []quote.Quote `json:"suggestions"`
	Message     string        `json:"message,omitempty"`
}

// Suggest handles POST /suggestions. An empty body (or empty seed_id) asks
// for a random seed.
func (h *SuggestionHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req SuggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	seed, ranked, err := h.suggestions.Suggest(req.SeedID, req.RecentIDs)
	if err != nil {
		appErr := pkgerrors.GetAppError(err)
		if appErr != nil {
			h.respondError(w, appErr.HTTPStatus, appErr.Message)
			return
		}
		h.logger.Error("Suggestion flow failed",
			zap.String("seedID", req.SeedID),
			zap.Error(err),
		)
		h.respondError(w, http.StatusInternalServerError, "Failed to generate suggestions")
		return
	}

	response := SuggestResponse{
		Seed:        seed,
		Suggestions: ranked,
	}
	if len(ranked) == 0 {
		response.Suggestions = []quote.Quote{}
		response.Message = "no suggestions available"
	}

	h.respondJSON(w, http.StatusOK, response)
}

func (h *SuggestionHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (h *SuggestionHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]interface{}{
		"error":   true,
		"message": message,
		"code":    status,
	})
}
