package handlers

import (
	"encoding/json"
	"net/http"

	"thinkink-backend/internal/ai"
	"thinkink-backend/internal/middleware"
	"thinkink-backend/internal/models"
	"thinkink-backend/internal/services"
)

type ELI5Handler struct {
	study *services.StudyService
}

func NewELI5Handler(study *services.StudyService) *ELI5Handler {
	return &ELI5Handler{study: study}
}

func (h *ELI5Handler) Simplify(w http.ResponseWriter, r *http.Request) {
	var req models.ELI5Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	result, err := h.study.Simplify(r.Context(), userID, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *ELI5Handler) ComplexityLevels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"complexity_levels": ai.ComplexityLevels(),
		"default":           "basic",
	})
}

func (h *ELI5Handler) Stats(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	stats, err := h.study.Stats(r.Context(), userID, models.FeatureELI5)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
