package handlers

import (
	"encoding/json"
	"net/http"

	"thinkink-backend/internal/middleware"
	"thinkink-backend/internal/models"
	"thinkink-backend/internal/services"
)

type MindmapHandler struct {
	study *services.StudyService
}

func NewMindmapHandler(study *services.StudyService) *MindmapHandler {
	return &MindmapHandler{study: study}
}

func (h *MindmapHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.MindmapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	mindmap, err := h.study.CreateMindmap(r.Context(), userID, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mindmap)
}

func (h *MindmapHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	stats, err := h.study.Stats(r.Context(), userID, models.FeatureMindmap)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
