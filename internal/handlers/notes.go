package handlers

import (
	"encoding/json"
	"net/http"

	"thinkink-backend/internal/middleware"
	"thinkink-backend/internal/models"
	"thinkink-backend/internal/services"
)

type NotesHandler struct {
	study *services.StudyService
}

func NewNotesHandler(study *services.StudyService) *NotesHandler {
	return &NotesHandler{study: study}
}

func (h *NotesHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	var req models.SummarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	result, err := h.study.Summarize(r.Context(), userID, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *NotesHandler) ExtractKeyPoints(w http.ResponseWriter, r *http.Request) {
	var req models.KeyPointsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	result, err := h.study.KeyPoints(r.Context(), userID, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *NotesHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	stats, err := h.study.Stats(r.Context(), userID, models.FeatureNotes)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
