package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"thinkink-backend/internal/middleware"
	"thinkink-backend/internal/services"
)

type HistoryHandler struct {
	historyService *services.HistoryService
}

func NewHistoryHandler(historyService *services.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	featureType := r.URL.Query().Get("feature_type")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	records, err := h.historyService.List(r.Context(), userID, featureType, limit)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"history": records,
		"count":   len(records),
	})
}

func (h *HistoryHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))

	summary, err := h.historyService.Summary(r.Context(), userID, days)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (h *HistoryHandler) ByFeature(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	featureType := chi.URLParam(r, "type")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	records, err := h.historyService.List(r.Context(), userID, featureType, limit)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"feature_type": featureType,
		"history":      records,
		"count":        len(records),
	})
}

func (h *HistoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	recordID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid record ID", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.historyService.Delete(r.Context(), userID, recordID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Record deleted"})
}

func (h *HistoryHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	featureType := r.URL.Query().Get("feature_type")

	deleted, err := h.historyService.Clear(r.Context(), userID, featureType)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":       "History cleared",
		"deleted_count": deleted,
	})
}
