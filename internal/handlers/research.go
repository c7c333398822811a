package handlers

import (
	"encoding/json"
	"net/http"

	"thinkink-backend/internal/middleware"
	"thinkink-backend/internal/models"
	"thinkink-backend/internal/services"
)

type ResearchHandler struct {
	researchService *services.ResearchService
	historyService  *services.HistoryService
}

func NewResearchHandler(researchService *services.ResearchService, historyService *services.HistoryService) *ResearchHandler {
	return &ResearchHandler{researchService: researchService, historyService: historyService}
}

func (h *ResearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req models.ResearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	papers, err := h.researchService.Search(r.Context(), userID, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"papers": papers,
		"count":  len(papers),
	})
}

func (h *ResearchHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	records, err := h.historyService.List(r.Context(), userID, models.FeatureResearch, 0)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"history": records,
		"count":   len(records),
	})
}
