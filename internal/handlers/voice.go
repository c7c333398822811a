package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"thinkink-backend/internal/middleware"
	"thinkink-backend/internal/models"
	"thinkink-backend/internal/services"
)

type VoiceHandler struct {
	voiceService *services.VoiceService
	uploadDir    string
	maxUploadMB  int64
}

func NewVoiceHandler(voiceService *services.VoiceService, uploadDir string, maxUploadMB int64) *VoiceHandler {
	return &VoiceHandler{voiceService: voiceService, uploadDir: uploadDir, maxUploadMB: maxUploadMB}
}

func (h *VoiceHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	path, filename, ok := receiveUpload(w, r, services.SupportedAudioExtensions, filepath.Join(h.uploadDir, "audio"), h.maxUploadMB)
	if !ok {
		return
	}
	defer os.Remove(path)

	// Optional clip duration for timestamp estimation.
	duration, _ := strconv.ParseFloat(r.FormValue("duration"), 64)

	userID := middleware.GetUserID(r.Context())
	transcript, err := h.voiceService.Transcribe(r.Context(), userID, path, filename, duration)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, transcript)
}

func (h *VoiceHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	var req models.AnalyzeTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	result, err := h.voiceService.SummarizeText(r.Context(), userID, req.Text)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *VoiceHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req models.AnalyzeTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	analysis, err := h.voiceService.AnalyzeEmotion(r.Context(), userID, req.Text)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, analysis)
}

func (h *VoiceHandler) TextToSpeech(w http.ResponseWriter, r *http.Request) {
	var req models.TextToSpeechRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	path, err := h.voiceService.TextToSpeech(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Disposition", `attachment; filename="speech.mp3"`)
	http.ServeFile(w, r, path)
}

func (h *VoiceHandler) Formats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"supported_formats": services.SupportedAudioExtensions,
		"max_size_mb":       h.maxUploadMB,
	})
}

func (h *VoiceHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	stats, err := h.voiceService.Stats(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
