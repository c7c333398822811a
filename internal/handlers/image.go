package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"thinkink-backend/internal/middleware"
	"thinkink-backend/internal/models"
	"thinkink-backend/internal/services"
)

type ImageHandler struct {
	imageService *services.ImageService
	recorder     *services.Recorder
	uploadDir    string
	maxUploadMB  int64
}

func NewImageHandler(imageService *services.ImageService, recorder *services.Recorder, uploadDir string, maxUploadMB int64) *ImageHandler {
	return &ImageHandler{imageService: imageService, recorder: recorder, uploadDir: uploadDir, maxUploadMB: maxUploadMB}
}

func (h *ImageHandler) Process(w http.ResponseWriter, r *http.Request) {
	path, filename, ok := receiveUpload(w, r, services.SupportedImageExtensions, filepath.Join(h.uploadDir, "images"), h.maxUploadMB)
	if !ok {
		return
	}
	defer os.Remove(path)

	userID := middleware.GetUserID(r.Context())
	result, err := h.imageService.Process(r.Context(), userID, path, filename)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *ImageHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	stats, err := h.recorder.Stats(r.Context(), userID, models.FeatureImage)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
