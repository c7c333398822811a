package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"thinkink-backend/internal/middleware"
	"thinkink-backend/internal/services"
)

type PDFHandler struct {
	pdfService  *services.PDFService
	uploadDir   string
	maxUploadMB int64
}

func NewPDFHandler(pdfService *services.PDFService, uploadDir string, maxUploadMB int64) *PDFHandler {
	return &PDFHandler{pdfService: pdfService, uploadDir: uploadDir, maxUploadMB: maxUploadMB}
}

func (h *PDFHandler) Extract(w http.ResponseWriter, r *http.Request) {
	path, filename, ok := receiveUpload(w, r, services.SupportedPDFExtensions, filepath.Join(h.uploadDir, "pdf"), h.maxUploadMB)
	if !ok {
		return
	}
	defer os.Remove(path)

	userID := middleware.GetUserID(r.Context())
	result, err := h.pdfService.Extract(r.Context(), userID, path, filename)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *PDFHandler) Info(w http.ResponseWriter, r *http.Request) {
	path, filename, ok := receiveUpload(w, r, services.SupportedPDFExtensions, filepath.Join(h.uploadDir, "pdf"), h.maxUploadMB)
	if !ok {
		return
	}
	defer os.Remove(path)

	info, err := h.pdfService.Info(r.Context(), path)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("INVALID_PDF", "Could not read the PDF file", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"filename": filename,
		"info":     info,
	})
}

func (h *PDFHandler) Formats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"supported_formats": services.SupportedPDFExtensions,
		"max_size_mb":       h.maxUploadMB,
	})
}

func (h *PDFHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	stats, err := h.pdfService.Stats(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
