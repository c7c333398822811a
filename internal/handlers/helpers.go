package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"thinkink-backend/internal/ai"
	"thinkink-backend/internal/models"
	"thinkink-backend/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

func errorRespWithFields(code, message string, fields map[string]string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			Fields:    fields,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

// handleServiceError maps the service and AI error taxonomies onto the HTTP
// envelope. Internal causes go to the log keyed by request id; clients only
// ever see the stable code and a generic message.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var malformed *ai.MalformedResponseError
	var schemaErr *ai.SchemaValidationError
	var exhausted *ai.ExtractionExhaustedError

	switch e := err.(type) {
	case *services.ValidationError:
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", e.Fields, r))
		return
	case *services.ConflictError:
		writeJSON(w, http.StatusConflict, errorResp("CONFLICT", e.Message, r))
		return
	case *services.NotFoundError:
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", e.Message, r))
		return
	case *services.UnauthorizedError:
		writeJSON(w, http.StatusUnauthorized, errorResp("UNAUTHORIZED", e.Message, r))
		return
	case *services.ForbiddenError:
		writeJSON(w, http.StatusForbidden, errorResp("FORBIDDEN", e.Message, r))
		return
	case *services.RateLimitError:
		writeJSON(w, http.StatusTooManyRequests, errorResp("RATE_LIMITED", e.Message, r))
		return
	}

	requestID := r.Header.Get("X-Request-ID")

	switch {
	case errors.Is(err, ai.ErrBackendTimeout):
		log.Error().Err(err).Str("request_id", requestID).Msg("backend timeout")
		writeJSON(w, http.StatusGatewayTimeout, errorResp("BACKEND_TIMEOUT", "The AI backend took too long to respond", r))
	case errors.Is(err, ai.ErrBackendUnavailable):
		log.Error().Err(err).Str("request_id", requestID).Msg("backend unavailable")
		writeJSON(w, http.StatusBadGateway, errorResp("BACKEND_UNAVAILABLE", "The AI backend is currently unavailable", r))
	case errors.As(err, &malformed):
		log.Error().Err(err).Str("request_id", requestID).Msg("malformed backend response")
		writeJSON(w, http.StatusBadGateway, errorResp("AI_MALFORMED_RESPONSE", "The AI backend returned an unusable response", r))
	case errors.As(err, &schemaErr):
		log.Error().Err(err).Str("request_id", requestID).Msg("backend response failed schema validation")
		writeJSON(w, http.StatusBadGateway, errorResp("AI_SCHEMA_INVALID", "The AI backend returned an unusable response", r))
	case errors.As(err, &exhausted):
		log.Error().Err(err).Str("request_id", requestID).Msg("extraction exhausted")
		writeJSON(w, http.StatusBadGateway, errorResp("EXTRACTION_FAILED", "Could not extract usable content from the input", r))
	case errors.Is(err, services.ErrExportUnavailable):
		log.Error().Err(err).Str("request_id", requestID).Msg("export unavailable")
		writeJSON(w, http.StatusBadGateway, errorResp("EXPORT_UNAVAILABLE", "PDF export is currently unavailable", r))
	default:
		log.Error().Err(err).Str("request_id", requestID).Msg("unexpected error")
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "An unexpected error occurred", r))
	}
}

// receiveUpload validates and stores a multipart file upload in destDir
// under a random name, rejecting bodies over maxUploadMB. It writes the
// error response itself; callers remove the returned path when done.
func receiveUpload(w http.ResponseWriter, r *http.Request, allowedExts []string, destDir string, maxUploadMB int64) (path, filename string, ok bool) {
	maxBytes := maxUploadMB * 1024 * 1024
	tooLarge := fmt.Sprintf("File size exceeds %dMB limit", maxUploadMB)

	if r.ContentLength > maxBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("FILE_TOO_LARGE", tooLarge, r))
		return "", "", false
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "No file provided", r))
		return "", "", false
	}
	defer file.Close()

	// Read first 512 bytes for magic byte check
	buf := make([]byte, 512)
	n, _ := file.Read(buf)
	buf = buf[:n]

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !extAllowed(ext, allowedExts) {
		writeJSON(w, http.StatusUnsupportedMediaType, errorResp("UNSUPPORTED_FORMAT", "File type not supported", r))
		return "", "", false
	}

	// The sniffed type is advisory; octet-stream covers formats the
	// sniffer does not know, so the extension check above stays the
	// gate.
	mimeType := http.DetectContentType(buf)
	log.Debug().Str("mime", mimeType).Str("ext", ext).Msg("received upload")

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to read upload", r))
		return "", "", false
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to store upload", r))
		return "", "", false
	}

	path = filepath.Join(destDir, uuid.NewString()+ext)
	dst, err := os.Create(path)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to store upload", r))
		return "", "", false
	}
	defer dst.Close()

	// Copy in chunks; the reader is already capped at the limit.
	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(path)
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("FILE_TOO_LARGE", tooLarge, r))
		return "", "", false
	}

	return path, header.Filename, true
}

func extAllowed(ext string, allowed []string) bool {
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}
