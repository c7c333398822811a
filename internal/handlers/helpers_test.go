package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"thinkink-backend/internal/ai"
	"thinkink-backend/internal/models"
	"thinkink-backend/internal/services"
)

func TestHandleServiceErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", &services.ValidationError{Fields: map[string]string{"text": "Text is required"}}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"conflict", &services.ConflictError{Message: "Email already registered"}, http.StatusConflict, "CONFLICT"},
		{"not found", &services.NotFoundError{Message: "Record not found"}, http.StatusNotFound, "NOT_FOUND"},
		{"unauthorized", &services.UnauthorizedError{Message: "Invalid credentials"}, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", &services.ForbiddenError{Message: "Not yours"}, http.StatusForbidden, "FORBIDDEN"},
		{"rate limited", &services.RateLimitError{Message: "Slow down"}, http.StatusTooManyRequests, "RATE_LIMITED"},
		{"backend timeout", ai.ErrBackendTimeout, http.StatusGatewayTimeout, "BACKEND_TIMEOUT"},
		{"backend unavailable", ai.ErrBackendUnavailable, http.StatusBadGateway, "BACKEND_UNAVAILABLE"},
		{"malformed response", &ai.MalformedResponseError{Raw: "not json"}, http.StatusBadGateway, "AI_MALFORMED_RESPONSE"},
		{"schema invalid", &ai.SchemaValidationError{Reason: "no questions survived"}, http.StatusBadGateway, "AI_SCHEMA_INVALID"},
		{"extraction exhausted", &ai.ExtractionExhaustedError{Methods: []string{"layout", "simple"}}, http.StatusBadGateway, "EXTRACTION_FAILED"},
		{"export unavailable", services.ErrExportUnavailable, http.StatusBadGateway, "EXPORT_UNAVAILABLE"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			req.Header.Set("X-Request-ID", "req-123")
			rec := httptest.NewRecorder()

			handleServiceError(rec, req, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}

			var resp models.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode error envelope: %v", err)
			}
			if resp.Error.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, resp.Error.Code)
			}
			if resp.Error.RequestID != "req-123" {
				t.Errorf("expected request id echoed, got %q", resp.Error.RequestID)
			}
		})
	}
}

func TestHandleServiceErrorNeverLeaksInternals(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()

	handleServiceError(rec, req, errors.New("pq: connection refused host=db-internal"))

	if strings.Contains(rec.Body.String(), "db-internal") {
		t.Errorf("internal error detail leaked to client: %s", rec.Body.String())
	}
}

func multipartUpload(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("failed to build multipart body: %v", err)
	}
	fw.Write(content)
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestReceiveUploadRejectsUnsupportedExtension(t *testing.T) {
	body, contentType := multipartUpload(t, "file", "notes.exe", []byte("MZ fake binary"))

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	_, _, ok := receiveUpload(rec, req, []string{".pdf"}, t.TempDir(), 10)

	if ok {
		t.Fatal("expected upload to be rejected")
	}
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Errorf("expected 415, got %d", rec.Code)
	}
}

func TestReceiveUploadRejectsOversizedFile(t *testing.T) {
	body, contentType := multipartUpload(t, "file", "big.pdf", []byte("%PDF-1.4 tiny"))

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = 10*1024*1024 + 1
	rec := httptest.NewRecorder()

	_, _, ok := receiveUpload(rec, req, []string{".pdf"}, t.TempDir(), 10)

	if ok {
		t.Fatal("expected upload to be rejected")
	}
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", rec.Code)
	}
}

func TestReceiveUploadHonorsConfiguredLimit(t *testing.T) {
	// Over a 1MB limit but well under the 10MB default.
	body, contentType := multipartUpload(t, "file", "big.pdf", []byte("%PDF-1.4"))

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = 2 * 1024 * 1024
	rec := httptest.NewRecorder()

	_, _, ok := receiveUpload(rec, req, []string{".pdf"}, t.TempDir(), 1)

	if ok {
		t.Fatal("expected upload to be rejected")
	}
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "1MB") {
		t.Errorf("expected message to name the configured limit, got %s", rec.Body.String())
	}
}

func TestReceiveUploadStoresFile(t *testing.T) {
	content := []byte("%PDF-1.4 fake but good enough")
	body, contentType := multipartUpload(t, "file", "lecture.pdf", content)

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	dir := t.TempDir()
	path, filename, ok := receiveUpload(rec, req, []string{".pdf"}, dir, 10)
	if !ok {
		t.Fatalf("expected upload to succeed, got %d: %s", rec.Code, rec.Body.String())
	}
	defer os.Remove(path)

	if filename != "lecture.pdf" {
		t.Errorf("expected original filename back, got %q", filename)
	}
	if filepath.Ext(path) != ".pdf" {
		t.Errorf("expected stored file to keep extension, got %q", path)
	}

	stored, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read stored file: %v", err)
	}
	if !bytes.Equal(stored, content) {
		t.Error("stored file content does not match upload")
	}
}

func TestReceiveUploadRequiresFileField(t *testing.T) {
	body, contentType := multipartUpload(t, "wrong_field", "lecture.pdf", []byte("%PDF-1.4"))

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	_, _, ok := receiveUpload(rec, req, []string{".pdf"}, t.TempDir(), 10)

	if ok {
		t.Fatal("expected upload to be rejected")
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
