package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"thinkink-backend/internal/ai"
	"thinkink-backend/internal/models"
	"thinkink-backend/internal/services"
)

type countingBackend struct {
	response string
	calls    int
}

func (b *countingBackend) Generate(ctx context.Context, prompt string, opts ai.Options) (string, error) {
	b.calls++
	return b.response, nil
}

type memoryHistoryStore struct {
	records []*models.HistoryRecord
}

func (s *memoryHistoryStore) Create(ctx context.Context, rec *models.HistoryRecord) error {
	s.records = append(s.records, rec)
	return nil
}

func (s *memoryHistoryStore) FeatureStats(ctx context.Context, userID uuid.UUID, featureType string) (*models.FeatureStats, error) {
	return &models.FeatureStats{FeatureType: featureType}, nil
}

func newNotesTestHandler(backend ai.Backend) *NotesHandler {
	unreachable := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 10 * time.Millisecond})
	recorder := services.NewRecorder(&memoryHistoryStore{}, unreachable)
	study := services.NewStudyService(backend, recorder, services.NewTranslator(), 5*time.Second, 5*time.Second)
	return NewNotesHandler(study)
}

func TestSummarizeHandlerRejectsOversizedText(t *testing.T) {
	backend := &countingBackend{}
	handler := newNotesTestHandler(backend)

	payload, _ := json.Marshal(models.SummarizeRequest{Text: strings.Repeat("a", 10001)})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/notes/summarize", strings.NewReader(string(payload)))
	rec := httptest.NewRecorder()

	handler.Summarize(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if resp.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("expected VALIDATION_ERROR, got %s", resp.Error.Code)
	}
	if _, ok := resp.Error.Fields["text"]; !ok {
		t.Errorf("expected a field error on text, got %v", resp.Error.Fields)
	}
	if backend.calls != 0 {
		t.Errorf("expected zero backend calls for invalid input, got %d", backend.calls)
	}
}

func TestSummarizeHandlerRejectsInvalidJSON(t *testing.T) {
	backend := &countingBackend{}
	handler := newNotesTestHandler(backend)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/notes/summarize", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	handler.Summarize(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if backend.calls != 0 {
		t.Errorf("expected zero backend calls, got %d", backend.calls)
	}
}

func TestSummarizeHandlerReturnsResult(t *testing.T) {
	backend := &countingBackend{response: `{"summary": "Water cycles through evaporation and rain.", "key_points": ["evaporation", "rain"], "word_count": 6}`}
	handler := newNotesTestHandler(backend)

	payload, _ := json.Marshal(models.SummarizeRequest{Text: "The water cycle describes how water moves."})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/notes/summarize", strings.NewReader(string(payload)))
	rec := httptest.NewRecorder()

	handler.Summarize(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result services.SummarizeResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Summary == "" || len(result.KeyPoints) != 2 {
		t.Errorf("unexpected result: %+v", result)
	}
	if backend.calls != 1 {
		t.Errorf("expected one backend call, got %d", backend.calls)
	}
}
