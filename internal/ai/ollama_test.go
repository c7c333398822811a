package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestOllamaGenerate(t *testing.T) {
	var gotReq ollamaRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ollamaResponse{Response: "hello", Done: true})
	}))
	defer server.Close()

	backend := NewOllamaBackend(server.URL, "mistral", 10*time.Second)
	out, err := backend.Generate(context.Background(), "say hello", Options{})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if out != "hello" {
		t.Errorf("response = %q, want hello", out)
	}

	if gotReq.Model != "mistral" || gotReq.Stream {
		t.Errorf("unexpected request: %+v", gotReq)
	}
	if gotReq.Options.Temperature != 0.7 || gotReq.Options.TopP != 0.9 || gotReq.Options.NumPredict != 2048 {
		t.Errorf("defaults not applied: %+v", gotReq.Options)
	}
}

func TestOllamaGenerateServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	backend := NewOllamaBackend(server.URL, "", 5*time.Second)
	_, err := backend.Generate(context.Background(), "x", Options{})
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}

func TestOllamaGenerateConnectionRefused(t *testing.T) {
	backend := NewOllamaBackend("http://127.0.0.1:1", "", 2*time.Second)
	_, err := backend.Generate(context.Background(), "x", Options{})
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}

func TestOllamaGenerateTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer server.Close()

	backend := NewOllamaBackend(server.URL, "", 10*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := backend.Generate(ctx, "x", Options{})
	if !errors.Is(err, ErrBackendTimeout) {
		t.Fatalf("expected ErrBackendTimeout, got %v", err)
	}
}
