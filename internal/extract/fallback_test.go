package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"thinkink-backend/internal/ai"
)

func TestRunTextFallbackFirstMethodWins(t *testing.T) {
	result, err := RunTextFallback(context.Background(), []TextMethod{
		{Name: "layout", Run: func(ctx context.Context) (string, error) { return "hello world", nil }},
		{Name: "simple", Run: func(ctx context.Context) (string, error) {
			t.Fatal("second method should not run")
			return "", nil
		}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Method != "layout" || result.WordCount != 2 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestRunTextFallbackAdvancesOnEmptyOutput(t *testing.T) {
	text := strings.Repeat("word ", 120)

	result, err := RunTextFallback(context.Background(), []TextMethod{
		{Name: "layout", Run: func(ctx context.Context) (string, error) { return "   \n  ", nil }},
		{Name: "simple", Run: func(ctx context.Context) (string, error) { return text, nil }},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Method != "simple" {
		t.Errorf("method = %q, want simple", result.Method)
	}
	if result.WordCount != 120 {
		t.Errorf("word_count = %d, want 120", result.WordCount)
	}
}

func TestRunTextFallbackAdvancesOnError(t *testing.T) {
	result, err := RunTextFallback(context.Background(), []TextMethod{
		{Name: "layout", Run: func(ctx context.Context) (string, error) { return "", fmt.Errorf("boom") }},
		{Name: "simple", Run: func(ctx context.Context) (string, error) { return "ok", nil }},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Method != "simple" {
		t.Errorf("method = %q, want simple", result.Method)
	}
}

func TestRunTextFallbackExhaustion(t *testing.T) {
	_, err := RunTextFallback(context.Background(), []TextMethod{
		{Name: "layout", Run: func(ctx context.Context) (string, error) { return "", nil }},
		{Name: "simple", Run: func(ctx context.Context) (string, error) { return "", nil }},
	})

	var exhausted *ai.ExtractionExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected ExtractionExhaustedError, got %v", err)
	}
	if len(exhausted.Methods) != 2 {
		t.Errorf("expected both methods recorded, got %v", exhausted.Methods)
	}
}
